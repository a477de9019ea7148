// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/staranto/docdash/internal/remote"
)

// fakeAPI is an in-memory API that counts calls per method.
type fakeAPI struct {
	mu sync.Mutex

	token    bool
	projects []remote.Project
	repos    map[string][]remote.Repository
	access   map[string]remote.RepoAccess
	errs     map[string]error
	calls    map[string]int
	uploads  []remote.UploadInput
	created  []remote.ProjectInput
	nextID   int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		token: true,
		projects: []remote.Project{
			{ID: "p1", Name: "Docs", RepoCount: 1},
			{ID: "p2", Name: "API"},
		},
		repos: map[string][]remote.Repository{
			"p1": {{ID: "r1", ProjectID: "p1", Name: "site", Source: remote.SourceLocal}},
		},
		access: map[string]remote.RepoAccess{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeAPI) hit(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAPI) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, 100+f.nextID)
}

func (f *fakeAPI) Authenticated() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.token {
		return remote.ErrNotAuthenticated
	}
	return nil
}

func (f *fakeAPI) ListProjects(context.Context) ([]remote.Project, error) {
	if err := f.hit("ListProjects"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Project(nil), f.projects...), nil
}

func (f *fakeAPI) GetProject(_ context.Context, id string) (remote.Project, error) {
	if err := f.hit("GetProject"); err != nil {
		return remote.Project{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return remote.Project{}, &remote.RequestFailure{Status: 404, Message: "Project not found"}
}

func (f *fakeAPI) CreateProject(_ context.Context, in remote.ProjectInput) (remote.Project, error) {
	if err := f.hit("CreateProject"); err != nil {
		return remote.Project{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	p := remote.Project{ID: f.id("p"), Name: in.Name, Description: in.Description}
	f.projects = append(f.projects, p)
	return p, nil
}

func (f *fakeAPI) UpdateProject(_ context.Context, id string, in remote.ProjectInput) (remote.Project, error) {
	if err := f.hit("UpdateProject"); err != nil {
		return remote.Project{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.projects {
		if p.ID == id {
			f.projects[i].Name = in.Name
			return f.projects[i], nil
		}
	}
	return remote.Project{}, &remote.RequestFailure{Status: 404, Message: "Project not found"}
}

func (f *fakeAPI) DeleteProject(_ context.Context, id string) error {
	if err := f.hit("DeleteProject"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.projects[:0]
	for _, p := range f.projects {
		if p.ID != id {
			out = append(out, p)
		}
	}
	f.projects = out
	return nil
}

func (f *fakeAPI) ListRepositories(_ context.Context, projectID string) ([]remote.Repository, error) {
	if err := f.hit("ListRepositories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]remote.Repository{}, f.repos[projectID]...), nil
}

func (f *fakeAPI) GetRepository(_ context.Context, id string) (remote.Repository, error) {
	if err := f.hit("GetRepository"); err != nil {
		return remote.Repository{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range f.repos {
		for _, r := range list {
			if r.ID == id {
				return r, nil
			}
		}
	}
	return remote.Repository{}, &remote.RequestFailure{Status: 404, Message: "Repository not found"}
}

func (f *fakeAPI) CreateRepository(_ context.Context, in remote.RepositoryInput) (remote.Repository, error) {
	if err := f.hit("CreateRepository"); err != nil {
		return remote.Repository{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := remote.Repository{ID: f.id("r"), ProjectID: in.ProjectID, Name: in.Name, Source: in.Source, URL: in.URL}
	f.repos[in.ProjectID] = append(f.repos[in.ProjectID], r)
	return r, nil
}

func (f *fakeAPI) UpdateRepository(_ context.Context, id string, in remote.RepositoryInput) (remote.Repository, error) {
	if err := f.hit("UpdateRepository"); err != nil {
		return remote.Repository{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for pid, list := range f.repos {
		for i, r := range list {
			if r.ID == id {
				f.repos[pid][i].Name = in.Name
				return f.repos[pid][i], nil
			}
		}
	}
	return remote.Repository{}, &remote.RequestFailure{Status: 404, Message: "Repository not found"}
}

func (f *fakeAPI) DeleteRepository(_ context.Context, id string) error {
	if err := f.hit("DeleteRepository"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for pid, list := range f.repos {
		out := make([]remote.Repository, 0, len(list))
		for _, r := range list {
			if r.ID != id {
				out = append(out, r)
			}
		}
		f.repos[pid] = out
	}
	return nil
}

func (f *fakeAPI) CheckRepoAccess(_ context.Context, repoURL string) (remote.RepoAccess, error) {
	if err := f.hit("CheckRepoAccess"); err != nil {
		return remote.RepoAccess{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.access[repoURL]; ok {
		return a, nil
	}
	return remote.RepoAccess{HasAccess: true}, nil
}

func (f *fakeAPI) ImportPublicRepository(_ context.Context, in remote.ImportInput) (remote.Repository, error) {
	if err := f.hit("ImportPublicRepository"); err != nil {
		return remote.Repository{}, err
	}
	return f.imported(in), nil
}

func (f *fakeAPI) ImportRepository(_ context.Context, in remote.ImportInput) (remote.Repository, error) {
	if err := f.hit("ImportRepository"); err != nil {
		return remote.Repository{}, err
	}
	return f.imported(in), nil
}

func (f *fakeAPI) imported(in remote.ImportInput) remote.Repository {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := in.Name
	if name == "" {
		name = in.FullName
	}
	r := remote.Repository{ID: f.id("r"), ProjectID: in.ProjectID, Name: name, Source: remote.SourceGitHub, URL: in.URL}
	f.repos[in.ProjectID] = append(f.repos[in.ProjectID], r)
	return r
}

func (f *fakeAPI) UploadLocalFiles(_ context.Context, in remote.UploadInput) (remote.Repository, error) {
	if err := f.hit("UploadLocalFiles"); err != nil {
		return remote.Repository{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, in)
	r := remote.Repository{ID: f.id("r"), ProjectID: in.ProjectID, Name: in.RepositoryName, Source: remote.SourceLocal, FileCount: len(in.Files)}
	f.repos[in.ProjectID] = append(f.repos[in.ProjectID], r)
	return r, nil
}

func (f *fakeAPI) ListFiles(_ context.Context, repoID string) ([]remote.StoredFile, error) {
	if err := f.hit("ListFiles"); err != nil {
		return nil, err
	}
	return []remote.StoredFile{
		{Path: "README.md", Size: 120},
		{Path: "docs/guide.md", Size: 2048},
	}, nil
}
