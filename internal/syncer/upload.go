// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/apex/log"

	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/progress"
	"github.com/staranto/docdash/internal/remote"
)

// ImportLocal uploads a local folder as a new repository of projectID. The
// job moves pending -> uploading on the first file read, and to done only
// once the created repository is cached. An empty name falls back to the
// common folder name of refs.
func (s *Synchronizer) ImportLocal(ctx context.Context, projectID, name string, refs []files.FileRef) (remote.Repository, error) {
	if blank(name) {
		name = files.FolderName(refs)
	}

	s.dispatch(Action{Kind: ActionUploadQueued, Job: &UploadJob{
		ProjectID:  projectID,
		Name:       name,
		Files:      refs,
		TotalCount: len(refs),
	}})

	uploadFailed := func(err error) (remote.Repository, error) {
		log.WithError(err).Warnf("syncer: upload of %q failed", name)
		s.dispatch(Action{Kind: ActionUploadFailed, Op: OpUpload, Err: err})
		return remote.Repository{}, err
	}

	switch {
	case blank(projectID):
		return uploadFailed(&ValidationError{Field: "project_id"})
	case blank(name):
		return uploadFailed(&ValidationError{Field: "name"})
	}
	if err := s.authenticated(); err != nil {
		return uploadFailed(err)
	}

	var (
		once sync.Once
		bar  *progress.Handle
	)
	start := func() {
		s.dispatch(Action{Kind: ActionUploadStarted})
		bar = progress.Start(len(refs),
			progress.WithInterval(s.tick),
			progress.OnChange(func(p float64) {
				s.dispatch(Action{Kind: ActionUploadProgress, Percent: p})
			}),
		)
	}
	defer func() {
		if bar != nil {
			bar.Stop()
		}
	}()

	proc := files.NewProcessor(
		files.WithConcurrency(s.concurrency),
		files.OnRead(func(files.Entry) {
			once.Do(start)
			s.dispatch(Action{Kind: ActionUploadFileRead})
			bar.Tick()
		}),
	)

	entries, err := proc.Process(ctx, refs)
	if err != nil {
		return uploadFailed(err)
	}

	in := remote.UploadInput{
		ProjectID:      projectID,
		RepositoryName: name,
		Files:          make([]remote.UploadFile, 0, len(entries)),
	}
	for _, e := range entries {
		in.Files = append(in.Files, remote.UploadFile{
			Path:    stripFolder(e.Path, files.FolderName(refs)),
			Content: e.Content,
			Size:    e.Size,
		})
	}

	repo, err := s.api.UploadLocalFiles(ctx, in)
	if err != nil {
		return uploadFailed(fmt.Errorf("failed to upload %s: %w", name, err))
	}

	s.Repositories(projectID).appendCached(repo)
	s.dispatch(Action{Kind: ActionRepositoryCreated, Op: OpUpload, ProjectID: projectID, Repository: repo})

	bar.Complete()
	s.dispatch(Action{Kind: ActionUploadDone, Repository: repo})
	return repo, nil
}

// RetryUpload restarts the last failed upload from pending with the same
// files.
func (s *Synchronizer) RetryUpload(ctx context.Context) (remote.Repository, error) {
	job := s.State().Upload
	if job == nil || job.Status != UploadFailed {
		return remote.Repository{}, ErrNothingToRetry
	}
	return s.ImportLocal(ctx, job.ProjectID, job.Name, job.Files)
}

// ImportGitHub imports repoURL into projectID. Access is checked first;
// private repositories use the authenticated import.
func (s *Synchronizer) ImportGitHub(ctx context.Context, projectID, repoURL, name string) (remote.Repository, error) {
	failed := func(err error) (remote.Repository, error) {
		s.fail(OpImport, err)
		return remote.Repository{}, err
	}

	switch {
	case blank(projectID):
		return failed(&ValidationError{Field: "project_id"})
	case blank(repoURL):
		return failed(&ValidationError{Field: "url"})
	}
	if err := s.authenticated(); err != nil {
		return failed(err)
	}

	access, err := s.api.CheckRepoAccess(ctx, repoURL)
	if err != nil {
		return failed(fmt.Errorf("failed to check access to %s: %w", repoURL, err))
	}
	if !access.HasAccess {
		if access.Message != "" {
			return failed(fmt.Errorf("%w: %s", ErrNoAccess, access.Message))
		}
		return failed(fmt.Errorf("%w: %s", ErrNoAccess, repoURL))
	}

	in := remote.ImportInput{
		ProjectID: projectID,
		URL:       repoURL,
		FullName:  fullName(repoURL),
		Name:      strings.TrimSpace(name),
	}

	var repo remote.Repository
	if access.Private {
		repo, err = s.api.ImportRepository(ctx, in)
	} else {
		repo, err = s.api.ImportPublicRepository(ctx, in)
	}
	if err != nil {
		return failed(fmt.Errorf("failed to import %s: %w", repoURL, err))
	}

	s.Repositories(projectID).appendCached(repo)
	s.dispatch(Action{Kind: ActionRepositoryCreated, Op: OpImport, ProjectID: projectID, Repository: repo})
	return repo, nil
}

// fullName extracts owner/name from a GitHub URL.
func fullName(repoURL string) string {
	u := strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	u = strings.TrimSuffix(u, ".git")
	if _, rest, ok := strings.Cut(u, "github.com/"); ok {
		return rest
	}
	if _, rest, ok := strings.Cut(u, "github.com:"); ok {
		return rest
	}
	return ""
}

func stripFolder(p, folder string) string {
	if folder == "" {
		return p
	}
	return strings.TrimPrefix(p, folder+"/")
}
