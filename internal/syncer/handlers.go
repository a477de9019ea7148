// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"sync"

	"github.com/apex/log"

	"github.com/staranto/docdash/internal/debounce"
	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/remote"
)

// Intents carried through the debouncers. Only the most recent one within a
// window is executed.
type (
	ProjectRename struct {
		ID   string
		Name string
	}
	RepositoryCreate struct {
		ProjectID string
		Input     remote.RepositoryInput
	}
	RepositoryRename struct {
		ProjectID string
		ID        string
		Name      string
	}
	RepositoryDelete struct {
		ProjectID string
		ID        string
	}
	LocalImport struct {
		ProjectID string
		Name      string
		Files     []files.FileRef
	}
	GitHubImport struct {
		ProjectID string
		URL       string
		Name      string
	}
)

// Handlers is the user-facing surface. Every mutation is debounced; outcomes
// are observed through Subscribe and State.
type Handlers struct {
	s      *Synchronizer
	ctx    context.Context
	cancel context.CancelFunc

	createProject    *debounce.Debouncer[remote.ProjectInput]
	renameProject    *debounce.Debouncer[ProjectRename]
	deleteProject    *debounce.Debouncer[string]
	createRepository *debounce.Debouncer[RepositoryCreate]
	renameRepository *debounce.Debouncer[RepositoryRename]
	deleteRepository *debounce.Debouncer[RepositoryDelete]
	importLocal      *debounce.Debouncer[LocalImport]
	importGitHub     *debounce.Debouncer[GitHubImport]

	mu   sync.Mutex
	last map[OpKind]func()
}

// Handlers returns debounced handlers bound to ctx. Stop cancels ctx's
// derived context, aborting requests still in flight.
func (s *Synchronizer) Handlers(ctx context.Context) *Handlers {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handlers{
		s:      s,
		ctx:    ctx,
		cancel: cancel,
		last:   map[OpKind]func(){},
	}

	w := s.window
	h.createProject = debounce.New(w, func(in remote.ProjectInput) {
		_, _ = s.Projects().Create(h.ctx, in)
	})
	h.renameProject = debounce.New(w, func(r ProjectRename) {
		_, _ = s.Projects().Rename(h.ctx, r.ID, r.Name)
	})
	h.deleteProject = debounce.New(w, func(id string) {
		_ = s.Projects().Delete(h.ctx, id)
	})
	h.createRepository = debounce.New(w, func(c RepositoryCreate) {
		_, _ = s.Repositories(c.ProjectID).Create(h.ctx, c.Input)
	})
	h.renameRepository = debounce.New(w, func(r RepositoryRename) {
		_, _ = s.Repositories(r.ProjectID).Rename(h.ctx, r.ID, r.Name)
	})
	h.deleteRepository = debounce.New(w, func(d RepositoryDelete) {
		_ = s.Repositories(d.ProjectID).Delete(h.ctx, d.ID)
	})
	h.importLocal = debounce.New(w, func(l LocalImport) {
		_, _ = s.ImportLocal(h.ctx, l.ProjectID, l.Name, l.Files)
	})
	h.importGitHub = debounce.New(w, func(g GitHubImport) {
		_, _ = s.ImportGitHub(h.ctx, g.ProjectID, g.URL, g.Name)
	})

	return h
}

// submit records arg as the retryable intent for op and hands it to d.
func submit[T any](h *Handlers, op OpKind, d *debounce.Debouncer[T], arg T) {
	h.mu.Lock()
	h.last[op] = func() { d.Call(arg) }
	h.mu.Unlock()

	d.Call(arg)
}

func (h *Handlers) CreateProject(in remote.ProjectInput) {
	submit(h, OpCreate, h.createProject, in)
}

func (h *Handlers) RenameProject(id, name string) {
	submit(h, OpRename, h.renameProject, ProjectRename{ID: id, Name: name})
}

func (h *Handlers) DeleteProject(id string) {
	submit(h, OpDelete, h.deleteProject, id)
}

func (h *Handlers) CreateRepository(projectID string, in remote.RepositoryInput) {
	submit(h, OpCreate, h.createRepository, RepositoryCreate{ProjectID: projectID, Input: in})
}

func (h *Handlers) RenameRepository(projectID, id, name string) {
	submit(h, OpRename, h.renameRepository, RepositoryRename{ProjectID: projectID, ID: id, Name: name})
}

func (h *Handlers) DeleteRepository(projectID, id string) {
	submit(h, OpDelete, h.deleteRepository, RepositoryDelete{ProjectID: projectID, ID: id})
}

func (h *Handlers) ImportLocal(projectID, name string, refs []files.FileRef) {
	submit(h, OpUpload, h.importLocal, LocalImport{ProjectID: projectID, Name: name, Files: refs})
}

func (h *Handlers) ImportGitHub(projectID, repoURL, name string) {
	submit(h, OpImport, h.importGitHub, GitHubImport{ProjectID: projectID, URL: repoURL, Name: name})
}

// LoadProjects fetches the project list. It is not debounced; reads are
// already absorbed by the cache.
func (h *Handlers) LoadProjects(force bool) {
	run := func() { _, _ = h.s.Projects().FetchList(h.ctx, force) }
	h.remember(OpFetch, run)
	run()
}

// LoadRepositories fetches the repository list of projectID.
func (h *Handlers) LoadRepositories(projectID string, force bool) {
	run := func() { _, _ = h.s.Repositories(projectID).FetchList(h.ctx, force) }
	h.remember(OpFetch, run)
	run()
}

func (h *Handlers) remember(op OpKind, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last[op] = fn
}

// Retry clears the error recorded for op and re-submits its last intent
// through the same handler.
func (h *Handlers) Retry(op OpKind) error {
	h.mu.Lock()
	fn, ok := h.last[op]
	h.mu.Unlock()

	if !ok {
		return ErrNothingToRetry
	}

	log.Debugf("syncer: retrying %s", op)
	h.s.ClearError(op)
	fn()
	return nil
}

// Flush runs every pending intent now, on the calling goroutine.
func (h *Handlers) Flush() {
	h.createProject.Flush()
	h.renameProject.Flush()
	h.deleteProject.Flush()
	h.createRepository.Flush()
	h.renameRepository.Flush()
	h.deleteRepository.Flush()
	h.importLocal.Flush()
	h.importGitHub.Flush()
}

// Stop drops pending intents, ignores later ones and aborts requests in
// flight.
func (h *Handlers) Stop() {
	h.createProject.Stop()
	h.renameProject.Stop()
	h.deleteProject.Stop()
	h.createRepository.Stop()
	h.renameRepository.Stop()
	h.deleteRepository.Stop()
	h.importLocal.Stop()
	h.importGitHub.Stop()
	h.cancel()
}
