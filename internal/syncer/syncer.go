// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/docdash/internal/cache"
	"github.com/staranto/docdash/internal/equal"
	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/progress"
	"github.com/staranto/docdash/internal/remote"
)

// API is the subset of remote.Client used by the synchronizer.
type API interface {
	Authenticated() error

	ListProjects(ctx context.Context) ([]remote.Project, error)
	GetProject(ctx context.Context, id string) (remote.Project, error)
	CreateProject(ctx context.Context, in remote.ProjectInput) (remote.Project, error)
	UpdateProject(ctx context.Context, id string, in remote.ProjectInput) (remote.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListRepositories(ctx context.Context, projectID string) ([]remote.Repository, error)
	GetRepository(ctx context.Context, id string) (remote.Repository, error)
	CreateRepository(ctx context.Context, in remote.RepositoryInput) (remote.Repository, error)
	UpdateRepository(ctx context.Context, id string, in remote.RepositoryInput) (remote.Repository, error)
	DeleteRepository(ctx context.Context, id string) error

	CheckRepoAccess(ctx context.Context, repoURL string) (remote.RepoAccess, error)
	ImportPublicRepository(ctx context.Context, in remote.ImportInput) (remote.Repository, error)
	ImportRepository(ctx context.Context, in remote.ImportInput) (remote.Repository, error)
	UploadLocalFiles(ctx context.Context, in remote.UploadInput) (remote.Repository, error)

	ListFiles(ctx context.Context, repoID string) ([]remote.StoredFile, error)
}

var _ API = (*remote.Client)(nil)

const DefaultDebounceWindow = time.Second

// Listener receives the new state and the action that produced it.
type Listener func(State, Action)

// Synchronizer owns the State and serializes every change to it.
type Synchronizer struct {
	api   API
	store *cache.Store

	window      time.Duration
	tick        time.Duration
	concurrency int

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

type Option func(*Synchronizer)

// WithDebounceWindow sets the quiet interval used by Handlers.
func WithDebounceWindow(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d >= 0 {
			s.window = d
		}
	}
}

// WithProgressInterval sets the upload progress ticker period. Zero disables
// the ticker.
func WithProgressInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d >= 0 {
			s.tick = d
		}
	}
}

// WithReadConcurrency bounds simultaneous local file reads.
func WithReadConcurrency(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New returns a Synchronizer backed by api and store. A nil store gets a
// private one with the default TTL.
func New(api API, store *cache.Store, opts ...Option) *Synchronizer {
	if store == nil {
		store = cache.New()
	}

	s := &Synchronizer{
		api:         api,
		store:       store,
		window:      DefaultDebounceWindow,
		tick:        progress.DefaultInterval,
		concurrency: files.DefaultConcurrency,
		state: State{
			Repositories: map[string][]remote.Repository{},
			Errors:       map[OpKind]error{},
		},
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Store exposes the cache backing s.
func (s *Synchronizer) Store() *cache.Store {
	return s.store
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Listeners run on the goroutine that caused the change.
func (s *Synchronizer) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// dispatch reduces a into the state and notifies listeners. Loaded lists that
// are equal to what is already held are dropped without notification.
func (s *Synchronizer) dispatch(a Action) {
	s.mu.Lock()

	if s.unchanged(a) {
		s.mu.Unlock()
		log.Debugf("syncer: %s unchanged, not notifying", a.Kind)
		return
	}

	s.state = Reduce(s.state, a)
	next := s.state

	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	log.Debugf("syncer: %s", a.Kind)
	for _, fn := range listeners {
		fn(next, a)
	}
}

// unchanged must be called with mu held.
func (s *Synchronizer) unchanged(a Action) bool {
	if s.state.Errors[OpFetch] != nil {
		return false
	}

	switch a.Kind {
	case ActionProjectsLoaded:
		return s.state.Projects != nil && equal.Equal(s.state.Projects, a.Projects)
	case ActionRepositoriesLoaded:
		cur, ok := s.state.Repositories[a.ProjectID]
		return ok && equal.Equal(cur, a.Repositories)
	}
	return false
}

// fail records err for op.
func (s *Synchronizer) fail(op OpKind, err error) {
	log.WithError(err).Warnf("syncer: %s failed", op)
	s.dispatch(Action{Kind: ActionOpFailed, Op: op, Err: err})
}

// ClearError drops the error recorded for op.
func (s *Synchronizer) ClearError(op OpKind) {
	s.dispatch(Action{Kind: ActionErrorCleared, Op: op})
}

// authenticated is checked before every mutation.
func (s *Synchronizer) authenticated() error {
	return s.api.Authenticated()
}

// Projects returns the project collection.
func (s *Synchronizer) Projects() *Collection[remote.Project, remote.ProjectInput] {
	return &Collection[remote.Project, remote.ProjectInput]{
		s:       s,
		kind:    "project",
		listKey: cache.ProjectsKey(),
		itemKey: cache.ProjectKey,
		list:    s.api.ListProjects,
		get:     s.api.GetProject,
		create:  s.api.CreateProject,
		rename: func(ctx context.Context, id, name string) (remote.Project, error) {
			return s.api.UpdateProject(ctx, id, remote.ProjectInput{Name: name})
		},
		remove: s.api.DeleteProject,
		validate: func(in remote.ProjectInput) error {
			if blank(in.Name) {
				return &ValidationError{Field: "name"}
			}
			return nil
		},
		loaded: func(items []remote.Project) Action {
			return Action{Kind: ActionProjectsLoaded, Projects: items}
		},
		created: func(p remote.Project) Action {
			return Action{Kind: ActionProjectCreated, Op: OpCreate, Project: p}
		},
		renamed: func(p remote.Project) Action {
			return Action{Kind: ActionProjectRenamed, Project: p}
		},
		deleted: func(id string) Action {
			return Action{Kind: ActionProjectDeleted, ID: id}
		},
		afterDelete: func(id string) {
			s.store.Invalidate(cache.ReposKey(id))
		},
	}
}

// Repositories returns the repository collection of projectID.
func (s *Synchronizer) Repositories(projectID string) *Collection[remote.Repository, remote.RepositoryInput] {
	return &Collection[remote.Repository, remote.RepositoryInput]{
		s:       s,
		kind:    "repository",
		listKey: cache.ReposKey(projectID),
		itemKey: cache.RepoKey,
		list: func(ctx context.Context) ([]remote.Repository, error) {
			return s.api.ListRepositories(ctx, projectID)
		},
		get: s.api.GetRepository,
		create: func(ctx context.Context, in remote.RepositoryInput) (remote.Repository, error) {
			in.ProjectID = projectID
			return s.api.CreateRepository(ctx, in)
		},
		rename: func(ctx context.Context, id, name string) (remote.Repository, error) {
			return s.api.UpdateRepository(ctx, id, remote.RepositoryInput{Name: name})
		},
		remove: s.api.DeleteRepository,
		afterDelete: func(id string) {
			s.store.Invalidate(cache.FilesKey(id))
		},
		validate: func(in remote.RepositoryInput) error {
			if blank(projectID) {
				return &ValidationError{Field: "project_id"}
			}
			if blank(in.Name) {
				return &ValidationError{Field: "name"}
			}
			if in.Source == remote.SourceGitHub && blank(in.URL) {
				return &ValidationError{Field: "url"}
			}
			return nil
		},
		loaded: func(items []remote.Repository) Action {
			return Action{Kind: ActionRepositoriesLoaded, ProjectID: projectID, Repositories: items}
		},
		created: func(r remote.Repository) Action {
			return Action{Kind: ActionRepositoryCreated, Op: OpCreate, ProjectID: projectID, Repository: r}
		},
		renamed: func(r remote.Repository) Action {
			return Action{Kind: ActionRepositoryRenamed, ProjectID: projectID, Repository: r}
		},
		deleted: func(id string) Action {
			return Action{Kind: ActionRepositoryDeleted, ProjectID: projectID, ID: id}
		},
		afterMutate: func() {
			s.invalidateProject(projectID)
		},
	}
}

// Files lists the files stored for repoID, served from the cache when fresh.
// Listings are not part of State.
func (s *Synchronizer) Files(ctx context.Context, repoID string, force bool) ([]remote.StoredFile, error) {
	if blank(repoID) {
		return nil, &ValidationError{Field: "repository_id"}
	}

	key := cache.FilesKey(repoID)
	if !force {
		if cached, ok := cache.Lookup[[]remote.StoredFile](s.store, key); ok {
			log.Debugf("syncer: %s served from cache", key)
			return cached, nil
		}
	}

	if err := s.authenticated(); err != nil {
		return nil, err
	}

	stored, err := s.api.ListFiles(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", repoID, err)
	}
	s.store.Set(key, stored)
	return stored, nil
}

// invalidateProject drops the cached project entries whose counters depend on
// its repositories.
func (s *Synchronizer) invalidateProject(projectID string) {
	s.store.Invalidate(cache.ProjectsKey())
	s.store.Invalidate(cache.ProjectKey(projectID))
}
