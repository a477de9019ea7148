// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"slices"

	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/remote"
)

// OpKind names an operation for error bookkeeping and retry.
type OpKind string

const (
	OpFetch  OpKind = "fetch"
	OpCreate OpKind = "create"
	OpRename OpKind = "rename"
	OpDelete OpKind = "delete"
	OpUpload OpKind = "upload"
	OpImport OpKind = "import"
)

// UploadStatus is the lifecycle of an UploadJob.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadDone      UploadStatus = "done"
	UploadFailed    UploadStatus = "failed"
)

// UploadJob tracks a local folder import.
type UploadJob struct {
	ProjectID       string
	Name            string
	Files           []files.FileRef
	TotalCount      int
	ProcessedCount  int
	ProgressPercent float64
	Status          UploadStatus
	Error           string
	Repository      *remote.Repository
}

// State is the synchronizer's view of the world. Treat it as immutable;
// Reduce returns a new value.
type State struct {
	Projects     []remote.Project
	Repositories map[string][]remote.Repository
	Errors       map[OpKind]error
	Upload       *UploadJob
}

type ActionKind int

const (
	ActionProjectsLoaded ActionKind = iota
	ActionProjectCreated
	ActionProjectRenamed
	ActionProjectDeleted
	ActionRepositoriesLoaded
	ActionRepositoryCreated
	ActionRepositoryRenamed
	ActionRepositoryDeleted
	ActionOpFailed
	ActionErrorCleared
	ActionUploadQueued
	ActionUploadStarted
	ActionUploadFileRead
	ActionUploadProgress
	ActionUploadDone
	ActionUploadFailed
)

var actionNames = map[ActionKind]string{
	ActionProjectsLoaded:     "projects-loaded",
	ActionProjectCreated:     "project-created",
	ActionProjectRenamed:     "project-renamed",
	ActionProjectDeleted:     "project-deleted",
	ActionRepositoriesLoaded: "repositories-loaded",
	ActionRepositoryCreated:  "repository-created",
	ActionRepositoryRenamed:  "repository-renamed",
	ActionRepositoryDeleted:  "repository-deleted",
	ActionOpFailed:           "op-failed",
	ActionErrorCleared:       "error-cleared",
	ActionUploadQueued:       "upload-queued",
	ActionUploadStarted:      "upload-started",
	ActionUploadFileRead:     "upload-file-read",
	ActionUploadProgress:     "upload-progress",
	ActionUploadDone:         "upload-done",
	ActionUploadFailed:       "upload-failed",
}

func (k ActionKind) String() string {
	if s, ok := actionNames[k]; ok {
		return s
	}
	return "unknown"
}

// Action is an event applied by Reduce. Only the fields relevant to Kind are
// set.
type Action struct {
	Kind         ActionKind
	Op           OpKind
	ProjectID    string
	ID           string
	Projects     []remote.Project
	Project      remote.Project
	Repositories []remote.Repository
	Repository   remote.Repository
	Job          *UploadJob
	Percent      float64
	Err          error
}

// Reduce applies a to s and returns the resulting state. It never mutates s.
func Reduce(s State, a Action) State {
	next := s.clone()

	switch a.Kind {
	case ActionProjectsLoaded:
		next.Projects = slices.Clone(a.Projects)
		delete(next.Errors, OpFetch)

	case ActionProjectCreated:
		next.Projects = appendByID(next.Projects, a.Project)
		delete(next.Errors, OpCreate)

	case ActionProjectRenamed:
		next.Projects = replaceByID(next.Projects, a.Project)
		delete(next.Errors, OpRename)

	case ActionProjectDeleted:
		next.Projects = removeByID(next.Projects, a.ID)
		delete(next.Repositories, a.ID)
		delete(next.Errors, OpDelete)

	case ActionRepositoriesLoaded:
		next.Repositories[a.ProjectID] = slices.Clone(a.Repositories)
		delete(next.Errors, OpFetch)

	case ActionRepositoryCreated:
		pid := a.Repository.ProjectID
		if pid == "" {
			pid = a.ProjectID
		}
		if list, ok := next.Repositories[pid]; ok {
			next.Repositories[pid] = appendByID(list, a.Repository)
		}
		delete(next.Errors, a.Op)

	case ActionRepositoryRenamed:
		if list, ok := next.Repositories[a.ProjectID]; ok {
			next.Repositories[a.ProjectID] = replaceByID(list, a.Repository)
		}
		delete(next.Errors, OpRename)

	case ActionRepositoryDeleted:
		if list, ok := next.Repositories[a.ProjectID]; ok {
			next.Repositories[a.ProjectID] = removeByID(list, a.ID)
		}
		delete(next.Errors, OpDelete)

	case ActionOpFailed:
		next.Errors[a.Op] = a.Err

	case ActionErrorCleared:
		delete(next.Errors, a.Op)

	case ActionUploadQueued:
		job := *a.Job
		job.Status = UploadPending
		job.ProcessedCount = 0
		job.ProgressPercent = 0
		job.Error = ""
		job.Repository = nil
		next.Upload = &job
		delete(next.Errors, OpUpload)

	case ActionUploadStarted:
		next.withUpload(UploadPending, func(j *UploadJob) {
			j.Status = UploadUploading
		})

	case ActionUploadFileRead:
		next.withUpload(UploadUploading, func(j *UploadJob) {
			j.ProcessedCount++
		})

	case ActionUploadProgress:
		next.withUpload(UploadUploading, func(j *UploadJob) {
			if a.Percent > j.ProgressPercent {
				j.ProgressPercent = a.Percent
			}
		})

	case ActionUploadDone:
		next.withUpload(UploadUploading, func(j *UploadJob) {
			repo := a.Repository
			j.Status = UploadDone
			j.ProgressPercent = 100
			j.Repository = &repo
		})

	case ActionUploadFailed:
		if next.Upload != nil && (next.Upload.Status == UploadPending || next.Upload.Status == UploadUploading) {
			job := *next.Upload
			job.Status = UploadFailed
			if a.Err != nil {
				job.Error = remote.Friendly(a.Err)
			}
			next.Upload = &job
		}
		next.Errors[OpUpload] = a.Err
	}

	return next
}

func (s State) clone() State {
	next := State{
		Projects:     s.Projects,
		Repositories: make(map[string][]remote.Repository, len(s.Repositories)),
		Errors:       make(map[OpKind]error, len(s.Errors)),
		Upload:       s.Upload,
	}
	for k, v := range s.Repositories {
		next.Repositories[k] = v
	}
	for k, v := range s.Errors {
		next.Errors[k] = v
	}
	return next
}

// withUpload copies the current job and applies fn when the job is in status
// from. Out-of-order events are dropped.
func (s *State) withUpload(from UploadStatus, fn func(*UploadJob)) {
	if s.Upload == nil || s.Upload.Status != from {
		return
	}
	job := *s.Upload
	fn(&job)
	s.Upload = &job
}

// Err returns the last error recorded for op.
func (s State) Err(op OpKind) error {
	return s.Errors[op]
}

// The list helpers always return a fresh slice so earlier states are never
// modified.

func appendByID[T remote.Resource](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	for _, v := range list {
		if v.GetID() != item.GetID() {
			out = append(out, v)
		}
	}
	return append(out, item)
}

func replaceByID[T remote.Resource](list []T, item T) []T {
	out := slices.Clone(list)
	for i, v := range out {
		if v.GetID() == item.GetID() {
			out[i] = item
		}
	}
	return out
}

func removeByID[T remote.Resource](list []T, id string) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if v.GetID() != id {
			out = append(out, v)
		}
	}
	return out
}
