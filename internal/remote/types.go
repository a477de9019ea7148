// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp accepts RFC 3339 as well as the zone-less ISO 8601 layouts the API
// emits for some records. Zero timestamps encode as null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp is not a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// Resource is implemented by every record the synchronizer caches.
type Resource interface {
	GetID() string
	GetName() string
}

// Project groups repositories. RepoCount and CollaboratorCount are
// authoritative only when they come from the server.
type Project struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	CreatedAt         Timestamp `json:"created_at"`
	UpdatedAt         Timestamp `json:"updated_at"`
	RepoCount         int       `json:"repo_count"`
	CollaboratorCount int       `json:"collaborator_count"`
}

func (p Project) GetID() string   { return p.ID }
func (p Project) GetName() string { return p.Name }

// Repository belongs to exactly one project, referenced by ProjectID.
type Repository struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	URL       string    `json:"url,omitempty"`
	FileCount int       `json:"file_count"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

func (r Repository) GetID() string   { return r.ID }
func (r Repository) GetName() string { return r.Name }

// Repository sources.
const (
	SourceGitHub = "github"
	SourceLocal  = "local"
)

// StoredFile is a file held by the storage service for a repository.
type StoredFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// GitHubRepository is a repository visible to the linked GitHub account.
type GitHubRepository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
}

// RepoAccess is the answer of check-repo-access.
type RepoAccess struct {
	HasAccess bool   `json:"has_access"`
	Private   bool   `json:"private"`
	Message   string `json:"message,omitempty"`
}

// ProjectInput is the body of create-project and update-project.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// RepositoryInput is the body of create-repository and update-repository.
type RepositoryInput struct {
	ProjectID string `json:"project_id,omitempty"`
	Name      string `json:"name"`
	Source    string `json:"source,omitempty"`
	URL       string `json:"url,omitempty"`
}

// ImportInput is the body of the GitHub import endpoints.
type ImportInput struct {
	ProjectID string `json:"project_id"`
	URL       string `json:"url,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Name      string `json:"name,omitempty"`
}

// UploadFile is one accepted local file.
type UploadFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// UploadInput is the body of upload-local-files.
type UploadInput struct {
	ProjectID      string       `json:"project_id"`
	RepositoryName string       `json:"repository_name"`
	Files          []UploadFile `json:"files"`
}

// validator is implemented by response envelopes.
type validator interface {
	validate() error
}

type projectListResponse struct {
	Projects *[]Project `json:"projects"`
}

func (r *projectListResponse) validate() error {
	if r.Projects == nil {
		return missing("projects")
	}
	for i, p := range *r.Projects {
		if err := validateResource(fmt.Sprintf("projects[%d]", i), p); err != nil {
			return err
		}
	}
	return nil
}

type projectResponse struct {
	Project *Project `json:"project"`
}

func (r *projectResponse) validate() error {
	if r.Project == nil {
		return missing("project")
	}
	return validateResource("project", *r.Project)
}

type repositoryListResponse struct {
	Repositories *[]Repository `json:"repositories"`
}

func (r *repositoryListResponse) validate() error {
	if r.Repositories == nil {
		return missing("repositories")
	}
	for i, repo := range *r.Repositories {
		if err := validateResource(fmt.Sprintf("repositories[%d]", i), repo); err != nil {
			return err
		}
	}
	return nil
}

type repositoryResponse struct {
	Repository *Repository `json:"repository"`
}

func (r *repositoryResponse) validate() error {
	if r.Repository == nil {
		return missing("repository")
	}
	return validateResource("repository", *r.Repository)
}

type fileListResponse struct {
	Files *[]StoredFile `json:"files"`
}

func (r *fileListResponse) validate() error {
	if r.Files == nil {
		return missing("files")
	}
	for i, f := range *r.Files {
		if f.Path == "" {
			return missing(fmt.Sprintf("files[%d].path", i))
		}
	}
	return nil
}

type githubListResponse struct {
	Repositories *[]GitHubRepository `json:"repositories"`
}

func (r *githubListResponse) validate() error {
	if r.Repositories == nil {
		return missing("repositories")
	}
	for i, repo := range *r.Repositories {
		if repo.FullName == "" {
			return missing(fmt.Sprintf("repositories[%d].full_name", i))
		}
	}
	return nil
}

type repoAccessResponse struct {
	HasAccess *bool  `json:"has_access"`
	Private   bool   `json:"private"`
	Message   string `json:"message"`
}

func (r *repoAccessResponse) validate() error {
	if r.HasAccess == nil {
		return missing("has_access")
	}
	return nil
}

func validateResource(field string, r Resource) error {
	if r.GetID() == "" {
		return missing(field + ".id")
	}
	if r.GetName() == "" {
		return missing(field + ".name")
	}
	return nil
}

// missing is filled in with the endpoint by the gateway.
func missing(field string) error {
	return &ParseError{Field: field, Err: ErrMissingField}
}
