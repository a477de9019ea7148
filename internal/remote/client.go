// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/apex/log"
)

// Client is the typed API surface. Each method maps to one endpoint.
type Client struct {
	gw *Gateway
}

// NewClient wraps gw.
func NewClient(gw *Gateway) *Client {
	return &Client{gw: gw}
}

// Authenticated reports whether a bearer token is available.
func (c *Client) Authenticated() error {
	return c.gw.Authenticated()
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var resp projectListResponse
	if err := c.gw.Call(ctx, Request{Method: http.MethodGet, Path: "/project/list-projects"}, &resp); err != nil {
		return nil, err
	}
	return *resp.Projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (Project, error) {
	var resp projectResponse
	req := Request{Method: http.MethodGet, Path: "/project/get-project/" + url.PathEscape(id)}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Project{}, err
	}
	return *resp.Project, nil
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (Project, error) {
	var resp projectResponse
	req := Request{Method: http.MethodPost, Path: "/project/create-project", Body: in}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Project{}, err
	}
	return *resp.Project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in ProjectInput) (Project, error) {
	var resp projectResponse
	req := Request{Method: http.MethodPost, Path: "/project/update-project/" + url.PathEscape(id), Body: in}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Project{}, err
	}
	return *resp.Project, nil
}

// DeleteProject tolerates deleting an already deleted project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	req := Request{Method: http.MethodPost, Path: "/project/delete-project/" + url.PathEscape(id), Idempotent: true}
	return tolerateNotFound(c.gw.Call(ctx, req, nil), "project", id)
}

func (c *Client) ListRepositories(ctx context.Context, projectID string) ([]Repository, error) {
	var resp repositoryListResponse
	req := Request{Method: http.MethodGet, Path: "/repositories/list-repositories/" + url.PathEscape(projectID)}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return nil, err
	}
	return *resp.Repositories, nil
}

func (c *Client) GetRepository(ctx context.Context, id string) (Repository, error) {
	var resp repositoryResponse
	req := Request{Method: http.MethodGet, Path: "/repositories/get-repository/" + url.PathEscape(id)}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Repository{}, err
	}
	return *resp.Repository, nil
}

func (c *Client) CreateRepository(ctx context.Context, in RepositoryInput) (Repository, error) {
	var resp repositoryResponse
	req := Request{Method: http.MethodPost, Path: "/repositories/create-repository", Body: in}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Repository{}, err
	}
	return *resp.Repository, nil
}

func (c *Client) UpdateRepository(ctx context.Context, id string, in RepositoryInput) (Repository, error) {
	var resp repositoryResponse
	req := Request{Method: http.MethodPost, Path: "/repositories/update-repository/" + url.PathEscape(id), Body: in}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Repository{}, err
	}
	return *resp.Repository, nil
}

// DeleteRepository tolerates deleting an already deleted repository.
func (c *Client) DeleteRepository(ctx context.Context, id string) error {
	req := Request{Method: http.MethodPost, Path: "/repositories/delete-repository/" + url.PathEscape(id), Idempotent: true}
	return tolerateNotFound(c.gw.Call(ctx, req, nil), "repository", id)
}

func (c *Client) CheckRepoAccess(ctx context.Context, repoURL string) (RepoAccess, error) {
	var resp repoAccessResponse
	req := Request{
		Method: http.MethodGet,
		Path:   "/github/check-repo-access",
		Query:  url.Values{"url": []string{repoURL}},
	}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return RepoAccess{}, err
	}
	return RepoAccess{HasAccess: *resp.HasAccess, Private: resp.Private, Message: resp.Message}, nil
}

func (c *Client) ListGitHubRepositories(ctx context.Context) ([]GitHubRepository, error) {
	var resp githubListResponse
	if err := c.gw.Call(ctx, Request{Method: http.MethodGet, Path: "/github/repositories"}, &resp); err != nil {
		return nil, err
	}
	return *resp.Repositories, nil
}

// ImportPublicRepository imports a public repository by URL.
func (c *Client) ImportPublicRepository(ctx context.Context, in ImportInput) (Repository, error) {
	return c.importRepository(ctx, "/github/import-public-repository", in)
}

// ImportRepository imports a repository through the linked GitHub account.
func (c *Client) ImportRepository(ctx context.Context, in ImportInput) (Repository, error) {
	return c.importRepository(ctx, "/github/import-repository", in)
}

func (c *Client) importRepository(ctx context.Context, path string, in ImportInput) (Repository, error) {
	var resp repositoryResponse
	if err := c.gw.Call(ctx, Request{Method: http.MethodPost, Path: path, Body: in}, &resp); err != nil {
		return Repository{}, err
	}
	return *resp.Repository, nil
}

// UploadLocalFiles creates a repository from already read local files.
func (c *Client) UploadLocalFiles(ctx context.Context, in UploadInput) (Repository, error) {
	var resp repositoryResponse
	req := Request{Method: http.MethodPost, Path: "/storage/upload-local-files", Body: in}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return Repository{}, err
	}
	return *resp.Repository, nil
}

func (c *Client) ListFiles(ctx context.Context, repoID string) ([]StoredFile, error) {
	var resp fileListResponse
	req := Request{Method: http.MethodGet, Path: "/storage/list-files/" + url.PathEscape(repoID)}
	if err := c.gw.Call(ctx, req, &resp); err != nil {
		return nil, err
	}
	return *resp.Files, nil
}

func tolerateNotFound(err error, kind, id string) error {
	if IsNotFound(err) {
		log.Debugf("%s %s already deleted", kind, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return nil
}
