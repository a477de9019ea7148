// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/docdash/internal/cache"
	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/remote"
)

func scanFolder(t *testing.T) []files.FileRef {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "handbook/README.md", []byte("# Handbook"), 0o644))
	require.NoError(t, util.WriteFile(fs, "handbook/src/main.py", []byte("print('hi')"), 0o644))
	require.NoError(t, util.WriteFile(fs, "handbook/config.yaml", []byte("a: 1"), 0o644))
	require.NoError(t, util.WriteFile(fs, "handbook/.env", []byte("SECRET=1"), 0o644))

	refs, err := files.Scan(fs, "handbook")
	require.NoError(t, err)
	require.Len(t, refs, 4)
	return refs
}

func TestImportLocal(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSyncer(t, api)
	ctx := context.Background()

	_, err := s.Repositories("p1").FetchList(ctx, false)
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		statuses []UploadStatus
	)
	s.Subscribe(func(st State, _ Action) {
		mu.Lock()
		defer mu.Unlock()
		if st.Upload != nil && (len(statuses) == 0 || statuses[len(statuses)-1] != st.Upload.Status) {
			statuses = append(statuses, st.Upload.Status)
		}
	})

	repo, err := s.ImportLocal(ctx, "p1", "", scanFolder(t))
	require.NoError(t, err)
	assert.Equal(t, "handbook", repo.Name)

	job := s.State().Upload
	require.NotNil(t, job)
	assert.Equal(t, UploadDone, job.Status)
	assert.Equal(t, 4, job.TotalCount)
	assert.Equal(t, 3, job.ProcessedCount)
	assert.Equal(t, 100.0, job.ProgressPercent)
	assert.Equal(t, repo.ID, job.Repository.ID)
	assert.Equal(t, []UploadStatus{UploadPending, UploadUploading, UploadDone}, statuses)

	api.mu.Lock()
	require.Len(t, api.uploads, 1)
	var paths []string
	for _, f := range api.uploads[0].Files {
		paths = append(paths, f.Path)
	}
	api.mu.Unlock()
	assert.Equal(t, []string{"README.md", "config.yaml", "src/main.py"}, paths)

	repos, ok := cache.Lookup[[]remote.Repository](s.Store(), cache.ReposKey("p1"))
	require.True(t, ok)
	assert.Len(t, repos, 2)
	assert.Len(t, s.State().Repositories["p1"], 2)
}

func TestImportLocal_FailureAndRetry(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSyncer(t, api)
	ctx := context.Background()

	api.fail("UploadLocalFiles", &remote.RequestFailure{Status: 413, Message: "Payload too large"})
	_, err := s.ImportLocal(ctx, "p1", "docs", scanFolder(t))
	require.Error(t, err)

	job := s.State().Upload
	require.NotNil(t, job)
	assert.Equal(t, UploadFailed, job.Status)
	assert.Equal(t, "Payload too large", job.Error)
	assert.Less(t, job.ProgressPercent, 100.0)
	assert.Error(t, s.State().Err(OpUpload))

	api.fail("UploadLocalFiles", nil)
	repo, err := s.RetryUpload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "docs", repo.Name)
	assert.Equal(t, UploadDone, s.State().Upload.Status)
	assert.NoError(t, s.State().Err(OpUpload))

	_, err = s.RetryUpload(ctx)
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestImportLocal_NoValidFiles(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSyncer(t, api)

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "junk/.env", []byte("x"), 0o644))
	require.NoError(t, util.WriteFile(fs, "junk/logo.png", []byte("x"), 0o644))
	refs, err := files.Scan(fs, "junk")
	require.NoError(t, err)

	_, err = s.ImportLocal(context.Background(), "p1", "", refs)
	assert.ErrorIs(t, err, files.ErrNoValidFiles)
	assert.Equal(t, UploadFailed, s.State().Upload.Status)
	assert.Equal(t, 0, api.count("UploadLocalFiles"))
}

func TestImportLocal_RequiresToken(t *testing.T) {
	api := newFakeAPI()
	api.token = false
	s, _ := newTestSyncer(t, api)

	_, err := s.ImportLocal(context.Background(), "p1", "x", scanFolder(t))
	assert.ErrorIs(t, err, remote.ErrNotAuthenticated)
	assert.Equal(t, UploadFailed, s.State().Upload.Status)
	assert.Equal(t, 0, api.count("UploadLocalFiles"))
}

func TestImportLocal_ProgressTicker(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSyncer(t, api, WithProgressInterval(time.Millisecond))

	_, err := s.ImportLocal(context.Background(), "p1", "", scanFolder(t))
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.State().Upload.ProgressPercent)
}

func TestImportGitHub(t *testing.T) {
	tests := []struct {
		name    string
		access  remote.RepoAccess
		wantErr error
		public  int
		private int
	}{
		{"public", remote.RepoAccess{HasAccess: true}, nil, 1, 0},
		{"private", remote.RepoAccess{HasAccess: true, Private: true}, nil, 0, 1},
		{"no access", remote.RepoAccess{HasAccess: false, Message: "install the GitHub app"}, ErrNoAccess, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			url := "https://github.com/acme/widgets.git"
			api.access[url] = tt.access
			s, _ := newTestSyncer(t, api)

			repo, err := s.ImportGitHub(context.Background(), "p1", url, "")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Error(t, s.State().Err(OpImport))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "acme/widgets", repo.Name)
				assert.Equal(t, remote.SourceGitHub, repo.Source)
			}
			assert.Equal(t, tt.public, api.count("ImportPublicRepository"))
			assert.Equal(t, tt.private, api.count("ImportRepository"))
		})
	}
}

func TestImportGitHub_Validation(t *testing.T) {
	api := newFakeAPI()
	s, _ := newTestSyncer(t, api)

	_, err := s.ImportGitHub(context.Background(), "p1", "", "")
	assert.True(t, IsValidation(err))

	api.fail("CheckRepoAccess", errors.New("connection refused"))
	_, err = s.ImportGitHub(context.Background(), "p1", "https://github.com/a/b", "")
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 0, api.count("ImportPublicRepository"))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "acme/widgets", fullName("https://github.com/acme/widgets"))
	assert.Equal(t, "acme/widgets", fullName("https://github.com/acme/widgets.git/"))
	assert.Equal(t, "acme/widgets", fullName("git@github.com:acme/widgets.git"))
	assert.Equal(t, "", fullName("https://gitlab.com/acme/widgets"))
}
