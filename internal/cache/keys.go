// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

// Projects and their repository lists live under independent keys, so a
// repository mutation never rewrites a project entry.

func ProjectsKey() string { return "projects" }

func ProjectKey(id string) string { return "project:" + id }

func ReposKey(projectID string) string { return "repos:" + projectID }

func RepoKey(id string) string { return "repo:" + id }

func FilesKey(repoID string) string { return "files:" + repoID }
