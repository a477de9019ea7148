// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/meta"
	"github.com/staranto/docdash/internal/remote"
)

// githubReposCommandAction lists the repositories visible to the linked
// GitHub account. These are not cached; the list changes outside docdash.
func githubReposCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.GitHubRepository]{
		CommandName:  "github repos",
		SchemaType:   reflect.TypeOf(remote.GitHubRepository{}),
		DefaultAttrs: []string{"full_name:name", "private", "html_url:url"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.GitHubRepository, error) {
			client := newClient(cmd, settings(cmd))
			if err := client.Authenticated(); err != nil {
				return nil, err
			}
			return client.ListGitHubRepositories(ctx)
		},
	}
	return runner.Run(ctx, cmd)
}

// GitHubCommandBuilder constructs the "github" command group.
func GitHubCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "github",
		Usage: "query the linked GitHub account",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "repos",
				Namespace: "github",
				Usage:     "list GitHub repositories available for import",
				Action:    githubReposCommandAction,
				Meta:      meta,
			}).Build(),
		},
	}
}
