// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/meta"
	"github.com/staranto/docdash/internal/remote"
	"github.com/staranto/docdash/internal/syncer"
)

var repoAttrs = []string{"id", "name", "source", "file_count:files", "updated_at:updated"}

var repoSchema = reflect.TypeOf(remote.Repository{})

// repoListCommandAction lists the repositories of --project.
func repoListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Repository]{
		CommandName:  "repo list",
		SchemaType:   repoSchema,
		DefaultAttrs: repoAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Repository, error) {
			return newSynchronizer(cmd).Repositories(cmd.String("project")).FetchList(ctx, cmd.Bool("force"))
		},
	}
	return runner.Run(ctx, cmd)
}

func repoGetCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Repository]{
		CommandName:  "repo get",
		SchemaType:   repoSchema,
		DefaultAttrs: append(repoAttrs, "url"),
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Repository, error) {
			r, err := newSynchronizer(cmd).Repositories(cmd.String("project")).Get(ctx, cmd.String("id"), cmd.Bool("force"))
			if err != nil {
				return nil, err
			}
			return []remote.Repository{r}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func repoCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Repository]{
		CommandName:  "repo create",
		SchemaType:   repoSchema,
		DefaultAttrs: repoAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Repository, error) {
			pid := cmd.String("project")
			in := remote.RepositoryInput{
				ProjectID: pid,
				Name:      cmd.String("name"),
				URL:       cmd.String("url"),
				Source:    remote.SourceLocal,
			}
			if in.URL != "" {
				in.Source = remote.SourceGitHub
			}
			r, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpCreate,
				func(h *syncer.Handlers) { h.CreateRepository(pid, in) },
				pickRepository(syncer.ActionRepositoryCreated),
			)
			if err != nil {
				return nil, err
			}
			return []remote.Repository{r}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func repoRenameCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Repository]{
		CommandName:  "repo rename",
		SchemaType:   repoSchema,
		DefaultAttrs: repoAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Repository, error) {
			pid, id, name := cmd.String("project"), cmd.String("id"), cmd.String("name")
			r, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpRename,
				func(h *syncer.Handlers) { h.RenameRepository(pid, id, name) },
				pickRepository(syncer.ActionRepositoryRenamed),
			)
			if err != nil {
				return nil, err
			}
			return []remote.Repository{r}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func repoDeleteCommandAction(ctx context.Context, cmd *cli.Command) error {
	pid, id := cmd.String("project"), cmd.String("id")
	_, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpDelete,
		func(h *syncer.Handlers) { h.DeleteRepository(pid, id) },
		pickDeleted(syncer.ActionRepositoryDeleted),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(writer(cmd), "deleted repository %s\n", id)
	return nil
}

func pickRepository(kind syncer.ActionKind) func(syncer.Action) (remote.Repository, bool) {
	return func(a syncer.Action) (remote.Repository, bool) {
		return a.Repository, a.Kind == kind
	}
}

// RepoCommandBuilder constructs the "repo" command group.
func RepoCommandBuilder(meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return &cli.Command{
		Name:    "repo",
		Aliases: []string{"repository"},
		Usage:   "list and manage the repositories of a project",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "list",
				Namespace: "repo",
				Usage:     "list repositories",
				Flags:     []cli.Flag{NewForceFlag(), NewProjectFlag("repo", src)},
				Action:    repoListCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "get",
				Namespace: "repo",
				Usage:     "show one repository",
				Flags: []cli.Flag{
					NewForceFlag(),
					NewProjectFlag("repo", src),
					NewIDFlag("id of the repository"),
				},
				Action: repoGetCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "create",
				Namespace: "repo",
				Usage:     "create an empty repository",
				Flags: []cli.Flag{
					NewProjectFlag("repo", src),
					NewNameFlag("name of the new repository", true),
					&cli.StringFlag{
						Name:  "url",
						Usage: "GitHub url the repository tracks",
					},
				},
				Action: repoCreateCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "rename",
				Namespace: "repo",
				Usage:     "rename a repository",
				Flags: []cli.Flag{
					NewProjectFlag("repo", src),
					NewIDFlag("id of the repository"),
					NewNameFlag("new name", true),
				},
				Action: repoRenameCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "delete",
				Namespace: "repo",
				Usage:     "delete a repository",
				Flags: []cli.Flag{
					NewProjectFlag("repo", src),
					NewIDFlag("id of the repository"),
				},
				Action: repoDeleteCommandAction,
				Meta:   meta,
			}).Build(),
		},
	}
}
