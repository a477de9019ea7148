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

var projectAttrs = []string{"id", "name", "repo_count:repos", "collaborator_count:collaborators", "updated_at:updated"}

var projectSchema = reflect.TypeOf(remote.Project{})

// projectListCommandAction lists projects, served from the cache when fresh.
func projectListCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Project]{
		CommandName:  "project list",
		SchemaType:   projectSchema,
		DefaultAttrs: projectAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Project, error) {
			return newSynchronizer(cmd).Projects().FetchList(ctx, cmd.Bool("force"))
		},
	}
	return runner.Run(ctx, cmd)
}

func projectGetCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Project]{
		CommandName:  "project get",
		SchemaType:   projectSchema,
		DefaultAttrs: append(projectAttrs, "description"),
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Project, error) {
			p, err := newSynchronizer(cmd).Projects().Get(ctx, cmd.String("id"), cmd.Bool("force"))
			if err != nil {
				return nil, err
			}
			return []remote.Project{p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func projectCreateCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Project]{
		CommandName:  "project create",
		SchemaType:   projectSchema,
		DefaultAttrs: projectAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Project, error) {
			in := remote.ProjectInput{
				Name:        cmd.String("name"),
				Description: cmd.String("description"),
			}
			p, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpCreate,
				func(h *syncer.Handlers) { h.CreateProject(in) },
				pickProject(syncer.ActionProjectCreated),
			)
			if err != nil {
				return nil, err
			}
			return []remote.Project{p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func projectRenameCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Project]{
		CommandName:  "project rename",
		SchemaType:   projectSchema,
		DefaultAttrs: projectAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Project, error) {
			id, name := cmd.String("id"), cmd.String("name")
			p, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpRename,
				func(h *syncer.Handlers) { h.RenameProject(id, name) },
				pickProject(syncer.ActionProjectRenamed),
			)
			if err != nil {
				return nil, err
			}
			return []remote.Project{p}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func projectDeleteCommandAction(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	_, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpDelete,
		func(h *syncer.Handlers) { h.DeleteProject(id) },
		pickDeleted(syncer.ActionProjectDeleted),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(writer(cmd), "deleted project %s\n", id)
	return nil
}

func pickProject(kind syncer.ActionKind) func(syncer.Action) (remote.Project, bool) {
	return func(a syncer.Action) (remote.Project, bool) {
		return a.Project, a.Kind == kind
	}
}

func pickDeleted(kind syncer.ActionKind) func(syncer.Action) (string, bool) {
	return func(a syncer.Action) (string, bool) {
		return a.ID, a.Kind == kind
	}
}

// ProjectCommandBuilder constructs the "project" command group.
func ProjectCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "project",
		Usage: "list and manage projects",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "list",
				Namespace: "project",
				Usage:     "list projects",
				Flags:     []cli.Flag{NewForceFlag()},
				Action:    projectListCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "get",
				Namespace: "project",
				Usage:     "show one project",
				Flags:     []cli.Flag{NewForceFlag(), NewIDFlag("id of the project")},
				Action:    projectGetCommandAction,
				Meta:      meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "create",
				Namespace: "project",
				Usage:     "create a project",
				Flags: []cli.Flag{
					NewNameFlag("name of the new project", true),
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "free text description",
					},
				},
				Action: projectCreateCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "rename",
				Namespace: "project",
				Usage:     "rename a project",
				Flags: []cli.Flag{
					NewIDFlag("id of the project"),
					NewNameFlag("new name", true),
				},
				Action: projectRenameCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "delete",
				Namespace: "project",
				Usage:     "delete a project and its repositories",
				Flags:     []cli.Flag{NewIDFlag("id of the project")},
				Action:    projectDeleteCommandAction,
				Meta:      meta,
			}).Build(),
		},
	}
}
