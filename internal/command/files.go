// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/meta"
	"github.com/staranto/docdash/internal/remote"
)

func listFiles(ctx context.Context, cmd *cli.Command) ([]remote.StoredFile, error) {
	return newSynchronizer(cmd).Files(ctx, cmd.String("repo"), cmd.Bool("force"))
}

// filesCommandAction lists the files stored for --repo, either as rows or,
// with --tree, as the virtual folder tree.
func filesCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("tree") {
		stored, err := listFiles(ctx, cmd)
		if err != nil {
			return err
		}
		writeTree(cmd, stored)
		return nil
	}

	runner := &QueryActionRunner[remote.StoredFile]{
		CommandName:  "files",
		SchemaType:   reflect.TypeOf(remote.StoredFile{}),
		DefaultAttrs: []string{"path", "size::b"},
		FetchFn:      listFiles,
	}
	return runner.Run(ctx, cmd)
}

func writeTree(cmd *cli.Command, stored []remote.StoredFile) {
	entries := make([]files.Entry, 0, len(stored))
	for _, f := range stored {
		entries = append(entries, files.Entry{Path: f.Path, Size: f.Size})
	}

	w := writer(cmd)
	files.Tree(entries).Walk(func(n *files.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		if n.IsDir() {
			fmt.Fprintf(w, "%s%s/\n", indent, n.Name)
			return
		}
		fmt.Fprintf(w, "%s%s (%s)\n", indent, n.Name, humanize.IBytes(uint64(n.Size)))
	})
}

// FilesCommandBuilder constructs the "files" command.
func FilesCommandBuilder(meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:  "files",
		Usage: "list the files stored for a repository",
		Flags: []cli.Flag{
			NewForceFlag(),
			&cli.StringFlag{
				Name:     "repo",
				Aliases:  []string{"r"},
				Usage:    "id of the repository",
				Required: true,
			},
			&cli.BoolFlag{
				Name:        "tree",
				Usage:       "show the files as a folder tree",
				HideDefault: true,
			},
		},
		Action: filesCommandAction,
		Meta:   meta,
	}).Build()
}
