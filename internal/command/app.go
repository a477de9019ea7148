// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/config"
	"github.com/staranto/docdash/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the docdash
	// command and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	config.Config.Namespace = ns
	cfg = config.Config

	meta := meta.Meta{
		Args:     args,
		Config:   config.Config,
		Settings: config.LoadSettings(),
		Context:  ctx,
	}

	app := &cli.Command{
		Name:  "docdash",
		Usage: "documentation dashboard client",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "docdash version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		ProjectCommandBuilder(meta),
		RepoCommandBuilder(meta),
		ImportCommandBuilder(meta),
		GitHubCommandBuilder(meta),
		FilesCommandBuilder(meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sortFlags(cmd)
	}

	return app, nil
}

func sortFlags(cmd *cli.Command) {
	sort.Slice(cmd.Flags, func(i, j int) bool {
		return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
	})
	for _, sub := range cmd.Commands {
		sortFlags(sub)
	}
}
