// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/files"
	"github.com/staranto/docdash/internal/meta"
	"github.com/staranto/docdash/internal/progress"
	"github.com/staranto/docdash/internal/remote"
	"github.com/staranto/docdash/internal/syncer"
)

var errNoFolder = errors.New("a folder to import is required")

// candidate is one scanned file as reported by --dry-run.
type candidate struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

var candidateAttrs = []string{"path", "size::b", "accepted", "reason"}

// scanFolder resolves dir and scans it the way a folder picker would, so the
// reported paths start with the folder's own name.
func scanFolder(dir string) ([]files.FileRef, error) {
	if dir == "" {
		return nil, errNoFolder
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return files.Scan(osfs.New(filepath.Dir(abs)), filepath.Base(abs))
}

func importLocalCommandAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("dry-run") {
		return importDryRun(ctx, cmd)
	}

	runner := &QueryActionRunner[remote.Repository]{
		CommandName:  "import local",
		SchemaType:   repoSchema,
		DefaultAttrs: repoAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Repository, error) {
			refs, err := scanFolder(cmd.Args().First())
			if err != nil {
				return nil, err
			}

			pid, name := cmd.String("project"), cmd.String("name")
			if name == "" {
				name = files.FolderName(refs)
			}

			s := newSynchronizer(cmd)
			bar := progress.NewBar(errWriter(cmd), "uploading "+name)
			unsubscribe := s.Subscribe(func(_ syncer.State, a syncer.Action) {
				if a.Kind == syncer.ActionUploadProgress {
					bar.Update(a.Percent)
				}
			})
			defer unsubscribe()

			r, err := runIntent(ctx, s, syncer.OpUpload,
				func(h *syncer.Handlers) { h.ImportLocal(pid, name, refs) },
				func(a syncer.Action) (remote.Repository, bool) {
					return a.Repository, a.Kind == syncer.ActionUploadDone
				},
			)
			if err != nil {
				return nil, err
			}

			bar.Finish(100)
			if job := s.State().Upload; job != nil {
				log.Debugf("uploaded %d of %d files", job.ProcessedCount, job.TotalCount)
			}
			return []remote.Repository{r}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// importDryRun reports what an import of the folder would send without
// touching the API.
func importDryRun(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[candidate]{
		CommandName:  "import local",
		SchemaType:   reflect.TypeOf(candidate{}),
		DefaultAttrs: candidateAttrs,
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]candidate, error) {
			refs, err := scanFolder(cmd.Args().First())
			if err != nil {
				return nil, err
			}

			proc := files.NewProcessor()
			rows := make([]candidate, 0, len(refs))
			for _, ref := range refs {
				ok, reason := proc.Accept(ref)
				rows = append(rows, candidate{
					Path:     ref.RelativePath,
					Size:     ref.Size,
					Accepted: ok,
					Reason:   reason,
				})
			}
			return rows, nil
		},
	}
	return runner.Run(ctx, cmd)
}

func importGitHubCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[remote.Repository]{
		CommandName:  "import github",
		SchemaType:   repoSchema,
		DefaultAttrs: append(repoAttrs, "url"),
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]remote.Repository, error) {
			pid, url, name := cmd.String("project"), cmd.String("url"), cmd.String("name")
			r, err := runIntent(ctx, newSynchronizer(cmd), syncer.OpImport,
				func(h *syncer.Handlers) { h.ImportGitHub(pid, url, name) },
				func(a syncer.Action) (remote.Repository, bool) {
					return a.Repository, a.Kind == syncer.ActionRepositoryCreated && a.Op == syncer.OpImport
				},
			)
			if err != nil {
				return nil, err
			}
			return []remote.Repository{r}, nil
		},
	}
	return runner.Run(ctx, cmd)
}

// errWriter is where progress goes so it never mixes with --output.
func errWriter(cmd *cli.Command) io.Writer {
	if cmd != nil && cmd.Root() != nil && cmd.Root().ErrWriter != nil {
		return cmd.Root().ErrWriter
	}
	return os.Stderr
}

// ImportCommandBuilder constructs the "import" command group.
func ImportCommandBuilder(meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return &cli.Command{
		Name:  "import",
		Usage: "create a repository from a local folder or a GitHub repository",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			(&QueryCommandBuilder{
				Name:      "local",
				Namespace: "import",
				Usage:     "upload the recognized text files of a folder",
				ArgsUsage: "FOLDER",
				Flags: []cli.Flag{
					NewProjectFlag("import", src),
					NewNameFlag("repository name, defaults to the folder name", false),
					&cli.BoolFlag{
						Name:        "dry-run",
						Usage:       "list the files that would be uploaded",
						HideDefault: true,
					},
				},
				Action: importLocalCommandAction,
				Meta:   meta,
			}).Build(),
			(&QueryCommandBuilder{
				Name:      "github",
				Namespace: "import",
				Usage:     "import a GitHub repository",
				Flags: []cli.Flag{
					NewProjectFlag("import", src),
					NewNameFlag("repository name, defaults to the GitHub name", false),
					&cli.StringFlag{
						Name:     "url",
						Usage:    "GitHub url, https://github.com/owner/name",
						Required: true,
					},
				},
				Action: importGitHubCommandAction,
				Meta:   meta,
			}).Build(),
		},
	}
}
