// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/attrs"
	"github.com/staranto/docdash/internal/meta"
	"github.com/staranto/docdash/internal/output"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr docdash <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "docdash", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// DumpSchemaIfRequested prints the attribute schema for the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(writer(cmd), "", t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// EmitJSONSlice marshals a slice as JSON and passes it to the common output
// routine.
func EmitJSONSlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	b, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	output.SliceDiceSpit(*bytes.NewBuffer(b), al, cmd, "", writer(cmd))
	return nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata, looking up
// through parent commands. If missing it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil {
		return meta.Meta{}
	}
	for _, c := range cmd.Lineage() {
		if c.Metadata == nil {
			continue
		}
		if m, ok := c.Metadata["meta"].(meta.Meta); ok {
			return m
		}
	}
	return meta.Meta{}
}

// writer is where command output goes. Tests swap the root Writer.
func writer(cmd *cli.Command) io.Writer {
	if cmd != nil && cmd.Root() != nil && cmd.Root().Writer != nil {
		return cmd.Root().Writer
	}
	return os.Stdout
}

// QueryCommandBuilder is a helper that constructs a cli.Command for leaf
// subcommands using a consistent pattern. It accepts the command name, usage
// text, optional UsageText, custom flags, the action handler, and meta. The
// builder automatically wires metadata, adds tldr/schema flags, applies global
// flags namespaced to Namespace (Name when empty), and sets up validators.
type QueryCommandBuilder struct {
	Name      string
	Namespace string
	Usage     string
	UsageText string
	ArgsUsage string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	ns := qcb.Namespace
	if ns == "" {
		ns = qcb.Name
	}

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		ArgsUsage: qcb.ArgsUsage,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, append([]cli.Flag{
			tldrFlag,
			schemaFlag,
			NewAPIFlag(ns, qcb.Meta.Config.Source),
		}, NewGlobalFlags(ns)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common action pattern for all leaf
// subcommands. It handles meta lookup, short-circuit checks, BuildAttrs,
// schema dumping and output emission, with data fetching (or the mutation
// whose outcome is reported) provided by FetchFn.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
}

// Run executes the action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	// Step 1: GetMeta + debug.
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	// Step 2: Short-circuit checks.
	if ShortCircuitTLDR(ctx, cmd, strings.ReplaceAll(qar.CommandName, " ", "-")) {
		return nil
	}
	if qar.SchemaType != nil && DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	// Step 3: BuildAttrs + debug.
	attrs := BuildAttrs(cmd, qar.DefaultAttrs...)
	log.Debugf("attrs: %v", attrs)

	// Step 4: Fetch data.
	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	// Step 5: Emit + return.
	if results == nil {
		results = []T{}
	}
	return EmitJSONSlice(results, attrs, cmd)
}
