// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/docdash/internal/command"
	"github.com/staranto/docdash/internal/config"
	mylog "github.com/staranto/docdash/internal/log"
	"github.com/staranto/docdash/internal/remote"
	"github.com/staranto/docdash/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		log.WithError(err).Debug("command failed")
		fmt.Fprintln(os.Stderr, remote.Friendly(err))
		return 2
	}

	return 0
}

// mangleArguments expands an @set into the flags stored under
// <command>.<set> in the config file. Without an @set, <command>.defaults is
// used when present. The flags go right after the subcommand so they can be
// overridden by anything given explicitly.
func mangleArguments(args []string) []string {
	// Leave help requests alone.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return args
		}
	}

	set := "defaults"
	working := make([]string, 0, len(args))
	for i, a := range args {
		if i >= 2 && len(a) > 1 && strings.HasPrefix(a, "@") {
			set = a[1:]
			continue
		}
		working = append(working, a)
	}

	// docdash <group> <subcommand> ...; a leaf command such as files has no
	// subcommand word.
	idx := 2
	if len(working) > 2 && !strings.HasPrefix(working[2], "-") {
		idx = 3
	}

	setArgs, _ := config.GetStringSlice(working[1] + "." + set)
	var parts []string
	for _, arg := range setArgs {
		parts = append(parts, strings.Fields(arg)...)
	}

	args = append(working[:idx:idx], append(parts, working[idx:]...)...)

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, args)
	return args
}
