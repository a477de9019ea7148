// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/config"
)

func init() {
	cfg = config.Config
}

var (
	cfg config.Type

	schemaFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the schema",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewForceFlag constructs the "force" flag that bypasses the cache.
func NewForceFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "force",
		Aliases:     []string{"F"},
		Usage:       "bypass the cache and refetch",
		HideDefault: true,
	}
}

// NewIDFlag constructs the required "id" flag naming the target resource.
func NewIDFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "id",
		Usage:    usage,
		Required: true,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, NotBlankValidator)
		},
	}
}

// NewNameFlag constructs the "name" flag.
func NewNameFlag(usage string, required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Usage:    usage,
		Required: required,
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator)
		},
	}
}

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.BoolFlag{
			Name:    "local",
			Aliases: []string{"l"},
			Usage:   "convert timestamps to DOCDASH_TZ or TZ",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"local", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("local", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
	}

	return
}

// NewAPIFlag constructs the "api-url" flag, optionally namespaced to a command
// and config file. params[1] is the config file.
func NewAPIFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "api-url",
		Usage: "base url of the dashboard API",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DOCDASH_API_URL"),
		),
		Value: config.DefaultAPIURL,
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewProjectFlag constructs the "project" flag used by every command that
// works inside a single project.
func NewProjectFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:     "project",
		Aliases:  []string{"p"},
		Usage:    "id of the project to work in",
		Required: true,
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("DOCDASH_PROJECT"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
