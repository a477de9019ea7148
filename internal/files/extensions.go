// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"path"
	"strings"
)

// recognized lists the text formats eligible for import: source code, markup,
// config and data.
var recognized = map[string]struct{}{}

// Names without an extension that are still text.
var recognizedNames = map[string]struct{}{
	"dockerfile": {},
	"makefile":   {},
	"license":    {},
	"readme":     {},
	"procfile":   {},
	"gemfile":    {},
}

func init() {
	for _, ext := range strings.Fields(`
		.py .pyi .ipynb .js .jsx .mjs .cjs .ts .tsx .go .rs .java .kt .kts .scala
		.c .h .cc .cpp .hpp .cs .swift .m .rb .php .pl .lua .r .jl .dart .ex .exs
		.erl .hs .clj .elm .vue .svelte .sh .bash .zsh .fish .ps1 .bat
		.md .mdx .markdown .rst .txt .adoc .tex .html .htm .css .scss .sass .less
		.xml .svg .json .jsonc .yaml .yml .toml .ini .cfg .conf .env
		.properties .csv .tsv .sql .graphql .gql .proto .tf .hcl .gradle
		.lock .mod .sum .dockerfile
	`) {
		recognized[ext] = struct{}{}
	}
}

// Recognized reports whether name has an extension on the text-file
// allow-list. Matching is case-insensitive.
func Recognized(name string) bool {
	base := strings.ToLower(path.Base(name))
	if _, ok := recognizedNames[base]; ok {
		return true
	}
	ext := path.Ext(base)
	if ext == "" {
		return false
	}
	_, ok := recognized[ext]
	return ok
}
