// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memRef(name, content string) FileRef {
	return FileRef{
		Name:         name,
		RelativePath: "proj/" + name,
		Size:         int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func sizedRef(name string, size int64) FileRef {
	ref := memRef(name, "x")
	ref.Size = size
	return ref
}

func TestProcessor_MixedBatch(t *testing.T) {
	refs := []FileRef{
		memRef(".env", "SECRET=1"),
		sizedRef("huge.py", 11<<20),
		memRef("empty.py", ""),
		memRef("main.py", "print('hi')\n"),
	}

	entries, err := NewProcessor().Process(context.Background(), refs)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "proj/main.py", entries[0].Path)
	assert.Equal(t, "print('hi')\n", entries[0].Content)
	assert.Equal(t, int64(12), entries[0].Size)
}

func TestProcessor_Accept(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name   string
		ref    FileRef
		ok     bool
		reason string
	}{
		{"hidden", sizedRef(".gitignore", 10), false, "hidden"},
		{"binary extension", sizedRef("logo.png", 10), false, "unsupported extension"},
		{"no extension", sizedRef("notes", 10), false, "unsupported extension"},
		{"empty", sizedRef("a.go", 0), false, "empty"},
		{"too large", sizedRef("a.go", MaxFileSize+1), false, "larger than 10 MiB"},
		{"at limit", sizedRef("a.go", MaxFileSize), true, ""},
		{"upper case extension", sizedRef("README.MD", 10), true, ""},
		{"dockerfile", sizedRef("Dockerfile", 10), true, ""},
		{"name from path", FileRef{RelativePath: "proj/src/x.ts", Size: 1}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := p.Accept(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestProcessor_HiddenCheckedBeforeExtension(t *testing.T) {
	ok, reason := NewProcessor().Accept(sizedRef(".config.yaml", 10))
	assert.False(t, ok)
	assert.Equal(t, "hidden", reason)
}

func TestProcessor_PreservesOrderAndSkipsFailures(t *testing.T) {
	broken := memRef("broken.go", "package x")
	broken.Open = func() (io.ReadCloser, error) { return nil, errors.New("permission denied") }

	notText := memRef("blob.json", "\xff\xfe\xfd")

	refs := []FileRef{
		memRef("a.go", "package a"),
		broken,
		memRef("b.md", "# b"),
		notText,
		memRef("c.yaml", "c: 1"),
	}

	var reads atomic.Int32
	p := NewProcessor(WithConcurrency(2), OnRead(func(Entry) { reads.Add(1) }))

	entries, err := p.Process(context.Background(), refs)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"proj/a.go", "proj/b.md", "proj/c.yaml"}, paths)
	assert.Equal(t, int32(3), reads.Load())
}

func TestProcessor_NoValidFiles(t *testing.T) {
	_, err := NewProcessor().Process(context.Background(), []FileRef{memRef(".env", "x")})
	assert.ErrorIs(t, err, ErrNoValidFiles)

	_, err = NewProcessor().Process(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoValidFiles)
}

func TestProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcessor().Process(ctx, []FileRef{memRef("a.go", "package a")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessor_WithMaxSize(t *testing.T) {
	p := NewProcessor(WithMaxSize(4))
	ok, _ := p.Accept(sizedRef("a.go", 5))
	assert.False(t, ok)
}

func TestScan(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "site/index.html", []byte("<html></html>"), 0o644))
	require.NoError(t, util.WriteFile(fs, "site/src/app.py", []byte("print(1)"), 0o644))
	require.NoError(t, util.WriteFile(fs, "site/src/util.py", []byte("x = 1"), 0o644))
	require.NoError(t, util.WriteFile(fs, "site/.env", []byte("TOKEN=1"), 0o644))
	require.NoError(t, util.WriteFile(fs, "site/.git/config", []byte("[core]"), 0o644))

	refs, err := Scan(fs, "site")
	require.NoError(t, err)

	var paths []string
	for _, r := range refs {
		paths = append(paths, r.RelativePath)
	}
	assert.Equal(t, []string{"site/.env", "site/index.html", "site/src/app.py", "site/src/util.py"}, paths)
	assert.Equal(t, "site", FolderName(refs))

	var processed atomic.Int32
	entries, err := NewProcessor(OnRead(func(Entry) { processed.Add(1) })).Process(context.Background(), refs)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, int32(3), processed.Load())
	assert.Equal(t, "print(1)", entries[1].Content)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(memfs.New(), "nope")
	assert.Error(t, err)
}

func TestFolderName(t *testing.T) {
	tests := []struct {
		name string
		refs []FileRef
		want string
	}{
		{"empty", nil, ""},
		{"shared", []FileRef{{RelativePath: "a/x.go"}, {RelativePath: "a/b/y.go"}}, "a"},
		{"mixed", []FileRef{{RelativePath: "a/x.go"}, {RelativePath: "b/y.go"}}, ""},
		{"flat", []FileRef{{RelativePath: "x.go"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FolderName(tt.refs))
		})
	}
}

func TestTree(t *testing.T) {
	root := Tree([]Entry{
		{Path: "README.md", Size: 10},
		{Path: "src/main.go", Size: 20},
		{Path: "src/lib/util.go", Size: 30},
		{Path: "docs/intro.md", Size: 40},
	})

	type line struct {
		name  string
		depth int
		dir   bool
	}
	var got []line
	root.Walk(func(n *Node, depth int) {
		got = append(got, line{n.Name, depth, n.IsDir()})
	})

	assert.Equal(t, []line{
		{"docs", 0, true},
		{"intro.md", 1, false},
		{"src", 0, true},
		{"lib", 1, true},
		{"util.go", 2, false},
		{"main.go", 1, false},
		{"README.md", 0, false},
	}, got)

	src := root.child("src")
	require.NotNil(t, src)
	assert.Equal(t, "src/lib/util.go", src.child("lib").child("util.go").Path)
	assert.Equal(t, int64(30), src.child("lib").child("util.go").Size)
}
