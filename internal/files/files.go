// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// MaxFileSize is the largest file accepted for import.
const MaxFileSize = 10 << 20

// DefaultConcurrency bounds the number of simultaneous reads.
const DefaultConcurrency = 8

var (
	// ErrNoValidFiles means filtering left nothing to upload.
	ErrNoValidFiles = errors.New("no valid files to upload")

	ErrNotUTF8 = errors.New("file is not valid UTF-8 text")
)

// FileRef is a selected file that has not been read yet.
type FileRef struct {
	Name         string
	RelativePath string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// Entry is an accepted file and its text.
type Entry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// Processor filters and reads batches of FileRefs.
type Processor struct {
	concurrency int
	maxSize     int64
	onRead      func(Entry)
}

type Option func(*Processor)

// WithConcurrency bounds simultaneous reads. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithMaxSize overrides MaxFileSize.
func WithMaxSize(n int64) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

// OnRead registers a callback fired once per file read successfully. It may
// be called from several goroutines.
func OnRead(fn func(Entry)) Option {
	return func(p *Processor) {
		p.onRead = fn
	}
}

func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		concurrency: DefaultConcurrency,
		maxSize:     MaxFileSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Accept applies the filter chain to ref. The returned reason is empty when
// the file is accepted.
func (p *Processor) Accept(ref FileRef) (bool, string) {
	name := ref.Name
	if name == "" {
		name = path.Base(ref.RelativePath)
	}

	if strings.HasPrefix(name, ".") {
		return false, "hidden"
	}
	if !Recognized(name) {
		return false, "unsupported extension"
	}
	if ref.Size == 0 {
		return false, "empty"
	}
	if ref.Size > p.maxSize {
		return false, "larger than " + humanize.IBytes(uint64(p.maxSize))
	}
	return true, ""
}

// Process filters refs and reads the survivors concurrently. The result keeps
// the input order minus skipped files. A batch that ends up empty returns
// ErrNoValidFiles.
func (p *Processor) Process(ctx context.Context, refs []FileRef) ([]Entry, error) {
	accepted := make([]FileRef, 0, len(refs))
	for _, ref := range refs {
		if ok, reason := p.Accept(ref); !ok {
			log.Debugf("skipping %s: %s", refPath(ref), reason)
			continue
		}
		accepted = append(accepted, ref)
	}

	results := make([]*Entry, len(accepted))
	var total atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, ref := range accepted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := read(ref)
			if err != nil {
				log.WithError(err).Warnf("failed to read %s", refPath(ref))
				return nil
			}
			results[i] = &entry
			total.Add(entry.Size)
			if p.onRead != nil {
				p.onRead(entry)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	log.Debugf("processed %d of %d files (%s)", len(entries), len(refs), humanize.IBytes(uint64(total.Load())))

	if len(entries) == 0 {
		return nil, ErrNoValidFiles
	}
	return entries, nil
}

func read(ref FileRef) (Entry, error) {
	if ref.Open == nil {
		return Entry{}, fmt.Errorf("failed to open %s: no reader", refPath(ref))
	}

	rc, err := ref.Open()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to open %s: %w", refPath(ref), err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read %s: %w", refPath(ref), err)
	}
	if !utf8.Valid(b) {
		return Entry{}, ErrNotUTF8
	}

	return Entry{
		Path:    refPath(ref),
		Content: string(b),
		Size:    int64(len(b)),
	}, nil
}

func refPath(ref FileRef) string {
	if ref.RelativePath != "" {
		return ref.RelativePath
	}
	return ref.Name
}
