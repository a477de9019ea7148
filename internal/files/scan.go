// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Scan walks root on fs and returns a FileRef for every regular file. Hidden
// directories are not descended into. RelativePath is prefixed with the base
// name of root, the same shape a browser folder picker reports.
func Scan(fs billy.Filesystem, root string) ([]FileRef, error) {
	root = filepath.Clean(root)
	folder := filepath.Base(root)
	if folder == "." || folder == string(filepath.Separator) {
		folder = ""
	}

	var refs []FileRef
	err := util.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", p, err)
		}

		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return fmt.Errorf("failed to scan %s: %w", p, rerr)
		}
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") {
				log.Debugf("skipping hidden directory %s", rel)
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		full := p
		refs = append(refs, FileRef{
			Name:         info.Name(),
			RelativePath: path.Join(folder, filepath.ToSlash(rel)),
			Size:         info.Size(),
			Open: func() (io.ReadCloser, error) {
				return fs.Open(full)
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].RelativePath < refs[j].RelativePath })
	log.Debugf("scanned %d files under %s", len(refs), root)
	return refs, nil
}

// FolderName returns the first path segment shared by every ref, or "" when
// the refs do not share one.
func FolderName(refs []FileRef) string {
	folder := ""
	for i, ref := range refs {
		first, _, found := strings.Cut(ref.RelativePath, "/")
		if !found {
			return ""
		}
		if i == 0 {
			folder = first
			continue
		}
		if first != folder {
			return ""
		}
	}
	return folder
}

// Node is one element of a virtual file tree.
type Node struct {
	Name     string
	Path     string
	Size     int64
	Children []*Node
}

func (n *Node) IsDir() bool { return n.Children != nil }

// Tree arranges entries into a directory tree. Children are sorted with
// directories first, then by name.
func Tree(entries []Entry) *Node {
	root := &Node{Children: []*Node{}}
	for _, e := range entries {
		parts := strings.Split(strings.Trim(e.Path, "/"), "/")
		cur := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			last := i == len(parts)-1
			child := cur.child(part)
			if child == nil {
				child = &Node{Name: part, Path: strings.Join(parts[:i+1], "/")}
				if !last {
					child.Children = []*Node{}
				}
				cur.Children = append(cur.Children, child)
			}
			if last {
				child.Size = e.Size
			} else if child.Children == nil {
				child.Children = []*Node{}
			}
			cur = child
		}
	}
	root.sort()
	return root
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) sort() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir() {
			c.sort()
		}
	}
}

// Walk visits every node below n depth first, in tree order.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	var walk func(*Node, int)
	walk = func(cur *Node, depth int) {
		for _, c := range cur.Children {
			fn(c, depth)
			if c.IsDir() {
				walk(c, depth+1)
			}
		}
	}
	walk(n, 0)
}
