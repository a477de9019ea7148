// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/docdash/internal/cache"
	"github.com/staranto/docdash/internal/remote"
)

// Collection serves list/get/create/rename/delete for one kind of resource.
// T is the resource and In its create payload.
type Collection[T remote.Resource, In any] struct {
	s       *Synchronizer
	kind    string
	listKey string
	itemKey func(id string) string

	list   func(ctx context.Context) ([]T, error)
	get    func(ctx context.Context, id string) (T, error)
	create func(ctx context.Context, in In) (T, error)
	rename func(ctx context.Context, id, name string) (T, error)
	remove func(ctx context.Context, id string) error

	validate func(In) error

	loaded  func([]T) Action
	created func(T) Action
	renamed func(T) Action
	deleted func(id string) Action

	afterMutate func()
	afterDelete func(id string)
}

// FetchList returns the collection. Unless force is set a valid cache entry
// is returned without a request. Fetched data replaces the cache entry.
func (c *Collection[T, In]) FetchList(ctx context.Context, force bool) ([]T, error) {
	if !force {
		if items, ok := cache.Lookup[[]T](c.s.store, c.listKey); ok {
			log.Debugf("cache hit: %s", c.listKey)
			c.s.dispatch(c.loaded(items))
			return slices.Clone(items), nil
		}
	}

	items, err := c.list(ctx)
	if err != nil {
		c.s.fail(OpFetch, err)
		return nil, fmt.Errorf("failed to list %s: %w", c.listKey, err)
	}
	if items == nil {
		items = []T{}
	}

	c.s.store.Set(c.listKey, slices.Clone(items))
	c.s.dispatch(c.loaded(items))
	return items, nil
}

// Get returns one resource, from cache unless force is set.
func (c *Collection[T, In]) Get(ctx context.Context, id string, force bool) (T, error) {
	var zero T

	if blank(id) {
		return zero, &ValidationError{Field: "id"}
	}

	if !force {
		if item, ok := cache.Lookup[T](c.s.store, c.itemKey(id)); ok {
			return item, nil
		}
		if items, ok := cache.Lookup[[]T](c.s.store, c.listKey); ok {
			for _, item := range items {
				if item.GetID() == id {
					return item, nil
				}
			}
		}
	}

	item, err := c.get(ctx, id)
	if err != nil {
		c.s.fail(OpFetch, err)
		return zero, fmt.Errorf("failed to get %s %s: %w", c.kind, id, err)
	}
	c.s.store.Set(c.itemKey(id), item)
	return item, nil
}

// Create validates in, creates the resource and appends it to the cached
// list. On failure the cache is left untouched.
func (c *Collection[T, In]) Create(ctx context.Context, in In) (T, error) {
	var zero T

	if err := c.validate(in); err != nil {
		c.s.fail(OpCreate, err)
		return zero, err
	}
	if err := c.s.authenticated(); err != nil {
		c.s.fail(OpCreate, err)
		return zero, err
	}

	item, err := c.create(ctx, in)
	if err != nil {
		c.s.fail(OpCreate, err)
		return zero, fmt.Errorf("failed to create %s: %w", c.kind, err)
	}

	c.appendCached(item)
	c.s.dispatch(c.created(item))
	return item, nil
}

// Rename sets the name of id. Empty names are rejected without a request.
func (c *Collection[T, In]) Rename(ctx context.Context, id, name string) (T, error) {
	var zero T

	if blank(id) {
		err := &ValidationError{Field: "id"}
		c.s.fail(OpRename, err)
		return zero, err
	}
	if blank(name) {
		err := &ValidationError{Field: "name"}
		c.s.fail(OpRename, err)
		return zero, err
	}
	if err := c.s.authenticated(); err != nil {
		c.s.fail(OpRename, err)
		return zero, err
	}

	item, err := c.rename(ctx, id, strings.TrimSpace(name))
	if err != nil {
		c.s.fail(OpRename, err)
		return zero, fmt.Errorf("failed to rename %s %s: %w", c.kind, id, err)
	}

	if items, ok := cache.Lookup[[]T](c.s.store, c.listKey); ok {
		c.s.store.Set(c.listKey, replaceByID(items, item))
	}
	c.s.store.Set(c.itemKey(id), item)
	if c.afterMutate != nil {
		c.afterMutate()
	}
	c.s.dispatch(c.renamed(item))
	return item, nil
}

// Delete removes id remotely and from the cached list.
func (c *Collection[T, In]) Delete(ctx context.Context, id string) error {
	if blank(id) {
		err := &ValidationError{Field: "id"}
		c.s.fail(OpDelete, err)
		return err
	}
	if err := c.s.authenticated(); err != nil {
		c.s.fail(OpDelete, err)
		return err
	}

	if err := c.remove(ctx, id); err != nil {
		c.s.fail(OpDelete, err)
		return err
	}

	if items, ok := cache.Lookup[[]T](c.s.store, c.listKey); ok {
		c.s.store.Set(c.listKey, removeByID(items, id))
	}
	c.s.store.Invalidate(c.itemKey(id))
	if c.afterDelete != nil {
		c.afterDelete(id)
	}
	if c.afterMutate != nil {
		c.afterMutate()
	}
	c.s.dispatch(c.deleted(id))
	return nil
}

// appendCached adds item to the cached list, if one is held, and caches the
// item on its own key.
func (c *Collection[T, In]) appendCached(item T) {
	if items, ok := cache.Lookup[[]T](c.s.store, c.listKey); ok {
		c.s.store.Set(c.listKey, appendByID(items, item))
	}
	c.s.store.Set(c.itemKey(item.GetID()), item)
	if c.afterMutate != nil {
		c.afterMutate()
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
