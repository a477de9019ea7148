// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// DefaultTTL is how long an entry stays valid after it was written.
const DefaultTTL = 5 * time.Minute

// Entry is a single snapshot held by the Store.
type Entry struct {
	Data      any
	Timestamp time.Time
}

// Store is a keyed store of snapshots with a fixed expiry window. Writers are
// last-write-wins; there is no versioning.
type Store struct {
	ttl      time.Duration
	now      func() time.Time
	disabled bool

	mu      sync.RWMutex
	entries map[string]Entry
}

// Option customizes a Store.
type Option func(*Store)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDisabled turns the store into a sink: writes are dropped and every read
// misses.
func WithDisabled(disabled bool) Option {
	return func(s *Store) { s.disabled = disabled }
}

// New constructs a Store.
func New(opts ...Option) *Store {
	s := &Store{
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled returns true unless DOCDASH_CACHE explicitly disables caching
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("DOCDASH_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// TTL returns the expiry window.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the data stored under key if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	if s.disabled {
		return nil, false
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !s.valid(entry) {
		return nil, false
	}
	return entry.Data, true
}

// Set stores data under key stamped with the current time.
func (s *Store) Set(key string, data any) {
	if s.disabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Data: data, Timestamp: s.now()}
	log.Debugf("cache set: %s", key)
}

// Has reports whether key is present and not expired.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Invalidate drops key. Missing keys are ignored.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	log.Debugf("cache invalidate: %s", key)
}

// InvalidatePrefix drops every key beginning with prefix.
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
}

// Keys returns every stored key, expired or not, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// valid implements the expiry rule: now - timestamp < ttl.
func (s *Store) valid(e Entry) bool {
	return s.now().Sub(e.Timestamp) < s.ttl
}

// Lookup is a typed Get. A present entry holding another type is a miss.
func Lookup[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		log.Warnf("cache entry %s holds %T", key, v)
		return zero, false
	}
	return t, true
}
