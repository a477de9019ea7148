// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docdash/internal/cache"
	"github.com/staranto/docdash/internal/config"
	"github.com/staranto/docdash/internal/remote"
	"github.com/staranto/docdash/internal/syncer"
)

// errNoOutcome is returned when a flushed intent neither succeeded nor
// recorded a failure, which only happens when it was dropped.
var errNoOutcome = errors.New("request was dropped before it completed")

// settings returns the settings carried in meta, loading them when the
// command was built without any.
func settings(cmd *cli.Command) config.Settings {
	st := GetMeta(cmd).Settings
	if st.APIURL == "" {
		st = config.LoadSettings()
	}
	return st
}

// newClient wires the retrying gateway and endpoint client. --api-url wins
// over api.url.
func newClient(cmd *cli.Command, st config.Settings) *remote.Client {
	url := st.APIURL
	if cmd.IsSet("api-url") {
		url = cmd.String("api-url")
	}
	log.Debugf("api: %s", url)

	gw := remote.NewGateway(url,
		remote.WithTokenSource(remote.LocalTokenSource{Configured: st.Token}),
		remote.WithMaxRetries(st.RetryMax),
		remote.WithBackoff(st.RetryBackoff),
		remote.WithWriteRetries(st.RetryWrites),
	)
	return remote.NewClient(gw)
}

// newSynchronizer wires a synchronizer over a fresh cache store.
func newSynchronizer(cmd *cli.Command) *syncer.Synchronizer {
	st := settings(cmd)

	store := cache.New(
		cache.WithTTL(st.CacheTTL),
		cache.WithDisabled(!st.CacheEnabled || !cache.Enabled()),
	)

	return syncer.New(newClient(cmd, st), store,
		syncer.WithDebounceWindow(st.DebounceWindow),
		syncer.WithProgressInterval(st.UploadTick),
		syncer.WithReadConcurrency(st.UploadConcurrency),
	)
}

// runIntent submits one intent through the debounced handlers, flushes it and
// returns the value pick extracts from the action that reported its success.
// A failure recorded for op is returned as the error.
func runIntent[T any](
	ctx context.Context,
	s *syncer.Synchronizer,
	op syncer.OpKind,
	submit func(*syncer.Handlers),
	pick func(syncer.Action) (T, bool),
) (T, error) {
	var (
		mu     sync.Mutex
		result T
		found  bool
	)

	unsubscribe := s.Subscribe(func(_ syncer.State, a syncer.Action) {
		if v, ok := pick(a); ok {
			mu.Lock()
			result, found = v, true
			mu.Unlock()
		}
	})
	defer unsubscribe()

	h := s.Handlers(ctx)
	defer h.Stop()

	submit(h)
	h.Flush()

	mu.Lock()
	defer mu.Unlock()

	if err := s.State().Err(op); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to %s: %w", op, err)
	}
	if !found {
		var zero T
		return zero, errNoOutcome
	}
	return result, nil
}
