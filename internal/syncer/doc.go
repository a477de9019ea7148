// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package syncer keeps a local view of projects and repositories consistent
// with the API.
//
// Reads are served from the TTL cache unless forced. Mutations are applied to
// the cached lists from the server's response instead of refetching. All state
// changes go through Reduce so they can be tested without a network, and
// subscribers are only notified when the data actually changed.
//
// The UI-facing entry points live on Handlers. Each mutation there is
// debounced so a burst of identical clicks results in one request.
package syncer
