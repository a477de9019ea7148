// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides the in-memory, time-bounded store of resource
// snapshots shared by the synchronizer. Entries expire passively: staleness is
// evaluated on read and nothing is purged in the background.
package cache
