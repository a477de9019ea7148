// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package files turns a user-selected folder into the path/content pairs sent
// to the storage service. Files are filtered by visibility, extension and size
// before they are read, and a file that cannot be read is skipped rather than
// failing the whole batch.
package files
