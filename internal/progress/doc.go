// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package progress simulates upload progress while a real request is in
// flight. The signal is cosmetic: it never reaches 100% on its own and must
// not be used to decide whether the work finished.
package progress
