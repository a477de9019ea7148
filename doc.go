// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// docdash is the main package for the docdash command line tool, a client for
// the documentation dashboard API. It wires the CLI, delegates to internal
// packages, and serves as the entry point.
package main
