// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package remote talks to the dashboard REST API. It provides the retrying
// request gateway, bearer token resolution and a typed client with one method
// per endpoint. Responses are validated at the boundary so callers never see
// half-populated records.
package remote
