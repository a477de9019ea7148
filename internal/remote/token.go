// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// TokenSource yields the bearer token for API calls. The token's lifecycle is
// owned by the sign-in flow; this package only reads it.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token. An empty StaticToken is unauthenticated.
type StaticToken string

func (s StaticToken) Token() (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}

// LocalTokenSource resolves the token from, in order:
//  1. DOCDASH_TOKEN
//  2. the configured token (token: in docdash.yaml)
//  3. the credentials file written by the sign-in flow.
type LocalTokenSource struct {
	Configured      string
	CredentialsPath string
}

// DefaultCredentialsPath is <user config dir>/docdash/credentials.json.
func DefaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "docdash", "credentials.json")
}

func (s LocalTokenSource) Token() (string, error) {
	if token := strings.TrimSpace(os.Getenv("DOCDASH_TOKEN")); token != "" {
		return token, nil
	}

	if token := strings.TrimSpace(s.Configured); token != "" {
		return token, nil
	}

	path := s.CredentialsPath
	if path == "" {
		path = DefaultCredentialsPath()
	}
	if path == "" {
		return "", ErrNotAuthenticated
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no credentials file at %s", path)
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("failed to unmarshal credentials file: %w", err)
	}
	if creds.Token == "" {
		return "", ErrNotAuthenticated
	}
	return creds.Token, nil
}
