// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"

	"github.com/apex/log"
)

// Defaults for keys missing from the config file.
const (
	DefaultAPIURL            = "http://localhost:8000"
	DefaultCacheTTL          = 5 * time.Minute
	DefaultDebounceWindow    = time.Second
	DefaultRetryMax          = 3
	DefaultRetryBackoff      = time.Second
	DefaultUploadTick        = 300 * time.Millisecond
	DefaultUploadConcurrency = 8
)

// Settings is the typed view of the keys docdash itself consumes.
type Settings struct {
	APIURL            string
	Token             string
	CacheTTL          time.Duration
	CacheEnabled      bool
	DebounceWindow    time.Duration
	RetryMax          int
	RetryBackoff      time.Duration
	RetryWrites       bool
	UploadTick        time.Duration
	UploadConcurrency int
}

// Load the Settings from Config. Malformed values are logged and replaced by
// their default.
func LoadSettings() Settings {
	s := Settings{
		APIURL:            stringOr("api.url", DefaultAPIURL),
		Token:             stringOr("token", ""),
		CacheTTL:          durationOr("cache.ttl", DefaultCacheTTL),
		CacheEnabled:      boolOr("cache.enabled", true),
		DebounceWindow:    durationOr("debounce.window", DefaultDebounceWindow),
		RetryMax:          intOr("retry.max", DefaultRetryMax),
		RetryBackoff:      durationOr("retry.backoff", DefaultRetryBackoff),
		RetryWrites:       boolOr("retry.writes", false),
		UploadTick:        durationOr("upload.tick", DefaultUploadTick),
		UploadConcurrency: intOr("upload.concurrency", DefaultUploadConcurrency),
	}
	log.Debugf("settings: %+v", redacted(s))
	return s
}

func redacted(s Settings) Settings {
	if s.Token != "" {
		s.Token = "********"
	}
	return s
}

func stringOr(key, def string) string {
	v, err := GetString(key, def)
	if err != nil {
		log.WithError(err).Warnf("config: ignoring %s", key)
		return def
	}
	return v
}

func intOr(key string, def int) int {
	v, err := GetInt(key, def)
	if err != nil {
		log.WithError(err).Warnf("config: ignoring %s", key)
		return def
	}
	return v
}

func boolOr(key string, def bool) bool {
	v, err := GetBool(key, def)
	if err != nil {
		log.WithError(err).Warnf("config: ignoring %s", key)
		return def
	}
	return v
}

func durationOr(key string, def time.Duration) time.Duration {
	v, err := GetDuration(key, def)
	if err != nil {
		log.WithError(err).Warnf("config: ignoring %s", key)
		return def
	}
	return v
}
