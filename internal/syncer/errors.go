// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package syncer

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToRetry = errors.New("nothing to retry")
	ErrNoAccess       = errors.New("repository is not accessible")
)

// ValidationError reports a required field that was empty. It is raised
// before any request is made and is never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
