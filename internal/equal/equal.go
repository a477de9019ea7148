// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package equal provides deep structural equality over plain data records.
// Records are compared in their JSON form so that two values which would
// produce the same wire payload are considered equal.
package equal

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/apex/log"
	gojsondiff "github.com/yudai/gojsondiff"
)

// Equal reports whether a and b are structurally equal. Values that cannot be
// JSON encoded are never equal to anything.
func Equal(a, b any) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		log.WithError(err).Debug("equal: left side not encodable")
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		log.WithError(err).Debug("equal: right side not encodable")
		return false
	}

	// Fast path. Most polling responses are byte-identical.
	if bytes.Equal(ja, jb) {
		return true
	}

	var left, right any
	if err := json.Unmarshal(ja, &left); err != nil {
		return false
	}
	if err := json.Unmarshal(jb, &right); err != nil {
		return false
	}

	differ := gojsondiff.New()
	switch l := left.(type) {
	case map[string]any:
		r, ok := right.(map[string]any)
		if !ok {
			return false
		}
		return !differ.CompareObjects(l, r).Modified()
	case []any:
		r, ok := right.([]any)
		if !ok {
			return false
		}
		return !differ.CompareArrays(l, r).Modified()
	default:
		return reflect.DeepEqual(left, right)
	}
}
