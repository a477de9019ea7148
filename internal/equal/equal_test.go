// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package equal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags,omitempty"`
	Count int      `json:"count"`
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    any
		b    any
		want bool
	}{
		{"identical structs", record{ID: "1", Name: "a"}, record{ID: "1", Name: "a"}, true},
		{"different field", record{ID: "1", Name: "a"}, record{ID: "1", Name: "b"}, false},
		{"different counter", record{ID: "1", Count: 1}, record{ID: "1", Count: 2}, false},
		{"nested slice equal", record{Tags: []string{"x", "y"}}, record{Tags: []string{"x", "y"}}, true},
		{"nested slice reordered", record{Tags: []string{"x", "y"}}, record{Tags: []string{"y", "x"}}, false},
		{"slices of records", []record{{ID: "1"}, {ID: "2"}}, []record{{ID: "1"}, {ID: "2"}}, true},
		{"slice length differs", []record{{ID: "1"}}, []record{{ID: "1"}, {ID: "2"}}, false},
		{"map key order irrelevant", map[string]int{"a": 1, "b": 2}, map[string]int{"b": 2, "a": 1}, true},
		{"struct vs equivalent map", record{ID: "1", Name: "a"}, map[string]any{"id": "1", "name": "a", "count": 0}, true},
		{"object vs array", map[string]any{}, []any{}, false},
		{"scalars", 42, 42, true},
		{"scalar mismatch", "a", "b", false},
		{"nil vs nil", nil, nil, true},
		{"nil slice vs empty slice", []record(nil), []record{}, false},
		{"unencodable", func() {}, func() {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
