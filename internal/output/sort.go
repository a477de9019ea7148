// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"sort"
	"strings"
)

// sortKey is one comma separated entry of a --sort spec.
type sortKey struct {
	name          string
	descending    bool
	caseSensitive bool
}

func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, s := range strings.Split(spec, ",") {
		s = strings.TrimSpace(s)
		k := sortKey{}
		// Prefixes may be combined in either order, -!name or !-name.
		for len(s) > 0 && (s[0] == '-' || s[0] == '!') {
			if s[0] == '-' {
				k.descending = true
			} else {
				k.caseSensitive = true
			}
			s = s[1:]
		}
		if s == "" {
			continue
		}
		k.name = s
		keys = append(keys, k)
	}
	return keys
}

// SortDataset sorts rows in place according to spec. A leading - sorts a key
// descending and a leading ! compares strings case sensitively. Rows that
// compare equal on every key keep their relative order.
func SortDataset(rows []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(rows[i][k.name], rows[j][k.name], k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders nil before everything, numbers numerically and
// everything else by its string form.
func compareValues(a, b interface{}, caseSensitive bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	as := InterfaceToString(a)
	bs := InterfaceToString(b)
	if !caseSensitive {
		as = strings.ToLower(as)
		bs = strings.ToLower(bs)
	}
	return strings.Compare(as, bs)
}
