// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"maps"
	"slices"
	"strconv"
)

// ApplyDelta merges a snapshot delta into acc and returns the result.
// Objects merge key by key, array deltas address elements by decimal
// index, and a string delta extends the accumulated string: replaying
// every delta of a parse in order over the first snapshot's value must
// reproduce the final snapshot's value.
func ApplyDelta(acc, delta any) any {
	switch d := delta.(type) {
	case nil:
		return acc

	case map[string]any:
		switch a := acc.(type) {
		case map[string]any:
			for _, k := range slices.Sorted(maps.Keys(d)) {
				if old, ok := a[k]; ok {
					a[k] = ApplyDelta(old, d[k])
				} else {
					a[k] = d[k]
				}
			}
			return a

		case []any:
			idx := make([]int, 0, len(d))
			for k := range d {
				n, err := strconv.Atoi(k)
				if err != nil {
					return delta
				}
				idx = append(idx, n)
			}
			slices.Sort(idx)
			for _, i := range idx {
				v := d[strconv.Itoa(i)]
				if i < len(a) {
					a[i] = ApplyDelta(a[i], v)
				} else {
					a = append(a, v)
				}
			}
			return a
		}
		return delta

	case string:
		if a, ok := acc.(string); ok {
			return a + d
		}
		return delta
	}
	return delta
}

// Copy clones a plain JSON value tree, so tests can retain a snapshot
// value while continuing to feed the parser.
func Copy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, c := range t {
			m[k] = Copy(c)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = Copy(c)
		}
		return out
	}
	return v
}
