// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// A Snapshot is the externally visible result of parsing one fragment:
// the best-effort document so far plus metadata about how settled it
// is. Snapshots are deep copies; the caller may freely mutate them
// without affecting the parser or later snapshots.
type Snapshot struct {
	// Value is the parsed document: a map[string]any or []any at the
	// root. It is an empty map until a root container has been found,
	// and permanently if the document's root is a primitive.
	Value any

	// Ambiguity mirrors the structure of Value and marks which parts of
	// it may still change.
	Ambiguity *Ambiguity

	// Text is the full raw input accumulated so far, junk included.
	Text string

	// Delta holds only the parts of Value that changed since the
	// previous snapshot, or nil if nothing changed, on the first
	// snapshot, or when delta tracking is disabled. Objects mirror as
	// map[string]any; array elements appear under their decimal index;
	// an extended string carries only its appended suffix.
	Delta any
}

// project materializes one snapshot from the committed builder state
// and the lexer's in-flight token. It reads both and mutates neither.
func project(lx *Lexer, b *builder) any {
	base := export(b.root)
	if b.root == nil {
		return map[string]any{}
	}
	v, ok := lx.midValue()
	if !ok {
		return base
	}
	return splice(base, b, v)
}

// splice writes the in-flight value into an exported tree at the
// position it will occupy once committed: the pending key of the
// innermost object frame, or the next index of the innermost array.
// It returns the tree, which is reallocated only when the root itself
// is an array receiving its next element.
func splice(base any, b *builder, v any) any {
	if len(b.stk) == 0 {
		return base
	}
	// Walk down to the innermost container along the recorded steps.
	cur := base
	for _, f := range b.stk[1:] {
		switch t := cur.(type) {
		case map[string]any:
			cur = t[f.via.key]
		case []any:
			cur = t[f.via.index]
		}
	}
	top := &b.stk[len(b.stk)-1]
	switch t := cur.(type) {
	case map[string]any:
		if top.hasKey {
			t[top.key] = v
		}
	case []any:
		// The slot does not exist yet: append to the copy and rewrite
		// the reference held by the parent, or the root itself.
		ext := append(t, v)
		if len(b.stk) == 1 {
			return ext
		}
		switch pt := parentOf(base, b.stk[1:]).(type) {
		case map[string]any:
			pt[top.via.key] = ext
		case []any:
			pt[top.via.index] = ext
		}
	}
	return base
}

// parentOf walks base along all but the last recorded step, returning
// the container that holds the innermost frame's container.
func parentOf(base any, steps []frame) any {
	cur := base
	for _, f := range steps[:len(steps)-1] {
		switch t := cur.(type) {
		case map[string]any:
			cur = t[f.via.key]
		case []any:
			cur = t[f.via.index]
		}
	}
	return cur
}

// delta computes the minimal value describing what cur adds relative to
// prev. The second result reports whether anything changed. Nothing is
// ever reported as removed: parsing only extends the document.
func delta(prev, cur any) (any, bool) {
	switch c := cur.(type) {
	case map[string]any:
		p, ok := prev.(map[string]any)
		if !ok {
			return deepCopy(c), true
		}
		d := make(map[string]any)
		for _, k := range sortedKeys(c) {
			pv, ok := p[k]
			if !ok {
				d[k] = deepCopy(c[k])
				continue
			}
			if dv, changed := delta(pv, c[k]); changed {
				d[k] = dv
			}
		}
		if len(d) == 0 {
			return nil, false
		}
		return d, true

	case []any:
		p, ok := prev.([]any)
		if !ok {
			return deepCopy(c), true
		}
		d := make(map[string]any)
		for i, cv := range c {
			if i >= len(p) {
				d[strconv.Itoa(i)] = deepCopy(cv)
				continue
			}
			if dv, changed := delta(p[i], cv); changed {
				d[strconv.Itoa(i)] = dv
			}
		}
		if len(d) == 0 {
			return nil, false
		}
		return d, true

	case string:
		p, ok := prev.(string)
		if !ok {
			return c, true
		}
		if p == c {
			return nil, false
		}
		if strings.HasPrefix(c, p) {
			// Strings only ever extend; report just the new suffix.
			return c[len(p):], true
		}
		return c, true
	}

	if prev != cur {
		return cur, true
	}
	return nil, false
}

// deepCopy clones a plain value tree.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, c := range t {
			m[k] = deepCopy(c)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = deepCopy(c)
		}
		return out
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
