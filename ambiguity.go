// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag

import (
	"fmt"
	"strconv"
)

// An Ambiguity is a tree of stability flags isomorphic to a snapshot
// value. A node whose Resolved field is false may still change as more
// input arrives: its own closing delimiter has not been seen, or some
// value beneath it is still in flight. The absence of a node at a path
// means the same thing as an unresolved node there; "not yet seen" is
// never treated as "known absent".
//
// Nodes are only ever added and flags only settle one way: once a node
// is resolved by its own terminating input it stays resolved.
type Ambiguity struct {
	Resolved bool

	Fields map[string]*Ambiguity // object members, nil if none
	Items  []*Ambiguity          // array elements
}

// ResolvedAt reports whether the node at the given path is resolved.
// Path elements must be strings (object keys) or ints (array indices);
// any other type panics. An empty path names the root. A path with no
// corresponding node reports false.
func (a *Ambiguity) ResolvedAt(path ...any) bool {
	cur := a
	for _, p := range path {
		if cur == nil {
			return false
		}
		switch t := p.(type) {
		case string:
			cur = cur.Fields[t]
		case int:
			if t < 0 || t >= len(cur.Items) {
				return false
			}
			cur = cur.Items[t]
		default:
			panic(fmt.Sprintf("invalid path element %T", p))
		}
	}
	return cur != nil && cur.Resolved
}

// Paths returns the paths of all unresolved nodes having no unresolved
// descendants, in depth-first order with object keys sorted. Each path
// is rendered with "/"-separated segments; the root is "/". It returns
// nil if the whole tree is resolved.
func (a *Ambiguity) Paths() []string {
	if a == nil {
		return []string{"/"}
	}
	var out []string
	a.appendPaths("", &out)
	return out
}

func (a *Ambiguity) appendPaths(prefix string, out *[]string) {
	if a.Resolved {
		return
	}
	n := len(*out)
	for _, key := range sortedKeys(a.Fields) {
		a.Fields[key].appendPaths(prefix+"/"+key, out)
	}
	for i, item := range a.Items {
		item.appendPaths(prefix+"/"+strconv.Itoa(i), out)
	}
	if len(*out) == n {
		// No unresolved descendant; this node is itself the frontier.
		if prefix == "" {
			prefix = "/"
		}
		*out = append(*out, prefix)
	}
}

// field returns the child node for key, creating it if necessary.
func (a *Ambiguity) field(key string) *Ambiguity {
	if c, ok := a.Fields[key]; ok {
		return c
	}
	if a.Fields == nil {
		a.Fields = make(map[string]*Ambiguity)
	}
	c := new(Ambiguity)
	a.Fields[key] = c
	return c
}

// item returns the child node for an array index, creating it if
// necessary. Indices are only ever requested in order, so at most one
// new slot is added.
func (a *Ambiguity) item(i int) *Ambiguity {
	for len(a.Items) <= i {
		a.Items = append(a.Items, new(Ambiguity))
	}
	return a.Items[i]
}

// clone returns a deep copy of the tree, safe for the caller to hold
// across further parsing.
func (a *Ambiguity) clone() *Ambiguity {
	if a == nil {
		return new(Ambiguity)
	}
	cp := &Ambiguity{Resolved: a.Resolved}
	if a.Fields != nil {
		cp.Fields = make(map[string]*Ambiguity, len(a.Fields))
		for k, c := range a.Fields {
			cp.Fields[k] = c.clone()
		}
	}
	if a.Items != nil {
		cp.Items = make([]*Ambiguity, len(a.Items))
		for i, c := range a.Items {
			cp.Items[i] = c.clone()
		}
	}
	return cp
}

// allResolved reports whether every immediate child of a is resolved.
func (a *Ambiguity) allResolved() bool {
	for _, c := range a.Fields {
		if !c.Resolved {
			return false
		}
	}
	for _, c := range a.Items {
		if !c.Resolved {
			return false
		}
	}
	return true
}
