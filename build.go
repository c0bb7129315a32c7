// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag

// The builder consumes the lexer's action stream and maintains the
// committed value tree together with its ambiguity shadow. It is the
// only code that mutates either tree, and it never looks at raw input.
//
// Containers are held as internal node types rather than plain maps
// and slices so that frames can share live references; the trees are
// converted to plain values only when a snapshot is exported.

// An objNode is a partially built JSON object.
type objNode map[string]any

// An arrNode is a partially built JSON array.
type arrNode struct{ el []any }

// A pathStep records how a frame is reached from its parent, so paths
// can be rebuilt top-down from the live stack without parent pointers.
type pathStep struct {
	key   string
	index int
	isIdx bool
}

// A frame is one live open container.
type frame struct {
	obj objNode // non-nil for an object frame
	arr *arrNode
	// via is the step from the parent frame to this one. Unused for the
	// root frame.
	via pathStep

	key    string // pending member key
	hasKey bool
}

// A builder is the reducer state: the committed root, the stack of open
// frames, and the ambiguity tree root.
type builder struct {
	root any   // objNode, *arrNode, or nil before the root arrives
	amb  *Ambiguity
	stk  []frame
}

// apply reduces a single lexer action into the builder state.
func (b *builder) apply(ac Action) {
	switch ac.Op {
	case ObjectStart:
		b.openContainer(frame{obj: objNode{}})
	case ArrayStart:
		b.openContainer(frame{arr: new(arrNode)})
	case ObjectEnd, ArrayEnd:
		b.closeContainer()
	case SetKey:
		b.setKey(ac.Key)
	case ValueStart:
		b.valueStart()
	case SetValue:
		b.setValue(ac.Value)
	}
}

// openContainer attaches a fresh container to the tree, registers its
// ambiguity node, and pushes its frame. Opening always destabilizes
// every ancestor: the new container's contents are by definition
// unknown.
func (b *builder) openContainer(f frame) {
	var container any = f.obj
	if f.arr != nil {
		container = f.arr
	}

	if len(b.stk) == 0 {
		b.root = container
		b.amb = new(Ambiguity)
	} else {
		top := &b.stk[len(b.stk)-1]
		if top.obj != nil {
			top.obj[top.key] = container
			f.via = pathStep{key: top.key}
			top.hasKey = false
		} else {
			f.via = pathStep{index: len(top.arr.el), isIdx: true}
			top.arr.el = append(top.arr.el, container)
		}
		b.nodeAt(b.stk[1:], &f.via) // register, unresolved
		b.destabilize()
	}
	b.stk = append(b.stk, f)
}

// closeContainer resolves the ambiguity node of the innermost open
// container and pops its frame. This is the only event that resolves a
// container.
func (b *builder) closeContainer() {
	if len(b.stk) == 0 {
		return // tolerated: the lexer never emits an unbalanced close
	}
	top := b.stk[len(b.stk)-1]
	var node *Ambiguity
	if len(b.stk) == 1 {
		node = b.amb
	} else {
		node = b.nodeAt(b.stk[1:len(b.stk)-1], &top.via)
	}
	node.Resolved = true
	b.stk = b.stk[:len(b.stk)-1]
	b.restabilize()
}

// setKey records a pending member key and pre-registers its ambiguity
// node: the key has appeared but its value has not committed yet.
func (b *builder) setKey(name string) {
	if len(b.stk) == 0 {
		return
	}
	top := &b.stk[len(b.stk)-1]
	if top.obj == nil {
		return
	}
	top.key, top.hasKey = name, true
	node := b.nodeAt(b.stk[1:], &pathStep{key: name})
	node.Resolved = false
	b.destabilize()
}

// valueStart pre-registers the ambiguity node for the next element of
// the innermost array, before that element's value is known. Object
// members are registered by setKey instead.
func (b *builder) valueStart() {
	if len(b.stk) == 0 {
		return
	}
	top := &b.stk[len(b.stk)-1]
	if top.arr == nil {
		return
	}
	b.nodeAt(b.stk[1:], &pathStep{index: len(top.arr.el), isIdx: true})
	b.destabilize()
}

// setValue commits a leaf into the innermost container and resolves its
// ambiguity node.
func (b *builder) setValue(v any) {
	if len(b.stk) == 0 {
		return
	}
	top := &b.stk[len(b.stk)-1]
	var step pathStep
	if top.obj != nil {
		if !top.hasKey {
			return
		}
		top.obj[top.key] = v
		step = pathStep{key: top.key}
		top.hasKey = false
	} else {
		step = pathStep{index: len(top.arr.el), isIdx: true}
		top.arr.el = append(top.arr.el, v)
	}
	b.nodeAt(b.stk[1:], &step).Resolved = true
	b.restabilize()
}

// nodeAt walks the ambiguity tree along the given frame steps plus an
// optional final step, creating nodes as needed, and returns the node
// reached. Created nodes start unresolved.
func (b *builder) nodeAt(frames []frame, last *pathStep) *Ambiguity {
	node := b.amb
	for i := range frames {
		node = node.child(frames[i].via)
	}
	if last != nil {
		node = node.child(*last)
	}
	return node
}

func (a *Ambiguity) child(step pathStep) *Ambiguity {
	if step.isIdx {
		return a.item(step.index)
	}
	return a.field(step.key)
}

// destabilize forces every node along the live frame path, including
// the root, to unresolved. Registration of new structure may only raise
// instability.
func (b *builder) destabilize() {
	node := b.amb
	node.Resolved = false
	for _, f := range b.stk[1:] {
		node = node.child(f.via)
		node.Resolved = false
	}
}

// restabilize recomputes the nodes along the live frame path bottom-up
// after a resolution event. An ancestor with an unresolved child is
// forced back to unresolved; an ancestor is never cleared here, only
// its own closing delimiter does that.
func (b *builder) restabilize() {
	if b.amb == nil {
		return
	}
	line := make([]*Ambiguity, 0, len(b.stk)+1)
	node := b.amb
	line = append(line, node)
	for _, f := range b.stk[1:] {
		node = node.child(f.via)
		line = append(line, node)
	}
	for i := len(line) - 1; i >= 0; i-- {
		if !line[i].allResolved() {
			line[i].Resolved = false
		}
	}
}

// export converts an internal tree to plain values: objects become
// map[string]any, arrays []any. Scalars, including null, are shared
// as-is (they are immutable).
func export(v any) any {
	switch t := v.(type) {
	case objNode:
		m := make(map[string]any, len(t))
		for k, c := range t {
			m[k] = export(c)
		}
		return m
	case *arrNode:
		out := make([]any, len(t.el))
		for i, c := range t.el {
			out[i] = export(c)
		}
		return out
	}
	return v
}
