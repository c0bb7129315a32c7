// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag

import "strings"

// A Parser incrementally parses one JSON document delivered as a
// sequence of arbitrarily split text fragments. After each fragment it
// produces a Snapshot of the document so far: the value only ever
// grows, and the snapshot's ambiguity tree reports which parts may
// still change.
//
// A Parser processes exactly one document: once the root container
// closes, further input is discarded. It is not safe for concurrent
// use; one logical owner feeds it and consumes its snapshots.
type Parser struct {
	lx   Lexer
	b    builder
	text strings.Builder

	track bool // compute deltas
	prev  any  // previous exported value, nil before the first snapshot
	fed   bool // at least one snapshot was produced
}

// New constructs a new Parser with delta tracking enabled.
func New() *Parser { return &Parser{track: true} }

// TrackDelta configures the parser to compute (true) or skip (false)
// the Delta field of produced snapshots.
func (p *Parser) TrackDelta(ok bool) { p.track = ok }

// Feed consumes one fragment and returns the snapshot of the document
// after it. An empty fragment is a no-op that still yields a snapshot.
// Feed never fails: malformed or surplus input is tolerated, and its
// effect (or lack of one) is visible only through the snapshot.
func (p *Parser) Feed(fragment string) *Snapshot {
	p.text.WriteString(fragment)
	for _, ch := range fragment {
		for _, ac := range p.lx.Step(ch) {
			p.b.apply(ac)
		}
	}

	snap := &Snapshot{
		Value:     project(&p.lx, &p.b),
		Ambiguity: p.b.amb.clone(),
		Text:      p.text.String(),
	}
	if p.track {
		// Diff against our own copy of the previous value, not the one
		// returned to the caller: returned snapshots are theirs to
		// mutate.
		if p.fed {
			snap.Delta, _ = delta(p.prev, snap.Value)
		}
		p.prev = deepCopy(snap.Value)
	}
	p.fed = true
	return snap
}
