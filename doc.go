// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jfrag implements an incremental, best-effort JSON parser for
// documents that arrive in fragments, such as the output of a language
// model streamed token by token.
//
// # Parsing
//
// The Parser type consumes a document one fragment at a time and
// returns a Snapshot of the document after each fragment, even while
// the document is still syntactically incomplete:
//
//	p := jfrag.New()
//	for frag := range source {
//	   snap := p.Feed(frag)
//	   log.Printf("Value so far: %v", snap.Value)
//	}
//
// Snapshots are monotonic: a field, array element, or substring that
// has appeared is never removed and never shrinks in a later snapshot.
// Values still in flight are reported with their best current
// interpretation: a string missing its closing quote appears with the
// text read so far, and a half-read "tru" appears as true.
//
// Feed never reports an error. Junk before the root container, stray
// separators, and malformed structure are discarded; a document whose
// root is not an object or array yields an empty object.
//
// # Ambiguity
//
// Each Snapshot carries an Ambiguity tree mirroring the shape of its
// Value. A node is resolved only once the input that finalizes it has
// been consumed: a leaf's terminating delimiter, or a container's
// closing brace or bracket. Everything else, including a container all
// of whose known children have resolved, remains unresolved until its
// own closer arrives.
//
//	snap.Ambiguity.ResolvedAt("outer", "first")
//
// # Deltas
//
// Unless disabled with TrackDelta(false), each snapshot after the
// first carries a Delta describing only what changed: new members
// wholesale, extended strings by their appended suffix, and changed
// containers recursively. Replaying all deltas in order reconstructs
// the final value.
//
// # Streaming
//
// The adapters in stream.go connect a Parser to pull-based sources: an
// iter.Seq of fragments, or an io.Reader cut into fixed-size chunks:
//
//	for snap := range p.Parse(jfrag.ReadChunks(r, 64)) {
//	   ...
//	}
package jfrag
