// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag

import (
	"io"
	"iter"
)

// Parse consumes fragments from src in order and yields one snapshot
// per fragment. It is shorthand for calling p.Feed in a loop; the
// parser retains its state, so iteration may be abandoned and resumed
// with a later source.
func (p *Parser) Parse(src iter.Seq[string]) iter.Seq[*Snapshot] {
	return func(yield func(*Snapshot) bool) {
		for frag := range src {
			if !yield(p.Feed(frag)) {
				return
			}
		}
	}
}

// ReadChunks adapts a byte stream to a fragment source, delivering
// fragments of at most size bytes (64 if size <= 0) until r is
// exhausted. A read error other than io.EOF silently ends the
// sequence: the parser has no opinion about transport failures, and
// the document simply stops extending.
//
// Chunks split at byte boundaries, which may divide a multibyte rune.
// Such a split is healed here rather than in the lexer: the trailing
// bytes of an incomplete rune are held back and prepended to the next
// chunk, so fragments always carry whole runes.
func ReadChunks(r io.Reader, size int) iter.Seq[string] {
	if size <= 0 {
		size = 64
	}
	return func(yield func(string) bool) {
		buf := make([]byte, size)
		var held []byte
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := append(held, buf[:n]...)
				whole, rest := splitPartialRune(chunk)
				held = rest
				if !yield(string(whole)) {
					return
				}
			}
			if err != nil {
				if len(held) > 0 {
					yield(string(held))
				}
				return
			}
		}
	}
}

// splitPartialRune splits b into a prefix of complete UTF-8 runes and a
// trailing fragment of at most one incomplete rune.
func splitPartialRune(b []byte) (whole, rest []byte) {
	i := len(b)
	for i > 0 && len(b)-i < 4 {
		c := b[i-1]
		if c < 0x80 {
			break // ASCII tail, nothing incomplete
		}
		i--
		if c >= 0xC0 {
			// c is a leader byte; if the sequence it starts fits within
			// the tail, the tail is complete after all.
			if runeLen(c) <= len(b)-i {
				i = len(b)
			}
			break
		}
	}
	if i == len(b) || len(b)-i >= 4 {
		return b, nil
	}
	return b[:i], append([]byte(nil), b[i:]...)
}

func runeLen(leader byte) int {
	switch {
	case leader >= 0xF0:
		return 4
	case leader >= 0xE0:
		return 3
	default:
		return 2
	}
}
