// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag

import (
	"strconv"

	"go4.org/mem"

	"github.com/creachadair/jfrag/internal/escape"
)

// An Op is the kind of a structural action reported by the lexer.
type Op byte

// Constants defining the valid Op values.
const (
	Invalid     Op = iota // invalid action
	ObjectStart           // open an object "{"
	ObjectEnd             // close the innermost object "}"
	ArrayStart            // open an array "["
	ArrayEnd              // close the innermost array "]"
	SetKey                // a member key is complete
	ValueStart            // an array is about to receive its next element
	SetValue              // a leaf value is complete
)

var opStr = [...]string{
	Invalid:     "invalid action",
	ObjectStart: "object start",
	ObjectEnd:   "object end",
	ArrayStart:  "array start",
	ArrayEnd:    "array end",
	SetKey:      "set key",
	ValueStart:  "value start",
	SetValue:    "set value",
}

func (o Op) String() string {
	v := int(o)
	if v >= len(opStr) {
		return opStr[Invalid]
	}
	return opStr[v]
}

// An Action is a single structural event emitted by the lexer.  Key is
// populated for SetKey, Value for SetValue; both are otherwise zero.
type Action struct {
	Op    Op
	Key   string
	Value any // string, float64, bool, or nil
}

// lexState enumerates the lexical modes of the machine. Exactly one is
// live at a time, and transitions are deterministic given (state, rune).
type lexState byte

const (
	lexRoot       lexState = iota // seeking the document root
	lexValue                      // expecting a value
	lexKeyOrClose                 // expecting a member key or "}"
	lexColon                      // expecting ":"
	lexObjectNext                 // expecting "," or "}"
	lexArrayNext                  // expecting "," or "]"
	lexString                     // inside a string
	lexEscape                     // inside a string, after "\"
	lexEscapeHex                  // inside a "\u" escape, reading hex digits
	lexNumber                     // inside a number
	lexKeyword                    // inside true, false, or null
	lexDone                       // root container closed; input is discarded
)

// A Lexer is a resumable lexical machine for JSON text. Unlike a
// conventional scanner it does not pull from a reader: the caller feeds
// it one rune at a time with Step, and the machine keeps every piece of
// mid-token state (partial strings, half-read escapes, digits of an
// unterminated number) in explicit fields, so feeding may stop and
// resume at any rune boundary.
//
// The zero value is ready to use. A Lexer never reports an error: runes
// that make no sense in the current mode are discarded.
type Lexer struct {
	state  lexState
	stack  []byte // open containers, '{' or '['
	buf    []byte // partial token: string bytes, number digits, or keyword letters
	isKey  bool   // buf is a member key in progress, not a value
	replay rune   // 0 = none; a consumed rune still owed to the machine
	hex    []byte // pending digits of a \u escape
	high   rune   // pending high surrogate half, or 0

	acts [2]Action // backing for Step results
}

// Step feeds one rune to the machine and returns the structural actions
// it triggers. Most runes produce none or one; a rune that terminates a
// number or keyword both commits that value and then acts on its own
// behalf, producing two. The returned slice is only valid until the
// next call of Step.
func (lx *Lexer) Step(ch rune) []Action {
	out := lx.step(ch, lx.acts[:0])
	for lx.replay != 0 {
		r := lx.replay
		lx.replay = 0
		out = lx.step(r, out)
	}
	return out
}

// Done reports whether the machine has consumed a complete root
// container. Once done, all further input is discarded.
func (lx *Lexer) Done() bool { return lx.state == lexDone }

// midValue reports whether the machine is inside a token that will
// commit as a value, and if so returns its best current interpretation:
// the accumulated text for a string, the digits parsed as a float for a
// number (0 if not yet parseable), or the keyword guess.
func (lx *Lexer) midValue() (any, bool) {
	if lx.isKey {
		return nil, false
	}
	switch lx.state {
	case lexString, lexEscape, lexEscapeHex:
		return string(lx.buf), true
	case lexNumber:
		return parseNumber(lx.buf), true
	case lexKeyword:
		return keywordGuess(lx.buf), true
	}
	return nil, false
}

func (lx *Lexer) step(ch rune, out []Action) []Action {
	switch lx.state {
	case lexRoot:
		// Everything before the first "{" or "[" is junk.
		switch ch {
		case '{':
			return lx.open('{', out)
		case '[':
			return lx.open('[', out)
		}

	case lexValue:
		switch {
		case ch == '"':
			lx.beginToken(lexString)
			if lx.top() == '[' {
				return append(out, Action{Op: ValueStart})
			}
		case ch == '{':
			return lx.open('{', out)
		case ch == '[':
			return lx.open('[', out)
		case ch == ']' && lx.top() == '[':
			// An empty array, or a stray comma before the closer.
			return lx.close(out)
		case ch == '-' || isDigit(ch):
			lx.beginToken(lexNumber)
			lx.buf = append(lx.buf, byte(ch))
			if lx.top() == '[' {
				return append(out, Action{Op: ValueStart})
			}
		case ch == 't' || ch == 'f' || ch == 'n':
			lx.beginToken(lexKeyword)
			lx.buf = append(lx.buf, byte(ch))
			if lx.top() == '[' {
				return append(out, Action{Op: ValueStart})
			}
		}

	case lexKeyOrClose:
		switch ch {
		case '"':
			lx.beginToken(lexString)
			lx.isKey = true
		case '}':
			return lx.close(out)
		}

	case lexColon:
		if ch == ':' {
			lx.state = lexValue
		}

	case lexObjectNext:
		switch ch {
		case ',':
			lx.state = lexKeyOrClose
		case '}':
			return lx.close(out)
		}

	case lexArrayNext:
		switch ch {
		case ',':
			lx.state = lexValue
		case ']':
			return lx.close(out)
		}

	case lexString:
		switch ch {
		case '"':
			lx.flushSurrogate()
			text := string(lx.buf)
			if lx.isKey {
				lx.isKey = false
				lx.state = lexColon
				return append(out, Action{Op: SetKey, Key: text})
			}
			lx.state = lx.afterValue()
			return append(out, Action{Op: SetValue, Value: text})
		case '\\':
			lx.state = lexEscape
		default:
			lx.flushSurrogate()
			lx.buf = appendRune(lx.buf, ch)
		}

	case lexEscape:
		if ch == 'u' {
			lx.hex = lx.hex[:0]
			lx.state = lexEscapeHex
		} else {
			lx.flushSurrogate()
			lx.buf = appendRune(lx.buf, escape.Rune(ch))
			lx.state = lexString
		}

	case lexEscapeHex:
		if !isHexDigit(ch) {
			// A malformed escape: keep what we saw literally and let the
			// offending rune take its ordinary meaning in the string.
			lx.flushSurrogate()
			lx.buf = append(lx.buf, 'u')
			lx.buf = append(lx.buf, lx.hex...)
			lx.state = lexString
			lx.replay = ch
			return out
		}
		lx.hex = append(lx.hex, byte(ch))
		if len(lx.hex) == 4 {
			lx.state = lexString
			code, _ := strconv.ParseUint(string(lx.hex), 16, 32)
			r := rune(code)
			switch {
			case escape.IsHighSurrogate(r):
				lx.flushSurrogate()
				lx.high = r
			case escape.IsLowSurrogate(r):
				if lx.high != 0 {
					lx.buf = appendRune(lx.buf, escape.CombineSurrogates(lx.high, r))
					lx.high = 0
				} else {
					lx.buf = appendRune(lx.buf, escape.Replacement)
				}
			default:
				lx.flushSurrogate()
				lx.buf = appendRune(lx.buf, r)
			}
		}

	case lexNumber:
		if isNumberRune(ch) {
			lx.buf = append(lx.buf, byte(ch))
			break
		}
		// The first rune past the number both ends the token and keeps
		// its structural meaning, so it is owed back to the machine.
		lx.state = lx.afterValue()
		lx.replay = ch
		return append(out, Action{Op: SetValue, Value: parseNumber(lx.buf)})

	case lexKeyword:
		if ch >= 'a' && ch <= 'z' {
			lx.buf = append(lx.buf, byte(ch))
			if v, ok := keywordExact(lx.buf); ok {
				lx.state = lx.afterValue()
				return append(out, Action{Op: SetValue, Value: v})
			}
			break
		}
		lx.state = lx.afterValue()
		lx.replay = ch
		return append(out, Action{Op: SetValue, Value: keywordGuess(lx.buf)})

	case lexDone:
		// Absorbing: the first completed root is the only result.
	}
	return out
}

// beginToken resets the token buffer and enters the given token state.
func (lx *Lexer) beginToken(s lexState) {
	lx.buf = lx.buf[:0]
	lx.isKey = false
	lx.high = 0
	lx.state = s
}

// open pushes a container frame and reports the corresponding action.
func (lx *Lexer) open(tag byte, out []Action) []Action {
	lx.stack = append(lx.stack, tag)
	if tag == '{' {
		lx.state = lexKeyOrClose
		return append(out, Action{Op: ObjectStart})
	}
	lx.state = lexValue
	return append(out, Action{Op: ArrayStart})
}

// close pops the innermost container frame and reports its end action.
func (lx *Lexer) close(out []Action) []Action {
	tag := lx.top()
	lx.stack = lx.stack[:len(lx.stack)-1]
	lx.state = lx.afterValue()
	if tag == '{' {
		return append(out, Action{Op: ObjectEnd})
	}
	return append(out, Action{Op: ArrayEnd})
}

// afterValue returns the state that follows a completed value, which
// depends on the innermost open container.
func (lx *Lexer) afterValue() lexState {
	switch lx.top() {
	case '{':
		return lexObjectNext
	case '[':
		return lexArrayNext
	}
	return lexDone
}

// flushSurrogate downgrades a dangling high surrogate half to the
// replacement rune. Called whenever the next string content is known
// not to be the matching low half.
func (lx *Lexer) flushSurrogate() {
	if lx.high != 0 {
		lx.buf = appendRune(lx.buf, escape.Replacement)
		lx.high = 0
	}
}

// top returns the tag of the innermost open container, or 0.
func (lx *Lexer) top() byte {
	if len(lx.stack) == 0 {
		return 0
	}
	return lx.stack[len(lx.stack)-1]
}

// parseNumber interprets the accumulated digits of a number token.  A
// buffer that does not yet parse (a lone "-", a trailing exponent sign)
// is interpreted as 0 rather than an error.
func parseNumber(buf []byte) float64 {
	v, err := strconv.ParseFloat(string(buf), 64)
	if err != nil {
		return 0
	}
	return v
}

var (
	litTrue  = mem.S("true")
	litFalse = mem.S("false")
	litNull  = mem.S("null")
)

// keywordExact reports whether buf is exactly one of the JSON keywords,
// and if so its value.
func keywordExact(buf []byte) (any, bool) {
	got := mem.B(buf)
	switch {
	case got.Equal(litTrue):
		return true, true
	case got.Equal(litFalse):
		return false, true
	case got.Equal(litNull):
		return nil, true
	}
	return nil, false
}

// keywordGuess interprets a possibly-incomplete keyword: a prefix of
// "true" means true, else a prefix of "false" means false, else null.
func keywordGuess(buf []byte) any {
	got := mem.B(buf)
	switch {
	case mem.HasPrefix(litTrue, got):
		return true
	case mem.HasPrefix(litFalse, got):
		return false
	}
	return nil
}

func appendRune(buf []byte, r rune) []byte { return append(buf, string(r)...) }

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isNumberRune(ch rune) bool {
	return isDigit(ch) || ch == '.' || ch == 'e' || ch == 'E' || ch == '+' || ch == '-'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
