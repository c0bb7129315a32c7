// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape implements the pieces of JSON string escape decoding
// that the lexer threads through its resumable states: the single-rune
// escape table and UTF-16 surrogate arithmetic for "\u" sequences.
package escape

// Replacement is the Unicode replacement rune, substituted for escape
// sequences that cannot be decoded.
const Replacement = '�'

// Rune maps the rune following a backslash to its unescaped equivalent.
// Runes with no special meaning map to themselves.
func Rune(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	}
	return ch // includes '"', '\\', '/'
}

// IsHighSurrogate reports whether r is the leading half of a UTF-16
// surrogate pair.
func IsHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }

// IsLowSurrogate reports whether r is the trailing half of a UTF-16
// surrogate pair.
func IsLowSurrogate(r rune) bool { return r >= 0xDC00 && r <= 0xDFFF }

// CombineSurrogates composes a high and low surrogate half into the
// rune they jointly encode.
func CombineSurrogates(high, low rune) rune {
	return 0x10000 + (high-0xD800)<<10 + (low - 0xDC00)
}
