// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jfrag/internal/escape"
)

func TestRune(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{'n', '\n'}, {'r', '\r'}, {'t', '\t'}, {'b', '\b'}, {'f', '\f'},
		{'"', '"'}, {'\\', '\\'}, {'/', '/'},
		{'q', 'q'}, {'é', 'é'}, // unrecognized escapes map to themselves
	}
	for _, test := range tests {
		if got := escape.Rune(test.in); got != test.want {
			t.Errorf("Rune(%q): got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestSurrogates(t *testing.T) {
	if !escape.IsHighSurrogate(0xD83D) || escape.IsHighSurrogate(0xDE00) {
		t.Error("High surrogate classification is wrong")
	}
	if !escape.IsLowSurrogate(0xDE00) || escape.IsLowSurrogate(0xD83D) {
		t.Error("Low surrogate classification is wrong")
	}
	if got := escape.CombineSurrogates(0xD83D, 0xDE00); got != '😀' {
		t.Errorf("Combine(D83D, DE00): got %q, want 😀", got)
	}
	if got := escape.CombineSurrogates(0xD834, 0xDD1E); got != '\U0001D11E' {
		t.Errorf("Combine(D834, DD1E): got %q, want 𝄞", got)
	}
}
