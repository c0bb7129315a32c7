// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jfrag_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/creachadair/jfrag"
	"github.com/google/go-cmp/cmp"
)

// lexTrace feeds the chunks to a fresh lexer and renders the resulting
// action stream as a compact string.
func lexTrace(chunks ...string) string {
	var lx jfrag.Lexer
	var out []string
	for _, c := range chunks {
		for _, ch := range c {
			for _, ac := range lx.Step(ch) {
				out = append(out, acString(ac))
			}
		}
	}
	return strings.Join(out, " ")
}

func acString(ac jfrag.Action) string {
	switch ac.Op {
	case jfrag.ObjectStart:
		return "{"
	case jfrag.ObjectEnd:
		return "}"
	case jfrag.ArrayStart:
		return "["
	case jfrag.ArrayEnd:
		return "]"
	case jfrag.SetKey:
		return fmt.Sprintf("key(%s)", ac.Key)
	case jfrag.ValueStart:
		return "elem"
	case jfrag.SetValue:
		switch v := ac.Value.(type) {
		case string:
			return fmt.Sprintf("value(%q)", v)
		case nil:
			return "value(null)"
		default:
			return fmt.Sprintf("value(%v)", v)
		}
	}
	return ac.Op.String()
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"{}", "{ }"},
		{"[]", "[ ]"},
		{`{"a":15}`, `{ key(a) value(15) }`},
		{`{"a": "b c"}`, `{ key(a) value("b c") }`},
		{`[1, 2.5, -3e2]`, `[ elem value(1) elem value(2.5) elem value(-300) ]`},
		{`[true, false, null]`, `[ elem value(true) elem value(false) elem value(null) ]`},
		{`{"x":null, "y":[true]}`, `{ key(x) value(null) key(y) [ elem value(true) ] }`},
		{`{"a":{"b":{}}}`, `{ key(a) { key(b) { } } }`},
		{`[[], [[1]]]`, `[ [ ] [ [ elem value(1) ] ] ]`},

		// Junk before the root is discarded; the first completed root is
		// the only result.
		{`Sure! Here it is: [1, 2]`, `[ elem value(1) elem value(2) ]`},
		{`[1] [2]`, `[ elem value(1) ]`},
		{`"just a string"`, ""},
		{`42`, ""},

		// Tolerated malformations.
		{`{"a" 15}`, `{ key(a)`},             // missing colon: all else is junk
		{`{"a":: 1}`, `{ key(a) value(1) }`}, // surplus colon ignored
		{`[1,,2]`, `[ elem value(1) elem value(2) ]`},
		{`[,]`, `[ ]`},

		// Escapes.
		{`{"a":"x\ny"}`, `{ key(a) value("x\ny") }`},
		{`{"a":"q\"\\\/"}`, `{ key(a) value("q\"\\/") }`},
		{`{"a":"\q"}`, `{ key(a) value("q") }`},
		{`{"\t":1}`, "{ key(\t) value(1) }"},
		{`{"a":"A"}`, `{ key(a) value("A") }`},
		{`{"a":"é"}`, `{ key(a) value("é") }`},
		{`{"a":"😀"}`, `{ key(a) value("😀") }`},
		{`{"a":"\ud83dx"}`, `{ key(a) value("�x") }`},
		{`{"a":"\uZ9"}`, `{ key(a) value("uZ9") }`},

		// Incomplete keywords are guessed from their prefix.
		{`{"b": tru}`, `{ key(b) value(true) }`},
		{`{"b": f}`, `{ key(b) value(false) }`},
		{`{"b": n}`, `{ key(b) value(null) }`},
		{`[t]`, `[ elem value(true) ]`},
	}

	for _, test := range tests {
		if got := lexTrace(test.input); got != test.want {
			t.Errorf("Input: %#q\nGot:  %s\nWant: %s", test.input, got, test.want)
		}
	}
}

// Splitting the input at any rune boundary must not change the action
// stream.
func TestLexerSplitInvariance(t *testing.T) {
	const input = `x {"msg": "Hel\nlo é", "n": [1.5e2, {"k": null}, tru]} y`

	want := lexTrace(input)
	runes := []rune(input)
	for i := range runes {
		got := lexTrace(string(runes[:i]), string(runes[i:]))
		if got != want {
			t.Errorf("Split at %d: got %s, want %s", i, got, want)
		}
	}
}

// A rune that terminates a number keeps its structural meaning: one
// Step may commit the value and close a container.
func TestLexerReplay(t *testing.T) {
	var lx jfrag.Lexer
	for _, ch := range `{"n":1` {
		lx.Step(ch)
	}
	acts := lx.Step('}')
	var got []string
	for _, ac := range acts {
		got = append(got, acString(ac))
	}
	want := []string{"value(1)", "}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Step('}') actions: (-want, +got)\n%s", diff)
	}
	if !lx.Done() {
		t.Error("Done is false after the root closed")
	}
}

func TestLexerDone(t *testing.T) {
	var lx jfrag.Lexer
	for _, ch := range `[0]` {
		lx.Step(ch)
	}
	if !lx.Done() {
		t.Fatal("Done is false after the root closed")
	}
	for _, ch := range `{"more": 1}` {
		if acts := lx.Step(ch); len(acts) != 0 {
			t.Errorf("Step(%q) after done: unexpected actions %v", ch, acts)
		}
	}
}
