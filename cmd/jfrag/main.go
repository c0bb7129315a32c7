// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jfrag follows a JSON document as it arrives on a byte
// stream, printing a best-effort snapshot of the document after each
// chunk together with the paths that are still unsettled.
//
// Usage:
//
//	some-slow-producer | jfrag -chunk 16
//	jfrag -file reply.json -select 'value.message'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/jfrag"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/tailscale/hujson"
)

// settings are the tunables of a run. A config file, if given, is
// parsed as HuJSON so it may carry comments and trailing commas; flags
// given explicitly override it.
type settings struct {
	Chunk  int    `json:"chunk"`  // chunk size in bytes
	Select string `json:"select"` // expression evaluated against each snapshot
	Delta  bool   `json:"delta"`  // print deltas
	Trace  bool   `json:"trace"`  // print the structural action stream
}

func main() {
	var filename, configPath string
	useColor := isatty.IsTerminal(os.Stdout.Fd())

	opts := settings{Chunk: 64}
	flag.StringVar(&filename, "file", "", "input filename (stdin if omitted)")
	flag.StringVar(&configPath, "config", "", "settings file (HuJSON)")
	flag.IntVar(&opts.Chunk, "chunk", opts.Chunk, "chunk size in bytes")
	flag.StringVar(&opts.Select, "select", "", "print only this expression of each snapshot")
	flag.BoolVar(&opts.Delta, "delta", false, "print snapshot deltas")
	flag.BoolVar(&opts.Trace, "trace", false, "print structural actions instead of snapshots")
	flag.BoolFunc("colors", "force using colors", func(string) error {
		useColor = true
		return nil
	})
	flag.BoolFunc("nocolors", "disable colors", func(string) error {
		useColor = false
		return nil
	})
	flag.Parse()

	if configPath != "" {
		fileOpts := opts
		if err := loadConfig(configPath, &fileOpts); err != nil {
			fatalError("error loading config: %v", err)
		}
		// Flags given explicitly on the command line win over the file.
		given := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { given[f.Name] = true })
		if !given["chunk"] {
			opts.Chunk = fileOpts.Chunk
		}
		if !given["select"] {
			opts.Select = fileOpts.Select
		}
		if !given["delta"] {
			opts.Delta = fileOpts.Delta
		}
		if !given["trace"] {
			opts.Trace = fileOpts.Trace
		}
	}

	input := io.Reader(os.Stdin)
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			fatalError("error opening %q: %v", filename, err)
		}
		defer f.Close()
		input = f
	}

	var stdout io.Writer = os.Stdout
	if useColor {
		stdout = colorable.NewColorableStdout()
	}

	var sel *vm.Program
	if opts.Select != "" {
		p, err := expr.Compile(opts.Select)
		if err != nil {
			fatalError("error compiling -select: %v", err)
		}
		sel = p
	}

	if opts.Trace {
		runTrace(stdout, input, opts.Chunk)
		return
	}

	p := jfrag.New()
	p.TrackDelta(opts.Delta || sel != nil)

	n := 0
	for snap := range p.Parse(jfrag.ReadChunks(input, opts.Chunk)) {
		n++
		if sel != nil {
			out, err := expr.Run(sel, snapEnv(snap))
			if err != nil {
				fatalError("error evaluating -select: %v", err)
			}
			fmt.Fprintf(stdout, "%v\n", out)
			continue
		}
		printSnapshot(stdout, n, snap, opts.Delta, useColor)
	}
}

// runTrace feeds the raw lexer and prints each structural action, one
// per line, without building snapshots.
func runTrace(w io.Writer, input io.Reader, chunk int) {
	var lx jfrag.Lexer
	for frag := range jfrag.ReadChunks(input, chunk) {
		for _, ch := range frag {
			for _, ac := range lx.Step(ch) {
				switch ac.Op {
				case jfrag.SetKey:
					fmt.Fprintf(w, "%s %q\n", ac.Op, ac.Key)
				case jfrag.SetValue:
					fmt.Fprintf(w, "%s %v\n", ac.Op, ac.Value)
				default:
					fmt.Fprintln(w, ac.Op)
				}
			}
		}
	}
}

func printSnapshot(w io.Writer, n int, snap *jfrag.Snapshot, withDelta, useColor bool) {
	fmt.Fprintf(w, "--- %d\n", n)
	fmt.Fprintln(w, mustJSON(snap.Value))
	if pending := snap.Ambiguity.Paths(); pending != nil {
		line := "pending: " + strings.Join(pending, " ")
		if useColor {
			line = "\033[33m" + line + "\033[0m"
		}
		fmt.Fprintln(w, line)
	}
	if withDelta && snap.Delta != nil {
		fmt.Fprintf(w, "delta: %s\n", mustJSON(snap.Delta))
	}
}

// snapEnv is the environment a -select expression evaluates in.
func snapEnv(snap *jfrag.Snapshot) map[string]any {
	return map[string]any{
		"value":   snap.Value,
		"text":    snap.Text,
		"delta":   snap.Delta,
		"pending": snap.Ambiguity.Paths(),
	}
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalError("error encoding snapshot: %v", err)
	}
	return string(data)
}

// loadConfig reads a HuJSON settings file into opts.
func loadConfig(path string, opts *settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(std, opts)
}

func fatalError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}
