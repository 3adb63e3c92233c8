// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"assembler24/asm"
)

var verbose bool

func init() {
	flag.BoolVar(&verbose, "v", false, "trace each assembly stage")
	flag.CommandLine.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: assembler24 [-v] file ...")
		fmt.Fprintln(os.Stderr, "Each file is given without its .as extension.")
	}
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.CommandLine.Usage()
		os.Exit(1)
	}

	failed := false
	for _, name := range args {
		if err := processFile(name); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// processFile assembles one named unit, following
// original_source/asembler.c's file-naming convention: name.as is the
// source, name.am receives the macro-expanded source, and
// name.ob/.ext/.ent are written only on success.
func processFile(name string) error {
	src, err := os.ReadFile(name + ".as")
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}

	fmt.Printf("Processing file: %s\n", name)
	opts := asm.Options{}
	if verbose {
		opts.Trace = os.Stdout
	}
	result := asm.Assemble(string(src), opts)

	if err := writeExpanded(name, result.Expanded); err != nil {
		return fmt.Errorf("writing expanded source: %w", err)
	}

	for _, msg := range result.Warnings {
		fmt.Fprintf(os.Stderr, "  warning: %s\n", msg)
	}

	if !result.OK {
		fmt.Fprintf(os.Stderr, "Errors in the input file: %s, not generating its output files.\n", name)
		for _, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
		return fmt.Errorf("%d error(s)", len(result.Errors))
	}

	return result.WriteOutputs(func(suffix string) (io.WriteCloser, error) {
		return os.Create(name + suffix)
	})
}

func writeExpanded(name string, lines []string) error {
	f, err := os.Create(name + ".am")
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strings.Join(lines, "\n") + "\n")
	return err
}
