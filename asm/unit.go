// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a pre-assembler and two-pass assembler for a
// 24-bit instruction set.
package asm

import (
	"io"
)

// Result is everything Assemble produces for one input unit: the
// accumulated diagnostics and, when assembly succeeded, the words and
// symbols needed to write the output files.
type Result struct {
	Errors   []string
	Warnings []string
	OK       bool
	Expanded []string // macro-expanded source, for writing the .am file
	ICFinal  int
	DCFinal  int
	CmdCode  []Word
	DataCode []Word
	Symtab   *symtab
}

// Options configures a single Assemble call.
type Options struct {
	// Trace, if non-nil, receives a section line as the first and the
	// second pass start, mirroring the teacher's verbose-assembly trace.
	// Pre-assembly writes nothing to it.
	Trace io.Writer
}

// Assemble runs the full pipeline over src (spec §4): pre-assembly,
// first pass, and second pass. Each stage only runs if the previous
// one reported no errors — original_source/asembler.c's driver only
// calls second_path when first_path succeeded, and only calls
// first_path when the pre-assembler succeeded, because a stage that
// bailed out mid-line leaves cmd_code/data_code too short for a later
// stage to retrace safely. Output files are the caller's job (see
// WriteOutputs); Assemble only ever returns in-memory state.
func Assemble(src string, opts Options) Result {
	d := &diagnostics{verbose: opts.Trace}

	expanded, macros := preassemble(d, src)
	if d.hasErrors() {
		return Result{Errors: d.messages(), Warnings: d.warningMessages(), Expanded: expanded}
	}

	u := newUnit(d, macros)
	u.runPass1(expanded)
	if d.hasErrors() {
		return Result{Errors: d.messages(), Warnings: d.warningMessages(), Expanded: expanded}
	}

	u.runPass2(expanded)
	if d.hasErrors() {
		return Result{Errors: d.messages(), Warnings: d.warningMessages(), Expanded: expanded}
	}

	return Result{
		OK:       true,
		Warnings: d.warningMessages(),
		Expanded: expanded,
		ICFinal:  u.ic,
		DCFinal:  u.dc,
		CmdCode:  u.cmdCode,
		DataCode: u.dataCode,
		Symtab:   u.symtab,
	}
}

// WriteOutputs writes the object file unconditionally, the externals
// file only when at least one external symbol is referenced, and the
// entries file only when the unit has an entry symbol (spec §4.8). open is called once per file that needs
// writing, with the conventional suffix (".ob", ".ext", or ".ent");
// the caller owns building the full path and closing the writer.
func (r Result) WriteOutputs(open func(suffix string) (io.WriteCloser, error)) error {
	ob, err := open(".ob")
	if err != nil {
		return err
	}
	if err := writeObject(ob, r.CmdCode, r.DataCode, r.ICFinal, r.DCFinal); err != nil {
		ob.Close()
		return err
	}
	if err := ob.Close(); err != nil {
		return err
	}

	if hasExternals(r.Symtab) {
		ext, err := open(".ext")
		if err != nil {
			return err
		}
		if err := writeExternals(ext, r.Symtab); err != nil {
			ext.Close()
			return err
		}
		if err := ext.Close(); err != nil {
			return err
		}
	}

	if hasEntries(r.Symtab) {
		ent, err := open(".ent")
		if err != nil {
			return err
		}
		if err := writeEntries(ent, r.Symtab); err != nil {
			ent.Close()
			return err
		}
		if err := ent.Close(); err != nil {
			return err
		}
	}

	return nil
}
