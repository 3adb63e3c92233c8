// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"
	"testing"
)

func assembleOK(t *testing.T, src string) Result {
	t.Helper()
	r := Assemble(src, Options{})
	if !r.OK {
		t.Fatalf("expected success, got errors: %v", r.Errors)
	}
	return r
}

func assembleErr(t *testing.T, src string) Result {
	t.Helper()
	r := Assemble(src, Options{})
	if r.OK {
		t.Fatalf("expected failure, assembly succeeded")
	}
	return r
}

func TestMacroExpansion(t *testing.T) {
	src := "mcro K\n  mov r1, r2\nmcroend\nK\n"
	r := assembleOK(t, src)

	if len(r.CmdCode) != 1 {
		t.Fatalf("expected 1 instruction word, got %d", len(r.CmdCode))
	}

	found := false
	for _, l := range r.Expanded {
		if l == "  mov r1, r2" {
			found = true
		}
	}
	if !found {
		t.Errorf("expanded source missing macro body: %v", r.Expanded)
	}
}

func TestRegisterRegisterMov(t *testing.T) {
	r := assembleOK(t, "mov r3, r5\n")

	if r.ICFinal != 1 {
		t.Fatalf("expected IC_F=1, got %d", r.ICFinal)
	}
	want := firstWord(0, 0).withSrcMode(modeRegister).withSrcReg(3).withDstMode(modeRegister).withDstReg(5)
	if r.CmdCode[0] != want {
		t.Errorf("word1 = %06X, want %06X", int(r.CmdCode[0]), int(want))
	}
}

func TestImmediateAndExternalLabel(t *testing.T) {
	src := ".extern X\nadd #5, X\n"
	r := assembleOK(t, src)

	if r.ICFinal != 3 {
		t.Fatalf("expected IC_F=3, got %d", r.ICFinal)
	}
	if r.CmdCode[1] != mask24(5<<3|areAbsolute) {
		t.Errorf("word2 = %06X, want %06X", int(r.CmdCode[1]), 0x2C)
	}
	if r.CmdCode[2] != mask24(areExternal) {
		t.Errorf("word3 = %06X, want %06X", int(r.CmdCode[2]), 1)
	}

	idx, ok := r.Symtab.find("X")
	if !ok {
		t.Fatalf("X not found in symbol table")
	}
	uses := r.Symtab.get(idx).ExternUses
	if len(uses) != 1 || uses[0] != 102 {
		t.Errorf("expected extern use at 102, got %v", uses)
	}
}

func TestRelativeBranch(t *testing.T) {
	src := "LOOP: mov r1, r2\nadd r1, r2\nadd r1, r2\nadd r1, r2\njmp &LOOP\n"
	r := assembleOK(t, src)

	// jmp's word1 sits at local IC 4 (absolute 104); its extra relative
	// word sits at local IC 5 (absolute 105).
	extra := r.CmdCode[5]
	want := mask24((100-105+1)<<3 | areAbsolute)
	if extra != want {
		t.Errorf("relative word = %06X, want %06X", int(extra), int(want))
	}
}

func TestDataRebase(t *testing.T) {
	src := "mov r1, r2\nadd r1, r2\nadd r1, r2\nadd r1, r2\nadd r1, r2\nV: .data 7, -1\n"
	r := assembleOK(t, src)

	if r.ICFinal != 5 {
		t.Fatalf("expected IC_F=5, got %d", r.ICFinal)
	}
	idx, ok := r.Symtab.find("V")
	if !ok {
		t.Fatalf("V not found")
	}
	if addr := r.Symtab.get(idx).Address; addr != 105 {
		t.Errorf("V.address = %d, want 105", addr)
	}
	if r.DataCode[0] != mask24(7) || r.DataCode[1] != mask24(-1) {
		t.Errorf("unexpected data words: %v", r.DataCode)
	}
}

func TestDuplicateLabelError(t *testing.T) {
	src := "X: .data 1\nX: mov r1, r2\n"
	r := assembleErr(t, src)

	want := "line 2: symbol X already defined"
	found := false
	for _, msg := range r.Errors {
		if msg == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error %q, got %v", want, r.Errors)
	}
}

func TestEntryNeverDefined(t *testing.T) {
	r := assembleErr(t, ".entry MISSING\nmov r1, r2\n")

	want := "line 1: entry not defined: MISSING"
	if len(r.Errors) != 1 || r.Errors[0] != want {
		t.Errorf("got errors %v, want [%q]", r.Errors, want)
	}
}

func TestEntryExternalConflict(t *testing.T) {
	r := assembleErr(t, ".entry X\n.extern X\nmov r1, r2\n")

	if len(r.Errors) == 0 {
		t.Fatal("expected an error")
	}
	if r.Errors[0] != "line 2: symbol X cannot be both entry and external" {
		t.Errorf("unexpected error: %v", r.Errors)
	}
}

func TestStringDirective(t *testing.T) {
	r := assembleOK(t, `S: .string "hi"` + "\n")

	if len(r.DataCode) != 3 {
		t.Fatalf("expected 3 data words (h, i, NUL), got %d", len(r.DataCode))
	}
	if r.DataCode[0] != mask24('h') || r.DataCode[1] != mask24('i') || r.DataCode[2] != 0 {
		t.Errorf("unexpected string encoding: %v", r.DataCode)
	}
}

func TestInvalidFirstWord(t *testing.T) {
	r := assembleErr(t, "bogus r1, r2\n")
	if len(r.Errors) != 1 || r.Errors[0] != "line 1: invalid first word" {
		t.Errorf("unexpected errors: %v", r.Errors)
	}
}

func TestLeaRequiresDirectSource(t *testing.T) {
	r := assembleErr(t, "lea #5, r2\n")
	if len(r.Errors) == 0 {
		t.Fatal("expected an error for lea with immediate source")
	}
}

func TestOutputWritersSkipEmptyExternAndEntry(t *testing.T) {
	r := assembleOK(t, "mov r1, r2\n")
	if hasExternals(r.Symtab) {
		t.Error("expected no externals")
	}
	if hasEntries(r.Symtab) {
		t.Error("expected no entries")
	}
}

func TestLabelBeforeEntryIsWarningNotError(t *testing.T) {
	r := assembleOK(t, "LBL: .entry X\nX: mov r1, r2\n")

	want := "line 1: label LBL before .entry is ignored"
	found := false
	for _, msg := range r.Warnings {
		if msg == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning %q, got %v", want, r.Warnings)
	}

	idx, ok := r.Symtab.find("X")
	if !ok || !r.Symtab.get(idx).Kinds.has(KindEntry) {
		t.Error("X should still be marked as an entry symbol")
	}
}

func TestLabelBeforeExternIsWarningNotError(t *testing.T) {
	r := assembleOK(t, "LBL: .extern X\nadd #1, X\n")

	want := "line 1: label LBL before .extern is ignored"
	found := false
	for _, msg := range r.Warnings {
		if msg == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning %q, got %v", want, r.Warnings)
	}
}

func TestSymbolCollidesWithMacro(t *testing.T) {
	r := assembleErr(t, "mcro K\n  mov r1, r2\nmcroend\nK: add r1, r2\n")

	found := false
	for _, msg := range r.Errors {
		if strings.Contains(msg, "collides with a macro") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a macro-collision error, got %v", r.Errors)
	}
}
