// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"
	"testing"
)

func TestPreassembleExpandsMacro(t *testing.T) {
	d := &diagnostics{}
	lines, mt := preassemble(d, "mcro K\n  mov r1, r2\nmcroend\nK\nK\n")
	if d.hasErrors() {
		t.Fatalf("unexpected errors: %v", d.messages())
	}
	if !mt.has("K") {
		t.Fatal("K should be registered in the macro table")
	}
	if len(lines) != 2 || lines[0] != "  mov r1, r2" || lines[1] != "  mov r1, r2" {
		t.Errorf("unexpected expansion: %v", lines)
	}
}

func TestPreassembleStripsTrailingComment(t *testing.T) {
	d := &diagnostics{}
	lines, _ := preassemble(d, "mov r1, r2 ; move it\n")
	if d.hasErrors() {
		t.Fatalf("unexpected errors: %v", d.messages())
	}
	if len(lines) != 1 || lines[0] != "mov r1, r2" {
		t.Errorf("unexpected expansion: %v", lines)
	}
}

func TestPreassembleDuplicateMacroIsError(t *testing.T) {
	d := &diagnostics{}
	preassemble(d, "mcro K\nmcroend\nmcro K\nmcroend\n")
	if !d.hasErrors() {
		t.Fatal("expected a duplicate-macro error")
	}
}

func TestPreassembleUnterminatedMacroIsError(t *testing.T) {
	d := &diagnostics{}
	preassemble(d, "mcro K\n  mov r1, r2\n")
	if !d.hasErrors() {
		t.Fatal("expected an unterminated-macro error")
	}
}

func TestPreassembleMcroendWithTrailingCommentIsAccepted(t *testing.T) {
	d := &diagnostics{}
	preassemble(d, "mcro K\n  mov r1, r2\nmcroend ; end of macro\n")
	if d.hasErrors() {
		t.Fatalf("unexpected errors: %v", d.messages())
	}
}

func TestPreassembleMisindentedMcroendIsError(t *testing.T) {
	d := &diagnostics{}
	preassemble(d, "mcro K\n  mov r1, r2\n  mcroend\nmcroend\n")
	if !d.hasErrors() {
		t.Fatal("expected a mis-indented mcroend error")
	}
}

func TestPreassembleLineTooLong(t *testing.T) {
	d := &diagnostics{}
	long := strings.Repeat("a", maxLineLen+10)
	preassemble(d, long+"\n")
	if !d.hasErrors() {
		t.Fatal("expected a line-too-long error")
	}
}

func TestPreassembleReservedWordMacroName(t *testing.T) {
	d := &diagnostics{}
	preassemble(d, "mcro mov\nmcroend\n")
	if !d.hasErrors() {
		t.Fatal("expected a reserved-word macro-name error")
	}
}
