// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// modeSet is a small bitset over the four addressing modes, used to
// describe which modes a mnemonic's operand slot accepts.
type modeSet uint8

func modes(m ...int) modeSet {
	var s modeSet
	for _, v := range m {
		s |= 1 << uint(v)
	}
	return s
}

func (s modeSet) allows(mode int) bool {
	return s&(1<<uint(mode)) != 0
}

func (s modeSet) isNone() bool {
	return s == 0
}

// instDef describes one mnemonic's opcode/funct pair and the
// addressing modes its source and destination operands accept. This
// table is a static datum of the ISA, not a design question (spec §1).
type instDef struct {
	opcode   int
	funct    int
	srcModes modeSet // 0 (modeSet.isNone) means "no source operand"
	dstModes modeSet // 0 means "no destination operand"
}

var instTable = map[string]instDef{
	"mov":  {opcode: 0, funct: 0, srcModes: modes(0, 1, 3), dstModes: modes(1, 3)},
	"cmp":  {opcode: 1, funct: 0, srcModes: modes(0, 1, 3), dstModes: modes(0, 1, 3)},
	"add":  {opcode: 2, funct: 1, srcModes: modes(0, 1, 3), dstModes: modes(1, 3)},
	"sub":  {opcode: 2, funct: 2, srcModes: modes(0, 1, 3), dstModes: modes(1, 3)},
	"lea":  {opcode: 4, funct: 0, srcModes: modes(1), dstModes: modes(1, 3)},
	"clr":  {opcode: 5, funct: 1, dstModes: modes(1, 3)},
	"not":  {opcode: 5, funct: 2, dstModes: modes(1, 3)},
	"inc":  {opcode: 5, funct: 3, dstModes: modes(1, 3)},
	"dec":  {opcode: 5, funct: 4, dstModes: modes(1, 3)},
	"jmp":  {opcode: 9, funct: 1, dstModes: modes(1, 2)},
	"bne":  {opcode: 9, funct: 2, dstModes: modes(1, 2)},
	"jsr":  {opcode: 9, funct: 3, dstModes: modes(1, 2)},
	"red":  {opcode: 12, funct: 0, dstModes: modes(1, 3)},
	"prn":  {opcode: 13, funct: 0, dstModes: modes(0, 1, 3)},
	"rts":  {opcode: 14, funct: 0},
	"stop": {opcode: 15, funct: 0},
}

func lookupInst(mnemonic string) (instDef, bool) {
	d, ok := instTable[mnemonic]
	return d, ok
}

// reservedWords are the mnemonics, register names, and directive
// keywords that can never be used as a symbol or macro name (spec §3).
var reservedWords = func() map[string]bool {
	m := make(map[string]bool)
	for name := range instTable {
		m[name] = true
	}
	for r := 1; r <= 7; r++ {
		m["r"+string(rune('0'+r))] = true
	}
	for _, d := range []string{"data", "string", "entry", "extern"} {
		m[d] = true
	}
	return m
}()

func isReserved(name string) bool {
	return reservedWords[name]
}

// registerNumber parses "rK" (K in 1..7) and reports whether the token
// matched the register syntax at all (not whether K was in range).
func registerNumber(tok string) (n int, ok bool) {
	if len(tok) < 2 || tok[0] != 'r' {
		return 0, false
	}
	for i := 1; i < len(tok); i++ {
		if !isDigit(tok[i]) {
			return 0, false
		}
	}
	v := 0
	for i := 1; i < len(tok); i++ {
		v = v*10 + int(tok[i]-'0')
	}
	return v, true
}
