// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// runPass2 re-scans the expanded source (spec §4.7), retracing the
// exact same IC arithmetic pass 1 used so the reserved placeholder
// positions line up, then patches each label operand and logs every
// external use-site. It only ever runs after a pass 1 with no errors
// (see Assemble in unit.go), so cmd_code is fully sized and every
// placeholder index it touches is in bounds.
func (u *unit) runPass2(lines []string) {
	u.d.traceSection("second pass")
	ic := 0
	for i, text := range lines {
		row := i + 1
		l := newLine(row, text).consumeWhitespace()
		if l.isEmpty() {
			continue
		}

		_, rest, hasLabel := u.parseLabelPrefix(l)
		body := l
		if hasLabel {
			body = rest
		}
		tok, remain := body.firstToken()

		switch tok.str {
		case ".data", ".string", ".extern":
			// no effect on IC in pass 2 (spec §4.7)
		case ".entry":
			name, _ := remain.firstToken()
			u.symtab.addType(name.str, KindEntry, u.d, row)
		default:
			if def, ok := lookupInst(tok.str); ok {
				ic = u.resolveInstruction(row, def, remain, ic)
			}
		}
	}
}

func (u *unit) resolveInstruction(row int, def instDef, remain line, ic int) int {
	ic++ // word1

	hasSrc := !def.srcModes.isNone()
	hasDst := !def.dstModes.isNone()
	srcTok, dstTok, ok := splitOperands(hasSrc, hasDst, remain, row, u.d)
	if !ok {
		return ic
	}

	if hasSrc {
		ic = u.resolveOperand(row, srcTok, ic)
	}
	if hasDst {
		ic = u.resolveOperand(row, dstTok, ic)
	}
	return ic
}

// resolveOperand patches the word at the current IC (if the operand
// needs one) and returns the IC advanced past it, exactly following
// the per-token rules of spec §4.7's second-pass algorithm.
func (u *unit) resolveOperand(row int, tok string, ic int) int {
	switch {
	case strings.HasPrefix(tok, "#"):
		return ic + 1

	case strings.HasPrefix(tok, "&"):
		name := tok[1:]
		idx, found := u.symtab.find(name)
		if !found {
			u.d.errorf(row, "undefined label: %s", name)
			return ic + 1
		}
		sym := u.symtab.get(idx)
		switch {
		case sym.Kinds.has(KindExternal):
			u.d.errorf(row, "relative addressing against external symbol: %s", name)
		case sym.Kinds.has(KindData):
			u.d.errorf(row, "relative addressing against data symbol: %s", name)
		default:
			u.patch(ic, relativeWord(int(sym.Address), ic+100))
		}
		return ic + 1

	default:
		if _, isReg := registerNumber(tok); isReg {
			return ic // encoded in word1, no extra word
		}

		idx, found := u.symtab.find(tok)
		if !found {
			u.d.errorf(row, "undefined label: %s", tok)
			return ic + 1
		}
		sym := u.symtab.get(idx)
		if sym.Kinds.has(KindExternal) {
			u.patch(ic, externalWord())
			u.symtab.addExternalUse(idx, Addr(ic+100))
		} else {
			u.patch(ic, directWord(int(sym.Address)))
		}
		return ic + 1
	}
}

func (u *unit) patch(ic int, w Word) {
	if ic >= 0 && ic < len(u.cmdCode) {
		u.cmdCode[ic] = w
	}
}
