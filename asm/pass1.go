// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strconv"
	"strings"
)

// unit holds all per-unit state: the symbol table, the two growing
// word images, and the running counters. It is allocated fresh for
// every input unit and discarded at the end — no state leaks between
// units (spec §5).
type unit struct {
	d        *diagnostics
	symtab   *symtab
	macros   *macrotab
	cmdCode  []Word
	dataCode []Word
	ic       int
	dc       int
}

func newUnit(d *diagnostics, macros *macrotab) *unit {
	return &unit{d: d, symtab: newSymtab(), macros: macros}
}

// runPass1 drives the line classifier over the expanded source (spec
// §4.2): every non-blank line is dispatched by its first token, labels
// are inserted into the symbol table, and cmd_code/data_code are
// grown with either fully-encoded words or zero placeholders destined
// for pass 2. After the scan it rebases symbol addresses (spec §4.6).
func (u *unit) runPass1(lines []string) {
	u.d.traceSection("first pass")
	for i, text := range lines {
		u.parseLine1(i+1, text)
	}
	u.symtab.rebase(u.ic, u.dc, u.d)
}

func (u *unit) parseLine1(row int, text string) {
	l := newLine(row, text).consumeWhitespace()
	if l.isEmpty() {
		return
	}

	label, rest, hasLabel := u.parseLabelPrefix(l)
	body := l
	if hasLabel {
		body = rest
	}
	// A malformed label was already reported; it is not used further.
	hasLabel = hasLabel && label != ""

	tok, remain := body.firstToken()
	switch tok.str {
	case "":
		u.d.errorf(row, "invalid first word")
	case ".entry":
		u.parseEntryDecl(row, label, hasLabel, remain)
	case ".extern":
		u.parseExternDecl(row, label, hasLabel, remain)
	case ".data":
		u.parseDataDirective(row, label, hasLabel, remain)
	case ".string":
		u.parseStringDirective(row, label, hasLabel, remain)
	default:
		if def, ok := lookupInst(tok.str); ok {
			u.parseInstruction1(row, label, hasLabel, def, remain)
		} else {
			u.d.errorf(row, "invalid first word")
		}
	}
}

// parseLabelPrefix recognizes a leading "LABEL:" token (spec §3's
// symbol-name grammar: a letter followed by letters/digits, at most 31
// characters). It reports malformed label syntax itself and returns
// hasLabel=true with an empty name so the caller skips further use.
func (u *unit) parseLabelPrefix(l line) (name string, rest line, hasLabel bool) {
	tok, _ := l.consumeUntil(isSpace)
	idx := strings.IndexByte(tok.str, ':')
	if idx < 0 {
		return "", l, false
	}

	candidate := tok.str[:idx]
	rest = l.consume(idx + 1).consumeWhitespace()

	if reason, ok := u.validSymbolDecl(candidate); !ok {
		u.d.errorf(l.row, "invalid label %q: %s", candidate, reason)
		return "", rest, true
	}
	return candidate, rest, true
}

// validSymbolName applies spec §3's symbol grammar: [A-Za-z][A-Za-z0-9]*,
// length at most 31, not a reserved word.
func validSymbolName(name string) (reason string, ok bool) {
	switch {
	case name == "":
		return "symbol name is empty", false
	case len(name) > 31:
		return "symbol name too long (max 31 characters)", false
	case !isNameStart(name[0]):
		return "symbol name must start with a letter", false
	case isReserved(name):
		return "symbol name is a reserved word", false
	}
	for i := 1; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return "symbol name contains invalid characters", false
		}
	}
	return "", true
}

// validSymbolDecl applies validSymbolName plus spec §7's "collides with
// a macro" name rule: a symbol being declared (label, .entry, .extern)
// must not share a name with an entry in the macro table built during
// pre-assembly.
func (u *unit) validSymbolDecl(name string) (reason string, ok bool) {
	if reason, ok := validSymbolName(name); !ok {
		return reason, false
	}
	if u.macros != nil && u.macros.has(name) {
		return "symbol name collides with a macro", false
	}
	return "", true
}

func (u *unit) parseEntryDecl(row int, label string, hasLabel bool, remain line) {
	if hasLabel {
		u.d.warnf(row, "label %s before .entry is ignored", label)
	}
	name, trailing := remain.firstToken()
	if name.isEmpty() {
		u.d.errorf(row, ".entry requires a symbol name")
		return
	}
	if !trailing.isEmpty() {
		u.d.errorf(row, "unexpected text after .entry %s", name.str)
		return
	}
	if reason, ok := u.validSymbolDecl(name.str); !ok {
		u.d.errorf(row, "invalid symbol name %s: %s", name.str, reason)
		return
	}
	u.symtab.addType(name.str, KindEntry, u.d, row)
}

func (u *unit) parseExternDecl(row int, label string, hasLabel bool, remain line) {
	if hasLabel {
		u.d.warnf(row, "label %s before .extern is ignored", label)
	}
	name, trailing := remain.firstToken()
	if name.isEmpty() {
		u.d.errorf(row, ".extern requires a symbol name")
		return
	}
	if !trailing.isEmpty() {
		u.d.errorf(row, "unexpected text after .extern %s", name.str)
		return
	}
	if reason, ok := u.validSymbolDecl(name.str); !ok {
		u.d.errorf(row, "invalid symbol name %s: %s", name.str, reason)
		return
	}
	u.symtab.addName(name.str, KindExternal, Unset, u.d, row)
}

func (u *unit) parseDataDirective(row int, label string, hasLabel bool, remain line) {
	if hasLabel {
		u.symtab.addName(label, KindData, Addr(u.dc), u.d, row)
	}

	if remain.isEmpty() {
		u.d.errorf(row, ".data requires at least one value")
		return
	}
	if remain.startsWithByte(',') {
		u.d.errorf(row, "unexpected comma before first value in .data")
		return
	}

	var values []int
	cur := remain
	expectValue := true
	for !cur.isEmpty() {
		if expectValue {
			tok, rest := cur.consumeUntilByte(',')
			numStr := strings.TrimSpace(tok.str)
			if numStr == "" {
				u.d.errorf(row, "unexpected comma in .data")
				return
			}
			n, err := strconv.ParseInt(numStr, 10, 64)
			if err != nil {
				u.d.errorf(row, "invalid number %q in .data", numStr)
				return
			}
			if n < -(1<<23) || n > (1<<23)-1 {
				u.d.errorf(row, "value %d out of range for .data", n)
				return
			}
			values = append(values, int(n))
			cur = rest
			expectValue = false
		} else {
			if !cur.startsWithByte(',') {
				u.d.errorf(row, "missing comma between .data values")
				return
			}
			cur = cur.consume(1).consumeWhitespace()
			if cur.isEmpty() {
				u.d.errorf(row, "trailing comma in .data")
				return
			}
			expectValue = true
		}
	}

	for _, n := range values {
		u.dataCode = append(u.dataCode, mask24(n))
		u.dc++
	}
}

func (u *unit) parseStringDirective(row int, label string, hasLabel bool, remain line) {
	if hasLabel {
		u.symtab.addName(label, KindData, Addr(u.dc), u.d, row)
	}

	if !remain.startsWithByte('"') {
		u.d.errorf(row, "missing opening quote in .string")
		return
	}
	content, rest := remain.consume(1).consumeUntilByte('"')
	if !rest.startsWithByte('"') {
		u.d.errorf(row, "missing closing quote in .string")
		return
	}
	after := rest.consume(1)
	if !after.consumeWhitespace().isEmpty() {
		u.d.errorf(row, "unexpected text after .string")
		return
	}

	for i := 0; i < len(content.str); i++ {
		u.dataCode = append(u.dataCode, mask24(int(content.str[i])))
		u.dc++
	}
	u.dataCode = append(u.dataCode, 0)
	u.dc++
}

func (u *unit) parseInstruction1(row int, label string, hasLabel bool, def instDef, remain line) {
	if hasLabel {
		u.symtab.addName(label, KindCode, Addr(u.ic), u.d, row)
	}

	hasSrc := !def.srcModes.isNone()
	hasDst := !def.dstModes.isNone()
	srcTok, dstTok, ok := splitOperands(hasSrc, hasDst, remain, row, u.d)
	if !ok {
		return
	}

	w1 := firstWord(def.opcode, def.funct)
	var extras []Word

	// A register operand is folded entirely into word1; only a
	// non-register operand reserves an extra word (spec §3). So when
	// both operands are registers, no extra word is ever appended —
	// the "shared word" rule falls out of this loop with no special
	// case needed.
	if hasSrc {
		mode, regN, extra, ok := u.encodeOperand(row, srcTok, def.srcModes, "source")
		if !ok {
			return
		}
		w1 = w1.withSrcMode(mode)
		if mode == modeRegister {
			w1 = w1.withSrcReg(regN)
		} else {
			extras = append(extras, extra)
		}
	}

	if hasDst {
		mode, regN, extra, ok := u.encodeOperand(row, dstTok, def.dstModes, "destination")
		if !ok {
			return
		}
		w1 = w1.withDstMode(mode)
		if mode == modeRegister {
			w1 = w1.withDstReg(regN)
		} else {
			extras = append(extras, extra)
		}
	}

	u.cmdCode = append(u.cmdCode, w1)
	u.ic++
	for _, e := range extras {
		u.cmdCode = append(u.cmdCode, e)
		u.ic++
	}
}

// encodeOperand classifies and, where possible, fully encodes one
// operand (spec §4.5). Immediate and register operands are resolved
// here; label operands (direct or relative) reserve a zero placeholder
// word for pass 2 to patch.
func (u *unit) encodeOperand(row int, tok string, allowed modeSet, slot string) (mode, regN int, extra Word, ok bool) {
	switch {
	case strings.HasPrefix(tok, "#"):
		if !allowed.allows(modeImmediate) {
			u.d.errorf(row, "addressing mode not supported for %s operand", slot)
			return 0, 0, 0, false
		}
		numStr := tok[1:]
		n, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			u.d.errorf(row, "invalid immediate value %q", numStr)
			return 0, 0, 0, false
		}
		if n < -(1<<20) || n > (1<<20)-1 {
			u.d.errorf(row, "immediate value %d out of range", n)
			return 0, 0, 0, false
		}
		return modeImmediate, 0, immediateWord(int(n)), true

	case strings.HasPrefix(tok, "&"):
		if !allowed.allows(modeRelative) {
			u.d.errorf(row, "addressing mode not supported for %s operand", slot)
			return 0, 0, 0, false
		}
		label := tok[1:]
		if reason, ok := validSymbolName(label); !ok {
			u.d.errorf(row, "invalid label %q: %s", label, reason)
			return 0, 0, 0, false
		}
		return modeRelative, 0, 0, true

	default:
		if n, isReg := registerNumber(tok); isReg {
			if !allowed.allows(modeRegister) {
				u.d.errorf(row, "addressing mode not supported for %s operand", slot)
				return 0, 0, 0, false
			}
			if n < 1 || n > 7 {
				u.d.errorf(row, "register number out of range: %s", tok)
				return 0, 0, 0, false
			}
			return modeRegister, n, 0, true
		}
		if tok == "" || !isNameStart(tok[0]) {
			u.d.errorf(row, "unrecognized operand %q", tok)
			return 0, 0, 0, false
		}
		if !allowed.allows(modeDirect) {
			u.d.errorf(row, "addressing mode not supported for %s operand", slot)
			return 0, 0, 0, false
		}
		if reason, ok := validSymbolName(tok); !ok {
			u.d.errorf(row, "invalid label %q: %s", tok, reason)
			return 0, 0, 0, false
		}
		return modeDirect, 0, 0, true
	}
}

// splitOperands tokenizes the operand field following a mnemonic,
// enforcing spec §4.5's comma rules: exactly one comma between a
// source and a destination operand, none when only one operand is
// expected, none when no operand is expected. Shared verbatim by pass
// 2 so both passes retrace identical IC arithmetic (spec §4.7).
func splitOperands(hasSrc, hasDst bool, remain line, row int, d *diagnostics) (srcTok, dstTok string, ok bool) {
	switch {
	case !hasSrc && !hasDst:
		if !remain.isEmpty() {
			d.errorf(row, "unexpected operand")
			return "", "", false
		}
		return "", "", true

	case !hasSrc && hasDst:
		tok, trailing := remain.consumeUntil(isSpace)
		if tok.isEmpty() {
			d.errorf(row, "missing operand")
			return "", "", false
		}
		if strings.ContainsRune(tok.str, ',') {
			d.errorf(row, "unexpected comma")
			return "", "", false
		}
		if !trailing.consumeWhitespace().isEmpty() {
			d.errorf(row, "unexpected extra operand")
			return "", "", false
		}
		return "", tok.str, true

	default: // hasSrc && hasDst
		first, afterComma := remain.consumeUntilByte(',')
		if afterComma.isEmpty() {
			d.errorf(row, "missing comma between operands")
			return "", "", false
		}
		rest := afterComma.consume(1).consumeWhitespace()
		second, trailing := rest.consumeUntil(isSpace)
		if first.isEmpty() {
			d.errorf(row, "missing source operand")
			return "", "", false
		}
		if second.isEmpty() {
			d.errorf(row, "missing destination operand")
			return "", "", false
		}
		if strings.ContainsRune(second.str, ',') {
			d.errorf(row, "too many operands")
			return "", "", false
		}
		if !trailing.consumeWhitespace().isEmpty() {
			d.errorf(row, "unexpected extra operand")
			return "", "", false
		}
		return strings.TrimSpace(first.str), second.str, true
	}
}
