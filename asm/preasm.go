// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

const maxLineLen = 80

type preasmState int

const (
	stateNormal preasmState = iota
	stateInMacro
)

// preassemble implements stage 1 (spec §4.1): it expands `mcro NAME …
// mcroend` blocks into the text consumed by passes 1 and 2, and
// populates the macro table along the way. Diagnostics are
// accumulated, not returned eagerly, so one run surfaces every
// line-level problem (spec §7).
func preassemble(d *diagnostics, src string) (expanded []string, mt *macrotab) {
	mt = newMacrotab()
	rows := splitLines(src)

	state := stateNormal
	var cur *macro

	for i, raw := range rows {
		row := i + 1
		text := raw
		if len(text) > maxLineLen {
			d.errorf(row, "line too long (max %d characters)", maxLineLen)
			text = text[:maxLineLen]
		}

		l := newLine(row, text).stripComment()
		if l.isEmpty() {
			continue
		}

		switch state {
		case stateNormal:
			tok, remain := l.firstToken()

			switch {
			case tok.str == "mcro":
				name, trailing := remain.firstToken()
				if reason, ok := validateMacroName(name.str); !ok {
					d.errorf(row, "%s", reason)
					break
				}
				if !trailing.isEmpty() {
					d.errorf(row, "unexpected text after macro name %q", name.str)
					break
				}
				if mt.has(name.str) {
					d.errorf(row, "macro %q already defined", name.str)
					break
				}
				cur = mt.begin(name.str)
				state = stateInMacro

			case remain.isEmpty() && mt.has(tok.str):
				m, _ := mt.get(tok.str)
				expanded = append(expanded, m.body...)

			default:
				expanded = append(expanded, l.str)
			}

		case stateInMacro:
			if strings.HasPrefix(l.str, "mcroend") {
				after := newLine(row, l.str[len("mcroend"):])
				if !after.consumeWhitespace().isEmpty() {
					d.errorf(row, "unexpected text after mcroend")
					break
				}
				state = stateNormal
				cur = nil
				continue
			}
			if trimmed := strings.TrimLeft(l.str, " \t"); strings.HasPrefix(trimmed, "mcroend") {
				d.errorf(row, "mcroend must begin in column 1")
				break
			}
			mt.append(cur, l.str)
		}
	}

	if state == stateInMacro {
		d.errorf(len(rows), "macro %q is never terminated with mcroend", cur.name)
	}

	return expanded, mt
}

func splitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
