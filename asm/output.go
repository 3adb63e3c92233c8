// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"fmt"
	"io"
)

// writeObject writes the ".ob" object file (spec §4.8): a header line
// with the final instruction and data counts, then one line per word
// giving its address and 24-bit hex value, instructions first.
func writeObject(w io.Writer, cmdCode, dataCode []Word, icFinal, dcFinal int) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "     %d %d\n", icFinal, dcFinal); err != nil {
		return err
	}
	for i, word := range cmdCode {
		if _, err := fmt.Fprintf(bw, "%07d %06X\n", i+100, int(word)&wordMask); err != nil {
			return err
		}
	}
	for i, word := range dataCode {
		if _, err := fmt.Fprintf(bw, "%07d %06X\n", i+icFinal+100, int(word)&wordMask); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// hasExternals reports whether the unit has at least one external
// symbol that was actually referenced, gating whether a ".ext" file
// is produced at all (spec §4.8).
func hasExternals(t *symtab) bool {
	for i := range t.syms {
		if t.syms[i].Kinds.has(KindExternal) && len(t.syms[i].ExternUses) > 0 {
			return true
		}
	}
	return false
}

func hasEntries(t *symtab) bool {
	for i := range t.syms {
		if t.syms[i].Kinds.has(KindEntry) {
			return true
		}
	}
	return false
}

// writeExternals writes the ".ext" file: one "name address" line per
// use-site of every external symbol, in symbol-definition order (spec
// §4.8). Addresses are zero-padded to 7 digits, matching
// original_source/output.c's write_ext.
func writeExternals(w io.Writer, t *symtab) error {
	bw := bufio.NewWriter(w)
	for i := range t.syms {
		s := &t.syms[i]
		if !s.Kinds.has(KindExternal) {
			continue
		}
		for _, addr := range s.ExternUses {
			if _, err := fmt.Fprintf(bw, "%s %07d\n", s.Name, int(addr)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// writeEntries writes the ".ent" file: one "name address" line per
// entry symbol, in definition order.
func writeEntries(w io.Writer, t *symtab) error {
	bw := bufio.NewWriter(w)
	for i := range t.syms {
		s := &t.syms[i]
		if !s.Kinds.has(KindEntry) {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s %07d\n", s.Name, int(s.Address)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
