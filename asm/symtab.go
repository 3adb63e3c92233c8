// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// Kind is a small bitset over the four symbol roles a name can play.
// The original source concatenates kind labels into a string field and
// tests membership with strstr; spec §9 calls for a bitset instead, so
// the entry+external mutual-exclusion rule becomes one intersection
// check (see addType/addName below).
type Kind uint8

const (
	KindCode Kind = 1 << iota
	KindData
	KindEntry
	KindExternal
)

func (k Kind) has(bit Kind) bool { return k&bit != 0 }

// Symbol is one symbol-table entry (spec §3).
type Symbol struct {
	Name       string
	Address    Addr
	Kinds      Kind
	ExternUses []Addr // populated only in pass 2, only for KindExternal
	declRow    int     // source line of first declaration, for diagnostics
}

// symtab is the growing symbol table. Go's append already gives the
// amortized-doubling growth the design notes ask for, so there is no
// manual capacity bookkeeping here (spec §9's "growable arrays" note).
// Entries are kept in an ordered slice, not a map, because the .ent
// and .ext writers must emit symbols in definition order to match
// original_source/output.c's linear table scan.
type symtab struct {
	syms  []Symbol
	index map[string]int
}

func newSymtab() *symtab {
	return &symtab{index: make(map[string]int)}
}

func (t *symtab) find(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *symtab) get(i int) *Symbol {
	return &t.syms[i]
}

// addName inserts a brand-new symbol. It is an error to redefine an
// already-complete symbol, but completing a previously
// entry/extern-declared placeholder (address still Unset) is allowed.
func (t *symtab) addName(name string, kind Kind, addr Addr, d *diagnostics, row int) (int, bool) {
	if i, ok := t.index[name]; ok {
		return t.completeOrConflict(i, kind, addr, d, row)
	}
	t.index[name] = len(t.syms)
	t.syms = append(t.syms, Symbol{Name: name, Address: addr, Kinds: kind, declRow: row})
	return len(t.syms) - 1, true
}

// addType declares a symbol's role (entry or external) without yet
// knowing its address, falling back to addName when the symbol does
// not exist yet (spec §4.3).
func (t *symtab) addType(name string, kind Kind, d *diagnostics, row int) (int, bool) {
	if i, ok := t.index[name]; ok {
		s := t.get(i)
		if conflicting(s.Kinds, kind) {
			d.errorf(row, "symbol %s cannot be both entry and external", name)
			return i, false
		}
		s.Kinds |= kind
		return i, true
	}
	return t.addName(name, kind, Unset, d, row)
}

func conflicting(have, want Kind) bool {
	both := KindEntry | KindExternal
	return have&both != 0 && want&both != 0 && have&want == 0
}

func (t *symtab) completeOrConflict(i int, kind Kind, addr Addr, d *diagnostics, row int) (int, bool) {
	s := t.get(i)

	if conflicting(s.Kinds, kind) {
		d.errorf(row, "symbol %s cannot be both entry and external", s.Name)
		return i, false
	}

	definingKind := kind&(KindCode|KindData) != 0
	alreadyDefined := s.Address.isSet()

	switch {
	case definingKind && alreadyDefined:
		d.errorf(row, "symbol %s already defined", s.Name)
		return i, false
	case definingKind && !alreadyDefined:
		s.Address = addr
		s.Kinds |= kind
		return i, true
	default:
		s.Kinds |= kind
		return i, true
	}
}

func (t *symtab) addExternalUse(i int, addr Addr) {
	s := t.get(i)
	s.ExternUses = append(s.ExternUses, addr)
}

// rebase applies the post-pass-1 address shift (spec §4.6): data
// symbols move past the final code image, code symbols move past the
// reserved low addresses, and every entry symbol must have ended up
// with a real address.
func (t *symtab) rebase(icFinal, dcFinal int, d *diagnostics) {
	for i := range t.syms {
		s := &t.syms[i]
		switch {
		case s.Kinds.has(KindData):
			s.Address += Addr(icFinal + 100)
		case s.Kinds.has(KindCode):
			s.Address += 100
		}
	}
	for i := range t.syms {
		s := &t.syms[i]
		if s.Kinds.has(KindEntry) && !s.Address.isSet() {
			d.errorf(s.declRow, "entry not defined: %s", s.Name)
		}
	}
	if icFinal+dcFinal+100 > 9999999 {
		d.errorf(0, "unit too large: final address exceeds output format width")
	}
}
