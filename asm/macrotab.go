// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// macro is one macro-table entry (spec §3): a name and its recorded
// body, which may span several lines.
type macro struct {
	name string
	body []string
}

// macrotab is the growable macro table. As with symtab, Go's append
// already supplies the amortized growth the design notes ask for.
type macrotab struct {
	order []string
	defs  map[string]*macro
}

func newMacrotab() *macrotab {
	return &macrotab{defs: make(map[string]*macro)}
}

func (t *macrotab) has(name string) bool {
	_, ok := t.defs[name]
	return ok
}

func (t *macrotab) get(name string) (*macro, bool) {
	m, ok := t.defs[name]
	return m, ok
}

func (t *macrotab) begin(name string) *macro {
	m := &macro{name: name}
	t.defs[name] = m
	t.order = append(t.order, name)
	return m
}

func (t *macrotab) append(m *macro, text string) {
	m.body = append(m.body, text)
}

// validateMacroName applies spec §3/§4.1's macro-name rules: first
// char a letter or underscore, remaining alphanumeric or underscore,
// length at most 31, and not a reserved word.
func validateMacroName(name string) (reason string, ok bool) {
	switch {
	case name == "":
		return "macro name is empty", false
	case len(name) > 31:
		return "macro name too long (max 31 characters)", false
	case !isMacroNameStart(name[0]):
		return "macro name must start with a letter or underscore", false
	case isReserved(name):
		return "macro name is a reserved word", false
	}
	for i := 1; i < len(name); i++ {
		if !isMacroNameChar(name[i]) {
			return "macro name contains invalid characters", false
		}
	}
	return "", true
}
