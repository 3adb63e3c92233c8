// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "testing"

func TestMacrotabBeginAppendGet(t *testing.T) {
	mt := newMacrotab()
	m := mt.begin("K")
	mt.append(m, "  mov r1, r2")
	mt.append(m, "  add r1, r2")

	got, ok := mt.get("K")
	if !ok {
		t.Fatal("K should be defined")
	}
	if len(got.body) != 2 || got.body[0] != "  mov r1, r2" {
		t.Errorf("unexpected body: %v", got.body)
	}
	if !mt.has("K") {
		t.Error("has(K) should be true")
	}
}

func TestValidateMacroName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"K", true},
		{"macro_1", true},
		{"", false},
		{"1bad", false},
		{"mov", false}, // reserved
		{string(make([]byte, 32)), false},
	}
	for _, c := range cases {
		_, ok := validateMacroName(c.name)
		if ok != c.ok {
			t.Errorf("validateMacroName(%q) ok = %v, want %v", c.name, ok, c.ok)
		}
	}
}
