// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"io"
)

// A diagnostic is a single reported problem, tied to the source line
// that caused it. It mirrors the teacher's asmerror{line, msg} pair.
type diagnostic struct {
	row int
	msg string
}

func (d diagnostic) String() string {
	if d.row <= 0 {
		return fmt.Sprintf("unit error: %s", d.msg)
	}
	return fmt.Sprintf("line %d: %s", d.row, d.msg)
}

// diagnostics accumulates errors across a stage without aborting it,
// so one run surfaces every problem in the unit (spec §7's
// propagation policy). Warnings are kept in a separate list: spec §4.2
// names a label before `.entry`/`.extern` a warning, not an error, so
// it must not flip the unit's valid flag or suppress its output files
// (hasErrors only ever looks at errs). It also carries an optional
// verbose trace writer, mirroring the teacher's logSection/logLine/log
// helpers.
type diagnostics struct {
	errs     []diagnostic
	warnings []diagnostic
	verbose  io.Writer
}

func (d *diagnostics) errorf(row int, format string, args ...interface{}) {
	d.errs = append(d.errs, diagnostic{row, fmt.Sprintf(format, args...)})
}

func (d *diagnostics) warnf(row int, format string, args ...interface{}) {
	d.warnings = append(d.warnings, diagnostic{row, fmt.Sprintf(format, args...)})
}

func (d *diagnostics) hasErrors() bool {
	return len(d.errs) > 0
}

// messages returns every error (warnings are not included) formatted as
// "line N: message", or "unit error: message" when the error has no
// source line, in the order they were reported.
func (d *diagnostics) messages() []string {
	out := make([]string, len(d.errs))
	for i, e := range d.errs {
		out[i] = e.String()
	}
	return out
}

// warningMessages returns every warning formatted the same way as
// messages, in report order.
func (d *diagnostics) warningMessages() []string {
	out := make([]string, len(d.warnings))
	for i, w := range d.warnings {
		out[i] = w.String()
	}
	return out
}

func (d *diagnostics) trace(format string, args ...interface{}) {
	if d.verbose != nil {
		fmt.Fprintf(d.verbose, format+"\n", args...)
	}
}

func (d *diagnostics) traceSection(name string) {
	if d.verbose != nil {
		fmt.Fprintf(d.verbose, "-- %s --\n", name)
	}
}
