// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit writes the assembler's four textual output artifacts: the
// expanded-source listing (.am), the object image (.ob), the entry table
// (.ent) and the external-reference table (.ext).
package emit

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/beevik/asm24/asm/context"
)

// Expanded writes the macro-expanded source to <base><ext> (".am" by
// default). Callers must only call this once the preprocessor's error sink
// is empty.
func Expanded(base, ext string, lines []string) error {
	return writeLines(base+ext, lines)
}

// Object writes the object image to <base><ext> (".ob" by default): a
// header line with code/data lengths, then one "AAAAAAA VVVVVV" line per
// word, code image first, data image second.
func Object(base, ext string, ctx *context.Context) error {
	path := base + ext
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating object file %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "     %d %d\n", ctx.CodeLength(), ctx.DataLength())
	for _, word := range ctx.CodeImage {
		fmt.Fprintf(w, "%07d %06x\n", word.Address, word.Value)
	}
	for _, word := range ctx.DataImage {
		fmt.Fprintf(w, "%07d %06x\n", word.Address, word.Value)
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "writing object file %s", path)
	}
	return nil
}

// Entries writes <base><ext> (".ent" by default): one "NAME AAAAAAA" line
// per resolved entry. If there are no entries, no file is written (nothing
// to declare).
func Entries(base, ext string, ctx *context.Context) error {
	if len(ctx.ResolvedEntries) == 0 {
		return nil
	}
	path := base + ext
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating entries file %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range ctx.ResolvedEntries {
		fmt.Fprintf(w, "%s %07d\n", e.Name, e.Address)
	}
	return errors.Wrapf(w.Flush(), "writing entries file %s", path)
}

// Externals writes <base><ext> (".ext" by default): one "NAME AAAAAAA"
// line per external reference use-site. A symbol referenced many times
// appears many times.
func Externals(base, ext string, ctx *context.Context) error {
	if len(ctx.ExternRefs) == 0 {
		return nil
	}
	path := base + ext
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating externals file %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range ctx.ExternRefs {
		fmt.Fprintf(w, "%s %07d\n", e.Name, e.Address)
	}
	return errors.Wrapf(w.Flush(), "writing externals file %s", path)
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return errors.Wrapf(w.Flush(), "writing %s", path)
}
