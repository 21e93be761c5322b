// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package context implements the per-file assembler context: the single
// struct that owns every buffer, table and counter touched while a source
// file moves through the pipeline. Exactly one Context exists per input
// file and is discarded once that file's output is written or its errors
// are reported.
package context

import (
	"github.com/beevik/asm24/asm/codegen"
	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/symtab"
	"github.com/beevik/asm24/asm/token"
)

// StartIC is the first address assigned to code.
const StartIC = 100

// EntryRef is a resolved .entry record: the symbol's name and its final
// address, copied from the symbol table once known. It is an independent
// value, not a pointer into the symbol table, so later renumbering never
// reaches back into an already-resolved entry.
type EntryRef struct {
	Name    string
	Address int
}

// ExternRef is one use-site reference to an external symbol: its name and
// the address of the word that refers to it. A symbol may appear many
// times in this list.
type ExternRef struct {
	Name    string
	Address int
}

// Context owns all per-file state. Nothing here is ever shared with
// another file's Context.
type Context struct {
	Filename   string
	IRFilename string

	ExpandedLines []string
	Tokens        []token.Token // cumulative buffer, line order preserved

	Symbols *symtab.Table

	CodeImage []codegen.Word
	DataImage []codegen.Word

	DeclaredEntries []string
	DeclaredExterns []string
	ResolvedEntries []EntryRef
	ExternRefs      []ExternRef

	IC int
	DC int

	Sink *errsink.Sink
}

// New allocates a Context for filename ("base", without extension). The
// derived IR filename appends the expanded-source suffix to the base name.
func New(filename string) *Context {
	return &Context{
		Filename:   filename,
		IRFilename: filename + ".am",
		Symbols:    symtab.New(),
		IC:         StartIC,
		Sink:       errsink.New(),
	}
}

// AppendTokens extends the cumulative token buffer in lex order; the
// second pass replays this buffer grouped by line number.
func (c *Context) AppendTokens(toks []token.Token) {
	c.Tokens = append(c.Tokens, toks...)
}

// TokensByLine groups the cumulative token buffer into per-line slices, in
// the order lines were first lexed, for the second pass's replay.
func (c *Context) TokensByLine() [][]token.Token {
	var lines [][]token.Token
	var cur []token.Token
	curLine := -1
	for _, t := range c.Tokens {
		if t.Line != curLine {
			if cur != nil {
				lines = append(lines, cur)
			}
			cur = nil
			curLine = t.Line
		}
		cur = append(cur, t)
	}
	if cur != nil {
		lines = append(lines, cur)
	}
	return lines
}

// CodeLength and DataLength are the quantities persisted to the object
// file header: code_length = IC - StartIC - DC.
func (c *Context) CodeLength() int { return c.IC - StartIC - c.DC }
func (c *Context) DataLength() int { return c.DC }
