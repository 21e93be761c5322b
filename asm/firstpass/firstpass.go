// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package firstpass implements the assembler's first pass: lexing and
// parsing every expanded line once to build the symbol table and advance
// the IC/DC counters, without emitting any words.
package firstpass

import (
	"github.com/beevik/asm24/asm/context"
	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/isa"
	"github.com/beevik/asm24/asm/lexer"
	"github.com/beevik/asm24/asm/parser"
	"github.com/beevik/asm24/asm/symtab"
)

// MaxLabelLen bounds a label name the same way a macro name is bounded.
const MaxLabelLen = 31

// Run lexes and parses every expanded line in order, populating ctx's
// symbol table and advancing ctx.IC/ctx.DC. It never stops at the first
// error: every line is attempted, and all problems found are appended to
// ctx.Sink.
func Run(ctx *context.Context, expandedLines []string) {
	for i, raw := range expandedLines {
		lineNum := i + 1

		toks := lexer.Lex(ctx.Filename, lineNum, raw, ctx.Sink)
		ctx.AppendTokens(toks)
		if len(toks) == 0 {
			continue
		}

		kind, pi, pd := parser.ParseLine(ctx.Filename, toks, 1, ctx.Sink)
		switch kind {
		case parser.LineInstruction:
			if pi.Label != "" {
				defineLabel(ctx, pi.Label, pi.Mnemonic.Line)
			}
			ctx.IC += pi.WordCount

		case parser.LineDirective:
			handleDirective(ctx, pd)

		default:
			// ParseLine already reported the specific error.
		}
	}
}

func handleDirective(ctx *context.Context, pd *parser.ParsedDirective) {
	switch {
	case pd.IsExtern():
		defineExtern(ctx, pd.Symbol, pd.Directive.Line)

	case pd.IsEntry():
		// Not inserted into the symbol table yet: entries are resolved
		// against whatever symbol table entry exists once the first pass
		// completes.
		ctx.DeclaredEntries = append(ctx.DeclaredEntries, pd.Symbol)

	default: // .data or .string
		if pd.Label != "" {
			defineLabel(ctx, pd.Label, pd.Directive.Line)
		}
		ctx.DC += pd.WordCount
		ctx.IC += pd.WordCount
	}
}

func defineExtern(ctx *context.Context, name string, line int) {
	if !validateLabelName(ctx, name, line) {
		return
	}
	ctx.Symbols.Define(name, 0, true, false)
	ctx.DeclaredExterns = append(ctx.DeclaredExterns, name)
}

func defineLabel(ctx *context.Context, name string, line int) {
	if !validateLabelName(ctx, name, line) {
		return
	}
	if ctx.IC > symtab.MaxLocalAddress {
		ctx.Sink.Report(errsink.AddressOutOfBounds, ctx.Filename, line,
			"label '%s' address %d exceeds the local address bound", name, ctx.IC)
		return
	}
	ctx.Symbols.Define(name, ctx.IC, false, false)
}

// validateLabelName runs every check independently so a single bad label
// can surface more than one problem, the way validate_macro does for macro
// names.
func validateLabelName(ctx *context.Context, name string, line int) bool {
	if name == "" {
		ctx.Sink.Report(errsink.EmptyLabel, ctx.Filename, line, "label name is empty")
		return false
	}

	ok := true

	if len(name) > MaxLabelLen {
		ctx.Sink.Report(errsink.LabelTooLong, ctx.Filename, line,
			"label exceeds maximum length of %d characters: '%s'", MaxLabelLen, name)
		ok = false
	}
	first := name[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		ctx.Sink.Report(errsink.LabelStartsWithDigit, ctx.Filename, line,
			"label must start with a letter: '%s'", name)
		ok = false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			ctx.Sink.Report(errsink.LabelInvalidChar, ctx.Filename, line,
				"invalid character in label: '%s'", name)
			ok = false
			break
		}
	}
	if isa.IsInstruction(name) {
		ctx.Sink.Report(errsink.LabelIsInstruction, ctx.Filename, line,
			"label conflicts with an instruction mnemonic: '%s'", name)
		ok = false
	}
	if isa.IsRegister(name) {
		ctx.Sink.Report(errsink.LabelIsRegister, ctx.Filename, line,
			"label conflicts with a register name: '%s'", name)
		ok = false
	}
	if isa.IsDirective(name) {
		ctx.Sink.Report(errsink.LabelIsDirective, ctx.Filename, line,
			"label conflicts with a directive name: '%s'", name)
		ok = false
	}
	if ctx.Symbols.Has(name) {
		ctx.Sink.Report(errsink.LabelDuplicate, ctx.Filename, line,
			"label already defined: '%s'", name)
		ok = false
	}

	return ok
}
