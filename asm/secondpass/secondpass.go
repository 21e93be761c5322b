// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package secondpass replays the cumulative token buffer built during the
// first pass, re-parsing each line without revalidation and emitting the
// 24-bit words that make up the code and data images, resolving symbolic
// operands against the symbol table.
package secondpass

import (
	"strconv"
	"strings"

	"github.com/beevik/asm24/asm/codegen"
	"github.com/beevik/asm24/asm/context"
	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/isa"
	"github.com/beevik/asm24/asm/parser"
	"github.com/beevik/asm24/asm/token"
)

// Run walks ctx's cumulative token buffer line by line, emitting code and
// data words into ctx.CodeImage/ctx.DataImage, and resolving the entry and
// extern lists. Callers must only invoke Run when ctx.Sink is empty after
// the first pass: a non-empty sink means the pipeline must abort before
// this stage runs at all.
func Run(ctx *context.Context) {
	addr := context.StartIC

	for _, line := range ctx.TokensByLine() {
		if len(line) == 0 {
			continue
		}

		kind, pi, pd := parser.ParseLine(ctx.Filename, line, 2, ctx.Sink)
		switch kind {
		case parser.LineInstruction:
			addr = emitInstruction(ctx, pi, addr)
		case parser.LineDirective:
			addr = emitDirective(ctx, pd, addr)
		}
	}

	resolveEntries(ctx)
}

func regIndex(t token.Token) int {
	idx, _ := isa.FindRegister(t.String())
	return idx
}

func emitInstruction(ctx *context.Context, pi *parser.ParsedInstruction, addr int) int {
	ins, _ := isa.FindInstruction(pi.Mnemonic.String())

	w := codegen.Word{Address: addr}
	w.SetOpcode(ins.Opcode)
	w.SetFunct(ins.Funct)
	w.SetARE(codegen.AREAbsolute)

	if pi.Rs != nil {
		w.SetSrcMode(pi.Rs.Mode.EncodedValue())
		if pi.Rs.Mode == isa.Register {
			w.SetSrcReg(regIndex(pi.Rs.Token))
		}
	}
	if pi.Rt != nil {
		w.SetDstMode(pi.Rt.Mode.EncodedValue())
		if pi.Rt.Mode == isa.Register {
			w.SetDstReg(regIndex(pi.Rt.Token))
		}
	}

	ctx.CodeImage = append(ctx.CodeImage, w)
	next := addr + 1

	if pi.Rs != nil && pi.Rs.Mode != isa.Register {
		next = emitOperandWord(ctx, *pi.Rs, pi.Mnemonic.Line, next)
	}
	if pi.Rt != nil && pi.Rt.Mode != isa.Register {
		next = emitOperandWord(ctx, *pi.Rt, pi.Mnemonic.Line, next)
	}

	return next
}

// emitOperandWord emits the extra word for one Immediate/Direct/Relative
// operand at address addr, appends it to the code image, and returns the
// next free address.
func emitOperandWord(ctx *context.Context, op parser.Operand, line int, addr int) int {
	ew := codegen.Word{Address: addr}

	switch op.Mode {
	case isa.Immediate:
		v, err := strconv.Atoi(strings.TrimSpace(op.Token.String()))
		if err != nil {
			ctx.Sink.Report(errsink.InvalidImmediate, ctx.Filename, line, "'%s' is not a valid immediate value", op.Token.String())
			break
		}
		if v < codegen.Int21Min || v > codegen.Int21Max {
			ctx.Sink.Report(errsink.ImmediateOutOfBounds, ctx.Filename, line, "immediate value %d is out of range", v)
			break
		}
		ew.SetFromSignedValue(v)
		ew.SetARE(codegen.AREAbsolute)

	case isa.Direct:
		name := op.Token.String()
		sym, ok := ctx.Symbols.Lookup(name)
		if !ok {
			ctx.Sink.Report(errsink.SymbolNotFound, ctx.Filename, line, "undefined symbol '%s'", name)
			break
		}
		if sym.IsExternal {
			ew.SetFromSignedValue(0)
			ew.SetARE(codegen.AREExternal)
			ctx.ExternRefs = append(ctx.ExternRefs, context.ExternRef{Name: name, Address: addr})
			break
		}
		if sym.Address > codegen.UInt24Max {
			ctx.Sink.Report(errsink.AddressOutOfBounds, ctx.Filename, line, "address of '%s' exceeds 24-bit range", name)
		}
		ew.SetFromSignedValue(sym.Address)
		ew.SetARE(codegen.ARERelocatable)

	case isa.Relative:
		name := op.Token.String()
		sym, ok := ctx.Symbols.Lookup(name)
		if !ok {
			ctx.Sink.Report(errsink.SymbolNotFound, ctx.Filename, line, "undefined symbol '%s'", name)
			break
		}
		if sym.IsExternal {
			ctx.ExternRefs = append(ctx.ExternRefs, context.ExternRef{Name: name, Address: addr})
		}
		offset := sym.Address - addr + 1
		if offset < codegen.Int21Min || offset > codegen.Int21Max {
			ctx.Sink.Report(errsink.AddressOutOfBounds, ctx.Filename, line, "relative offset to '%s' is out of range", name)
			break
		}
		ew.SetFromSignedValue(offset)
		ew.SetARE(codegen.AREAbsolute)
	}

	ctx.CodeImage = append(ctx.CodeImage, ew)
	return addr + 1
}

func emitDirective(ctx *context.Context, pd *parser.ParsedDirective, addr int) int {
	switch pd.Directive.Kind {
	case token.DirectiveData:
		for _, v := range pd.Data {
			w := codegen.Word{Address: addr}
			w.SetDataValue(v)
			ctx.DataImage = append(ctx.DataImage, w)
			addr++
		}

	case token.DirectiveString:
		for i := 0; i < len(pd.Str); i++ {
			w := codegen.Word{Address: addr}
			w.SetDataValue(int(pd.Str[i]))
			ctx.DataImage = append(ctx.DataImage, w)
			addr++
		}
		w := codegen.Word{Address: addr}
		w.SetDataValue(0)
		ctx.DataImage = append(ctx.DataImage, w)
		addr++
	}

	return addr
}

// resolveEntries copies each declared entry's final address out of the
// symbol table, independent of where (or whether) it was used as an
// operand, so .ent output covers every declaration.
func resolveEntries(ctx *context.Context) {
	for _, name := range ctx.DeclaredEntries {
		sym, ok := ctx.Symbols.Lookup(name)
		if !ok {
			ctx.Sink.Report(errsink.SymbolNotFound, ctx.Filename, 0, "entry '%s' has no definition in this file", name)
			continue
		}
		ctx.ResolvedEntries = append(ctx.ResolvedEntries, context.EntryRef{Name: name, Address: sym.Address})
	}
}
