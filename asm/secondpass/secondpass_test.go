// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package secondpass

import (
	"testing"

	"github.com/beevik/asm24/asm/codegen"
	"github.com/beevik/asm24/asm/context"
	"github.com/beevik/asm24/asm/firstpass"
)

func assemble(t *testing.T, lines []string) *context.Context {
	t.Helper()
	ctx := context.New("prog")
	firstpass.Run(ctx, lines)
	if !ctx.Sink.Empty() {
		t.Fatalf("first pass errors: %v", ctx.Sink.Errors())
	}
	Run(ctx)
	if !ctx.Sink.Empty() {
		t.Fatalf("second pass errors: %v", ctx.Sink.Errors())
	}
	return ctx
}

// mov with an immediate source and a register destination, then stop.
func TestMovImmediateThenStop(t *testing.T) {
	ctx := assemble(t, []string{"MAIN: mov #5, r3", "stop"})

	if len(ctx.CodeImage) != 3 {
		t.Fatalf("expected 3 code words, got %d", len(ctx.CodeImage))
	}
	if ctx.CodeLength() != 3 || ctx.DataLength() != 0 {
		t.Fatalf("expected code_length=3 data_length=0, got %d/%d", ctx.CodeLength(), ctx.DataLength())
	}

	op := ctx.CodeImage[0].Value
	if (op>>18)&0x3F != 0 {
		t.Fatalf("expected opcode 0 (mov), got %d", (op>>18)&0x3F)
	}
	if (op>>16)&0x3 != 0 {
		t.Fatalf("expected src-mode 0 (immediate), got %d", (op>>16)&0x3)
	}
	if (op>>11)&0x3 != 3 {
		t.Fatalf("expected dst-mode 3 (register), got %d", (op>>11)&0x3)
	}
	if (op>>8)&0x7 != 3 {
		t.Fatalf("expected dst-reg 3, got %d", (op>>8)&0x7)
	}
	if op&0x7 != codegen.AREAbsolute {
		t.Fatalf("expected ARE absolute, got %d", op&0x7)
	}

	imm := ctx.CodeImage[1].Value
	if imm != (5<<3)|codegen.AREAbsolute {
		t.Fatalf("expected immediate word %#x, got %#x", (5<<3)|codegen.AREAbsolute, imm)
	}

	stopWord := ctx.CodeImage[2].Value
	if (stopWord>>18)&0x3F != 15 {
		t.Fatalf("expected opcode 15 (stop), got %d", (stopWord>>18)&0x3F)
	}
}

// .data with a mix of positive, negative, and zero values.
func TestDataDirectiveTwosComplement(t *testing.T) {
	ctx := assemble(t, []string{".data 5, -3, 0"})

	if ctx.CodeLength() != 0 || ctx.DataLength() != 3 {
		t.Fatalf("expected code_length=0 data_length=3, got %d/%d", ctx.CodeLength(), ctx.DataLength())
	}
	want := []uint32{0x000005, 0xFFFFFD, 0x000000}
	if len(ctx.DataImage) != len(want) {
		t.Fatalf("expected %d data words, got %d", len(want), len(ctx.DataImage))
	}
	for i, w := range want {
		if ctx.DataImage[i].Value != w {
			t.Fatalf("word %d: expected %#x, got %#x", i, w, ctx.DataImage[i].Value)
		}
	}
}

// .string always appends a trailing zero word after its characters.
func TestStringDirectiveEmitsTrailingZero(t *testing.T) {
	ctx := assemble(t, []string{`.string "AB"`})

	want := []uint32{0x000041, 0x000042, 0x000000}
	if len(ctx.DataImage) != len(want) {
		t.Fatalf("expected %d data words, got %d", len(want), len(ctx.DataImage))
	}
	for i, w := range want {
		if ctx.DataImage[i].Value != w {
			t.Fatalf("word %d: expected %#x, got %#x", i, w, ctx.DataImage[i].Value)
		}
	}
}

// Relative addressing to an external symbol is legal: it must produce an
// .ext use-site record and an absolute-tagged offset word, not a rejected
// addressing mode.
func TestExternRelativeReferenceResolves(t *testing.T) {
	ctx := assemble(t, []string{".extern X", "jmp &X"})

	if len(ctx.ExternRefs) != 1 {
		t.Fatalf("expected 1 extern reference, got %d", len(ctx.ExternRefs))
	}
	ref := ctx.ExternRefs[0]
	if ref.Name != "X" || ref.Address != 101 {
		t.Fatalf("expected X at address 101, got %+v", ref)
	}

	if len(ctx.CodeImage) != 2 {
		t.Fatalf("expected 2 code words, got %d", len(ctx.CodeImage))
	}
	offsetWord := ctx.CodeImage[1]
	if offsetWord.Address != 101 {
		t.Fatalf("expected offset word at address 101, got %d", offsetWord.Address)
	}
	if offsetWord.Value&0x7 != codegen.AREAbsolute {
		t.Fatalf("expected ARE absolute on the offset word, got %d", offsetWord.Value&0x7)
	}
	// (0 - 101 + 1) = -100, two's complement in the 21-bit field (bits 3..23).
	wantRaw := int32(-100 << 3)
	wantValue := uint32(wantRaw) & codegen.ImmMask
	if offsetWord.Value&codegen.ImmMask != wantValue {
		t.Fatalf("expected offset value %#x, got %#x", wantValue, offsetWord.Value&codegen.ImmMask)
	}
}

// Every emitted code word's A/R/E is one of {1,2,4}, never zero, and the
// top byte of every emitted word is always clear.
func TestWordInvariants(t *testing.T) {
	ctx := assemble(t, []string{
		"MAIN: mov r1, r2",
		".extern X",
		"cmp MAIN, X",
		".entry MAIN",
		"stop",
	})

	for _, w := range append(append([]codegen.Word{}, ctx.CodeImage...), ctx.DataImage...) {
		if w.Value&0xFF000000 != 0 {
			t.Fatalf("word %+v has bits set above bit 23", w)
		}
	}
	for _, w := range ctx.CodeImage {
		are := w.Value & 0x7
		if are != codegen.AREAbsolute && are != codegen.ARERelocatable && are != codegen.AREExternal {
			t.Fatalf("word %+v has invalid ARE %d", w, are)
		}
	}
}
