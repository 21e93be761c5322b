// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"testing"

	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/isa"
	"github.com/beevik/asm24/asm/lexer"
)

func parseLine(t *testing.T, line string, pass int) (LineKind, *ParsedInstruction, *ParsedDirective, *errsink.Sink) {
	t.Helper()
	sink := errsink.New()
	toks := lexer.Lex("prog", 1, line, sink)
	kind, pi, pd := ParseLine("prog", toks, pass, sink)
	return kind, pi, pd, sink
}

func TestParseTwoOperandInstruction(t *testing.T) {
	kind, pi, _, sink := parseLine(t, "MAIN: mov #5, r3", 1)
	if !sink.Empty() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if kind != LineInstruction {
		t.Fatalf("expected LineInstruction, got %v", kind)
	}
	if pi.Label != "MAIN" {
		t.Fatalf("got label %q", pi.Label)
	}
	if pi.OperandCount != 2 {
		t.Fatalf("expected 2 operands, got %d", pi.OperandCount)
	}
	if pi.Rs.Mode != isa.Immediate || pi.Rt.Mode != isa.Register {
		t.Fatalf("got rs=%s rt=%s", pi.Rs.Mode, pi.Rt.Mode)
	}
	if pi.WordCount != 2 {
		t.Fatalf("expected word count 2, got %d", pi.WordCount)
	}
}

func TestParseSingleOperandGoesToRt(t *testing.T) {
	_, pi, _, sink := parseLine(t, "inc r1", 1)
	if !sink.Empty() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if pi.Rs != nil {
		t.Fatalf("expected rs to be nil for a single-operand instruction")
	}
	if pi.Rt == nil || pi.Rt.Mode != isa.Register {
		t.Fatalf("expected rt to hold the register operand")
	}
}

func TestParseZeroOperandInstruction(t *testing.T) {
	_, pi, _, sink := parseLine(t, "stop", 1)
	if !sink.Empty() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if pi.WordCount != 1 {
		t.Fatalf("expected word count 1, got %d", pi.WordCount)
	}
}

func TestValidateInstructionRejectsBadArity(t *testing.T) {
	_, _, _, sink := parseLine(t, "stop r1", 1)
	found := false
	for _, e := range sink.Errors() {
		if e.Kind == errsink.SyntaxNumOperands {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SyntaxNumOperands, got %v", sink.Errors())
	}
}

func TestValidateInstructionRejectsBadAddressingMode(t *testing.T) {
	_, _, _, sink := parseLine(t, "lea #5, r1", 1)
	found := false
	for _, e := range sink.Errors() {
		if e.Kind == errsink.SyntaxAddressingMode {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SyntaxAddressingMode, got %v", sink.Errors())
	}
}

func TestParseDataDirective(t *testing.T) {
	kind, _, pd, sink := parseLine(t, ".data 5, -3, 0", 1)
	if !sink.Empty() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if kind != LineDirective {
		t.Fatalf("expected LineDirective, got %v", kind)
	}
	want := []int{5, -3, 0}
	if len(pd.Data) != len(want) {
		t.Fatalf("got %v", pd.Data)
	}
	for i := range want {
		if pd.Data[i] != want[i] {
			t.Errorf("data[%d]: got %d want %d", i, pd.Data[i], want[i])
		}
	}
	if pd.WordCount != 3 {
		t.Fatalf("expected word count 3, got %d", pd.WordCount)
	}
}

func TestParseStringDirective(t *testing.T) {
	_, _, pd, sink := parseLine(t, `.string "AB"`, 1)
	if !sink.Empty() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if pd.Str != "AB" {
		t.Fatalf("got %q", pd.Str)
	}
	if pd.WordCount != 3 {
		t.Fatalf("expected word count 3 (2 chars + terminator), got %d", pd.WordCount)
	}
}

func TestParseExternDirective(t *testing.T) {
	_, _, pd, sink := parseLine(t, ".extern X", 1)
	if !sink.Empty() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	if !pd.IsExtern() || pd.Symbol != "X" {
		t.Fatalf("got %+v", pd)
	}
	if pd.WordCount != 0 {
		t.Fatalf("expected word count 0 for .extern, got %d", pd.WordCount)
	}
}

func TestParseDataOutOfBoundsValue(t *testing.T) {
	_, _, _, sink := parseLine(t, ".data 1048576", 1)
	found := false
	for _, e := range sink.Errors() {
		if e.Kind == errsink.ImmediateOutOfBounds {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ImmediateOutOfBounds, got %v", sink.Errors())
	}
}

func TestDataMissingCommaBetweenValuesReportsDataIllegalComma(t *testing.T) {
	_, _, _, sink := parseLine(t, ".data 5 3", 1)
	found := false
	for _, e := range sink.Errors() {
		if e.Kind == errsink.DataIllegalComma {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DataIllegalComma, got %v", sink.Errors())
	}
}

func TestDataDoubleCommaReportsMultipleCommas(t *testing.T) {
	_, _, _, sink := parseLine(t, ".data 5,,3", 1)
	found := false
	for _, e := range sink.Errors() {
		if e.Kind == errsink.MultipleCommas {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected MultipleCommas, got %v", sink.Errors())
	}
}

func TestLabelMissingColonReported(t *testing.T) {
	_, _, _, sink := parseLine(t, "MAIN mov #5, r3", 1)
	found := false
	for _, e := range sink.Errors() {
		if e.Kind == errsink.LabelMissingColon {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LabelMissingColon, got %v", sink.Errors())
	}
}
