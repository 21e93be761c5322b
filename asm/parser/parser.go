// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser turns one line's token list into a ParsedInstruction or
// ParsedDirective, deriving each operand's addressing mode and the number
// of machine words the statement will occupy.
package parser

import (
	"strconv"
	"strings"

	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/isa"
	"github.com/beevik/asm24/asm/token"
)

// LineKind classifies what ParseLine recognized the statement as.
type LineKind int

const (
	LineInvalid LineKind = iota
	LineInstruction
	LineDirective
)

// Operand is one resolved instruction operand: its source token and the
// addressing mode it was classified under.
type Operand struct {
	Token token.Token
	Mode  isa.Mode
}

// ParsedInstruction is the parser's output for an instruction statement.
type ParsedInstruction struct {
	Label        string
	Mnemonic     token.Token
	Rs           *Operand // source operand, nil if none
	Rt           *Operand // destination operand, nil if none
	OperandCount int
	WordCount    int
	SourceTokens []token.Token
}

// ParsedDirective is the parser's output for a directive statement.
type ParsedDirective struct {
	Label        string
	Directive    token.Token // DirectiveData/String/Entry/Extern
	Data         []int       // .data values
	Str          string      // .string payload, unquoted
	Symbol       string      // .entry/.extern operand name
	WordCount    int
	SourceTokens []token.Token
}

// ParseLine classifies and parses one lexed line. pass is 1 or 2; pass 1
// performs full validation (comma counts, addressing-mode legality, range
// checks), pass 2 skips revalidation and only re-derives the same shape.
func ParseLine(filename string, toks []token.Token, pass int, sink *errsink.Sink) (LineKind, *ParsedInstruction, *ParsedDirective) {
	if len(toks) == 0 {
		return LineInvalid, nil, nil
	}

	idx := 0
	label := ""

	if toks[0].Kind == token.Label {
		label = toks[0].String()
		idx = 2
	} else if toks[0].Kind == token.Identifier {
		sink.Report(errsink.LabelMissingColon, filename, toks[0].Line,
			"label missing colon: '%s'", toks[0].String())
		return LineInvalid, nil, nil
	}

	if idx >= len(toks) {
		sink.Report(errsink.InvalidStatement, filename, toks[0].Line, "empty statement after label")
		return LineInvalid, nil, nil
	}

	switch {
	case toks[idx].Kind == token.Instruction:
		pi := parseInstruction(filename, label, toks, idx, pass, sink)
		if pi == nil {
			return LineInvalid, nil, nil
		}
		return LineInstruction, pi, nil

	case toks[idx].Kind == token.Dot:
		if idx+1 >= len(toks) || !isDirectiveKind(toks[idx+1].Kind) {
			sink.Report(errsink.InvalidStatement, filename, toks[idx].Line, "expected directive name after '.'")
			return LineInvalid, nil, nil
		}
		pd := parseDirective(filename, label, toks, idx+1, pass, sink)
		if pd == nil {
			return LineInvalid, nil, nil
		}
		return LineDirective, nil, pd

	case isDirectiveKind(toks[idx].Kind):
		sink.Report(errsink.DirectiveDotMissing, filename, toks[idx].Line,
			"directive missing leading '.': '%s'", toks[idx].String())
		pd := parseDirective(filename, label, toks, idx, pass, sink)
		if pd == nil {
			return LineInvalid, nil, nil
		}
		return LineDirective, nil, pd

	default:
		sink.Report(errsink.InvalidStatement, filename, toks[idx].Line, "statement is neither an instruction nor a directive")
		return LineInvalid, nil, nil
	}
}

func isDirectiveKind(k token.Kind) bool {
	switch k {
	case token.DirectiveData, token.DirectiveString, token.DirectiveEntry, token.DirectiveExtern:
		return true
	default:
		return false
	}
}

// IsEntry and IsExtern classify an already-parsed directive.
func (pd *ParsedDirective) IsEntry() bool  { return pd.Directive.Kind == token.DirectiveEntry }
func (pd *ParsedDirective) IsExtern() bool { return pd.Directive.Kind == token.DirectiveExtern }

func operandMode(prevAmper bool, t token.Token) (isa.Mode, bool) {
	switch t.Kind {
	case token.Register:
		return isa.Register, true
	case token.Immediate:
		return isa.Immediate, true
	case token.Identifier:
		if prevAmper {
			return isa.Relative, true
		}
		return isa.Direct, true
	default:
		return 0, false
	}
}

func parseInstruction(filename, label string, toks []token.Token, mnemonicIdx int, pass int, sink *errsink.Sink) *ParsedInstruction {
	mnemonic := toks[mnemonicIdx]
	ins, _ := isa.FindInstruction(mnemonic.String())

	var operands []Operand
	commaCount := 0
	prevAmper := false

	for i := mnemonicIdx + 1; i < len(toks); i++ {
		t := toks[i]
		switch t.Kind {
		case token.Comma:
			commaCount++
			continue
		case token.Amper:
			prevAmper = true
			continue
		}
		mode, ok := operandMode(prevAmper, t)
		prevAmper = false
		if !ok {
			continue
		}
		operands = append(operands, Operand{Token: t, Mode: mode})
	}

	operandCount := len(operands)

	if pass == 1 {
		if operandCount == 2 && commaCount != 1 {
			sink.Report(errsink.InstructionIllegalCommaCount, filename, mnemonic.Line,
				"expected exactly one comma between two operands")
		} else if operandCount != 2 && commaCount != 0 {
			sink.Report(errsink.InstructionIllegalComma, filename, mnemonic.Line,
				"unexpected comma in instruction operands")
		}
	}

	pi := &ParsedInstruction{
		Label:        label,
		Mnemonic:     mnemonic,
		OperandCount: operandCount,
		SourceTokens: toks,
	}

	switch operandCount {
	case 2:
		pi.Rs = &operands[0]
		pi.Rt = &operands[1]
	case 1:
		pi.Rt = &operands[0]
	}

	pi.WordCount = 1
	if pi.Rs != nil && (pi.Rs.Mode == isa.Immediate || pi.Rs.Mode == isa.Direct || pi.Rs.Mode == isa.Relative) {
		pi.WordCount++
	}
	if pi.Rt != nil && (pi.Rt.Mode == isa.Immediate || pi.Rt.Mode == isa.Direct || pi.Rt.Mode == isa.Relative) {
		pi.WordCount++
	}

	if pass == 1 {
		validateInstruction(filename, ins, pi, sink)
	}

	return pi
}

func validateInstruction(filename string, ins isa.Instruction, pi *ParsedInstruction, sink *errsink.Sink) {
	if pi.OperandCount != ins.Arity {
		sink.Report(errsink.SyntaxNumOperands, filename, pi.Mnemonic.Line,
			"'%s' expects %d operand(s), got %d", pi.Mnemonic.String(), ins.Arity, pi.OperandCount)
		return
	}
	if pi.Rs != nil && ins.SrcModes&pi.Rs.Mode == 0 {
		sink.Report(errsink.SyntaxAddressingMode, filename, pi.Mnemonic.Line,
			"'%s' does not allow %s addressing for its source operand", pi.Mnemonic.String(), pi.Rs.Mode)
	}
	if pi.Rt != nil && ins.DstModes&pi.Rt.Mode == 0 {
		sink.Report(errsink.SyntaxAddressingMode, filename, pi.Mnemonic.Line,
			"'%s' does not allow %s addressing for its destination operand", pi.Mnemonic.String(), pi.Rt.Mode)
	}
}

func parseDirective(filename, label string, toks []token.Token, dirIdx int, pass int, sink *errsink.Sink) *ParsedDirective {
	dirTok := toks[dirIdx]
	pd := &ParsedDirective{Label: label, Directive: dirTok, SourceTokens: toks}

	rest := toks[dirIdx+1:]

	switch dirTok.Kind {
	case token.DirectiveData:
		parseDataList(filename, rest, pd, pass, sink)
	case token.DirectiveString:
		parseStringLiteral(filename, rest, pd, sink)
	case token.DirectiveEntry, token.DirectiveExtern:
		parseSymbolOperand(filename, rest, pd, sink)
	}

	return pd
}

func parseDataList(filename string, rest []token.Token, pd *ParsedDirective, pass int, sink *errsink.Sink) {
	expectValue := true
	for i, t := range rest {
		if t.Kind == token.Comma {
			if i == 0 {
				sink.Report(errsink.DataIllegalComma, filename, t.Line, "unexpected leading comma in .data list")
			} else if expectValue {
				sink.Report(errsink.MultipleCommas, filename, t.Line, "multiple commas in .data list")
			}
			expectValue = true
			continue
		}
		if !expectValue {
			sink.Report(errsink.DataIllegalComma, filename, t.Line, "missing comma between .data values")
		}
		expectValue = false

		v, err := strconv.Atoi(strings.TrimSpace(t.String()))
		if err != nil {
			sink.Report(errsink.InvalidData, filename, t.Line, "'%s' is not a valid integer", t.String())
			continue
		}
		if pass == 1 && (v < -(1<<20) || v > (1<<20-1)) {
			sink.Report(errsink.ImmediateOutOfBounds, filename, t.Line,
				"value %d is out of the 21-bit signed range", v)
			continue
		}
		pd.Data = append(pd.Data, v)
	}
	if expectValue && len(rest) > 0 {
		sink.Report(errsink.DataIllegalComma, filename, rest[len(rest)-1].Line, "trailing comma in .data list")
	}
	pd.WordCount = len(pd.Data)
}

func parseStringLiteral(filename string, rest []token.Token, pd *ParsedDirective, sink *errsink.Sink) {
	if len(rest) < 2 || rest[0].Kind != token.Quote || rest[len(rest)-1].Kind != token.Quote {
		sink.Report(errsink.StringMissingQuote, filename, pd.Directive.Line, ".string operand must be quoted")
		return
	}

	middle := rest[1 : len(rest)-1]
	var sb strings.Builder
	for i, t := range middle {
		if t.Kind == token.Comma {
			sink.Report(errsink.StringIllegalComma, filename, t.Line, "unexpected comma inside string literal")
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	pd.Str = sb.String()
	pd.WordCount = len(pd.Str) + 1
}

func parseSymbolOperand(filename string, rest []token.Token, pd *ParsedDirective, sink *errsink.Sink) {
	if len(rest) == 0 {
		sink.Report(errsink.InvalidStatement, filename, pd.Directive.Line, "missing operand for '%s'", pd.Directive.String())
		return
	}
	pd.Symbol = rest[0].String()
	pd.WordCount = 0
}
