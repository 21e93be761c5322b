// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token defines the Token kind enumeration and the Token type
// produced by the lexer and consumed by the parser and both assembly
// passes.
package token

import "github.com/beevik/asm24/asm/fstring"

// Kind classifies a Token. Every token starts life as Unknown and is
// refined twice: once by lexical lookup against the ISA tables, once by
// context resolution over the full line (see the lexer's resolveContext). A
// token still Unknown after both passes becomes Invalid.
type Kind int

const (
	Invalid Kind = iota
	Unknown
	Comma
	Dot
	Colon
	Amper
	Hash
	Quote
	Instruction
	Register
	StringLiteral
	Immediate
	Identifier
	Label
	DirectiveData
	DirectiveString
	DirectiveEntry
	DirectiveExtern
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Unknown:
		return "Unknown"
	case Comma:
		return "Comma"
	case Dot:
		return "Dot"
	case Colon:
		return "Colon"
	case Amper:
		return "Amper"
	case Hash:
		return "Hash"
	case Quote:
		return "Quote"
	case Instruction:
		return "Instruction"
	case Register:
		return "Register"
	case StringLiteral:
		return "StringLiteral"
	case Immediate:
		return "Immediate"
	case Identifier:
		return "Identifier"
	case Label:
		return "Label"
	case DirectiveData:
		return "DirectiveData"
	case DirectiveString:
		return "DirectiveString"
	case DirectiveEntry:
		return "DirectiveEntry"
	case DirectiveExtern:
		return "DirectiveExtern"
	default:
		return "Invalid"
	}
}

// Token is (kind, slice, line_number). The slice is a non-owning view into
// the expanded-line buffer held by the owning context.
type Token struct {
	Kind Kind
	Text fstring.String
	Line int
}

// New creates an Unknown token over sv; call a classifier to refine it.
func New(sv fstring.String) Token {
	return Token{Kind: Unknown, Text: sv, Line: sv.Line}
}

func (t Token) IsOperand() bool {
	return t.Kind == Register || t.Kind == Immediate || t.Kind == Identifier
}

func (t Token) String() string { return t.Text.String() }
