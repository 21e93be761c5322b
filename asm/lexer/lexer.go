// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lexer turns one expanded source line into a sequence of tokens.
// Scanning is a single left-to-right pass that splits on whitespace and the
// fixed set of single-character tokens; a second, context-resolution pass
// refines ambiguous Unknown tokens into Label, Immediate or StringLiteral
// using their neighbors.
package lexer

import (
	"strings"

	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/fstring"
	"github.com/beevik/asm24/asm/isa"
	"github.com/beevik/asm24/asm/token"
)

const specialChars = ",.:&#\""

// span records where a raw token sits in its source line, so the context
// pass can test for immediate adjacency (no intervening whitespace).
type span struct {
	start, end int // end is exclusive
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func adjacent(a, b span) bool { return a.end == b.start }

// scan splits line into raw (text, span) pairs. Single-char tokens from
// specialChars are always their own token; everything else is accumulated
// up to the next whitespace or special character.
func scan(line string) ([]string, []span) {
	var texts []string
	var spans []span

	i, n := 0, len(line)
	for i < n {
		if isSpace(line[i]) {
			i++
			continue
		}
		if strings.IndexByte(specialChars, line[i]) >= 0 {
			texts = append(texts, line[i:i+1])
			spans = append(spans, span{i, i + 1})
			i++
			continue
		}
		start := i
		for i < n && !isSpace(line[i]) && strings.IndexByte(specialChars, line[i]) < 0 {
			i++
		}
		texts = append(texts, line[start:i])
		spans = append(spans, span{start, i})
	}
	return texts, spans
}

func specialKind(text string) token.Kind {
	switch text {
	case ",":
		return token.Comma
	case ".":
		return token.Dot
	case ":":
		return token.Colon
	case "&":
		return token.Amper
	case "#":
		return token.Hash
	case "\"":
		return token.Quote
	default:
		return token.Unknown
	}
}

func isIdentStart(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentifier(text string) bool {
	if text == "" || !isIdentStart(text[0]) {
		return false
	}
	for i := 1; i < len(text); i++ {
		if !isIdentChar(text[i]) {
			return false
		}
	}
	return true
}

// classifyPrimary assigns the kind a token has purely by its own text, by
// exact-match lookup against the ISA tables.
func classifyPrimary(text string) token.Kind {
	switch {
	case isa.IsInstruction(text):
		return token.Instruction
	case isa.IsRegister(text):
		return token.Register
	case text == isa.DirData:
		return token.DirectiveData
	case text == isa.DirString:
		return token.DirectiveString
	case text == isa.DirEntry:
		return token.DirectiveEntry
	case text == isa.DirExtern:
		return token.DirectiveExtern
	case isIdentifier(text):
		return token.Identifier
	default:
		return token.Unknown
	}
}

// Lex tokenizes one already-trimmed, already-comment-stripped expanded
// line and returns its tokens in order. Lex does not touch the cumulative
// token buffer; the caller appends the result to it so the second pass can
// later replay lines by line number.
func Lex(filename string, lineNum int, line string, sink *errsink.Sink) []token.Token {
	texts, spans := scan(line)
	toks := make([]token.Token, len(texts))

	for i, text := range texts {
		kind := specialKind(text)
		if kind == token.Unknown {
			kind = classifyPrimary(text)
		}
		toks[i] = token.Token{Kind: kind, Text: fstring.New(lineNum, text), Line: lineNum}
	}

	resolveContext(toks, spans, filename, sink)

	for i := range toks {
		if toks[i].Kind == token.Unknown {
			toks[i].Kind = token.Invalid
			sink.Report(errsink.InvalidToken, filename, lineNum, "unrecognized token: '%s'", toks[i].String())
		}
	}

	return toks
}

func isPunctuation(k token.Kind) bool {
	switch k {
	case token.Comma, token.Dot, token.Colon, token.Amper, token.Hash, token.Quote:
		return true
	default:
		return false
	}
}

// resolveContext performs a single left-to-right context-resolution pass:
// labels, immediates, string literals, and the "rest of line is data" rule
// after a DirectiveData token.
func resolveContext(toks []token.Token, spans []span, filename string, sink *errsink.Sink) {
	afterData := false

	for i := range toks {
		if afterData {
			if toks[i].Kind != token.Comma {
				toks[i].Kind = token.Immediate
			}
			continue
		}

		if toks[i].Kind == token.DirectiveData {
			afterData = true
		}

		// A word-like token immediately followed by ':' becomes a Label,
		// whatever it was classified as (reserved-word/register collisions
		// are reported later by the first pass's label validation).
		if !isPunctuation(toks[i].Kind) && i+1 < len(toks) &&
			toks[i+1].Kind == token.Colon && adjacent(spans[i], spans[i+1]) {
			toks[i].Kind = token.Label
			if i+2 < len(toks) && toks[i+2].Kind == token.Dot && adjacent(spans[i+1], spans[i+2]) {
				sink.Report(errsink.LabelMissingSpace, filename, toks[i].Line,
					"missing space after label colon: '%s'", toks[i].String())
			}
		}

		switch toks[i].Kind {
		case token.Hash:
			if i+1 < len(toks) && adjacent(spans[i], spans[i+1]) {
				toks[i+1].Kind = token.Immediate
			}

		case token.Comma:
			if i > 0 && i+1 < len(toks) {
				switch toks[i-1].Kind {
				case token.Immediate:
					if toks[i+1].Kind == token.Unknown {
						toks[i+1].Kind = token.Immediate
					}
				case token.StringLiteral:
					toks[i+1].Kind = token.StringLiteral
				}
			}

		case token.Quote:
			if i+2 < len(toks) && toks[i+2].Kind == token.Quote &&
				adjacent(spans[i], spans[i+1]) && adjacent(spans[i+1], spans[i+2]) {
				toks[i+1].Kind = token.StringLiteral
			}
		}
	}
}
