// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package preprocess implements the macro preprocessor: a two-state
// machine (Default/InMacro) that recognizes `mcro ... mcroend` blocks,
// validates macro names, and performs literal body substitution before any
// other pipeline stage runs.
package preprocess

import (
	"strings"

	"github.com/beevik/asm24/asm/errsink"
	"github.com/beevik/asm24/asm/fstring"
	"github.com/beevik/asm24/asm/isa"
)

// MaxLineLen is the default maximum number of content characters a source
// line may have, used when a caller doesn't override it via config.
const MaxLineLen = 80

// MaxMacroNameLen bounds a macro name the same way a label name is bounded.
const MaxMacroNameLen = 31

const (
	macroDef = "mcro"
	macroEnd = "mcroend"
)

type state int

const (
	stateDefault state = iota
	stateInMacro
)

// Macro is (name, body_lines) joined by newlines.
type Macro struct {
	Name string
	Body string
}

// Preprocessor holds the state machine's working data for one source file.
// Its lifetime is the preprocessor pass of a single file.
type Preprocessor struct {
	state       state
	macros      map[string]string
	macroHeader string
	macroBody   []string

	filename   string
	sink       *errsink.Sink
	maxLineLen int

	// Expanded is the accumulated expanded-line buffer; written to the .am
	// file only if sink is empty once Run completes.
	Expanded []string
}

// New creates a Preprocessor for filename. maxLineLen bounds source line
// length (errsink.MaxLineLength is reported past it); a value <= 0 falls
// back to MaxLineLen.
func New(filename string, sink *errsink.Sink, maxLineLen int) *Preprocessor {
	if maxLineLen <= 0 {
		maxLineLen = MaxLineLen
	}
	return &Preprocessor{
		state:      stateDefault,
		macros:     make(map[string]string),
		filename:   filename,
		sink:       sink,
		maxLineLen: maxLineLen,
	}
}

// Run processes rawLines (already split on newline, newline stripped) and
// populates p.Expanded. It never halts on error: invalid macro definitions
// are reported but the pass continues with the remaining lines, so a single
// run can accumulate every problem instead of stopping at the first one.
func (p *Preprocessor) Run(rawLines []string) {
	for i, raw := range rawLines {
		lineNum := i + 1
		if len(raw) > p.maxLineLen {
			p.sink.Report(errsink.MaxLineLength, p.filename, lineNum,
				"line exceeds maximum length of %d characters", p.maxLineLen)
		}

		line := fstring.New(lineNum, raw).Trim()
		if line.IsEmpty() || isComment(line) {
			continue
		}

		switch p.state {
		case stateDefault:
			p.stepDefault(line, lineNum)
		case stateInMacro:
			p.stepInMacro(line, lineNum)
		}
	}
}

func isComment(s fstring.String) bool { return s.StartsWith(";") }

func firstWord(s string) string {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s
	}
	return s[:i]
}

func (p *Preprocessor) stepDefault(line fstring.String, lineNum int) {
	text := line.String()
	word := firstWord(text)

	if word == macroDef {
		p.state = stateInMacro
		p.macroHeader = text
		p.macroBody = p.macroBody[:0]
		return
	}

	if body, ok := p.macros[word]; ok {
		p.expand(body)
		return
	}

	p.Expanded = append(p.Expanded, fstring.NormalizeWhitespace(text))
}

func (p *Preprocessor) stepInMacro(line fstring.String, lineNum int) {
	text := line.String()
	if firstWord(text) == macroEnd {
		p.defineMacro(lineNum, text)
		p.state = stateDefault
		return
	}
	p.macroBody = append(p.macroBody, fstring.NormalizeWhitespace(text))
}

// defineMacro validates the just-closed `mcro ... mcroend` block and, if
// every check passes, records it in p.macros. All checks run regardless of
// earlier failures so a single definition can report several problems at
// once, as validate_macro does.
func (p *Preprocessor) defineMacro(endLine int, endText string) {
	header := p.macroHeader
	defLine := endLine - len(p.macroBody) - 1

	rest := strings.TrimPrefix(header, macroDef)
	if !strings.HasPrefix(rest, " ") {
		p.sink.Report(errsink.MacroSpaceMissing, p.filename, defLine,
			"missing space between 'mcro' and macro name: %s", header)
	}
	name := strings.TrimPrefix(rest, " ")

	// Extra characters after the name on the header line.
	nameWord := firstWord(name)
	afterName := strings.TrimSpace(strings.TrimPrefix(name, nameWord))
	if afterName != "" {
		p.sink.Report(errsink.MacroHeaderExtraChars, p.filename, defLine,
			"macro definition contains extra characters: '%s'", header)
	}

	// Extra characters after "mcroend".
	endRest := strings.TrimSpace(strings.TrimPrefix(endText, macroEnd))
	if endRest != "" {
		p.sink.Report(errsink.MacroHeaderExtraChars, p.filename, endLine,
			"macro end contains extra characters: '%s'", endText)
	}

	valid := p.validateMacroName(nameWord, defLine)

	if valid {
		p.macros[nameWord] = strings.Join(p.macroBody, "\n")
	}
}

func (p *Preprocessor) validateMacroName(name string, line int) bool {
	ok := true

	if name == "" {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line, "macro name is empty")
		return false
	}
	if len(name) > MaxMacroNameLen {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
			"macro name exceeds maximum length of %d characters", MaxMacroNameLen)
		ok = false
	}
	if _, exists := p.macros[name]; exists {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
			"macro name already defined: '%s'", name)
		ok = false
	}
	if name[0] >= '0' && name[0] <= '9' {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
			"macro name cannot start with a digit: '%s'", name)
		ok = false
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
			"macro name cannot start with an uppercase letter: '%s'", name)
		ok = false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isAlnum(c) && c != '_' {
			p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
				"invalid character in macro name: '%s'", name)
			ok = false
			break
		}
	}
	if isa.IsReservedWord(name) {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
			"macro name conflicts with a reserved word: '%s'", name)
		ok = false
	}
	if strings.HasSuffix(name, ":") {
		p.sink.Report(errsink.MacroNameInvalid, p.filename, line,
			"macro name may conflict with label syntax: '%s'", name)
		ok = false
	}

	return ok
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// expand appends each line of a macro's stored body to the expanded-line
// buffer, in order, once per call site.
func (p *Preprocessor) expand(body string) {
	if body == "" {
		return
	}
	for _, line := range strings.Split(body, "\n") {
		p.Expanded = append(p.Expanded, line)
	}
}
