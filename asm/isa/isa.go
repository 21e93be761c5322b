// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa holds the static, process-wide tables describing the
// instruction set: opcodes, funct codes, addressing-mode masks, the register
// file, directive keywords and the lexer's special characters. Everything
// here is read-only for the lifetime of the process.
package isa

// Mode is a bitmask of addressing modes, used both to record which mode an
// operand resolved to (as a single bit) and which modes an instruction
// permits for a given operand (as a mask).
type Mode int

const (
	Immediate Mode = 1 << iota
	Direct
	Relative
	Register
)

// Encoded value of each addressing mode in the 2-bit mode field of a word.
const (
	ModeImmediateValue = 0
	ModeDirectValue    = 1
	ModeRelativeValue  = 2
	ModeRegisterValue  = 3
)

func (m Mode) EncodedValue() int {
	switch m {
	case Immediate:
		return ModeImmediateValue
	case Direct:
		return ModeDirectValue
	case Relative:
		return ModeRelativeValue
	case Register:
		return ModeRegisterValue
	default:
		return -1
	}
}

func (m Mode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case Direct:
		return "direct"
	case Relative:
		return "relative"
	case Register:
		return "register"
	default:
		return "none"
	}
}

// Instruction describes one mnemonic's encoding and operand constraints.
type Instruction struct {
	Name     string
	Opcode   int
	Funct    int
	Arity    int
	SrcModes Mode // allowed addressing modes for the source operand
	DstModes Mode // allowed addressing modes for the destination operand
}

// Set is the full instruction table. Opcode 2 is deliberately shared by
// "add" and "sub" (and opcode 5 by clr/not/inc/dec, opcode 9 by
// jmp/bne/jsr): funct disambiguates them.
var Set = []Instruction{
	{"mov", 0, 0, 2, Immediate | Direct | Register, Direct | Register},
	{"cmp", 1, 0, 2, Immediate | Direct | Register, Immediate | Direct | Register},
	{"add", 2, 1, 2, Immediate | Direct | Register, Direct | Register},
	{"sub", 2, 2, 2, Immediate | Direct | Register, Direct | Register},
	{"lea", 4, 0, 2, Direct, Direct | Register},
	{"clr", 5, 1, 1, 0, Direct | Register},
	{"not", 5, 2, 1, 0, Direct | Register},
	{"inc", 5, 3, 1, 0, Direct | Register},
	{"dec", 5, 4, 1, 0, Direct | Register},
	{"jmp", 9, 1, 1, 0, Direct | Relative},
	{"bne", 9, 2, 1, 0, Direct | Relative},
	{"jsr", 9, 3, 1, 0, Direct | Relative},
	{"red", 12, 0, 1, 0, Direct | Register},
	{"prn", 13, 0, 1, 0, Immediate | Direct | Register},
	{"rts", 14, 0, 0, 0, 0},
	{"stop", 15, 0, 0, 0, 0},
}

// Registers are r0..r7, index == encoded register number.
var Registers = []string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7"}

// Directive names recognized after a leading dot.
const (
	DirData   = "data"
	DirString = "string"
	DirEntry  = "entry"
	DirExtern = "extern"
)

var Directives = []string{DirData, DirString, DirEntry, DirExtern}

// SpecialChars are the single-character tokens the lexer emits standalone.
var SpecialChars = []byte{',', '.', ':', '&', '#', '"'}

func FindInstruction(name string) (Instruction, bool) {
	for _, ins := range Set {
		if ins.Name == name {
			return ins, true
		}
	}
	return Instruction{}, false
}

func IsInstruction(name string) bool {
	_, ok := FindInstruction(name)
	return ok
}

func FindRegister(name string) (int, bool) {
	for i, r := range Registers {
		if r == name {
			return i, true
		}
	}
	return 0, false
}

func IsRegister(name string) bool {
	_, ok := FindRegister(name)
	return ok
}

// IsDirective reports whether name (without the leading dot) is one of the
// four recognized directives.
func IsDirective(name string) bool {
	for _, d := range Directives {
		if d == name {
			return true
		}
	}
	return false
}

func IsSpecialChar(c byte) bool {
	for _, s := range SpecialChars {
		if s == c {
			return true
		}
	}
	return false
}

// Reserved words that may never be used as a macro or label name.
func IsReservedWord(name string) bool {
	return IsInstruction(name) || IsRegister(name) || IsDirective(name)
}
