// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symtab implements the assembler's symbol table: a mapping from
// symbol name to its defining Symbol record. The table owns the primary
// record per name; the entry and external-reference lists live in
// asm/context as independent EntryRef/ExternRef values with their own
// address fields, so mutating one never mutates the other.
package symtab

// Upper bound on a locally-defined symbol's address (the 21-bit signed
// range).
const MaxLocalAddress = 1<<20 - 1

// Symbol is (name, address, is_external, is_entry). An external symbol has
// Address 0 until resolved at load time, which is out of scope here. An
// entry's final Address is copied from the table once the first pass
// completes.
type Symbol struct {
	Name       string
	Address    int
	IsExternal bool
	IsEntry    bool
}

// Table owns the primary symbol records, keyed by name. Go's built-in map
// already implements the associative-mapping-with-separate-chaining
// semantics this needs, so no custom hash map is necessary here.
type Table struct {
	byName map[string]*Symbol
}

func New() *Table {
	return &Table{byName: make(map[string]*Symbol)}
}

// Define inserts a new symbol. The caller is responsible for name
// validation and duplicate checking (asm/firstpass does both before
// calling Define): the invariant that symbol names are unique across the
// table is enforced by the caller, not silently overwritten here.
func (t *Table) Define(name string, address int, external, entry bool) *Symbol {
	sym := &Symbol{Name: name, Address: address, IsExternal: external, IsEntry: entry}
	t.byName[name] = sym
	return sym
}

func (t *Table) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.byName[name]
	return sym, ok
}

func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// All returns every defined symbol. Order is unspecified (map iteration);
// callers that need a stable order should sort by name themselves.
func (t *Table) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.byName))
	for _, s := range t.byName {
		out = append(out, s)
	}
	return out
}
