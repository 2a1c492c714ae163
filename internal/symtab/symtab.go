/*
   SPECT symbol table and source file buffers.

   Copyright (c) 2024, SPECT Project Contributors

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

// Package symtab implements the assembler's symbol table (C3): named
// values that start unresolved and are resolved exactly once, plus a
// line-indexed source file buffer used for diagnostic messages.
package symtab

import (
	"bufio"
	"fmt"
	"os"
)

// Kind is the classification of a symbol.
type Kind int

const (
	KindUnknown Kind = iota
	KindLabel
	KindConstant
)

// Symbol is a named value in an assembly unit: a label's address or a
// constant's 32-bit immediate, created on first textual appearance and
// resolved at most once.
type Symbol struct {
	Identifier string
	Kind       Kind
	Value      uint32
	Resolved   bool
	File       *SourceFile
	Line       int
}

// SourceFile holds a file's lines for diagnostic printing, the file:line
// context SyntaxError, RedefinitionError and UndefinedError carry.
type SourceFile struct {
	Path  string
	Lines []string
}

// Load reads path into a SourceFile.
func Load(path string) (*SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spect/symtab: open %s: %w", path, err)
	}
	defer f.Close()

	sf := &SourceFile{Path: path}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		sf.Lines = append(sf.Lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("spect/symtab: read %s: %w", path, err)
	}
	return sf, nil
}

// Line returns the 1-based line n's text, or "" if out of range.
func (sf *SourceFile) Line(n int) string {
	if sf == nil || n < 1 || n > len(sf.Lines) {
		return ""
	}
	return sf.Lines[n-1]
}

// RedefinitionError is returned by Resolve when a symbol is already
// resolved.
type RedefinitionError struct {
	Identifier string
	First      *Symbol
}

func (e *RedefinitionError) Error() string {
	where := "<unknown>"
	if e.First.File != nil {
		where = fmt.Sprintf("%s:%d", e.First.File.Path, e.First.Line)
	}
	return fmt.Sprintf("spect/symtab: redefinition of %q, first defined at %s", e.Identifier, where)
}

// UndefinedError is returned when pass 2 relocation cannot find a
// symbol's value.
type UndefinedError struct {
	Identifier string
	UseFile    *SourceFile
	UseLine    int
}

func (e *UndefinedError) Error() string {
	where := "<unknown>"
	if e.UseFile != nil {
		where = fmt.Sprintf("%s:%d", e.UseFile.Path, e.UseLine)
	}
	return fmt.Sprintf("spect/symtab: undefined symbol %q, used at %s", e.Identifier, where)
}

// Table is a mapping identifier -> *Symbol, keys case-sensitive.
type Table struct {
	symbols map[string]*Symbol
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// IsDefined reports whether identifier has an entry (resolved or not).
func (t *Table) IsDefined(identifier string) bool {
	_, ok := t.symbols[identifier]
	return ok
}

// Lookup returns identifier's symbol, or nil if undefined.
func (t *Table) Lookup(identifier string) *Symbol {
	return t.symbols[identifier]
}

// AddUnresolved creates and stores an unresolved symbol, returning it.
// If one already exists (resolved or not) it is returned unchanged —
// undefined symbols are created at first use, and repeat uses before
// resolution must share the same Symbol instance.
func (t *Table) AddUnresolved(identifier string, file *SourceFile, line int) *Symbol {
	if s, ok := t.symbols[identifier]; ok {
		return s
	}
	s := &Symbol{Identifier: identifier, Kind: KindUnknown, File: file, Line: line}
	t.symbols[identifier] = s
	return s
}

// AddResolved creates (or overwrites, for an as-yet-unresolved entry) a
// symbol with a known value, already resolved.
func (t *Table) AddResolved(identifier string, kind Kind, value uint32, file *SourceFile, line int) (*Symbol, error) {
	if existing, ok := t.symbols[identifier]; ok && existing.Resolved {
		return nil, &RedefinitionError{Identifier: identifier, First: existing}
	}
	s := &Symbol{Identifier: identifier, Kind: kind, Value: value, Resolved: true, File: file, Line: line}
	t.symbols[identifier] = s
	return s, nil
}

// Resolve fills in kind/value for a previously-unresolved symbol.
// Resolving an already-resolved symbol is a RedefinitionError.
func (t *Table) Resolve(s *Symbol, kind Kind, value uint32, file *SourceFile) error {
	if s.Resolved {
		return &RedefinitionError{Identifier: s.Identifier, First: s}
	}
	s.Kind = kind
	s.Value = value
	s.Resolved = true
	s.File = file
	return nil
}

// Symbols returns every stored symbol, in no particular order — for
// dumping/diagnostics only.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(t.symbols))
	for _, s := range t.symbols {
		out = append(out, s)
	}
	return out
}
