/*
   SPECT two-pass assembler (C4).

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

// Package assemble turns SPECT assembly source into a stream of
// encoded instruction words placed at their INSTR_MEM addresses. It
// is a single left-to-right pass over the source text that creates
// unresolved symbols on first reference (labels and `.eq` constants
// alike), followed by a relocation pass once every file has been
// read, mirroring original_source/src/spect_lib/Compiler.cpp's
// algorithm. The scanning style itself — manual byte/rune walking
// instead of regexp — follows the teacher's own assembler.
package assemble

import (
	"path/filepath"
	"strings"

	"github.com/tropicsquare/spect/internal/encoding"
	"github.com/tropicsquare/spect/internal/isa"
	"github.com/tropicsquare/spect/internal/symtab"
)

// INSTR_MEM's address range, ported from spec.md §3. internal/cpu
// keeps its own unexported copy of these bounds; duplicating them
// here is cheaper than threading a dependency from the assembler onto
// the CPU model package for two constants.
const (
	instrMemBase = 0x8000
	instrMemSize = 0x3000
)

// Options configures one assembly run.
type Options struct {
	FirstAddress uint16
	Parity       encoding.Parity
	Catalog      *isa.Catalog
	// Defines lists identifiers pre-defined as if by `.define`,
	// typically buildcfg.Config.Symbols().
	Defines []string
}

// Word is one encoded instruction word at its assigned address.
type Word struct {
	Addr  uint16
	Value uint32
}

// Result is a completed assembly: the encoded program and the final
// symbol table, for disassembly/diagnostics.
type Result struct {
	Words    []Word
	Warnings []string
	Symbols  *symtab.Table
}

// fieldKind identifies which Fields member a relocation patches.
type fieldKind int

const (
	fieldImmediate fieldKind = iota
	fieldAddr
	fieldNewPC
)

// pending is one not-yet-finally-encoded instruction: its address,
// its decoded Fields (immediate/addr/new_pc possibly still a
// placeholder), and — if an operand referenced a symbol — the
// relocation to apply in pass 2.
type pending struct {
	addr   uint16
	fields encoding.Fields
	reloc  *reloc
}

type reloc struct {
	symbol *symtab.Symbol
	kind   fieldKind
	width  int // field mask: 0xFFF (immediate) or 0xFFFF (addr/new_pc)
	file   *symtab.SourceFile
	line   int
}

type assembler struct {
	opts    Options
	symbols *symtab.Table

	condStack []bool
	defines   map[string]bool

	curAddr  uint16
	words    []pending
	warnings []string
}

// Assemble reads path (and any files it `.include`s) and produces the
// encoded instruction stream. The catalog and parity mode determine
// how mnemonics resolve and how words are packed; FirstAddress must
// lie inside INSTR_MEM.
func Assemble(path string, opts Options) (*Result, error) {
	if opts.FirstAddress < instrMemBase || uint32(opts.FirstAddress) >= instrMemBase+instrMemSize {
		return nil, &NotEnoughSpaceError{FirstAddr: opts.FirstAddress, At: opts.FirstAddress}
	}

	a := &assembler{
		opts:    opts,
		symbols: symtab.New(),
		defines: make(map[string]bool),
		curAddr: opts.FirstAddress,
	}
	for _, d := range opts.Defines {
		a.defines[d] = true
	}

	if err := a.processFile(path); err != nil {
		return nil, err
	}

	return a.finish()
}

// processFile loads path and walks its lines in order, suspending for
// `.include` directives before resuming.
func (a *assembler) processFile(path string) error {
	sf, err := symtab.Load(path)
	if err != nil {
		return &IoError{Path: path, Err: err}
	}

	for i, raw := range sf.Lines {
		lineNr := i + 1
		line := strings.TrimSpace(stripComment(raw))

		handled, err := a.parseCondCompile(sf, line, lineNr)
		if err != nil {
			return err
		}
		if handled {
			continue
		}
		if !a.shouldParse() {
			continue
		}

		label, rest, hasLabel := splitLabel(line)
		if hasLabel {
			if err := a.defineLabel(label, sf, lineNr); err != nil {
				return err
			}
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}

		if consumed, err := a.parseConstant(rest, sf, lineNr); err != nil {
			return err
		} else if consumed {
			continue
		}

		if consumed, err := a.parseIncludeLine(rest, path, sf, lineNr); err != nil {
			return err
		} else if consumed {
			continue
		}

		if err := a.parseInstructionLine(rest, sf, lineNr); err != nil {
			return err
		}
	}
	return nil
}

// shouldParse reports whether the conditional-compile stack currently
// permits processing: only when no open `ifdef` branch is false.
func (a *assembler) shouldParse() bool {
	for _, open := range a.condStack {
		if !open {
			return false
		}
	}
	return true
}

// parseCondCompile recognizes `.define`/`.ifdef`/`.else`/`.endif`.
// `.ifdef`/`.else`/`.endif` are processed even while skipping, so
// nesting stays balanced; `.define` only takes effect while parsing
// is enabled.
func (a *assembler) parseCondCompile(sf *symtab.SourceFile, line string, lineNr int) (bool, error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case ".define":
		if len(fields) != 2 || !isIdent(fields[1]) {
			return true, &SyntaxError{File: sf, Line: lineNr, Text: line, Msg: "malformed .define"}
		}
		if a.shouldParse() {
			a.defines[fields[1]] = true
		}
		return true, nil

	case ".ifdef":
		if len(fields) != 2 || !isIdent(fields[1]) {
			return true, &SyntaxError{File: sf, Line: lineNr, Text: line, Msg: "malformed .ifdef"}
		}
		a.condStack = append(a.condStack, a.defines[fields[1]])
		return true, nil

	case ".else":
		if len(a.condStack) == 0 {
			return true, &SyntaxError{File: sf, Line: lineNr, Text: line, Msg: "'.else' without matching '.ifdef'"}
		}
		top := len(a.condStack) - 1
		a.condStack[top] = !a.condStack[top]
		return true, nil

	case ".endif":
		if len(a.condStack) == 0 {
			return true, &SyntaxError{File: sf, Line: lineNr, Text: line, Msg: "'.endif' without matching '.ifdef'"}
		}
		a.condStack = a.condStack[:len(a.condStack)-1]
		return true, nil
	}
	return false, nil
}

// defineLabel resolves ident to the current address. A label that
// names an already-resolved symbol is a redefinition.
func (a *assembler) defineLabel(ident string, sf *symtab.SourceFile, lineNr int) error {
	if s := a.symbols.Lookup(ident); s != nil {
		if s.Resolved {
			return &symtab.RedefinitionError{Identifier: ident, First: s}
		}
		return a.symbols.Resolve(s, symtab.KindLabel, uint32(a.curAddr), sf)
	}
	_, err := a.symbols.AddResolved(ident, symtab.KindLabel, uint32(a.curAddr), sf, lineNr)
	return err
}

// parseConstant recognizes `IDENT .eq VALUE`.
func (a *assembler) parseConstant(line string, sf *symtab.SourceFile, lineNr int) (bool, error) {
	fields := splitFields(line)
	if len(fields) != 3 || fields[1] != ".eq" {
		return false, nil
	}
	ident, valTok := fields[0], fields[2]
	if !isIdent(ident) {
		return false, nil
	}

	val, _, err := a.parseLiteral(valTok, sf, lineNr, 0xFFFFFFFF)
	if err != nil {
		return true, err
	}

	if s := a.symbols.Lookup(ident); s != nil {
		if s.Resolved {
			return true, &symtab.RedefinitionError{Identifier: ident, First: s}
		}
		return true, a.symbols.Resolve(s, symtab.KindConstant, val, sf)
	}
	_, err = a.symbols.AddResolved(ident, symtab.KindConstant, val, sf, lineNr)
	return true, err
}

// parseIncludeLine recognizes `.include FILENAME`, resolved relative
// to parentPath's directory.
func (a *assembler) parseIncludeLine(line, parentPath string, sf *symtab.SourceFile, lineNr int) (bool, error) {
	fields := splitFields(line)
	if len(fields) != 2 || fields[0] != ".include" {
		return false, nil
	}
	name := strings.Trim(fields[1], `"`)
	full := filepath.Join(filepath.Dir(parentPath), name)
	return true, a.processFile(full)
}

// parseLiteral parses a VALUE token, warning and truncating on
// overflow against limit (a field-width mask).
func (a *assembler) parseLiteral(tok string, sf *symtab.SourceFile, lineNr int, limit uint32) (uint32, bool, error) {
	v, ok, err := parseNumber(tok)
	if !ok {
		return 0, false, nil
	}
	if err != nil {
		return 0, true, &SyntaxError{File: sf, Line: lineNr, Text: tok, Msg: "malformed numeric literal"}
	}
	val := uint32(v)
	if val > limit {
		a.warn(sf, lineNr, "value overflow: %s exceeds field width, truncating", tok)
		val &= limit
	}
	return val, true, nil
}

func (a *assembler) warn(sf *symtab.SourceFile, lineNr int, format string, args ...any) {
	a.warnings = append(a.warnings, formatWarning(sf, lineNr, format, args...))
}

// finish runs pass 2 (relocation) and final word encoding.
func (a *assembler) finish() (*Result, error) {
	for i := range a.words {
		w := &a.words[i]
		if w.reloc == nil {
			continue
		}
		rl := w.reloc
		if !rl.symbol.Resolved {
			return nil, &symtab.UndefinedError{Identifier: rl.symbol.Identifier, UseFile: rl.file, UseLine: rl.line}
		}
		val := rl.symbol.Value & uint32(rl.width)
		switch rl.kind {
		case fieldImmediate:
			w.fields.Immediate = uint16(val)
		case fieldAddr:
			w.fields.Addr = uint16(val)
		case fieldNewPC:
			w.fields.NewPC = uint16(val)
		}
	}

	words := make([]Word, len(a.words))
	for i, w := range a.words {
		words[i] = Word{Addr: w.addr, Value: encoding.Encode(w.fields, a.opts.Parity)}
	}
	return &Result{Words: words, Warnings: a.warnings, Symbols: a.symbols}, nil
}
