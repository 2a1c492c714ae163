/*
   SPECT assembler — instruction-line parsing and operand resolution.

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

package assemble

import (
	"fmt"
	"strings"

	"github.com/tropicsquare/spect/internal/encoding"
	"github.com/tropicsquare/spect/internal/isa"
	"github.com/tropicsquare/spect/internal/symtab"
)

const (
	immediateLimit = 0xFFF  // 12 bits
	addrLimit      = 0xFFFF // 16 bits
)

func formatWarning(sf *symtab.SourceFile, lineNr int, format string, args ...any) string {
	where := "<unknown>"
	if sf != nil {
		where = fmt.Sprintf("%s:%d", sf.Path, lineNr)
	}
	return fmt.Sprintf("%s: %s", where, fmt.Sprintf(format, args...))
}

// parseInstructionLine resolves the mnemonic, parses its operands
// against the catalog entry's mask, appends the resulting pending
// word at curAddr, and advances curAddr by 4.
func (a *assembler) parseInstructionLine(line string, sf *symtab.SourceFile, lineNr int) error {
	fields := splitFields(line)
	mnemonic := strings.ToUpper(fields[0])
	def, ok := a.opts.Catalog.Lookup(mnemonic)
	if !ok {
		return &SyntaxError{File: sf, Line: lineNr, Text: fields[0], Msg: "unknown instruction"}
	}

	rest := strings.TrimSpace(line[len(fields[0]):])
	operands := splitOperands(rest)

	f := encoding.Fields{Type: def.Type, Opcode: def.Opcode, Func: def.Func}
	var rl *reloc

	regSlots := registerSlots(def.Mask)
	wantExtra := def.Type == encoding.TypeI || def.Type == encoding.TypeM || (def.Type == encoding.TypeJ && def.Target)
	wantTotal := len(regSlots)
	if wantExtra {
		wantTotal++
	}
	if len(operands) != wantTotal {
		return &SyntaxError{File: sf, Line: lineNr, Text: line,
			Msg: fmt.Sprintf("%s expects %d operand(s), found %d", mnemonic, wantTotal, len(operands))}
	}

	idx := 0
	for _, slot := range regSlots {
		reg, ok := parseRegister(operands[idx])
		if !ok {
			return &SyntaxError{File: sf, Line: lineNr, Text: operands[idx], Msg: "expected register operand R0..R31"}
		}
		switch slot {
		case isa.MaskOp1:
			f.Op1 = reg
		case isa.MaskOp2:
			f.Op2 = reg
		case isa.MaskOp3:
			f.Op3 = reg
		}
		idx++
	}

	if wantExtra {
		tok := operands[idx]
		width := immediateLimit
		kind := fieldImmediate
		if def.Type == encoding.TypeM || (def.Type == encoding.TypeJ && def.Target) {
			width = addrLimit
			kind = fieldAddr
			if def.Type == encoding.TypeJ {
				kind = fieldNewPC
			}
		}

		val, sym, err := a.parseOperandValue(tok, sf, lineNr, uint32(width), def.Type == encoding.TypeI)
		if err != nil {
			return err
		}
		switch kind {
		case fieldImmediate:
			f.Immediate = uint16(val)
		case fieldAddr:
			f.Addr = uint16(val)
		case fieldNewPC:
			f.NewPC = uint16(val)
		}
		if sym != nil {
			rl = &reloc{symbol: sym, kind: kind, width: width, file: sf, line: lineNr}
		}
	}

	if uint32(a.curAddr)+4 > instrMemBase+instrMemSize {
		return &NotEnoughSpaceError{FirstAddr: a.opts.FirstAddress, At: a.curAddr}
	}

	a.words = append(a.words, pending{addr: a.curAddr, fields: f, reloc: rl})
	a.curAddr += 4
	return nil
}

// registerSlots returns the register positions mask marks, in
// positional order (op1, op2, op3).
func registerSlots(mask isa.OperandMask) []isa.OperandMask {
	var out []isa.OperandMask
	if mask.HasOp1() {
		out = append(out, isa.MaskOp1)
	}
	if mask.HasOp2() {
		out = append(out, isa.MaskOp2)
	}
	if mask.HasOp3() {
		out = append(out, isa.MaskOp3)
	}
	return out
}

// parseOperandValue resolves a non-register operand: a numeric
// literal (width-checked against limit) or a symbol reference,
// created unresolved on first use. warnLabelAsImmediate controls
// whether using a resolved label's value here should warn (spec.md
// §4.4: "using a label as an immediate operand" is suspicious for
// I-type immediates, expected for M/J address/target operands).
func (a *assembler) parseOperandValue(tok string, sf *symtab.SourceFile, lineNr int, limit uint32, warnLabelAsImmediate bool) (uint32, *symtab.Symbol, error) {
	if val, ok, err := a.parseLiteral(tok, sf, lineNr, limit); err != nil {
		return 0, nil, err
	} else if ok {
		return val, nil, nil
	}

	if !isIdent(tok) {
		return 0, nil, &SyntaxError{File: sf, Line: lineNr, Text: tok, Msg: "expected register, value, or symbol"}
	}

	sym := a.symbols.Lookup(tok)
	if sym == nil {
		sym = a.symbols.AddUnresolved(tok, sf, lineNr)
	}
	if warnLabelAsImmediate && sym.Resolved && sym.Kind == symtab.KindLabel {
		a.warn(sf, lineNr, "using label %q as an immediate operand, is this correct?", tok)
	}
	if sym.Resolved {
		val := sym.Value
		if val > limit {
			a.warn(sf, lineNr, "value overflow: symbol %q exceeds field width, truncating", tok)
			val &= limit
		}
		return val, nil, nil
	}
	return 0, sym, nil
}
