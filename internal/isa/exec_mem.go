/*
   SPECT instruction catalog — memory transfer instructions.

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

package isa

import "github.com/tropicsquare/spect/internal/wideint"

// loadWindow reads 8 consecutive 32-bit core words starting at base
// into a 256-bit register value (word 0 = bits 31..0), the shared
// transfer shape LDR and M-type LD use.
func loadWindow(m Machine, base uint16) wideint.Width256 {
	var words [8]uint32
	for i := 0; i < 8; i++ {
		words[i] = m.ReadCore(base + uint16(i*4))
	}
	return wideint.Width256FromWords32(words)
}

// storeWindow writes v's 8 consecutive 32-bit words to core memory
// starting at base, reporting one MEM record per changed word.
func storeWindow(m Machine, base uint16, v wideint.Width256) {
	words := v.Words32()
	for i, w := range words {
		addr := base + uint16(i*4)
		old := m.ReadCore(addr)
		if old == w {
			continue
		}
		m.WriteCore(addr, w)
		reportMem(m.Changes(), addr, old, w)
	}
}

// execLDR loads R[op1] from the 256-bit window at byte address
// R[op2] & 0xFFFF (V2).
func execLDR() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		base := uint16(m.GPR(ins.Fields.Op2).Uint64() & 0xFFFF)
		v := loadWindow(m, base)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}

// execSTR stores R[op1] to the 256-bit window at byte address
// R[op2] & 0xFFFF (V2).
func execSTR() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		base := uint16(m.GPR(ins.Fields.Op2).Uint64() & 0xFFFF)
		storeWindow(m, base, m.GPR(ins.Fields.Op1))
		return Advance, nil
	}
}

// execLD loads R[op1] from the 256-bit window at the instruction's
// absolute 16-bit address (M-type).
func execLD() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		v := loadWindow(m, ins.Fields.Addr)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}

// execST stores R[op1] to the 256-bit window at the instruction's
// absolute 16-bit address (M-type).
func execST() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		storeWindow(m, ins.Fields.Addr, m.GPR(ins.Fields.Op1))
		return Advance, nil
	}
}
