/*
   SPECT instruction catalog — modular arithmetic and random/blinding ops.

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

// modularCompute derives a 256-bit result from two operands and a
// modulus, in 512-bit intermediate math.
type modularCompute func(op2, op3, modulus wideint.Width256) wideint.Width256

func mulMod(op2, op3, modulus wideint.Width256) wideint.Width256 {
	return op2.Mul(op3).Mod(modulus)
}

func addMod(op2, op3, modulus wideint.Width256) wideint.Width256 {
	return op2.Widen512().Add(op3.Widen512()).Mod(modulus)
}

// subMod computes (op2 + modulus - op3) mod modulus, avoiding negative
// intermediates entirely (spec.md's stated SUBP identity).
func subMod(op2, op3, modulus wideint.Width256) wideint.Width256 {
	return op2.Widen512().Add(modulus.Widen512()).Sub(op3.Widen512()).Mod(modulus)
}

func redMod(op2, op3, modulus wideint.Width256) wideint.Width256 {
	return wideint.Join256(op2, op3).Mod(modulus)
}

// modulusFunc resolves the operative modulus: a fixed prime for
// MUL25519/MUL256, or R31 for the *-P family.
type modulusFunc func(m Machine) wideint.Width256

func fixedModulus(v wideint.Width256) modulusFunc {
	return func(Machine) wideint.Width256 { return v }
}

func r31Modulus(m Machine) wideint.Width256 { return m.GPR(31) }

// execModular builds one modular-family instruction. checkPrecondition
// gates MUL25519/MUL256/ADDP/SUBP (which the hardware requires valid
// inputs for) versus MULP/REDP (which do not check).
func execModular(compute modularCompute, modulus modulusFunc, checkPrecondition bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		op2 := m.GPR(ins.Fields.Op2)
		op3 := m.GPR(ins.Fields.Op3)
		mod := modulus(m)

		if checkPrecondition && !checkModularPrecondition(op2, op3, mod) {
			m.Warn("modular precondition violated: operands must be < modulus, modulus must not be 0 or 1")
		}

		res := compute(op2, op3, mod)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)
		return Advance, nil
	}
}

// execSCB computes (R[op3] | MSB_MASK) * R31 + R[op2] in 512-bit math
// (MSB_MASK sets bits 255 and 223), used for side-channel-blinded
// scalar preparation. The low 256 bits land in R[op1], the high 256
// in R[(op1+1) mod 32].
func execSCB() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		var mask wideint.Width256
		mask = mask.SetBit(255, true)
		mask = mask.SetBit(223, true)

		blinded := m.GPR(ins.Fields.Op3).Or(mask)
		prod := blinded.Mul(m.GPR(31))
		sum := prod.Add(m.GPR(ins.Fields.Op2).Widen512())
		lo, hi := sum.Split256()

		loReg := ins.Fields.Op1
		hiReg := regIdx(ins.Fields.Op1, 1)

		oldLo := m.GPR(loReg)
		m.SetGPR(loReg, lo)
		reportGPR(m.Changes(), loReg, oldLo, lo)

		oldHi := m.GPR(hiReg)
		m.SetGPR(hiReg, hi)
		reportGPR(m.Changes(), hiReg, oldHi, hi)

		return Advance, nil
	}
}

// execGRV pops eight 32-bit words from the entropy queue and packs
// them little-endian into R[op1]. emitRBUS (V2 only) additionally
// reports one RBUS record per word: the first FRESH, the rest
// NO_FRESH.
func execGRV(emitRBUS bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		var words [8]uint32
		for i := 0; i < 8; i++ {
			w, ok := m.PopEntropy()
			if !ok {
				m.Warn("entropy queue underflow")
			}
			words[i] = w
			if emitRBUS {
				tag := rbusTagFor(i)
				reportRBUS(m.Changes(), tag, w)
			}
		}
		v := wideint.Width256FromWords32(words)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}
