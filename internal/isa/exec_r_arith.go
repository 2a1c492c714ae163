/*
   SPECT instruction catalog — R-type arithmetic, logic, shift, bit ops.

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

// coreArith32 is the generic body behind ADD/SUB/CMP and their I-type
// counterparts: both read a 32-bit a/b pair, apply arith, optionally
// store the (zero-extended) result, and always update Z.
func coreArith32(m Machine, dest uint8, a, b uint32, store bool, arith func(a, b uint32) uint32) (Effect, error) {
	res := arith(a, b)
	if store {
		old := m.GPR(dest)
		nv := wideint.FromUint256(uint64(res))
		m.SetGPR(dest, nv)
		reportGPR(m.Changes(), dest, old, nv)
	}
	z := res == 0
	oldZ := m.Z()
	m.SetZ(z)
	reportFlag(m.Changes(), FlagZ, oldZ, z)
	return Advance, nil
}

// execArithR builds an R-type ADD/SUB/CMP execute body.
func execArithR(arith func(a, b uint32) uint32, store bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := uint32(m.GPR(ins.Fields.Op2).Uint64())
		b := uint32(m.GPR(ins.Fields.Op3).Uint64())
		return coreArith32(m, ins.Fields.Op1, a, b, store, arith)
	}
}

// execLogicR builds an R-type AND/OR/XOR execute body. In V1 the op
// runs over the low 32 bits only (high 224 bits pass through from
// op2); in V2 it runs over the full 256 bits.
func execLogicR(logic func(a, b wideint.Width256) wideint.Width256, fullWidth bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := m.GPR(ins.Fields.Op2)
		b := m.GPR(ins.Fields.Op3)

		var res wideint.Width256
		var z bool
		if fullWidth {
			res = logic(a, b)
			z = res.IsZero()
		} else {
			res = binaryLogicOpLSB(a, b, 8, logic)
			z = isNLSBZero(res, 8)
		}

		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)

		oldZ := m.Z()
		m.SetZ(z)
		reportFlag(m.Changes(), FlagZ, oldZ, z)
		return Advance, nil
	}
}

// execNotR builds NOT's execute body: R[op2] only, same width rule as
// the active ISA's logic family.
func execNotR(fullWidth bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := m.GPR(ins.Fields.Op2)

		var res wideint.Width256
		var z bool
		if fullWidth {
			res = a.Not()
			z = res.IsZero()
		} else {
			res = binaryLogicOpLSB(a, a, 8, func(x, _ wideint.Width256) wideint.Width256 { return x.Not() })
			z = isNLSBZero(res, 8)
		}

		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)

		oldZ := m.Z()
		m.SetZ(z)
		reportFlag(m.Changes(), FlagZ, oldZ, z)
		return Advance, nil
	}
}

// execBitOp builds SBIT/CBIT: shift amount taken from R[op3] & 0xFF,
// set (SBIT) or clear (CBIT) that single bit of R[op2] into R[op1].
func execBitOp(set bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		shift := uint(m.GPR(ins.Fields.Op3).Uint64() & 0xFF)
		var mask wideint.Width256
		if shift < 256 {
			mask = mask.SetBit(shift, true)
		}
		src := m.GPR(ins.Fields.Op2)
		var res wideint.Width256
		if set {
			res = src.Or(mask)
		} else {
			res = src.And(mask.Not())
		}
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)
		return Advance, nil
	}
}

// shiftRotate1 implements LSL/LSR/ROL/ROR: 1-bit shift or rotate, CF
// takes the bit shifted/rotated out.
func shiftRotate1(rotate, left bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := m.GPR(ins.Fields.Op2)
		var res wideint.Width256
		var cf bool
		if left {
			cf = a.Bit(255)
			res = a.Shl(1)
			if rotate {
				res = res.SetBit(0, cf)
			}
		} else {
			cf = a.Bit(0)
			res = a.Shr(1)
			if rotate {
				res = res.SetBit(255, cf)
			}
		}

		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)

		oldC := m.C()
		m.SetC(cf)
		reportFlag(m.Changes(), FlagC, oldC, cf)
		return Advance, nil
	}
}

// rotate8 implements ROL8/ROR8: an 8-bit (one byte) rotate; CF is
// untouched.
func rotate8(left bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := m.GPR(ins.Fields.Op2)
		var res wideint.Width256
		if left {
			res = a.Shl(8).Or(a.Shr(248))
		} else {
			res = a.Shr(8).Or(a.Shl(248))
		}
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)
		return Advance, nil
	}
}

// spliceIn implements ROLIN/RORIN (V2): shift R[op2] by a byte and
// OR-in the complementary byte shifted out of R[op3], splicing bytes
// between the two registers.
func spliceIn(left bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := m.GPR(ins.Fields.Op2)
		b := m.GPR(ins.Fields.Op3)
		var res wideint.Width256
		if left {
			res = a.Shl(8).Or(b.Shr(248))
		} else {
			res = a.Shr(8).Or(b.Shl(248))
		}
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)
		return Advance, nil
	}
}

// execSWE reverses the 32 bytes of R[op2] into R[op1].
func execSWE() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		res := reverseBytes256(m.GPR(ins.Fields.Op2))
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)
		return Advance, nil
	}
}

// execMOV copies R[op2] into R[op1].
func execMOV() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		v := m.GPR(ins.Fields.Op2)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}

// execCSwap implements CSWAP/ZSWAP: if flagGet(m) holds, exchange
// R[op1] and R[op2]. When op1 == op2 the exchange is a true no-op and
// the change stream's own old==new suppression drops both reports —
// this is the same observable behavior the original reserves a
// special case for in V1, so no separate code path is needed here.
func execCSwap(flagGet func(Machine) bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		if !flagGet(m) {
			return Advance, nil
		}
		op1, op2 := ins.Fields.Op1, ins.Fields.Op2
		a := m.GPR(op1)
		b := m.GPR(op2)
		m.SetGPR(op1, b)
		reportGPR(m.Changes(), op1, a, b)
		m.SetGPR(op2, a)
		reportGPR(m.Changes(), op2, b, a)
		return Advance, nil
	}
}
