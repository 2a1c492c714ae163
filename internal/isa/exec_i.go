/*
   SPECT instruction catalog — I-type arithmetic/logic and key-queue ops.

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

// execArithI builds ADDI/SUBI/CMPI: R[op2] against the 12-bit
// zero-extended immediate, mirroring the R-type arithmetic family.
func execArithI(arith func(a, b uint32) uint32, store bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := uint32(m.GPR(ins.Fields.Op2).Uint64())
		b := uint32(ins.Fields.Immediate)
		return coreArith32(m, ins.Fields.Op1, a, b, store, arith)
	}
}

// execLogicI builds ANDI/ORI/XORI. The immediate is only 12 bits
// wide, so (unlike the R-type family, whose width rule tracks the
// active ISA version) the operation always runs over the low 3 hex
// digits, with R[op2]'s higher bits passed straight through.
func execLogicI(logic func(a, b wideint.Width256) wideint.Width256) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		a := m.GPR(ins.Fields.Op2)
		b := wideint.FromUint256(uint64(ins.Fields.Immediate))
		res := binaryLogicOpLSB(a, b, 3, logic)
		z := isNLSBZero(res, 3)

		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, res)
		reportGPR(m.Changes(), ins.Fields.Op1, old, res)

		oldZ := m.Z()
		m.SetZ(z)
		reportFlag(m.Changes(), FlagZ, oldZ, z)
		return Advance, nil
	}
}

// execCMPA (V1) sets Z iff R[op2] equals the zero-extended immediate,
// compared as a full 256-bit value.
func execCMPA() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		imm := wideint.FromUint256(uint64(ins.Fields.Immediate))
		z := m.GPR(ins.Fields.Op2).Equal(imm)
		oldZ := m.Z()
		m.SetZ(z)
		reportFlag(m.Changes(), FlagZ, oldZ, z)
		return Advance, nil
	}
}

// execMOVI loads the zero-extended 12-bit immediate into R[op1].
func execMOVI() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		v := wideint.FromUint256(uint64(ins.Fields.Immediate))
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}

// popKeyWindow reads 8 words from the key queue, warning on each
// underflow, and returns them assembled little-endian.
func popKeyWindow(m Machine) wideint.Width256 {
	var words [8]uint32
	for i := 0; i < 8; i++ {
		w, ok := m.PopKey()
		if !ok {
			m.Warn("key queue underflow")
		}
		words[i] = w
	}
	return wideint.Width256FromWords32(words)
}

// execGPK (V1) reads eight 32-bit words from the key queue into
// R[op1]. V1 has no type/slot/offset addressing or KBUS reporting —
// that bookkeeping is V2's LDK.
func execGPK() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		v := popKeyWindow(m)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}

// execLDK (V2): slot is R[op2]'s low byte, type is immediate[11:8],
// the base offset is immediate[4:0]. Each of the 8 words read emits a
// KBUS record and pops an error bit; a set error bit aborts the
// remaining reads, leaving a partial result in R[op1].
func execLDK() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		slot := uint8(m.GPR(ins.Fields.Op2).Uint64() & 0xFF)
		keyType := uint8((ins.Fields.Immediate >> 8) & 0xF)
		offsetBase := uint8(ins.Fields.Immediate & 0x1F)

		var words [8]uint32
		for i := 0; i < 8; i++ {
			offset := offsetBase + uint8(i)
			word, _ := m.KeyRead(keyType, slot, offset)
			words[i] = word
			reportKBUS(m.Changes(), KbusOpRead, keyType, slot, offset, word)

			errBit := m.PopKbusError()
			oldE := m.E()
			m.SetE(errBit)
			reportFlag(m.Changes(), FlagE, oldE, errBit)
			if errBit {
				break
			}
		}

		v := wideint.Width256FromWords32(words)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}

// execSTK (V2) is LDK's write-side counterpart: it stages R[op1]'s
// 8 words into the key-memory RAM buffer at the addressed
// type/slot/offset window, emitting the same per-word KBUS/error-bit
// bookkeeping. A later KBO WRITE/PROGRAM commits the staged buffer.
func execSTK() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		slot := uint8(m.GPR(ins.Fields.Op2).Uint64() & 0xFF)
		keyType := uint8((ins.Fields.Immediate >> 8) & 0xF)
		offsetBase := uint8(ins.Fields.Immediate & 0x1F)

		words := m.GPR(ins.Fields.Op1).Words32()
		for i, w := range words {
			offset := offsetBase + uint8(i)
			m.KeyWrite(offset, w)
			reportKBUS(m.Changes(), KbusOpWrite, keyType, slot, offset, w)

			errBit := m.PopKbusError()
			oldE := m.E()
			m.SetE(errBit)
			reportFlag(m.Changes(), FlagE, oldE, errBit)
			if errBit {
				break
			}
		}
		return Advance, nil
	}
}

// kboOp identifies KBO's 6 sub-operations, packed into immediate[3:0].
type kboOp uint8

const (
	kboWrite kboOp = iota
	kboRead
	kboProgram
	kboErase
	kboVerify
	kboFlush
)

// execKBO (V2): slot is R[op1]'s low byte, type is R[op2]'s low
// nibble, the sub-operation is immediate[3:0], and (for WRITE/READ)
// the word offset is immediate[11:4]. Emits one KBUS record and reads
// one error bit into E.
func execKBO() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		slot := uint8(m.GPR(ins.Fields.Op1).Uint64() & 0xFF)
		keyType := uint8(m.GPR(ins.Fields.Op2).Uint64() & 0xF)
		op := kboOp(ins.Fields.Immediate & 0xF)
		offset := uint8((ins.Fields.Immediate >> 4) & 0xFF)

		var word uint32
		var kbusTag uint8
		switch op {
		case kboWrite:
			kbusTag = KbusOpWrite
			_ = m.KeyProgram(keyType, slot)
		case kboRead:
			kbusTag = KbusOpRead
			word, _ = m.KeyRead(keyType, slot, offset)
		case kboProgram:
			kbusTag = KbusOpProgram
			_ = m.KeyProgram(keyType, slot)
		case kboErase:
			kbusTag = KbusOpErase
			_ = m.KeyErase(keyType, slot)
		case kboVerify:
			kbusTag = KbusOpVerify
			_ = m.KeyVerifyErase(keyType, slot)
		case kboFlush:
			kbusTag = KbusOpFlush
			_ = m.KeyFlush()
		}

		reportKBUS(m.Changes(), kbusTag, keyType, slot, offset, word)

		errBit := m.PopKbusError()
		oldE := m.E()
		m.SetE(errBit)
		reportFlag(m.Changes(), FlagE, oldE, errBit)
		return Advance, nil
	}
}
