/*
   SPECT instruction catalog — hash and sponge instructions.

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

// regIdx wraps a GPR index, HASH's four-register window uses indices
// modulo the register count.
func regIdx(base uint8, offset int) uint8 {
	return uint8((int(base) + offset) % 32)
}

// execHASH packs R[op2+3..op2] (high-to-low word order) into a
// 1024-bit message block, absorbs it into the SHA-512 engine, and
// writes the first two resulting context words back: R[op1] gets the
// low word, R[op1+1] the high word.
func execHASH() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		var msg wideint.Width1024
		msg = msg.SetWindow256(3, m.GPR(regIdx(ins.Fields.Op2, 3)))
		msg = msg.SetWindow256(2, m.GPR(regIdx(ins.Fields.Op2, 2)))
		msg = msg.SetWindow256(1, m.GPR(regIdx(ins.Fields.Op2, 1)))
		msg = msg.SetWindow256(0, m.GPR(regIdx(ins.Fields.Op2, 0)))

		var block [128]byte
		copy(block[:], msg.BytesBE())
		m.HashAbsorb(block)
		ctx := m.HashContext()

		lowReg := ins.Fields.Op1
		highReg := regIdx(ins.Fields.Op1, 1)

		oldLow := m.GPR(lowReg)
		newLow := wideint.FromUint256(ctx[0])
		m.SetGPR(lowReg, newLow)
		reportGPR(m.Changes(), lowReg, oldLow, newLow)

		oldHigh := m.GPR(highReg)
		newHigh := wideint.FromUint256(ctx[1])
		m.SetGPR(highReg, newHigh)
		reportGPR(m.Changes(), highReg, oldHigh, newHigh)

		return Advance, nil
	}
}

// execHashIt resets the SHA-512 running context.
func execHashIt() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		m.HashReset()
		return Advance, nil
	}
}

// execTmacIt initializes the Keccak-f[400] sponge.
func execTmacIt() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		m.SpongeInit()
		return Advance, nil
	}
}

// bytesLE256 returns a's 32 bytes in little-endian order (byte 0 =
// LSB), the natural byte order of its word layout.
func bytesLE256(a wideint.Width256) [32]byte {
	var out [32]byte
	words := a.Words32()
	for i, w := range words {
		out[i*4] = byte(w)
		out[i*4+1] = byte(w >> 8)
		out[i*4+2] = byte(w >> 16)
		out[i*4+3] = byte(w >> 24)
	}
	return out
}

// execTmacIs absorbs the 36-byte MAC init string: a one-byte session
// nonce (fixed at 0x00, the protocol does not carry a nonce operand),
// a 0x20 length tag, the 32-byte key from R[op2], and two trailing
// zero bytes — spread over two rate-sized (18-byte) blocks.
func execTmacIs() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		key := bytesLE256(m.GPR(ins.Fields.Op2))
		var buf [36]byte
		buf[0] = 0x00
		buf[1] = 0x20
		copy(buf[2:34], key[:])
		buf[34] = 0x00
		buf[35] = 0x00

		var b1, b2 [18]byte
		copy(b1[:], buf[0:18])
		copy(b2[:], buf[18:36])
		m.SpongeAbsorb(b1)
		m.SpongeAbsorb(b2)
		return Advance, nil
	}
}

// execTmacUp absorbs one rate-sized (18-byte) block taken from the
// low 144 bits of R[op2].
func execTmacUp() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		src := bytesLE256(m.GPR(ins.Fields.Op2))
		var block [18]byte
		copy(block[:], src[:18])
		m.SpongeAbsorb(block)
		return Advance, nil
	}
}

// execTmacRd switches the sponge to its squeeze phase and writes one
// capacity-sized (32-byte) output block into R[op1].
func execTmacRd() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		out := m.SpongeSqueeze()
		var words [8]uint32
		for i := 0; i < 8; i++ {
			words[i] = uint32(out[i*4]) | uint32(out[i*4+1])<<8 | uint32(out[i*4+2])<<16 | uint32(out[i*4+3])<<24
		}
		v := wideint.Width256FromWords32(words)
		old := m.GPR(ins.Fields.Op1)
		m.SetGPR(ins.Fields.Op1, v)
		reportGPR(m.Changes(), ins.Fields.Op1, old, v)
		return Advance, nil
	}
}
