/*
   SPECT instruction catalog — shared execute helpers.

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

import (
	"github.com/tropicsquare/spect/internal/change"
	"github.com/tropicsquare/spect/internal/wideint"
)

// Flag object ids used in FLAG change records.
const (
	FlagZ = iota
	FlagC
	FlagE
)

// executeFunc is the common shape every Def.Execute value has.
type executeFunc func(m Machine, ins Instruction) (Effect, error)

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func reportGPR(ch *change.Stream, idx uint8, old, new_ wideint.Width256) {
	ch.Report(change.Record{Kind: change.KindGPR, Object: int(idx), Old: old.Words32(), New: new_.Words32()})
}

func reportSRR(ch *change.Stream, old, new_ wideint.Width256) {
	ch.Report(change.Record{Kind: change.KindSRR, Old: old.Words32(), New: new_.Words32()})
}

func reportFlag(ch *change.Stream, flagID int, old, new_ bool) {
	o, n := change.Scalar1(boolToU32(old), boolToU32(new_))
	ch.Report(change.Record{Kind: change.KindFlag, Object: flagID, Old: o, New: n})
}

func reportMem(ch *change.Stream, addr uint16, old, new_ uint32) {
	o, n := change.Scalar1(old, new_)
	ch.Report(change.Record{Kind: change.KindMem, Object: int(addr), Old: o, New: n})
}

func reportRAR(ch *change.Stream, obj change.RarObject, val uint16) {
	_, n := change.Scalar1(0, uint32(val))
	ch.Report(change.Record{Kind: change.KindRAR, Object: int(obj), New: n})
}

func reportRBUS(ch *change.Stream, tag change.RbusTag, word uint32) {
	_, n := change.Scalar1(0, word)
	ch.Report(change.Record{Kind: change.KindRBUS, Object: int(tag), New: n})
}

// rbusTagFor reports GRV's per-word RBUS tag: the first of the eight
// words popped is FRESH, the remaining seven are NO_FRESH.
func rbusTagFor(wordIndex int) change.RbusTag {
	if wordIndex == 0 {
		return change.RbusFresh
	}
	return change.RbusNoFresh
}

// KBUS operation tags, packed into a Record.Object alongside (type, slot,
// word-offset) by change.KbusEncode.
const (
	KbusOpRead = iota
	KbusOpWrite
	KbusOpProgram
	KbusOpErase
	KbusOpVerify
	KbusOpFlush
)

func reportKBUS(ch *change.Stream, op, keyType, slot, wordOffset uint8, word uint32) {
	_, n := change.Scalar1(0, word)
	ch.Report(change.Record{Kind: change.KindKBUS, Object: change.KbusEncode(op, keyType, slot, wordOffset), New: n})
}

// less256 orders two 256-bit values, used by the modular family's
// precondition check (inputs must be strictly less than the modulus).
func less256(a, b wideint.Width256) bool {
	for i := 3; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// reverseBytes256 reverses the 32 bytes of a, used by SWE.
func reverseBytes256(a wideint.Width256) wideint.Width256 {
	var buf [32]byte
	for i := 0; i < 4; i++ {
		for b := 0; b < 8; b++ {
			buf[i*8+b] = byte(a[i] >> (8 * b))
		}
	}
	var rev [32]byte
	for i := range buf {
		rev[i] = buf[31-i]
	}
	var r wideint.Width256
	for i := 0; i < 4; i++ {
		var l uint64
		for b := 0; b < 8; b++ {
			l |= uint64(rev[i*8+b]) << (8 * b)
		}
		r[i] = l
	}
	return r
}

// maskAboveLSBDigits clears the low digits*4 bits of a, leaving the
// upper bits untouched — the complement of Width256.MaskLSBDigits,
// used to splice the logic family's pass-through high bits back in.
func maskAboveLSBDigits(a wideint.Width256, digits int) wideint.Width256 {
	n := uint(digits) * 4
	if n >= 256 {
		return wideint.Width256{}
	}
	return a.Shr(n).Shl(n)
}

// binaryLogicOpLSB mirrors the original's mask_n_lsb_digits-based
// helper: lhs/rhs are masked to their low activeDigits hex digits
// before op runs, and the result is OR'd back into lhs's untouched
// upper bits. This is the generic logic-family body spec.md §9 calls
// for, parameterized by the scalar bitwise op.
func binaryLogicOpLSB(lhs, rhs wideint.Width256, activeDigits int, op func(a, b wideint.Width256) wideint.Width256) wideint.Width256 {
	maskedA := lhs.MaskLSBDigits(activeDigits)
	maskedB := rhs.MaskLSBDigits(activeDigits)
	upper := maskAboveLSBDigits(lhs, activeDigits)
	return upper.Or(op(maskedA, maskedB))
}

// isNLSBZero reports whether the low N hex digits of a value are all
// zero, the Z-flag predicate the V1 32-bit-only logic
// family and the always-12-bit I-type logic family use.
func isNLSBZero(a wideint.Width256, digits int) bool {
	return a.MaskLSBDigits(digits).IsZero()
}

var (
	// p25519 is 2^255 - 19, the MUL25519 fixed modulus.
	p25519 = wideint.FromUint512(1).Shl(255).Sub(wideint.FromUint512(19)).Truncate256()

	// p256 is 2^256 - 2^224 + 2^192 + 2^96 - 1, the MUL256 fixed modulus.
	p256 = wideint.FromUint512(1).Shl(256).
		Sub(wideint.FromUint512(1).Shl(224)).
		Add(wideint.FromUint512(1).Shl(192)).
		Add(wideint.FromUint512(1).Shl(96)).
		Sub(wideint.FromUint512(1)).
		Truncate256()
)

// checkModularPrecondition reports whether op2, op3 < modulus and
// modulus is neither 0 nor 1. Violating it is a ModularPreconditionViolation
// (spec.md §7): diagnostic only, execution still proceeds with the
// hardware's otherwise-undefined result.
func checkModularPrecondition(op2, op3, modulus wideint.Width256) bool {
	if modulus.IsZero() || modulus.Equal(wideint.FromUint256(1)) {
		return false
	}
	return less256(op2, modulus) && less256(op3, modulus)
}
