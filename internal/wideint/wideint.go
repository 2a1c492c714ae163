/*
   SPECT wide-integer arithmetic.

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

// Package wideint implements fixed-width unsigned integer arithmetic for
// the widths SPECT's data path actually uses: 256 (register width), 512
// (widening-multiply / REDP's concatenated-operand width) and 1024 bits
// (the HASH instruction's message block). All arithmetic wraps modulo
// 2^N; there is no overflow signal.
package wideint

import (
	"fmt"
	"math/bits"
)

// limb is one machine word of a wide integer, stored little-endian
// (limbs[0] holds the least-significant 64 bits).
type limb = uint64

const limbBits = 64

// Width256 is a 256-bit unsigned integer: 4 limbs.
type Width256 [4]limb

// Width512 is a 512-bit unsigned integer: 8 limbs.
type Width512 [8]limb

// Width1024 is a 1024-bit unsigned integer: 16 limbs.
type Width1024 [16]limb

// Bits returns the bit width of the receiver's concrete type.
func (Width256) Bits() int  { return 256 }
func (Width512) Bits() int  { return 512 }
func (Width1024) Bits() int { return 1024 }

// ---------------------------------------------------------------------
// Width256
// ---------------------------------------------------------------------

// Add returns a+b mod 2^256.
func (a Width256) Add(b Width256) Width256 {
	var r Width256
	var carry uint64
	for i := range a {
		sum, c := bits.Add64(a[i], b[i], carry)
		r[i] = sum
		carry = c
	}
	return r
}

// Sub returns a-b mod 2^256.
func (a Width256) Sub(b Width256) Width256 {
	var r Width256
	var borrow uint64
	for i := range a {
		diff, bw := bits.Sub64(a[i], b[i], borrow)
		r[i] = diff
		borrow = bw
	}
	return r
}

// And returns the bitwise AND of a and b.
func (a Width256) And(b Width256) Width256 { return zipBits256(a, b, func(x, y limb) limb { return x & y }) }

// Or returns the bitwise OR of a and b.
func (a Width256) Or(b Width256) Width256 { return zipBits256(a, b, func(x, y limb) limb { return x | y }) }

// Xor returns the bitwise XOR of a and b.
func (a Width256) Xor(b Width256) Width256 { return zipBits256(a, b, func(x, y limb) limb { return x ^ y }) }

// Not returns the bitwise complement of a.
func (a Width256) Not() Width256 {
	var r Width256
	for i := range a {
		r[i] = ^a[i]
	}
	return r
}

func zipBits256(a, b Width256, op func(limb, limb) limb) Width256 {
	var r Width256
	for i := range a {
		r[i] = op(a[i], b[i])
	}
	return r
}

// Shl returns a shifted left by n bits (0 <= n); bits shifted past bit
// 255 are discarded, vacated low bits are zero. n >= 256 yields zero.
func (a Width256) Shl(n uint) Width256 {
	if n >= 256 {
		return Width256{}
	}
	return shlLimbs(a[:], n)
}

// Shr returns a shifted right (logical) by n bits.
func (a Width256) Shr(n uint) Width256 {
	if n >= 256 {
		return Width256{}
	}
	var r Width256
	copy(r[:], shrLimbs(a[:], n))
	return r
}

// IsZero reports whether every bit of a is zero.
func (a Width256) IsZero() bool {
	for _, l := range a {
		if l != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether a == b.
func (a Width256) Equal(b Width256) bool { return a == b }

// Bit returns bit i (0 = LSB) of a.
func (a Width256) Bit(i uint) bool {
	if i >= 256 {
		return false
	}
	return (a[i/limbBits]>>(i%limbBits))&1 != 0
}

// SetBit returns a copy of a with bit i set to v.
func (a Width256) SetBit(i uint, v bool) Width256 {
	if i >= 256 {
		return a
	}
	mask := limb(1) << (i % limbBits)
	if v {
		a[i/limbBits] |= mask
	} else {
		a[i/limbBits] &^= mask
	}
	return a
}

// Mul widens a*b into a 512-bit product.
func (a Width256) Mul(b Width256) Width512 {
	var prod [8]limb
	for i := 0; i < 4; i++ {
		var carry limb
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			lo, c0 := bits.Add64(lo, prod[i+j], 0)
			lo, c1 := bits.Add64(lo, carry, 0)
			hi += c0 + c1
			prod[i+j] = lo
			carry = hi
		}
		prod[i+4], _ = bits.Add64(prod[i+4], carry, 0)
	}
	return Width512(prod)
}

// Mod returns a mod m. m must be nonzero; the caller is responsible for
// that invariant (per spec, division by zero is asserted off).
func (a Width256) Mod(m Width256) Width256 {
	_, r := divmodLimbs(a[:], m[:])
	var out Width256
	copy(out[:], r)
	return out
}

// Widen512 zero-extends a to 512 bits.
func (a Width256) Widen512() Width512 {
	var r Width512
	copy(r[:4], a[:])
	return r
}

// Words32 returns a as eight little-endian 32-bit words (word 0 = bits
// 31..0), matching SPECT's GPR-to-memory word layout.
func (a Width256) Words32() [8]uint32 {
	var w [8]uint32
	for i := 0; i < 4; i++ {
		w[2*i] = uint32(a[i])
		w[2*i+1] = uint32(a[i] >> 32)
	}
	return w
}

// Width256FromWords32 packs eight little-endian 32-bit words into a
// 256-bit value (word 0 = bits 31..0).
func Width256FromWords32(w [8]uint32) Width256 {
	var a Width256
	for i := 0; i < 4; i++ {
		a[i] = uint64(w[2*i]) | uint64(w[2*i+1])<<32
	}
	return a
}

// Low32 returns the low 32 bits of a, as a Width256 with high 224 bits
// clear.
func (a Width256) Low32() Width256 {
	return Width256{a[0] & 0xFFFFFFFF, 0, 0, 0}
}

// MaskLSBDigits masks a to its low digits*4 bits (a "digit" is a hex
// nibble), leaving higher digits at zero. Mirrors the original's
// mask_n_lsb_digits helper used throughout the logic-op family.
func (a Width256) MaskLSBDigits(digits int) Width256 {
	bitsWanted := uint(digits) * 4
	if bitsWanted >= 256 {
		return a
	}
	return a.Shl(256 - bitsWanted).Shr(256 - bitsWanted)
}

// Uint64 returns the low 64 bits of a.
func (a Width256) Uint64() uint64 { return a[0] }

// FromUint256 builds a Width256 from a 64-bit value.
func FromUint256(v uint64) Width256 { return Width256{v, 0, 0, 0} }

// ParseHex256 parses a "0x"-prefixed hexadecimal literal of up to 64
// (256/4) digits into a Width256, per spec.md §4.1.
func ParseHex256(s string) (Width256, error) {
	l, err := hexToLimbs(s, 4)
	if err != nil {
		return Width256{}, err
	}
	var r Width256
	copy(r[:], l)
	return r, nil
}

// ParseDecimal256 parses a decimal literal of up to 256 bits into a
// Width256, per spec.md §4.1.
func ParseDecimal256(s string) (Width256, error) {
	l, err := decimalToLimbs(s, 4)
	if err != nil {
		return Width256{}, err
	}
	var r Width256
	copy(r[:], l)
	return r, nil
}

// ---------------------------------------------------------------------
// Width512
// ---------------------------------------------------------------------

// Add returns a+b mod 2^512.
func (a Width512) Add(b Width512) Width512 {
	var r Width512
	var carry uint64
	for i := range a {
		sum, c := bits.Add64(a[i], b[i], carry)
		r[i] = sum
		carry = c
	}
	return r
}

// Sub returns a-b mod 2^512.
func (a Width512) Sub(b Width512) Width512 {
	var r Width512
	var borrow uint64
	for i := range a {
		diff, bw := bits.Sub64(a[i], b[i], borrow)
		r[i] = diff
		borrow = bw
	}
	return r
}

// Shl returns a shifted left by n bits.
func (a Width512) Shl(n uint) Width512 {
	if n >= 512 {
		return Width512{}
	}
	var r Width512
	copy(r[:], shlLimbs(a[:], n))
	return r
}

// Shr returns a shifted right (logical) by n bits.
func (a Width512) Shr(n uint) Width512 {
	if n >= 512 {
		return Width512{}
	}
	var r Width512
	copy(r[:], shrLimbs(a[:], n))
	return r
}

// Or returns the bitwise OR of a and b.
func (a Width512) Or(b Width512) Width512 {
	var r Width512
	for i := range a {
		r[i] = a[i] | b[i]
	}
	return r
}

// Truncate256 returns the low 256 bits of a.
func (a Width512) Truncate256() Width256 {
	var r Width256
	copy(r[:], a[:4])
	return r
}

// Mod returns a mod m (m a 256-bit modulus widened to 512 bits' worth
// of significant limbs); result fits in 256 bits since m < 2^256.
func (a Width512) Mod(m Width256) Width256 {
	_, r := divmodLimbs(a[:], m[:])
	var out Width256
	copy(out[:], r)
	return out
}

// Split256 splits a 512-bit value into (low256, high256).
func (a Width512) Split256() (lo, hi Width256) {
	copy(lo[:], a[:4])
	copy(hi[:], a[4:])
	return
}

// Join256 concatenates hi:lo (hi most-significant) into a 512-bit value.
func Join256(hi, lo Width256) Width512 {
	var r Width512
	copy(r[:4], lo[:])
	copy(r[4:], hi[:])
	return r
}

// FromUint512 builds a Width512 from a 64-bit value.
func FromUint512(v uint64) Width512 { var r Width512; r[0] = v; return r }

// ParseHex512 parses a "0x"-prefixed hexadecimal literal of up to 128
// (512/4) digits into a Width512, per spec.md §4.1.
func ParseHex512(s string) (Width512, error) {
	l, err := hexToLimbs(s, 8)
	if err != nil {
		return Width512{}, err
	}
	var r Width512
	copy(r[:], l)
	return r, nil
}

// ParseDecimal512 parses a decimal literal of up to 512 bits into a
// Width512, per spec.md §4.1.
func ParseDecimal512(s string) (Width512, error) {
	l, err := decimalToLimbs(s, 8)
	if err != nil {
		return Width512{}, err
	}
	var r Width512
	copy(r[:], l)
	return r, nil
}

// ---------------------------------------------------------------------
// Width1024
// ---------------------------------------------------------------------

// SetWindow256 writes v into the idx-th 256-bit window (0 = least
// significant) of a 1024-bit value, used to pack HASH's four-register
// message block.
func (a Width1024) SetWindow256(idx int, v Width256) Width1024 {
	copy(a[idx*4:idx*4+4], v[:])
	return a
}

// BytesBE returns a's big-endian byte representation (128 bytes), the
// order SHA-512 message absorption requires.
func (a Width1024) BytesBE() []byte {
	out := make([]byte, 128)
	for i := 0; i < 16; i++ {
		limbBE := a[15-i]
		for b := 0; b < 8; b++ {
			out[i*8+b] = byte(limbBE >> (56 - 8*b))
		}
	}
	return out
}

// ParseHex1024 parses a "0x"-prefixed hexadecimal literal of up to 256
// (1024/4) digits into a Width1024, per spec.md §4.1.
func ParseHex1024(s string) (Width1024, error) {
	l, err := hexToLimbs(s, 16)
	if err != nil {
		return Width1024{}, err
	}
	var r Width1024
	copy(r[:], l)
	return r, nil
}

// ParseDecimal1024 parses a decimal literal of up to 1024 bits into a
// Width1024, per spec.md §4.1.
func ParseDecimal1024(s string) (Width1024, error) {
	l, err := decimalToLimbs(s, 16)
	if err != nil {
		return Width1024{}, err
	}
	var r Width1024
	copy(r[:], l)
	return r, nil
}

// ---------------------------------------------------------------------
// shared limb helpers
// ---------------------------------------------------------------------

// hexToLimbs parses a "0x"/"0X"-prefixed hex literal into nLimbs
// little-endian 64-bit limbs. The literal must fit within nLimbs*16
// hex digits (nLimbs*64 bits).
func hexToLimbs(s string, nLimbs int) ([]limb, error) {
	if len(s) < 2 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return nil, fmt.Errorf("wideint: %q is not a 0x-prefixed hex literal", s)
	}
	digits := s[2:]
	if digits == "" {
		return nil, fmt.Errorf("wideint: %q has no hex digits", s)
	}
	if len(digits) > nLimbs*16 {
		return nil, fmt.Errorf("wideint: hex literal %q exceeds %d-bit width", s, nLimbs*limbBits)
	}

	out := make([]limb, nLimbs)
	for i := 0; i < len(digits); i++ {
		c := digits[len(digits)-1-i]
		v, ok := hexDigit(c)
		if !ok {
			return nil, fmt.Errorf("wideint: %q contains invalid hex digit %q", s, c)
		}
		out[i/16] |= limb(v) << uint((i%16)*4)
	}
	return out, nil
}

func hexDigit(c byte) (limb, bool) {
	switch {
	case c >= '0' && c <= '9':
		return limb(c - '0'), true
	case c >= 'a' && c <= 'f':
		return limb(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return limb(c-'A') + 10, true
	default:
		return 0, false
	}
}

// decimalToLimbs parses a plain decimal literal into nLimbs
// little-endian 64-bit limbs, rejecting values that overflow
// nLimbs*64 bits.
func decimalToLimbs(s string, nLimbs int) ([]limb, error) {
	if s == "" {
		return nil, fmt.Errorf("wideint: empty decimal literal")
	}
	out := make([]limb, nLimbs)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("wideint: %q contains invalid decimal digit %q", s, c)
		}
		carry := limb(c - '0')
		for j := 0; j < nLimbs; j++ {
			hi, lo := bits.Mul64(out[j], 10)
			sum, c0 := bits.Add64(lo, carry, 0)
			out[j] = sum
			carry = hi + c0
		}
		if carry != 0 {
			return nil, fmt.Errorf("wideint: decimal literal %q exceeds %d-bit width", s, nLimbs*limbBits)
		}
	}
	return out, nil
}

func shlLimbs(a []limb, n uint) []limb {
	r := make([]limb, len(a))
	limbShift := n / limbBits
	bitShift := n % limbBits
	for i := len(a) - 1; i >= 0; i-- {
		srcIdx := i - int(limbShift)
		if srcIdx < 0 {
			continue
		}
		var v limb = a[srcIdx] << bitShift
		if bitShift != 0 && srcIdx-1 >= 0 {
			v |= a[srcIdx-1] >> (limbBits - bitShift)
		}
		r[i] = v
	}
	return r
}

func shrLimbs(a []limb, n uint) []limb {
	r := make([]limb, len(a))
	limbShift := n / limbBits
	bitShift := n % limbBits
	for i := 0; i < len(a); i++ {
		srcIdx := i + int(limbShift)
		if srcIdx >= len(a) {
			continue
		}
		v := a[srcIdx] >> bitShift
		if bitShift != 0 && srcIdx+1 < len(a) {
			v |= a[srcIdx+1] << (limbBits - bitShift)
		}
		r[i] = v
	}
	return r
}

// divmodLimbs performs long division of dividend by divisor (both
// little-endian limb slices, divisor possibly narrower) using repeated
// shift-and-subtract. Divisor must be nonzero. Returns (quotient,
// remainder) both sized like dividend.
func divmodLimbs(dividend, divisor []limb) (quotient, remainder []limb) {
	n := len(dividend) * limbBits
	rem := make([]limb, len(dividend))
	quo := make([]limb, len(dividend))
	divWide := make([]limb, len(dividend))
	copy(divWide, divisor)

	for i := n - 1; i >= 0; i-- {
		// rem = (rem << 1) | bit i of dividend
		rem = shlLimbs(rem, 1)
		if (dividend[i/limbBits]>>(uint(i)%limbBits))&1 != 0 {
			rem[0] |= 1
		}
		if cmpLimbs(rem, divWide) >= 0 {
			rem = subLimbs(rem, divWide)
			quo[i/limbBits] |= limb(1) << (uint(i) % limbBits)
		}
	}
	return quo, rem
}

func cmpLimbs(a, b []limb) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func subLimbs(a, b []limb) []limb {
	r := make([]limb, len(a))
	var borrow uint64
	for i := range a {
		diff, bw := bits.Sub64(a[i], b[i], borrow)
		r[i] = diff
		borrow = bw
	}
	return r
}
