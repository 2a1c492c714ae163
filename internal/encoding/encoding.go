/*
   SPECT instruction word encoding.

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

// Package encoding implements the 32-bit SPECT instruction word layout:
// parity bit, 2-bit type, 4-bit opcode, 3-bit func, and the type-specific
// operand/immediate/address/target fields.
package encoding

import "errors"

// Type is the instruction's operand shape.
type Type uint8

const (
	TypeJ Type = 0b00 // J: jump/branch/call/ret/end/nop
	TypeI Type = 0b01 // I: register + register + 12-bit immediate
	TypeM Type = 0b10 // M: register + 16-bit absolute address
	TypeR Type = 0b11 // R: register + register + register
)

// Parity selects the instruction word's parity scheme.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// Bit widths, masks and offsets, ported from spect_defs.h.
const (
	parityBits    = 1
	typeBits      = 2
	opcodeBits    = 4
	funcBits      = 3
	opBits        = 5
	immediateBits = 12
	addrBits      = 16
	newPCBits     = 16

	parityMask    = 0x1
	typeMask      = 0x3
	opcodeMask    = 0xF
	funcMask      = 0x7
	opMask        = 0x1F
	immediateMask = 0xFFF
	addrMask      = 0xFFFF
	newPCMask     = 0xFFFF

	parityOffset    = 31
	typeOffset      = 29
	opcodeOffset    = 25
	funcOffset      = 22
	op1Offset       = 17
	op2Offset       = 12
	op3Offset       = 7
	immediateOffset = 0
	addrOffset      = 0
	newPCOffset     = 0
)

// ErrBadParity is returned by Decode when parity checking is enabled and
// the word's parity bit disagrees with the computed parity.
var ErrBadParity = errors.New("spect/encoding: bad parity")

// Fields is the decoded content of an instruction word; only the members
// relevant to Type are meaningful (per spec.md: fields not listed for a
// type are zero).
type Fields struct {
	Type      Type
	Opcode    uint8
	Func      uint8
	Op1       uint8
	Op2       uint8
	Op3       uint8
	Immediate uint16 // 12 bits, I-type
	Addr      uint16 // 16 bits, M-type
	NewPC     uint16 // 16 bits, J-type
}

// Encode packs fields into a 32-bit word under the given parity mode.
func Encode(f Fields, p Parity) uint32 {
	var w uint32
	w |= (uint32(f.Type) & typeMask) << typeOffset
	w |= (uint32(f.Opcode) & opcodeMask) << opcodeOffset
	w |= (uint32(f.Func) & funcMask) << funcOffset

	switch f.Type {
	case TypeR:
		w |= (uint32(f.Op1) & opMask) << op1Offset
		w |= (uint32(f.Op2) & opMask) << op2Offset
		w |= (uint32(f.Op3) & opMask) << op3Offset
	case TypeI:
		w |= (uint32(f.Op1) & opMask) << op1Offset
		w |= (uint32(f.Op2) & opMask) << op2Offset
		w |= (uint32(f.Immediate) & immediateMask) << immediateOffset
	case TypeM:
		w |= (uint32(f.Op1) & opMask) << op1Offset
		w |= (uint32(f.Addr) & addrMask) << addrOffset
	case TypeJ:
		w |= (uint32(f.NewPC) & newPCMask) << newPCOffset
	}

	parityBit := computeParity(p, w)
	return w | ((parityBit & parityMask) << parityOffset)
}

// Decode unpacks a 32-bit word into Fields, validating parity first.
func Decode(word uint32, p Parity) (Fields, error) {
	if !checkParity(p, word) {
		return Fields{}, ErrBadParity
	}

	var f Fields
	f.Type = Type((word >> typeOffset) & typeMask)
	f.Opcode = uint8((word >> opcodeOffset) & opcodeMask)
	f.Func = uint8((word >> funcOffset) & funcMask)

	switch f.Type {
	case TypeR:
		f.Op1 = uint8((word >> op1Offset) & opMask)
		f.Op2 = uint8((word >> op2Offset) & opMask)
		f.Op3 = uint8((word >> op3Offset) & opMask)
	case TypeI:
		f.Op1 = uint8((word >> op1Offset) & opMask)
		f.Op2 = uint8((word >> op2Offset) & opMask)
		f.Immediate = uint16((word >> immediateOffset) & immediateMask)
	case TypeM:
		f.Op1 = uint8((word >> op1Offset) & opMask)
		f.Addr = uint16((word >> addrOffset) & addrMask)
	case TypeJ:
		f.NewPC = uint16((word >> newPCOffset) & newPCMask)
	}
	return f, nil
}

// xorReduce computes the XOR-reduction of all 32 bits of word (bits
// [30:0] when computeParity passes a word with bit 31 clear).
func xorReduce(word uint32) uint32 {
	b := word ^ (word >> 1)
	b ^= b >> 2
	b ^= b >> 4
	b ^= b >> 8
	b ^= b >> 16
	return b & 1
}

func computeParity(p Parity, word uint32) uint32 {
	switch p {
	case ParityNone:
		return 0
	case ParityOdd:
		return ^xorReduce(word) & 1
	default: // ParityEven
		return xorReduce(word)
	}
}

func checkParity(p Parity, word uint32) bool {
	if p == ParityNone {
		return true
	}
	b := xorReduce(word)
	if p == ParityOdd {
		return b&1 == 1
	}
	return b&1 == 0
}
