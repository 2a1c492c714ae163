/*
   SPECT instruction catalog — ISA version 1 registration table.

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
	"github.com/tropicsquare/spect/internal/encoding"
	"github.com/tropicsquare/spect/internal/wideint"
)

// The opcode/func numbering below is this project's own invention: the
// original source scatters each instruction's encoding across
// constructor call sites rather than a single table, and spec.md's
// Invariant 1 only requires that encode/decode/catalog round-trip
// consistently — it does not require bit-exact compatibility with any
// existing hardware encoding. Families are grouped by opcode, with
// func distinguishing siblings inside a family.
//
// V1's catalog omits ROLIN/RORIN, LDR/STR, BRE/BRNE, the
// ADDP/SUBP/MULP/REDP R31-modulus family, LDK/STK/KBO, and GRV's RBUS
// reporting — those are V2-only per spec.md.

func newCatalogV1() *Catalog {
	c := newCatalog(1)

	add3 := MaskOp1 | MaskOp2 | MaskOp3
	add2 := MaskOp1 | MaskOp2

	addU32 := func(a, b uint32) uint32 { return a + b }
	subU32 := func(a, b uint32) uint32 { return a - b }

	c.add(Def{Mnemonic: "ADD", Type: encoding.TypeR, Opcode: 0x0, Func: 0, Mask: add3, Execute: execArithR(addU32, true)})
	c.add(Def{Mnemonic: "SUB", Type: encoding.TypeR, Opcode: 0x0, Func: 1, Mask: add3, Execute: execArithR(subU32, true)})
	c.add(Def{Mnemonic: "CMP", Type: encoding.TypeR, Opcode: 0x0, Func: 2, Mask: MaskOp2 | MaskOp3, Execute: execArithR(subU32, false)})
	c.add(Def{Mnemonic: "AND", Type: encoding.TypeR, Opcode: 0x0, Func: 3, Mask: add3, Execute: execLogicR(wideint.Width256.And, false)})
	c.add(Def{Mnemonic: "OR", Type: encoding.TypeR, Opcode: 0x0, Func: 4, Mask: add3, Execute: execLogicR(wideint.Width256.Or, false)})
	c.add(Def{Mnemonic: "XOR", Type: encoding.TypeR, Opcode: 0x0, Func: 5, Mask: add3, Execute: execLogicR(wideint.Width256.Xor, false)})
	c.add(Def{Mnemonic: "NOT", Type: encoding.TypeR, Opcode: 0x0, Func: 6, Mask: add2, Execute: execNotR(false)})

	c.add(Def{Mnemonic: "SBIT", Type: encoding.TypeR, Opcode: 0x1, Func: 0, Mask: add3, Execute: execBitOp(true)})
	c.add(Def{Mnemonic: "CBIT", Type: encoding.TypeR, Opcode: 0x1, Func: 1, Mask: add3, Execute: execBitOp(false)})

	c.add(Def{Mnemonic: "LSL", Type: encoding.TypeR, Opcode: 0x2, Func: 0, Mask: add2, Execute: shiftRotate1(false, true)})
	c.add(Def{Mnemonic: "LSR", Type: encoding.TypeR, Opcode: 0x2, Func: 1, Mask: add2, Execute: shiftRotate1(false, false)})
	c.add(Def{Mnemonic: "ROL", Type: encoding.TypeR, Opcode: 0x2, Func: 2, Mask: add2, Execute: shiftRotate1(true, true)})
	c.add(Def{Mnemonic: "ROR", Type: encoding.TypeR, Opcode: 0x2, Func: 3, Mask: add2, Execute: shiftRotate1(true, false)})
	c.add(Def{Mnemonic: "ROL8", Type: encoding.TypeR, Opcode: 0x2, Func: 4, Mask: add2, Execute: rotate8(true)})
	c.add(Def{Mnemonic: "ROR8", Type: encoding.TypeR, Opcode: 0x2, Func: 5, Mask: add2, Execute: rotate8(false)})

	c.add(Def{Mnemonic: "SWE", Type: encoding.TypeR, Opcode: 0x3, Func: 0, Mask: add2, Execute: execSWE()})
	c.add(Def{Mnemonic: "MOV", Type: encoding.TypeR, Opcode: 0x3, Func: 1, Mask: add2, Execute: execMOV()})
	c.add(Def{Mnemonic: "CSWAP", Type: encoding.TypeR, Opcode: 0x3, Func: 4, Mask: add2, Execute: execCSwap(Machine.C)})
	c.add(Def{Mnemonic: "ZSWAP", Type: encoding.TypeR, Opcode: 0x3, Func: 5, Mask: add2, Execute: execCSwap(Machine.Z)})

	c.add(Def{Mnemonic: "HASH", Type: encoding.TypeR, Opcode: 0x4, Func: 0, Mask: add2, Execute: execHASH()})
	c.add(Def{Mnemonic: "HASH_IT", Type: encoding.TypeR, Opcode: 0x4, Func: 1, Mask: 0, Execute: execHashIt()})

	c.add(Def{Mnemonic: "TMAC_IT", Type: encoding.TypeR, Opcode: 0x5, Func: 0, Mask: 0, Execute: execTmacIt()})
	c.add(Def{Mnemonic: "TMAC_IS", Type: encoding.TypeR, Opcode: 0x5, Func: 1, Mask: MaskOp2, Execute: execTmacIs()})
	c.add(Def{Mnemonic: "TMAC_UP", Type: encoding.TypeR, Opcode: 0x5, Func: 2, Mask: MaskOp2, Execute: execTmacUp()})
	c.add(Def{Mnemonic: "TMAC_RD", Type: encoding.TypeR, Opcode: 0x5, Func: 3, Mask: MaskOp1, Execute: execTmacRd()})

	c.add(Def{Mnemonic: "GRV", Type: encoding.TypeR, Opcode: 0x6, Func: 0, Mask: MaskOp1, Execute: execGRV(false)})
	c.add(Def{Mnemonic: "SCB", Type: encoding.TypeR, Opcode: 0x6, Func: 1, Mask: add3, R31Dependent: true, Execute: execSCB()})

	c.add(Def{Mnemonic: "MUL25519", Type: encoding.TypeR, Opcode: 0x7, Func: 0, Mask: add3, Execute: execModular(mulMod, fixedModulus(p25519), true)})
	c.add(Def{Mnemonic: "MUL256", Type: encoding.TypeR, Opcode: 0x7, Func: 1, Mask: add3, Execute: execModular(mulMod, fixedModulus(p256), true)})

	c.add(Def{Mnemonic: "ADDI", Type: encoding.TypeI, Opcode: 0x0, Func: 0, Mask: add2, Execute: execArithI(addU32, true)})
	c.add(Def{Mnemonic: "SUBI", Type: encoding.TypeI, Opcode: 0x0, Func: 1, Mask: add2, Execute: execArithI(subU32, true)})
	c.add(Def{Mnemonic: "CMPI", Type: encoding.TypeI, Opcode: 0x0, Func: 2, Mask: MaskOp2, Execute: execArithI(subU32, false)})
	c.add(Def{Mnemonic: "ANDI", Type: encoding.TypeI, Opcode: 0x0, Func: 3, Mask: add2, Execute: execLogicI(wideint.Width256.And)})
	c.add(Def{Mnemonic: "ORI", Type: encoding.TypeI, Opcode: 0x0, Func: 4, Mask: add2, Execute: execLogicI(wideint.Width256.Or)})
	c.add(Def{Mnemonic: "XORI", Type: encoding.TypeI, Opcode: 0x0, Func: 5, Mask: add2, Execute: execLogicI(wideint.Width256.Xor)})

	c.add(Def{Mnemonic: "CMPA", Type: encoding.TypeI, Opcode: 0x1, Func: 0, Mask: MaskOp2, Execute: execCMPA()})
	c.add(Def{Mnemonic: "MOVI", Type: encoding.TypeI, Opcode: 0x2, Func: 0, Mask: MaskOp1, Execute: execMOVI()})
	c.add(Def{Mnemonic: "GPK", Type: encoding.TypeI, Opcode: 0x3, Func: 0, Mask: MaskOp1, Execute: execGPK()})

	c.add(Def{Mnemonic: "LD", Type: encoding.TypeM, Opcode: 0x0, Func: 0, Mask: MaskOp1, Execute: execLD()})
	c.add(Def{Mnemonic: "ST", Type: encoding.TypeM, Opcode: 0x0, Func: 1, Mask: MaskOp1, Execute: execST()})

	c.add(Def{Mnemonic: "CALL", Type: encoding.TypeJ, Opcode: 0x0, Func: 0, Mask: 0, Target: true, Execute: execCALL()})
	c.add(Def{Mnemonic: "RET", Type: encoding.TypeJ, Opcode: 0x0, Func: 1, Mask: 0, Execute: execRET()})
	c.add(Def{Mnemonic: "BRZ", Type: encoding.TypeJ, Opcode: 0x0, Func: 2, Mask: 0, Target: true, Execute: condBranch(Machine.Z, true)})
	c.add(Def{Mnemonic: "BRNZ", Type: encoding.TypeJ, Opcode: 0x0, Func: 3, Mask: 0, Target: true, Execute: condBranch(Machine.Z, false)})
	c.add(Def{Mnemonic: "BRC", Type: encoding.TypeJ, Opcode: 0x0, Func: 4, Mask: 0, Target: true, Execute: condBranch(Machine.C, true)})
	c.add(Def{Mnemonic: "BRNC", Type: encoding.TypeJ, Opcode: 0x0, Func: 5, Mask: 0, Target: true, Execute: condBranch(Machine.C, false)})

	c.add(Def{Mnemonic: "JMP", Type: encoding.TypeJ, Opcode: 0x1, Func: 0, Mask: 0, Target: true, Execute: execJMP()})
	c.add(Def{Mnemonic: "END", Type: encoding.TypeJ, Opcode: 0x1, Func: 1, Mask: 0, Execute: execEND(true)})
	c.add(Def{Mnemonic: "NOP", Type: encoding.TypeJ, Opcode: 0x1, Func: 2, Mask: 0, Execute: execNOP()})

	return c
}
