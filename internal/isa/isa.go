/*
   SPECT instruction catalog (C5).

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

// Package isa implements the per-ISA-version instruction registry: the
// mnemonic/encoding/operand-shape metadata table and the semantic
// transformer ("Execute") bound to each entry. Two catalogs coexist,
// V1 and V2, instantiated as ordinary values rather than process-wide
// singletons so a caller can run concurrent sessions of each.
//
// The catalog never touches CpuModel's concrete type: execute bodies
// are written against the Machine interface declared here, which
// internal/cpu implements. This keeps the dependency edge pointing
// one way (cpu depends on isa, not the reverse) while letting every
// instruction family reach the full architectural state it needs.
package isa

import (
	"errors"

	"github.com/tropicsquare/spect/internal/change"
	"github.com/tropicsquare/spect/internal/encoding"
	"github.com/tropicsquare/spect/internal/wideint"
)

// Effect is the control-flow outcome of one instruction's Execute.
type Effect int

const (
	Advance Effect = iota // PC <- PC+4
	Jumped                // Execute already set PC
	Ended                 // program termination (END)
)

// ErrUnknownInstruction is returned by Catalog.Decode when no entry
// matches a word's (type, opcode, func) triple.
var ErrUnknownInstruction = errors.New("spect/isa: unknown instruction")

// OperandMask marks which of a mnemonic's three register-operand
// source positions (op1, op2, op3) are present in assembly syntax.
type OperandMask uint8

const (
	MaskOp1 OperandMask = 1 << 2
	MaskOp2 OperandMask = 1 << 1
	MaskOp3 OperandMask = 1 << 0
)

func (m OperandMask) HasOp1() bool { return m&MaskOp1 != 0 }
func (m OperandMask) HasOp2() bool { return m&MaskOp2 != 0 }
func (m OperandMask) HasOp3() bool { return m&MaskOp3 != 0 }

// Count returns the number of required register operands.
func (m OperandMask) Count() int {
	n := 0
	for _, b := range []OperandMask{MaskOp1, MaskOp2, MaskOp3} {
		if m&b != 0 {
			n++
		}
	}
	return n
}

// Instruction is a decoded word paired with the catalog entry that
// owns its semantics.
type Instruction struct {
	Def    *Def
	Fields encoding.Fields
}

// Machine is the architectural surface an Execute body may observe or
// mutate. internal/cpu.Model implements it; tests may supply a fake.
type Machine interface {
	GPR(i uint8) wideint.Width256
	SetGPR(i uint8, v wideint.Width256)

	Z() bool
	SetZ(bool)
	C() bool
	SetC(bool)
	E() bool
	SetE(bool)

	SRR() wideint.Width256
	SetSRR(wideint.Width256)

	PC() uint16
	SetPC(uint16)

	PushRAR(uint16)
	PopRAR() (uint16, bool)

	ReadCore(addr uint16) uint32
	WriteCore(addr uint16, v uint32)

	PopEntropy() (uint32, bool)
	PopKey() (uint32, bool)
	PopKbusError() bool

	HashReset()
	HashAbsorb(block [128]byte)
	HashContext() [8]uint64

	SpongeInit()
	SpongeAbsorb(block [18]byte)
	SpongeSqueeze() [32]byte

	KeyRead(keyType, slot, offset uint8) (uint32, error)
	KeyWrite(offset uint8, data uint32)
	KeyProgram(keyType, slot uint8) error
	KeyErase(keyType, slot uint8) error
	KeyVerifyErase(keyType, slot uint8) error
	KeyFlush() error

	Finish(statusErr bool)

	// Warn logs a non-fatal diagnostic (queue underflow, RAR
	// over/underflow, modular precondition violation) — per spec.md
	// §7 these never abort execution, they only log and continue.
	Warn(msg string)

	Changes() *change.Stream
}

// Def is one catalog entry: the mnemonic's encoding coordinates,
// operand shape, and execution semantics.
type Def struct {
	Mnemonic     string
	Type         encoding.Type
	Opcode       uint8
	Func         uint8
	Mask         OperandMask
	Target       bool // J-type only: takes one address/label operand (CALL, JMP, Bxx); RET/END/NOP take none
	R31Dependent bool
	ConstantTime bool
	Execute      func(m Machine, ins Instruction) (Effect, error)
}

type key struct {
	Type   encoding.Type
	Opcode uint8
	Func   uint8
}

// Catalog is a version-parametric instruction registry: one instance
// per active ISA version, carried by the model rather than looked up
// through global state (spec.md §9's version-parametric-catalog note).
type Catalog struct {
	version    int
	byMnemonic map[string]*Def
	byKey      map[key]*Def
}

func newCatalog(version int) *Catalog {
	return &Catalog{
		version:    version,
		byMnemonic: make(map[string]*Def),
		byKey:      make(map[key]*Def),
	}
}

func (c *Catalog) add(d Def) {
	def := d
	c.byMnemonic[def.Mnemonic] = &def
	c.byKey[key{def.Type, def.Opcode, def.Func}] = &def
}

// Version reports 1 or 2.
func (c *Catalog) Version() int { return c.version }

// Lookup resolves a mnemonic to its catalog entry, for the assembler.
func (c *Catalog) Lookup(mnemonic string) (*Def, bool) {
	d, ok := c.byMnemonic[mnemonic]
	return d, ok
}

// Decode resolves a decoded word's (type, opcode, func) into an
// Instruction ready for Execute.
func (c *Catalog) Decode(f encoding.Fields) (Instruction, error) {
	d, ok := c.byKey[key{f.Type, f.Opcode, f.Func}]
	if !ok {
		return Instruction{}, ErrUnknownInstruction
	}
	return Instruction{Def: d, Fields: f}, nil
}
