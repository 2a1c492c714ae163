/*
   SPECT key memory.

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

// Package keymem implements SPECT's key memory: a three-dimensional
// array of 32-bit words indexed by (type, slot, offset), with per-slot
// EMPTY/FULL status and a staging RAM buffer for programming.
package keymem

import "errors"

const (
	TypeNum   = 16
	SlotNum   = 256
	OffsetNum = 256
)

// Status is a slot's programmed state.
type Status int

const (
	Empty Status = iota
	Full
)

// ErrEmptySlot is returned by Read when the addressed slot has never
// been programmed.
var ErrEmptySlot = errors.New("spect/keymem: read from empty slot")

// Memory is the key-memory model plus its RAM-buffer staging area.
type Memory struct {
	cells     [TypeNum][SlotNum][OffsetNum]uint32
	status    [TypeNum][SlotNum]Status
	ramBuffer [OffsetNum]uint32
}

// New returns a Memory with every slot Empty.
func New() *Memory {
	return &Memory{}
}

// Read returns cells[type][slot][offset] and an error if the slot was
// never programmed (an erased/empty slot latches the KbusError flag
// per spec.md's error-bit-returning Read contract).
func (m *Memory) Read(keyType, slot, offset uint8) (uint32, error) {
	if m.status[keyType][slot] != Full {
		return 0, ErrEmptySlot
	}
	return m.cells[keyType][slot][offset], nil
}

// Write stages data into the RAM buffer at offset, ahead of Program.
func (m *Memory) Write(offset uint8, data uint32) {
	m.ramBuffer[offset] = data
}

// Program commits the RAM buffer into the addressed slot and marks it
// Full.
func (m *Memory) Program(keyType, slot uint8) error {
	m.cells[keyType][slot] = m.ramBuffer
	m.status[keyType][slot] = Full
	return nil
}

// Erase sets every word of the addressed slot to the all-ones erased
// pattern and marks it Empty.
func (m *Memory) Erase(keyType, slot uint8) error {
	for i := range m.cells[keyType][slot] {
		m.cells[keyType][slot][i] = 0xFFFFFFFF
	}
	m.status[keyType][slot] = Empty
	return nil
}

// VerifyErase reports whether the addressed slot matches the erased
// all-ones pattern, returning an error if it does not.
func (m *Memory) VerifyErase(keyType, slot uint8) error {
	for _, w := range m.cells[keyType][slot] {
		if w != 0xFFFFFFFF {
			return errors.New("spect/keymem: slot not erased")
		}
	}
	return nil
}

// Flush clears the staging RAM buffer without touching any slot.
func (m *Memory) Flush() error {
	m.ramBuffer = [OffsetNum]uint32{}
	return nil
}

// SlotStatus reports the addressed slot's programmed state.
func (m *Memory) SlotStatus(keyType, slot uint8) Status {
	return m.status[keyType][slot]
}
