/*
   SPECT change-reporting stream.

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

// Package change implements the change stream (C7): an event-sourcing
// FIFO of state-delta records, the contract external co-simulation
// consumes. Every mutating CpuModel operation emits one record per
// state delta at the site of mutation (spec.md §9's explicit guidance)
// rather than being reconstructed after the fact.
package change

// Kind discriminates the observable state category a Record describes.
type Kind int

const (
	KindGPR Kind = iota
	KindFlag
	KindMem
	KindInt
	KindRAR
	KindEmemIn
	KindEmemOut
	KindRBUS
	KindKBUS
	KindSRR
)

// RarObject distinguishes RAR changes.
type RarObject int

const (
	RarPush RarObject = iota
	RarPop
)

// RbusTag marks whether an RBUS record is the first (fresh) word of a
// GRV transfer or one of the remaining seven.
type RbusTag int

const (
	RbusFresh RbusTag = iota
	RbusNoFresh
)

// Record is a discriminated change: old/new are eight 32-bit slots —
// GPR/SRR use all eight (a 256-bit value, little-endian by word);
// FLAG/INT/MEM/RAR/RBUS/KBUS use slot 0 only.
type Record struct {
	Kind   Kind
	Object int // register index, flag id, memory address, RAR object, or KBUS/RBUS encoded tag
	Old    [8]uint32
	New    [8]uint32
}

// Stream is a FIFO of Records. Reporting can be toggled; report() is a
// no-op while disabled.
type Stream struct {
	enabled bool
	records []Record
}

// NewStream returns a stream with reporting enabled.
func NewStream() *Stream {
	return &Stream{enabled: true}
}

// SetEnabled toggles whether Report appends records.
func (s *Stream) SetEnabled(enabled bool) { s.enabled = enabled }

// Enabled reports whether reporting is currently active.
func (s *Stream) Enabled() bool { return s.enabled }

// Report enqueues r, unless reporting is disabled. Scalar kinds (GPR,
// FLAG, MEM, INT, RAR, SRR, EMEM_IN, EMEM_OUT) are suppressed when Old
// == New; stream kinds (RBUS, KBUS) always emit.
func (s *Stream) Report(r Record) {
	if !s.enabled {
		return
	}
	switch r.Kind {
	case KindRBUS, KindKBUS:
		s.records = append(s.records, r)
	default:
		if r.Old != r.New {
			s.records = append(s.records, r)
		}
	}
}

// HasChange reports whether at least one record is queued.
func (s *Stream) HasChange() bool { return len(s.records) > 0 }

// Pop removes and returns the oldest record, or (Record{}, false) if
// empty.
func (s *Stream) Pop() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	r := s.records[0]
	s.records = s.records[1:]
	return r, true
}

// Len returns the number of queued records.
func (s *Stream) Len() int { return len(s.records) }

// Scalar1 builds a scalar (single-slot) old/new pair for FLAG/INT/MEM/
// RAR/EMEM_* records.
func Scalar1(old, new uint32) (o, n [8]uint32) {
	o[0] = old
	n[0] = new
	return
}

// KbusEncode packs (op, keyType, slot, wordOffset) into the object field
// the way the original's KBUS change records do.
func KbusEncode(op, keyType, slot, wordOffset uint8) int {
	return int(op)<<24 | int(keyType)<<16 | int(slot)<<8 | int(wordOffset)
}
