/*
   SPECT CpuModel — memory-mapped configuration-register block.

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

package cpu

import "github.com/tropicsquare/spect/internal/change"

// CONFIG_REGS spans spec.md §3's [0x2000, 0x200F] range as four
// 32-bit words. spec.md names the STATUS/COMMAND/INT_ENA bits and the
// interrupt-recompute rule but not a byte layout, so this module
// assigns one word per register in address order — a design decision,
// not a literal port, logged in DESIGN.md.
const (
	statusRegAddr  = 0x2000
	commandRegAddr = 0x2004
	intEnaRegAddr  = 0x2008
	intRegAddr     = 0x200C
)

// STATUS bits.
const (
	statusIdle   uint32 = 1 << 0
	statusDone   uint32 = 1 << 1
	statusErrBit uint32 = 1 << 2
	statusStart  uint32 = 1 << 3
)

// COMMAND bits.
const (
	commandSoftReset uint32 = 1 << 0
)

// INT_ENA / INT bits.
const (
	intDone uint32 = 1 << 0
	intErr  uint32 = 1 << 1
)

type configBlock struct {
	status uint32
	command uint32
	intEna  uint32
	int_    uint32
}

func (m *Model) setStatusBit(bit uint32, set bool) {
	old := m.cfg.status
	if set {
		m.cfg.status |= bit
	} else {
		m.cfg.status &^= bit
	}
	if m.cfg.status != old {
		reportMem(m.changes, statusRegAddr, old, m.cfg.status)
		m.mem.write(statusRegAddr, m.cfg.status)
	}
}

// recomputeInterrupts implements spec.md §4.6's rule:
// int_done = INT_ENA.done & STATUS.done, int_err = INT_ENA.err &
// STATUS.err. Changes emit INT (KindInt) records.
func (m *Model) recomputeInterrupts() {
	old := m.cfg.int_
	var n uint32
	if m.cfg.intEna&intDone != 0 && m.cfg.status&statusDone != 0 {
		n |= intDone
	}
	if m.cfg.intEna&intErr != 0 && m.cfg.status&statusErrBit != 0 {
		n |= intErr
	}
	m.cfg.int_ = n
	if old != n {
		o, nn := change.Scalar1(old, n)
		m.changes.Report(change.Record{Kind: change.KindInt, Old: o, New: nn})
		m.mem.write(intRegAddr, n)
	}
}

// onConfigWrite applies the side effects spec.md §4.6 describes for
// any AHB write landing in CONFIG_REGS: the written word is already
// committed by writeAHB before this runs, so here we just read back
// the freshly-committed register block and react to edges.
func (m *Model) onConfigWrite(addr uint16) {
	switch addr {
	case statusRegAddr:
		m.cfg.status = m.mem.read(statusRegAddr)
		if m.cfg.status&statusStart != 0 {
			m.Start()
			m.cfg.status &^= statusStart
			m.mem.write(statusRegAddr, m.cfg.status)
		}
	case commandRegAddr:
		m.cfg.command = m.mem.read(commandRegAddr)
		if m.cfg.command&commandSoftReset != 0 {
			m.Reset()
			m.cfg.command &^= commandSoftReset
			m.mem.write(commandRegAddr, m.cfg.command)
		}
	case intEnaRegAddr:
		m.cfg.intEna = m.mem.read(intEnaRegAddr)
	}
	m.recomputeInterrupts()
}

func reportMem(ch *change.Stream, addr uint16, old, new_ uint32) {
	o, n := change.Scalar1(old, new_)
	ch.Report(change.Record{Kind: change.KindMem, Object: int(addr), Old: o, New: n})
}
