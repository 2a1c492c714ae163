/*
   SPECT CpuModel — flat memory and region access policy.

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

// The 16-bit byte address space is word-addressed (4 bytes/word) by
// every region's access policy in spec.md §3, so the backing store is
// modeled directly as an array of 32-bit words rather than bytes —
// there is no instruction or policy path that touches a sub-word
// slice. wordMemoryWords is 2^16 / 4.
const wordMemoryWords = 1 << 14

type wordMemory struct {
	words [wordMemoryWords]uint32
}

func wordIndex(addr uint16) uint16 { return addr >> 2 }

func (w *wordMemory) read(addr uint16) uint32  { return w.words[wordIndex(addr)] }
func (w *wordMemory) write(addr uint16, v uint32) { w.words[wordIndex(addr)] = v }

// region identifies one of spec.md §3's named memory regions.
type region int

const (
	regionNone region = iota
	regionDataRAMIn
	regionDataRAMOut
	regionConfigRegs
	regionConstROM
	regionEmemIn
	regionEmemOut
	regionInstrMem
)

const (
	dataRAMInLo, dataRAMInHi   = 0x0000, 0x0800
	dataRAMOutLo, dataRAMOutHi = 0x1000, 0x1200
	configRegsLo, configRegsHi = 0x2000, 0x2010 // [0x2000, 0x200F], half-open hi
	constROMLo, constROMHi     = 0x3000, 0x3800
	ememInLo, ememInHi         = 0x4000, 0x4090
	ememOutLo, ememOutHi       = 0x5000, 0x5080
	instrMemLo, instrMemHi     = 0x8000, 0xB000
)

func regionOf(addr uint16) region {
	a := uint32(addr)
	switch {
	case a >= dataRAMInLo && a < dataRAMInHi:
		return regionDataRAMIn
	case a >= dataRAMOutLo && a < dataRAMOutHi:
		return regionDataRAMOut
	case a >= configRegsLo && a < configRegsHi:
		return regionConfigRegs
	case a >= constROMLo && a < constROMHi:
		return regionConstROM
	case a >= ememInLo && a < ememInHi:
		return regionEmemIn
	case a >= ememOutLo && a < ememOutHi:
		return regionEmemOut
	case a >= instrMemLo && a < instrMemHi:
		return regionInstrMem
	default:
		return regionNone
	}
}

// readCoreData applies the Core-R column of spec.md §3's region
// table: DATA_RAM_IN, CONST_ROM, and EMEM_IN are core-readable; every
// other region (including INSTR_MEM, which is fetch-only) silently
// returns zero.
func (m *Model) readCoreData(addr uint16) uint32 {
	switch regionOf(addr) {
	case regionDataRAMIn, regionConstROM, regionEmemIn:
		return m.mem.read(addr)
	default:
		return 0
	}
}

// writeCoreData applies the Core-W column: only DATA_RAM_IN (scratch)
// and DATA_RAM_OUT (result publication) accept core writes; every
// other region silently drops the write (spec.md §4.6's "Memory
// limits" note).
func (m *Model) writeCoreData(addr uint16, v uint32) {
	switch regionOf(addr) {
	case regionDataRAMIn, regionDataRAMOut:
		m.mem.write(addr, v)
	}
}

// fetch applies INSTR_MEM's fetch-only Core-R policy; denied regions
// return zero rather than faulting.
func (m *Model) fetch(addr uint16) uint32 {
	if regionOf(addr) != regionInstrMem {
		return 0
	}
	return m.mem.read(addr)
}

// readMemory/writeMemory are the unchecked debug path: bypasses every
// region policy (spec.md §4.6).
func (m *Model) readMemory(addr uint16) uint32     { return m.mem.read(addr) }
func (m *Model) writeMemory(addr uint16, v uint32) { m.mem.write(addr, v) }

// readAHB/writeAHB are the policy-aware host-side path (spec.md
// §4.6): they apply the AHB-R/AHB-W column, and a write additionally
// emits a MEM change and — for CONFIG_REGS — triggers the
// config-register side effects in config.go. EMEM_IN's AHB policy is
// marked "config" in spec.md's table with no further detail and no
// corresponding buildcfg field (unlike INSTR_MEM, which buildcfg does
// expose); this model defaults it to fully open, documented in
// DESIGN.md as an assumption rather than an invented build knob.
func (m *Model) readAHB(addr uint16) uint32 {
	switch regionOf(addr) {
	case regionDataRAMOut, regionConfigRegs, regionEmemOut, regionEmemIn:
		return m.mem.read(addr)
	case regionInstrMem:
		if m.instrMemAHBReadable {
			return m.mem.read(addr)
		}
		return 0
	default:
		return 0
	}
}

func (m *Model) writeAHB(addr uint16, v uint32) {
	switch regionOf(addr) {
	case regionDataRAMIn, regionConfigRegs:
		old := m.mem.read(addr)
		if old != v {
			m.mem.write(addr, v)
			reportMem(m.changes, addr, old, v)
		}
		if regionOf(addr) == regionConfigRegs {
			m.onConfigWrite(addr)
		}
	case regionEmemIn:
		old := m.mem.read(addr)
		if old != v {
			m.mem.write(addr, v)
			reportMem(m.changes, addr, old, v)
		}
	case regionInstrMem:
		if !m.instrMemAHBWritable {
			return
		}
		old := m.mem.read(addr)
		if old != v {
			m.mem.write(addr, v)
			reportMem(m.changes, addr, old, v)
		}
	}
}
