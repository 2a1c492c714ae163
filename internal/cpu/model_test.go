/*
   SPECT CpuModel tests.

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

package cpu_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicsquare/spect/internal/change"
	"github.com/tropicsquare/spect/internal/cpu"
	"github.com/tropicsquare/spect/internal/encoding"
	"github.com/tropicsquare/spect/internal/wideint"
)

const startPC = 0x8000

// load is a tiny in-test encoder: each entry becomes one word at
// consecutive INSTR_MEM addresses starting at startPC.
func load(t *testing.T, m *cpu.Model, p encoding.Parity, words []encoding.Fields) {
	t.Helper()
	addr := uint16(startPC)
	for _, f := range words {
		m.WriteMemory(addr, encoding.Encode(f, p))
		addr += 4
	}
}

func movi(reg uint8, imm uint16) encoding.Fields {
	return encoding.Fields{Type: encoding.TypeI, Opcode: 0x2, Func: 0, Op1: reg, Immediate: imm}
}

func ldr(dst, base uint8) encoding.Fields {
	return encoding.Fields{Type: encoding.TypeR, Opcode: 0x3, Func: 2, Op1: dst, Op2: base}
}

func str(src, base uint8) encoding.Fields {
	return encoding.Fields{Type: encoding.TypeR, Opcode: 0x3, Func: 3, Op1: src, Op2: base}
}

func end() encoding.Fields {
	return encoding.Fields{Type: encoding.TypeJ, Opcode: 0x1, Func: 1}
}

func call(target uint16) encoding.Fields {
	return encoding.Fields{Type: encoding.TypeJ, Opcode: 0x0, Func: 0, NewPC: target}
}

func ret() encoding.Fields {
	return encoding.Fields{Type: encoding.TypeJ, Opcode: 0x0, Func: 1}
}

func addp(dst, a, b uint8) encoding.Fields {
	return encoding.Fields{Type: encoding.TypeR, Opcode: 0x7, Func: 2, Op1: dst, Op2: a, Op3: b}
}

func newModel(t *testing.T) *cpu.Model {
	t.Helper()
	m := cpu.New(2, encoding.ParityNone, startPC, nil, nil)
	return m
}

// Scenario A — load/store round-trip (V2).
func TestScenarioALoadStoreRoundTrip(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		movi(1, 0x123),
		movi(2, 0x200),
		str(1, 2),
		ldr(3, 2),
		end(),
	})
	m.Start()
	m.RunUntilEnd(100)

	require.True(t, m.IsFinished())
	words := m.GPR(3).Words32()
	assert.Equal(t, uint32(0x123), words[0])
	for _, w := range words[1:] {
		assert.Zero(t, w)
	}
	assert.Equal(t, uint32(0x00000123), m.ReadMemory(0x200))
	for addr := uint16(0x204); addr <= 0x21C; addr += 4 {
		assert.Zero(t, m.ReadMemory(addr))
	}
}

// Scenario B — CALL/RET balance.
func TestScenarioBCallRetBalance(t *testing.T) {
	m := newModel(t)
	const subAddr = startPC + 8
	load(t, m, encoding.ParityNone, []encoding.Fields{
		call(subAddr), // _start: CALL sub
		end(),         //         END
		movi(1, 1),    // sub:    MOVI R1, 1
		ret(),         //         RET
	})
	m.Start()
	m.RunUntilEnd(100)

	require.True(t, m.IsFinished())
	assert.Equal(t, uint32(1), m.GPR(1).Words32()[0])
	assert.Equal(t, uint16(startPC+4), m.PC())
}

// Scenario C — modular reduction: ADDP R1, R2, R3 with R31=17,
// R2=32, R3=30 yields (32+30) mod 17 = 11.
func TestScenarioCModularReduction(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		addp(1, 2, 3),
		end(),
	})
	m.SetGPR(31, word32(0x11))
	m.SetGPR(2, word32(0x20))
	m.SetGPR(3, word32(0x1E))
	m.Start()
	m.RunUntilEnd(100)

	require.True(t, m.IsFinished())
	assert.Equal(t, uint32(0x0B), m.GPR(1).Words32()[0])
}

func word32(lo uint32) wideint.Width256 {
	var words [8]uint32
	words[0] = lo
	return wideint.Width256FromWords32(words)
}

// Invariant 4: reset() is idempotent, and preserves memory.
func TestResetIdempotent(t *testing.T) {
	m := newModel(t)
	m.WriteMemory(0x10, 0xDEADBEEF)
	m.SetGPR(5, word32(0x42))
	m.Reset()
	var first, second bytes.Buffer
	require.NoError(t, m.DumpContext(&first))
	m.Reset()
	require.NoError(t, m.DumpContext(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.Equal(t, uint32(0xDEADBEEF), m.ReadMemory(0x10))
}

// Invariant 7 (reiterated with an explicit RAR-SP probe): a balanced
// CALL/RET sequence returns the stack pointer to zero.
func TestCallRetRestoresRARStackPointer(t *testing.T) {
	m := newModel(t)
	const subAddr = startPC + 8
	load(t, m, encoding.ParityNone, []encoding.Fields{
		call(subAddr),
		end(),
		movi(1, 1),
		ret(),
	})
	m.Start()
	m.RunUntilEnd(100)
	assert.Zero(t, m.RARStackDepth())
}

// Context dump/load round-trips through the binary codec bit-exactly.
func TestContextDumpLoadRoundTrip(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		movi(1, 0x123),
		end(),
	})
	m.Start()
	m.RunUntilEnd(100)

	var buf bytes.Buffer
	require.NoError(t, m.DumpContext(&buf))

	m2 := newModel(t)
	require.NoError(t, m2.LoadContext(&buf))
	assert.Equal(t, m.GPR(1), m2.GPR(1))
	assert.Equal(t, m.PC(), m2.PC())
}

// Config registers must survive a context dump/load, not just the
// memory-mapped mirror of them: a later CONFIG_REGS write recomputes
// INT from the live STATUS/INT_ENA fields, and those must already
// reflect the restored state rather than the fresh model's zeros.
func TestContextDumpLoadRestoresConfigRegisters(t *testing.T) {
	const (
		intEnaRegAddr = 0x2008
		commandRegAddr = 0x2004
		intRegAddr    = 0x200C
		intEnaDone    = 1 << 0
	)

	m := newModel(t)
	m.WriteAHB(intEnaRegAddr, intEnaDone)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		movi(1, 0x123),
		end(),
	})
	m.Start()
	m.RunUntilEnd(100)
	require.NotZero(t, m.ReadAHB(intRegAddr), "INT_ENA.done & STATUS.done must raise INT.done")

	var buf bytes.Buffer
	require.NoError(t, m.DumpContext(&buf))

	m2 := newModel(t)
	require.NoError(t, m2.LoadContext(&buf))

	// A harmless CONFIG_REGS write re-triggers onConfigWrite's
	// recomputeInterrupts; it must reproduce the same INT value from
	// the restored STATUS/INT_ENA, not zero them out.
	m2.WriteAHB(commandRegAddr, 0)
	assert.Equal(t, m.ReadAHB(intRegAddr), m2.ReadAHB(intRegAddr))
}

// Config-register START bit: writing it via AHB begins execution from
// the configured start PC and clears IDLE.
func TestConfigStartBitBeginsExecution(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		movi(1, 7),
		end(),
	})
	m.WriteAHB(0x2000, 1<<3) // STATUS.START
	m.RunUntilEnd(100)
	require.True(t, m.IsFinished())
	assert.Equal(t, uint32(7), m.GPR(1).Words32()[0])
}

// Config-register SOFT_RESET bit triggers Reset() via a COMMAND write.
func TestConfigSoftResetBit(t *testing.T) {
	m := newModel(t)
	m.SetGPR(9, word32(0x99))
	m.WriteAHB(0x2004, 1) // COMMAND.SOFT_RESET
	assert.True(t, m.GPR(9).IsZero())
}

// INT_ENA/INT recompute: enabling DONE interrupt and finishing a
// program raises INT.done.
func TestInterruptRecomputeOnFinish(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{end()})
	m.WriteAHB(0x2008, 1) // INT_ENA.done
	m.Start()
	m.RunUntilEnd(10)
	assert.Equal(t, uint32(1), m.ReadAHB(0x200C)&1)
}

// Memory region policy: CONST_ROM is core-readable but not
// core-writable or AHB-readable/writable in this build's default
// configuration.
func TestConstROMRegionPolicy(t *testing.T) {
	m := newModel(t)
	m.WriteMemory(0x3000, 0xAAAA5555)
	assert.Equal(t, uint32(0xAAAA5555), m.ReadCoreData(0x3000))
	m.WriteCoreData(0x3000, 0x11112222)
	assert.Equal(t, uint32(0xAAAA5555), m.ReadCoreData(0x3000), "CONST_ROM must reject core writes")
	assert.Zero(t, m.ReadAHB(0x3000), "CONST_ROM must not be AHB-readable")
}

// INSTR_MEM fetch-only policy: core data reads always return zero,
// even though fetch() reads the same words.
func TestInstrMemIsFetchOnlyForCore(t *testing.T) {
	m := newModel(t)
	m.WriteMemory(startPC, encoding.Encode(end(), encoding.ParityNone))
	assert.Zero(t, m.ReadCoreData(startPC))
	assert.Equal(t, encoding.Encode(end(), encoding.ParityNone), m.Fetch(startPC))
}

// RAR underflow: a lone RET with no matching CALL warns and falls
// through rather than panicking or faulting.
func TestRetUnderflowFallsThrough(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		ret(),
		end(),
	})
	m.Start()
	m.RunUntilEnd(10)
	require.True(t, m.IsFinished())
}

// Change-stream replay (Invariant 3): popping every record from a run
// and replaying its Mem writes onto a zeroed memory image reproduces
// the final memory contents.
func TestChangeStreamReplayReproducesMemory(t *testing.T) {
	m := newModel(t)
	load(t, m, encoding.ParityNone, []encoding.Fields{
		movi(1, 0x123),
		movi(2, 0x200),
		str(1, 2),
		end(),
	})
	m.SetChangeReporting(true)
	m.Start()
	m.RunUntilEnd(100)

	replay := map[uint16]uint32{}
	for {
		rec, ok := m.PopChange()
		if !ok {
			break
		}
		if rec.Kind != change.KindMem {
			continue
		}
		replay[uint16(rec.Object)] = rec.New[0]
	}
	assert.Equal(t, uint32(0x123), replay[0x200])
}
