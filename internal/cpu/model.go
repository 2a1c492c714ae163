/*
   SPECT CpuModel (C6): owns all architectural state.

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

// Package cpu implements CpuModel (C6): the register file, flags,
// return-address stack, flat memory, config-register block, producer
// queues, hash/sponge engines, key memory, and the fetch-decode-execute
// loop that dispatches into internal/isa's catalog. Model satisfies
// isa.Machine, which is how the catalog's Execute bodies reach this
// state without either package importing the other's concrete type.
package cpu

import (
	"io"
	"log/slog"

	"github.com/tropicsquare/spect/internal/change"
	"github.com/tropicsquare/spect/internal/encoding"
	"github.com/tropicsquare/spect/internal/isa"
	"github.com/tropicsquare/spect/internal/keccak400"
	"github.com/tropicsquare/spect/internal/keymem"
	"github.com/tropicsquare/spect/internal/sha512x"
	"github.com/tropicsquare/spect/internal/spectlog"
	"github.com/tropicsquare/spect/internal/wideint"
)

// GPRCount and RARDepth are ported from the original's spect_defs.h
// (GPR_CNT, RAR_DEPTH).
const (
	GPRCount = 32
	RARDepth = 5
)

// Model owns every piece of architectural state a SPECT session
// mutates: one instance per session, matching spec.md's "CpuModel:
// one instance per session" lifecycle note — no package-level
// singleton, unlike the teacher's emu/memory package this design
// note explicitly calls out as NOT being reused (see DESIGN.md).
type Model struct {
	gpr [GPRCount]wideint.Width256
	z   bool
	c   bool
	e   bool
	srr wideint.Width256

	pc uint16

	rar   [RARDepth]uint16
	rarSP int

	mem wordMemory

	cfg configBlock

	instrMemAHBReadable bool
	instrMemAHBWritable bool

	entropyQueue   []uint32
	keyQueue       []uint32
	kbusErrorQueue []bool

	hashCtx  sha512x.Context
	sponge   keccak400.State
	keys     *keymem.Memory

	catalog  *isa.Catalog
	parity   encoding.Parity
	startPC  uint16
	finished bool

	changes *change.Stream
	logger  *slog.Logger
	handler *spectlog.Handler
}

// New builds a Model for the given ISA version (1 or 2) and parity
// mode. logger/handler may be nil, in which case Warn/DebugInfo calls
// are silently dropped — convenient for tests that don't care about
// trace output.
func New(version int, parity encoding.Parity, startPC uint16, logger *slog.Logger, handler *spectlog.Handler) *Model {
	m := &Model{
		catalog:             isa.NewCatalog(version),
		parity:              parity,
		startPC:             startPC,
		keys:                keymem.New(),
		changes:             change.NewStream(),
		logger:              logger,
		handler:             handler,
		instrMemAHBReadable: true,
		instrMemAHBWritable: true,
	}
	sha512x.Init(&m.hashCtx)
	keccak400.Init(&m.sponge)
	m.setStatusBit(statusIdle, true)
	return m
}

// Catalog returns the model's active instruction catalog, for the
// assembler to resolve mnemonics against the same ISA version.
func (m *Model) Catalog() *isa.Catalog { return m.catalog }

// SetInstrMemAHBPolicy configures INSTR_MEM's host-side (AHB)
// readable/writable policy — the "config" cells of spec.md §3's
// region table, sourced from internal/buildcfg at session setup.
func (m *Model) SetInstrMemAHBPolicy(readable, writable bool) {
	m.instrMemAHBReadable = readable
	m.instrMemAHBWritable = writable
}

// ReadMemory/WriteMemory are the unchecked debug path.
func (m *Model) ReadMemory(addr uint16) uint32     { return m.readMemory(addr) }
func (m *Model) WriteMemory(addr uint16, v uint32) { m.writeMemory(addr, v) }

// ReadAHB/WriteAHB are the policy-aware host-side path.
func (m *Model) ReadAHB(addr uint16) uint32     { return m.readAHB(addr) }
func (m *Model) WriteAHB(addr uint16, v uint32) { m.writeAHB(addr, v) }

// ReadCoreData/WriteCoreData are the instruction-side policy path,
// named to match spec.md §4.6 (isa.Machine's ReadCore/WriteCore
// delegate to these same methods).
func (m *Model) ReadCoreData(addr uint16) uint32     { return m.readCoreData(addr) }
func (m *Model) WriteCoreData(addr uint16, v uint32) { m.writeCoreData(addr, v) }

// Fetch reads one instruction word from INSTR_MEM.
func (m *Model) Fetch(addr uint16) uint32 { return m.fetch(addr) }

// --- isa.Machine -----------------------------------------------------

func (m *Model) GPR(i uint8) wideint.Width256      { return m.gpr[i%GPRCount] }
func (m *Model) SetGPR(i uint8, v wideint.Width256) { m.gpr[i%GPRCount] = v }

func (m *Model) Z() bool     { return m.z }
func (m *Model) SetZ(v bool) { m.z = v }
func (m *Model) C() bool     { return m.c }
func (m *Model) SetC(v bool) { m.c = v }
func (m *Model) E() bool     { return m.e }
func (m *Model) SetE(v bool) { m.e = v }

func (m *Model) SRR() wideint.Width256      { return m.srr }
func (m *Model) SetSRR(v wideint.Width256) { m.srr = v }

func (m *Model) PC() uint16     { return m.pc }
func (m *Model) SetPC(v uint16) { m.pc = v }

// PushRAR pushes onto the fixed-depth return-address stack. Overflow
// is a design error per spec.md §7 (RarOverflow/Underflow): the
// interpreter warns and continues, dropping the oldest entry rather
// than faulting.
func (m *Model) PushRAR(addr uint16) {
	if m.rarSP >= RARDepth {
		m.Warn("RAR overflow on CALL")
		copy(m.rar[:], m.rar[1:])
		m.rar[RARDepth-1] = addr
		return
	}
	m.rar[m.rarSP] = addr
	m.rarSP++
}

func (m *Model) PopRAR() (uint16, bool) {
	if m.rarSP == 0 {
		return 0, false
	}
	m.rarSP--
	return m.rar[m.rarSP], true
}

func (m *Model) ReadCore(addr uint16) uint32     { return m.readCoreData(addr) }
func (m *Model) WriteCore(addr uint16, v uint32) { m.writeCoreData(addr, v) }

func (m *Model) PopEntropy() (uint32, bool) {
	if len(m.entropyQueue) == 0 {
		return 0, false
	}
	v := m.entropyQueue[0]
	m.entropyQueue = m.entropyQueue[1:]
	return v, true
}

func (m *Model) PopKey() (uint32, bool) {
	if len(m.keyQueue) == 0 {
		return 0, false
	}
	v := m.keyQueue[0]
	m.keyQueue = m.keyQueue[1:]
	return v, true
}

func (m *Model) PopKbusError() bool {
	if len(m.kbusErrorQueue) == 0 {
		return false
	}
	v := m.kbusErrorQueue[0]
	m.kbusErrorQueue = m.kbusErrorQueue[1:]
	return v
}

func (m *Model) HashReset()             { sha512x.Init(&m.hashCtx) }
func (m *Model) HashAbsorb(b [128]byte) { sha512x.Absorb1024(&m.hashCtx, b) }
func (m *Model) HashContext() [8]uint64 { return m.hashCtx }

func (m *Model) SpongeInit()             { keccak400.Init(&m.sponge) }
func (m *Model) SpongeAbsorb(b [18]byte) { keccak400.AbsorbBlock(&m.sponge, b[:]) }
func (m *Model) SpongeSqueeze() [32]byte { return keccak400.SqueezeBlock(&m.sponge) }

func (m *Model) KeyRead(keyType, slot, offset uint8) (uint32, error) {
	return m.keys.Read(keyType, slot, offset)
}
func (m *Model) KeyWrite(offset uint8, data uint32)     { m.keys.Write(offset, data) }
func (m *Model) KeyProgram(keyType, slot uint8) error   { return m.keys.Program(keyType, slot) }
func (m *Model) KeyErase(keyType, slot uint8) error     { return m.keys.Erase(keyType, slot) }
func (m *Model) KeyVerifyErase(keyType, slot uint8) error { return m.keys.VerifyErase(keyType, slot) }
func (m *Model) KeyFlush() error                        { return m.keys.Flush() }

// Finish sets STATUS[IDLE]=1, STATUS[DONE]=1, STATUS[ERR]=statusErr
// and reevaluates interrupts, per spec.md §4.5.
func (m *Model) Finish(statusErr bool) {
	m.finished = true
	m.setStatusBit(statusIdle, true)
	m.setStatusBit(statusDone, true)
	m.setStatusBit(statusErrBit, statusErr)
	m.recomputeInterrupts()
}

func (m *Model) Warn(msg string) {
	if m.logger == nil {
		return
	}
	m.logger.Warn(msg)
}

func (m *Model) Changes() *change.Stream { return m.changes }

// RARStackDepth reports the return-address stack's current depth,
// for diagnostics and the CALL/RET balance invariant.
func (m *Model) RARStackDepth() int { return m.rarSP }

// --- public CpuModel surface -----------------------------------------

// Reset zeroes registers, flags, SRR, RAR and its SP, hash/sponge
// state, and config registers, but does NOT touch memory (spec.md's
// lifecycle note, matching uninitialized-SRAM hardware behavior).
func (m *Model) Reset() {
	m.gpr = [GPRCount]wideint.Width256{}
	m.z, m.c, m.e = false, false, false
	m.srr = wideint.Width256{}
	m.pc = 0
	m.rar = [RARDepth]uint16{}
	m.rarSP = 0
	sha512x.Init(&m.hashCtx)
	keccak400.Init(&m.sponge)
	m.cfg = configBlock{}
	m.mem.write(statusRegAddr, 0)
	m.mem.write(commandRegAddr, 0)
	m.mem.write(intEnaRegAddr, 0)
	m.mem.write(intRegAddr, 0)
	m.setStatusBit(statusIdle, true)
	m.finished = false
}

// SetStartPC configures the address start() loads PC from.
func (m *Model) SetStartPC(addr uint16) { m.startPC = addr }

// Start loads PC from the configured start address, clears IDLE, and
// begins execution (spec.md's config-register side-effect note).
func (m *Model) Start() {
	m.pc = m.startPC
	m.finished = false
	m.setStatusBit(statusIdle, false)
	m.setStatusBit(statusDone, false)
}

// IsFinished reports whether the program has reached END or a fatal
// decode error.
func (m *Model) IsFinished() bool { return m.finished }

// Step executes up to n instructions, stopping early if the program
// ends. It returns the number of instructions actually executed.
func (m *Model) Step(n int) int {
	executed := 0
	for i := 0; i < n && !m.finished; i++ {
		m.stepOne()
		executed++
	}
	return executed
}

// RunUntilEnd executes instructions until Ended or maxInstr is
// exhausted (0 means unlimited), honoring spec.md §5's
// caller-provided instruction-count budget: on exhaustion the
// interpreter returns without setting Finished.
func (m *Model) RunUntilEnd(maxInstr int) {
	count := 0
	for !m.finished {
		if maxInstr > 0 && count >= maxInstr {
			return
		}
		m.stepOne()
		count++
	}
}

// stepOne is the execute loop body from spec.md §4.5.
func (m *Model) stepOne() {
	word := m.fetch(m.pc)
	fields, err := encoding.Decode(word, m.parity)
	if err != nil {
		spectlog.DebugInfo(m.logger, m.handler, spectlog.Low, "bad parity decoding instruction", slog.Int("pc", int(m.pc)))
		m.Finish(true)
		return
	}

	ins, err := m.catalog.Decode(fields)
	if err != nil {
		spectlog.DebugInfo(m.logger, m.handler, spectlog.Low, "unknown instruction", slog.Int("pc", int(m.pc)))
		m.Finish(true)
		return
	}

	spectlog.DebugInfo(m.logger, m.handler, spectlog.High, "executing", slog.String("mnemonic", ins.Def.Mnemonic), slog.Int("pc", int(m.pc)))

	effect, err := ins.Def.Execute(m, ins)
	if err != nil {
		m.Warn(err.Error())
	}

	switch effect {
	case isa.Advance:
		m.pc += 4
	case isa.Jumped:
		// Execute already set PC.
	case isa.Ended:
		// Finish was already called by the instruction (END).
	}
}

// --- producer-side queues ---------------------------------------------

func (m *Model) PushEntropy(word uint32)   { m.entropyQueue = append(m.entropyQueue, word) }
func (m *Model) PushKey(word uint32)       { m.keyQueue = append(m.keyQueue, word) }
func (m *Model) PushKbusError(bit bool)    { m.kbusErrorQueue = append(m.kbusErrorQueue, bit) }

// --- change reporting ---------------------------------------------------

func (m *Model) SetChangeReporting(enabled bool) { m.changes.SetEnabled(enabled) }
func (m *Model) PopChange() (change.Record, bool) { return m.changes.Pop() }

// --- context persistence -------------------------------------------------

// Context is the bit-exact persisted session state spec.md §6
// describes: register file, flags, PC, RAR + SP, hash context, and
// memory contents.
type Context struct {
	GPR     [GPRCount]wideint.Width256
	Z, C, E bool
	SRR     wideint.Width256
	PC      uint16
	RAR     [RARDepth]uint16
	RARSP   int
	HashCtx sha512x.Context
	Cfg     configBlock
	Memory  [wordMemoryWords]uint32
}

// snapshot builds the Context value for the model's current state.
func (m *Model) snapshot() Context {
	return Context{
		GPR:     m.gpr,
		Z:       m.z,
		C:       m.c,
		E:       m.e,
		SRR:     m.srr,
		PC:      m.pc,
		RAR:     m.rar,
		RARSP:   m.rarSP,
		HashCtx: m.hashCtx,
		Cfg:     m.cfg,
		Memory:  m.mem.words,
	}
}

func (m *Model) restore(ctx Context) {
	m.gpr = ctx.GPR
	m.z, m.c, m.e = ctx.Z, ctx.C, ctx.E
	m.srr = ctx.SRR
	m.pc = ctx.PC
	m.rar = ctx.RAR
	m.rarSP = ctx.RARSP
	m.hashCtx = ctx.HashCtx
	m.cfg = ctx.Cfg
	m.mem.words = ctx.Memory
}

// DumpContext writes the model context spec.md §6 describes (register
// file, flags, PC, RAR + SP, hash context, memory) as a fixed-layout
// binary record, independent of the out-of-scope HEX format.
func (m *Model) DumpContext(w io.Writer) error {
	return writeContext(w, m.snapshot())
}

// LoadContext restores a previously dumped context, resuming a run
// bit-exactly.
func (m *Model) LoadContext(r io.Reader) error {
	ctx, err := readContext(r)
	if err != nil {
		return err
	}
	m.restore(ctx)
	return nil
}
