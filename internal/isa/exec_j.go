/*
   SPECT instruction catalog — J-type control-flow ops.

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

import "github.com/tropicsquare/spect/internal/change"

// execCALL pushes PC+4 onto the return-address stack and jumps to the
// instruction's absolute target. A RAR overflow is a diagnostic, not a
// fault (spec.md §7): PushRAR drops the oldest entry and
// logs a warning, and execution continues with the jump taken.
func execCALL() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		ret := m.PC() + 4
		m.PushRAR(ret)
		reportRAR(m.Changes(), change.RarPush, ret)
		m.SetPC(ins.Fields.NewPC)
		return Jumped, nil
	}
}

// execRET pops the return-address stack and resumes there. Popping an
// empty stack warns and leaves PC unchanged (falls through to PC+4).
func execRET() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		addr, ok := m.PopRAR()
		if !ok {
			m.Warn("RAR underflow on RET")
			return Advance, nil
		}
		reportRAR(m.Changes(), change.RarPop, addr)
		m.SetPC(addr)
		return Jumped, nil
	}
}

// condBranch builds BRZ/BRNZ/BRC/BRNC/BRE/BRNE: jump to the
// instruction's absolute target iff flag() == want, else fall through.
func condBranch(flag func(Machine) bool, want bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		if flag(m) == want {
			m.SetPC(ins.Fields.NewPC)
			return Jumped, nil
		}
		return Advance, nil
	}
}

// execJMP is an unconditional absolute jump.
func execJMP() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		m.SetPC(ins.Fields.NewPC)
		return Jumped, nil
	}
}

// execEND halts the program. V1 additionally copies R31 into SRR
// before signaling Finish, matching the original's end-of-program
// status-register handoff; V2 drops that side effect.
func execEND(copyR31ToSRR bool) executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		if copyR31ToSRR {
			old := m.SRR()
			v := m.GPR(31)
			m.SetSRR(v)
			reportSRR(m.Changes(), old, v)
		}
		m.Finish(false)
		return Ended, nil
	}
}

// execNOP does nothing.
func execNOP() executeFunc {
	return func(m Machine, ins Instruction) (Effect, error) {
		return Advance, nil
	}
}
