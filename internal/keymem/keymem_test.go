/*
   SPECT key memory tests.

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

package keymem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEmptySlotIsError(t *testing.T) {
	m := New()
	_, err := m.Read(0, 0, 0)
	assert.ErrorIs(t, err, ErrEmptySlot)
}

func TestWriteProgramRead(t *testing.T) {
	m := New()
	m.Write(0, 0xCAFEBABE)
	m.Write(1, 0xDEADBEEF)
	require.NoError(t, m.Program(3, 5))

	got, err := m.Read(3, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), got)

	got, err = m.Read(3, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), got)

	assert.Equal(t, Full, m.SlotStatus(3, 5))
}

func TestEraseSetsAllOnesAndEmpty(t *testing.T) {
	m := New()
	m.Write(0, 0x11111111)
	require.NoError(t, m.Program(1, 1))
	require.NoError(t, m.Erase(1, 1))

	assert.Equal(t, Empty, m.SlotStatus(1, 1))
	assert.NoError(t, m.VerifyErase(1, 1))

	_, err := m.Read(1, 1, 0)
	assert.ErrorIs(t, err, ErrEmptySlot)
}

func TestVerifyEraseFailsOnProgrammedSlot(t *testing.T) {
	m := New()
	m.Write(0, 0x1)
	require.NoError(t, m.Program(2, 2))
	assert.Error(t, m.VerifyErase(2, 2))
}

func TestFlushClearsRAMBufferNotSlots(t *testing.T) {
	m := New()
	m.Write(0, 0x42)
	require.NoError(t, m.Flush())
	require.NoError(t, m.Program(0, 0))

	got, err := m.Read(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)
}

func TestSlotsAreIndependentByTypeAndSlot(t *testing.T) {
	m := New()
	m.Write(0, 0xA)
	require.NoError(t, m.Program(0, 0))
	m.Write(0, 0xB)
	require.NoError(t, m.Program(0, 1))

	got0, _ := m.Read(0, 0, 0)
	got1, _ := m.Read(0, 1, 0)
	assert.Equal(t, uint32(0xA), got0)
	assert.Equal(t, uint32(0xB), got1)
}
