/*
   SPECT instruction word encoding tests.

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

package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, p := range []Parity{ParityNone, ParityOdd, ParityEven} {
		f := Fields{Type: TypeR, Opcode: 0x5, Func: 0x3, Op1: 7, Op2: 9, Op3: 15}
		word := Encode(f, p)
		got, err := Decode(word, p)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
}

func TestITypeFieldRoundTrip(t *testing.T) {
	f := Fields{Type: TypeI, Opcode: 0x1, Func: 0x2, Op1: 3, Op2: 4, Immediate: 0xABC}
	word := Encode(f, ParityEven)
	got, err := Decode(word, ParityEven)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestMTypeFieldRoundTrip(t *testing.T) {
	f := Fields{Type: TypeM, Opcode: 0x2, Func: 0x0, Op1: 11, Addr: 0x2004}
	word := Encode(f, ParityOdd)
	got, err := Decode(word, ParityOdd)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestJTypeFieldRoundTrip(t *testing.T) {
	f := Fields{Type: TypeJ, Opcode: 0x9, Func: 0x1, NewPC: 0x8010}
	word := Encode(f, ParityNone)
	got, err := Decode(word, ParityNone)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestOddParityFlipDetected(t *testing.T) {
	f := Fields{Type: TypeJ, NewPC: 0x8000}
	word := Encode(f, ParityOdd)
	_, err := Decode(word, ParityOdd)
	require.NoError(t, err)

	for bit := 0; bit < 31; bit++ {
		flipped := word ^ (1 << uint(bit))
		_, err := Decode(flipped, ParityOdd)
		assert.ErrorIs(t, err, ErrBadParity, "flipping bit %d should break odd parity", bit)
	}
}

func TestParityNoneNeverFails(t *testing.T) {
	word := Encode(Fields{Type: TypeR}, ParityNone)
	_, err := Decode(word^0xFFFFFFFF, ParityNone)
	assert.NoError(t, err)
}
