/*
   SPECT SHA-512 engine tests.

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

package sha512x

import (
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMatchesStdlibForSingleBlockPadded cross-checks CompressBlock
// against crypto/sha512 for a message that is exactly one 128-byte
// block after standard SHA-512 padding (111 bytes of data, the 0x80
// marker, and a 16-byte length field).
func TestMatchesStdlibForSingleBlockPadded(t *testing.T) {
	msg := make([]byte, 111)
	for i := range msg {
		msg[i] = byte(i)
	}

	want := sha512.Sum512(msg)

	block := make([]byte, 128)
	copy(block, msg)
	block[len(msg)] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		block[127-i] = byte(bitLen >> (8 * i))
	}

	var ctx Context
	Init(&ctx)
	var b128 [128]byte
	copy(b128[:], block)
	Absorb1024(&ctx, b128)

	var got [64]byte
	for i, v := range ctx {
		for b := 0; b < 8; b++ {
			got[i*8+b] = byte(v >> (56 - 8*b))
		}
	}
	assert.Equal(t, want[:], got[:])
}

func TestInitResetsToStandardIV(t *testing.T) {
	ctx := Context{1, 2, 3, 4, 5, 6, 7, 8}
	Init(&ctx)
	assert.Equal(t, initialContext, ctx)
}
