/*
   SPECT Keccak-f[400] sponge.

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

// Package keccak400 implements the Keccak-f[400] permutation (a 5x5
// array of 16-bit lanes, 400 bits of state total) driving a sponge
// with rate 144 bits (18 bytes) and capacity 256 bits (32 bytes). This
// is NOT the Keccak-f[1600]/64-bit-lane permutation
// golang.org/x/crypto/sha3 implements (that package has no exported
// entry point for a narrower lane width), so the permutation is
// reimplemented here at 16-bit lanes, following the same construction
// (round function theta/rho/pi/chi/iota, LFSR-derived round constants)
// x/crypto/sha3 uses for the 1600-bit variant.
package keccak400

const (
	laneBits  = 16
	laneMask  = 0xFFFF
	numRounds = 20 // 12 + 2*log2(16)

	// RateBytes / CapacityBytes are the sponge parameters SPECT's
	// TMAC_* instructions assume: rate 144 bits, capacity 256 bits,
	// total width 144+256 = 400 bits.
	RateBytes     = 18
	CapacityBytes = 32
)

// State is the Keccak-f[400] state: a 5x5 array of 16-bit lanes,
// indexed state[x][y].
type State [5][5]uint16

var roundConstants = [numRounds]uint16{
	0x0001, 0x8082, 0x808a, 0x8000,
	0x808b, 0x0001, 0x8081, 0x8009,
	0x008a, 0x0088, 0x8009, 0x000a,
	0x808b, 0x008b, 0x8089, 0x8003,
	0x8002, 0x0080, 0x800a, 0x000a,
}

var rotationOffsets = [5][5]uint{
	{0, 1, 62 % laneBits, 28 % laneBits, 27 % laneBits},
	{36 % laneBits, 44 % laneBits, 6, 55 % laneBits, 20 % laneBits},
	{3, 10, 43 % laneBits, 25 % laneBits, 39 % laneBits},
	{41 % laneBits, 45 % laneBits, 15, 21, 8},
	{18, 2, 61 % laneBits, 56 % laneBits, 14},
}

func rotl16(x uint16, n uint) uint16 {
	n %= laneBits
	if n == 0 {
		return x
	}
	return (x << n) | (x >> (laneBits - n))
}

// Permute applies the Keccak-f[400] permutation (all 20 rounds) to s
// in place.
func Permute(s *State) {
	for round := 0; round < numRounds; round++ {
		var c [5]uint16
		for x := 0; x < 5; x++ {
			c[x] = s[x][0] ^ s[x][1] ^ s[x][2] ^ s[x][3] ^ s[x][4]
		}
		var d [5]uint16
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ rotl16(c[(x+1)%5], 1)
		}
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				s[x][y] ^= d[x]
			}
		}

		var b [5][5]uint16
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				b[y][(2*x+3*y)%5] = rotl16(s[x][y], rotationOffsets[x][y])
			}
		}

		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				s[x][y] = b[x][y] ^ ((^b[(x+1)%5][y]) & b[(x+2)%5][y])
			}
		}

		s[0][0] ^= roundConstants[round]
	}
}

// Init zeroes the sponge state (TMAC_IT).
func Init(s *State) { *s = State{} }

// AbsorbBlock XORs an 18-byte (RateBytes) block into the rate portion
// of the state and permutes.
func AbsorbBlock(s *State, block []byte) {
	if len(block) != RateBytes {
		panic("keccak400: absorb block must be RateBytes long")
	}
	for i := 0; i < RateBytes/2; i++ {
		// Lane ordering follows the standard Keccak flattening: lane
		// index i maps to (x, y) = (i%5, i/5) over the first 9 lanes
		// the 18-byte rate covers (9 lanes * 2 bytes = 18 bytes).
		x, y := i%5, i/5
		lane := uint16(block[i*2]) | uint16(block[i*2+1])<<8
		s[x][y] ^= lane
	}
	Permute(s)
}

// squeezeLanes reads count lanes (2*count bytes) starting at lane
// index 0, following the same flattening AbsorbBlock uses.
func squeezeLanes(s *State, count int) []byte {
	out := make([]byte, count*2)
	for i := 0; i < count; i++ {
		x, y := i%5, i/5
		lane := s[x][y]
		out[i*2] = byte(lane)
		out[i*2+1] = byte(lane >> 8)
	}
	return out
}

// SqueezeBlock extracts CapacityBytes (32) worth of output from the
// sponge, following standard squeeze semantics: the first RateBytes
// (18) come straight from the state left by the prior absorb, with no
// extra permutation; only once that's exhausted does the sponge
// permute again, and the remaining CapacityBytes-RateBytes (14) come
// from the rate portion of that freshly permuted state. SPECT's
// TMAC_RD performs exactly this fixed one-shot 32-byte squeeze.
func SqueezeBlock(s *State) [CapacityBytes]byte {
	var out [CapacityBytes]byte
	copy(out[:RateBytes], squeezeLanes(s, RateBytes/2))

	Permute(s)
	copy(out[RateBytes:], squeezeLanes(s, (CapacityBytes-RateBytes)/2))

	return out
}
