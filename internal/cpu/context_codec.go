/*
   SPECT CpuModel — model-context binary codec.

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

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/tropicsquare/spect/internal/wideint"
)

// contextMagic tags the fixed-layout record so a load against the
// wrong file fails fast instead of silently corrupting state.
const contextMagic uint32 = 0x53504354 // "SPCT"

var errBadContextMagic = errors.New("cpu: not a SPECT model-context file")

// writeContext serializes ctx as a sequence of fixed-width
// little-endian fields, each register widened to its [8]uint32 word
// form via wideint.Words32 — plain encoding/binary rather than gob,
// since every field is already a fixed-size numeric array and the
// format only needs to round-trip within this module.
func writeContext(w io.Writer, ctx Context) error {
	if err := binary.Write(w, binary.LittleEndian, contextMagic); err != nil {
		return err
	}
	for _, r := range ctx.GPR {
		words := r.Words32()
		if err := binary.Write(w, binary.LittleEndian, words); err != nil {
			return err
		}
	}
	flags := [3]uint8{boolByte(ctx.Z), boolByte(ctx.C), boolByte(ctx.E)}
	if err := binary.Write(w, binary.LittleEndian, flags); err != nil {
		return err
	}
	srr := ctx.SRR.Words32()
	if err := binary.Write(w, binary.LittleEndian, srr); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ctx.PC); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ctx.RAR); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(ctx.RARSP)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ctx.HashCtx); err != nil {
		return err
	}
	cfg := [4]uint32{ctx.Cfg.status, ctx.Cfg.command, ctx.Cfg.intEna, ctx.Cfg.int_}
	if err := binary.Write(w, binary.LittleEndian, cfg); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, ctx.Memory)
}

func readContext(r io.Reader) (Context, error) {
	var ctx Context
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return ctx, err
	}
	if magic != contextMagic {
		return ctx, errBadContextMagic
	}
	for i := range ctx.GPR {
		var words [8]uint32
		if err := binary.Read(r, binary.LittleEndian, &words); err != nil {
			return ctx, err
		}
		ctx.GPR[i] = wideint.Width256FromWords32(words)
	}
	var flags [3]uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return ctx, err
	}
	ctx.Z, ctx.C, ctx.E = flags[0] != 0, flags[1] != 0, flags[2] != 0
	var srr [8]uint32
	if err := binary.Read(r, binary.LittleEndian, &srr); err != nil {
		return ctx, err
	}
	ctx.SRR = wideint.Width256FromWords32(srr)
	if err := binary.Read(r, binary.LittleEndian, &ctx.PC); err != nil {
		return ctx, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ctx.RAR); err != nil {
		return ctx, err
	}
	var sp uint32
	if err := binary.Read(r, binary.LittleEndian, &sp); err != nil {
		return ctx, err
	}
	ctx.RARSP = int(sp)
	if err := binary.Read(r, binary.LittleEndian, &ctx.HashCtx); err != nil {
		return ctx, err
	}
	var cfg [4]uint32
	if err := binary.Read(r, binary.LittleEndian, &cfg); err != nil {
		return ctx, err
	}
	ctx.Cfg = configBlock{status: cfg[0], command: cfg[1], intEna: cfg[2], int_: cfg[3]}
	if err := binary.Read(r, binary.LittleEndian, &ctx.Memory); err != nil {
		return ctx, err
	}
	return ctx, nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
