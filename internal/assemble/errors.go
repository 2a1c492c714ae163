/*
   SPECT assembler — diagnostic error kinds.

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

package assemble

import (
	"fmt"

	"github.com/tropicsquare/spect/internal/symtab"
)

// SyntaxError is a fatal lex/parse failure: an unknown directive, a
// malformed operand, a wrong operand count, or an unrecognized
// mnemonic. It carries file:line and the offending line for the
// caller to print.
type SyntaxError struct {
	File *symtab.SourceFile
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	where := "<unknown>"
	if e.File != nil {
		where = fmt.Sprintf("%s:%d", e.File.Path, e.Line)
	}
	return fmt.Sprintf("spect/assemble: %s: %s: %q", where, e.Msg, e.Text)
}

// NotEnoughSpaceError is fatal: the program does not fit between the
// first address and the end of INSTR_MEM.
type NotEnoughSpaceError struct {
	FirstAddr uint16
	At        uint16
}

func (e *NotEnoughSpaceError) Error() string {
	return fmt.Sprintf("spect/assemble: program starting at 0x%04X does not fit in INSTR_MEM (overran at 0x%04X)",
		e.FirstAddr, e.At)
}

// IoError wraps a file-system failure (open/read of a source or
// included file) with the path that failed.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("spect/assemble: %s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }
