/*
   SPECT assembler — hand-rolled line lexer.

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
	"strconv"
	"strings"
	"unicode"
)

// stripComment cuts a line at its first ';', if any.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// isIdentStart/isIdentCont classify identifier characters: letters,
// digits and underscore, first character never a digit.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentCont(r) {
			return false
		}
	}
	return true
}

// splitLabel extracts a leading "IDENT:" from line, returning the
// label, the remainder (trimmed) and whether one was found.
func splitLabel(line string) (label, rest string, ok bool) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", line, false
	}
	candidate := strings.TrimSpace(line[:i])
	if !isIdent(candidate) {
		return "", line, false
	}
	return candidate, strings.TrimSpace(line[i+1:]), true
}

// splitFields splits line on whitespace runs, discarding empties.
func splitFields(line string) []string {
	return strings.Fields(line)
}

// splitOperands splits a comma-separated operand list, trimming each
// entry. An empty line yields no operands.
func splitOperands(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// parseRegister recognizes "R<n>"/"r<n>", 0 <= n <= 31.
func parseRegister(tok string) (uint8, bool) {
	if len(tok) < 2 || (tok[0] != 'r' && tok[0] != 'R') {
		return 0, false
	}
	for _, c := range tok[1:] {
		if !unicode.IsDigit(c) {
			return 0, false
		}
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 0 || n > 31 {
		return 0, false
	}
	return uint8(n), true
}

// parseNumber parses a VALUE token (DEC | "0x"HEX | "0b"BIN). ok is
// false if tok does not start with a digit, i.e. it is not a number
// at all (as opposed to being malformed, which is a SyntaxError the
// caller raises itself).
func parseNumber(tok string) (value uint64, ok bool, err error) {
	if tok == "" || !unicode.IsDigit(rune(tok[0])) {
		return 0, false, nil
	}
	base := 10
	digits := tok
	if len(tok) > 1 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
		base = 16
		digits = tok[2:]
	} else if len(tok) > 1 && tok[0] == '0' && (tok[1] == 'b' || tok[1] == 'B') {
		base = 2
		digits = tok[2:]
	}
	v, perr := strconv.ParseUint(digits, base, 64)
	if perr != nil {
		return 0, true, perr
	}
	return v, true, nil
}
