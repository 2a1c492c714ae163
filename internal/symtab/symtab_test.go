/*
   SPECT symbol table tests.

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

package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUnresolvedThenResolve(t *testing.T) {
	tbl := New()
	s := tbl.AddUnresolved("loop", nil, 4)
	assert.False(t, s.Resolved)

	require.NoError(t, tbl.Resolve(s, KindLabel, 0x8010, nil))
	assert.True(t, tbl.Lookup("loop").Resolved)
	assert.Equal(t, uint32(0x8010), tbl.Lookup("loop").Value)
}

func TestAddUnresolvedIsIdempotent(t *testing.T) {
	tbl := New()
	a := tbl.AddUnresolved("x", nil, 1)
	b := tbl.AddUnresolved("x", nil, 2)
	assert.Same(t, a, b)
}

func TestRedefinitionOfResolvedIsError(t *testing.T) {
	tbl := New()
	_, err := tbl.AddResolved("K", KindConstant, 1, nil, 1)
	require.NoError(t, err)
	_, err = tbl.AddResolved("K", KindConstant, 2, nil, 2)
	var redef *RedefinitionError
	assert.ErrorAs(t, err, &redef)
}

func TestLookupUndefinedIsNil(t *testing.T) {
	tbl := New()
	assert.Nil(t, tbl.Lookup("nope"))
	assert.False(t, tbl.IsDefined("nope"))
}

func TestSourceFileLineIndexing(t *testing.T) {
	sf := &SourceFile{Path: "a.s", Lines: []string{"first", "second"}}
	assert.Equal(t, "first", sf.Line(1))
	assert.Equal(t, "second", sf.Line(2))
	assert.Equal(t, "", sf.Line(0))
	assert.Equal(t, "", sf.Line(3))
}
