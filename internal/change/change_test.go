/*
   SPECT change-reporting stream tests.

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

package change

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestReportSuppressesUnchangedScalar(t *testing.T) {
	s := NewStream()
	o, n := Scalar1(5, 5)
	s.Report(Record{Kind: KindFlag, Object: 0, Old: o, New: n})
	assert.False(t, s.HasChange())
}

func TestReportKeepsChangedScalar(t *testing.T) {
	s := NewStream()
	o, n := Scalar1(0, 1)
	s.Report(Record{Kind: KindFlag, Object: 0, Old: o, New: n})
	assert.True(t, s.HasChange())
	got, ok := s.Pop()
	assert.True(t, ok)
	want := Record{Kind: KindFlag, Object: 0, Old: o, New: n}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamKindsAlwaysEmit(t *testing.T) {
	s := NewStream()
	o, n := Scalar1(1, 1)
	s.Report(Record{Kind: KindRBUS, Object: 0, Old: o, New: n})
	s.Report(Record{Kind: KindKBUS, Object: 0, Old: o, New: n})
	assert.Equal(t, 2, s.Len())
}

func TestDisabledStreamDropsReports(t *testing.T) {
	s := NewStream()
	s.SetEnabled(false)
	_, n := Scalar1(0, 1)
	s.Report(Record{Kind: KindGPR, New: n})
	assert.False(t, s.HasChange())
}

func TestFIFOOrder(t *testing.T) {
	s := NewStream()
	_, n1 := Scalar1(0, 1)
	_, n2 := Scalar1(0, 2)
	s.Report(Record{Kind: KindFlag, Object: 0, New: n1})
	s.Report(Record{Kind: KindFlag, Object: 1, New: n2})
	first, _ := s.Pop()
	second, _ := s.Pop()
	assert.Equal(t, 0, first.Object)
	assert.Equal(t, 1, second.Object)
}
