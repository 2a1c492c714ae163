/*
   SPECT logging wrapper tests.

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

package spectlog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleWritesFormattedLine(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelDebug, High)
	logger := slog.New(h)
	logger.Info("started", "version", 2)

	out := buf.String()
	assert.Contains(t, out, "started")
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "2")
}

func TestDebugInfoGatedByVerbosity(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelDebug, Low)
	logger := slog.New(h)

	DebugInfo(logger, h, High, "should not appear")
	assert.Empty(t, buf.String())

	DebugInfo(logger, h, Low, "should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestSetVerbosityChangesGate(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelDebug, None)
	logger := slog.New(h)

	DebugInfo(logger, h, Low, "first")
	assert.Empty(t, buf.String())

	h.SetVerbosity(Medium)
	DebugInfo(logger, h, Low, "second")
	assert.Contains(t, buf.String(), "second")
}

func TestWithAttrsPreservesVerbosity(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelDebug, Medium)
	child := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(*Handler)
	assert.Equal(t, Medium, child.Verbosity())
}
