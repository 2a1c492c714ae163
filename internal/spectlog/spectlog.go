/*
   SPECT - Wrapper for slog

   Copyright (c) 2024, SPECT Project Contributors

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE.

*/

// Package spectlog wraps log/slog with a text handler in the style of
// SPECT's teacher package, plus a verbosity level mirroring the
// model's own debug-info gating (NONE/LOW/MEDIUM/HIGH) so callers can
// dial interpreter trace detail without touching slog levels.
package spectlog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Verbosity gates how much per-instruction detail the interpreter
// emits, independent of slog's own level filtering.
type Verbosity int

const (
	None Verbosity = iota
	Low
	Medium
	High
)

type Handler struct {
	out   io.Writer
	h     slog.Handler
	mu    *sync.Mutex
	level Verbosity
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h: h.h.WithAttrs(attrs), mu: h.mu, out: h.out, level: h.level}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h: h.h.WithGroup(name), mu: h.mu, out: h.out, level: h.level}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{formattedTime, r.Level.String() + ":", r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	return err
}

// SetVerbosity adjusts how much per-instruction trace detail Handle's
// caller is expected to request via DebugInfo.
func (h *Handler) SetVerbosity(v Verbosity) {
	h.level = v
}

// Verbosity reports the handler's current trace-detail gate.
func (h *Handler) Verbosity() Verbosity {
	return h.level
}

// NewHandler returns a Handler writing to out at the given slog.Level,
// with interpreter trace detail gated by initial.
func NewHandler(out io.Writer, level slog.Level, initial Verbosity) *Handler {
	return &Handler{
		out: out,
		h: slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: level,
		}),
		mu:    &sync.Mutex{},
		level: initial,
	}
}

// DebugInfo logs msg only if the handler's verbosity is at least want,
// mirroring the model's own debug-info gating around fetch/decode/
// execute tracing.
func DebugInfo(logger *slog.Logger, h *Handler, want Verbosity, msg string, args ...any) {
	if h == nil || h.Verbosity() < want {
		return
	}
	logger.Debug(msg, args...)
}
