/*
   SPECT build configuration presets.

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

// Package buildcfg loads an optional TOML preset describing the
// symbols pre-defined before assembly, the default parity mode and
// ISA version, and the instruction-memory AHB access policy. A caller
// supplying no preset file gets the same defaults the hard-coded
// constructor arguments provide: both AHB read and write enabled for
// instruction memory, start PC 0x8000, no parity.
package buildcfg

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	DefaultStartPC     = 0x8000
	DefaultParity      = "none"
	DefaultISAVersion  = 2
	defaultInstrMemAHBR = true
	defaultInstrMemAHBW = true
)

// Config is a loadable assembly/simulation preset.
type Config struct {
	// Predefined lists symbols that are pre-defined (as if by .define)
	// before assembly begins, in addition to the auto-predefined
	// SPECT_ISA_VERSION_<N> symbol this package always adds.
	Predefined []string `toml:"predefined"`

	ParityMode  string `toml:"parity_mode"`
	ISAVersion  int    `toml:"isa_version"`
	InstrMemAHBR *bool `toml:"instr_mem_ahb_r"`
	InstrMemAHBW *bool `toml:"instr_mem_ahb_w"`
	StartPC     *int   `toml:"start_pc"`
}

// Default returns the hard-coded fallback configuration used when no
// preset file is supplied.
func Default() Config {
	r, w := defaultInstrMemAHBR, defaultInstrMemAHBW
	pc := DefaultStartPC
	return Config{
		ParityMode:   DefaultParity,
		ISAVersion:   DefaultISAVersion,
		InstrMemAHBR: &r,
		InstrMemAHBW: &w,
		StartPC:      &pc,
	}
}

// Load reads a TOML preset from path, filling in hard-coded defaults
// for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("buildcfg: loading %s: %w", path, err)
	}
	return cfg, nil
}

// Symbols returns the full predefined-symbol set for this config,
// including the auto-predefined SPECT_ISA_VERSION_<N> symbol.
func (c Config) Symbols() []string {
	out := make([]string, 0, len(c.Predefined)+1)
	out = append(out, c.Predefined...)
	out = append(out, fmt.Sprintf("SPECT_ISA_VERSION_%d", c.ISAVersion))
	return out
}

// InstrMemAHBReadable reports whether instruction memory is readable
// over the AHB bus, defaulting to true when unset.
func (c Config) InstrMemAHBReadable() bool {
	if c.InstrMemAHBR == nil {
		return defaultInstrMemAHBR
	}
	return *c.InstrMemAHBR
}

// InstrMemAHBWritable reports whether instruction memory is writable
// over the AHB bus, defaulting to true when unset.
func (c Config) InstrMemAHBWritable() bool {
	if c.InstrMemAHBW == nil {
		return defaultInstrMemAHBW
	}
	return *c.InstrMemAHBW
}

// Start returns the configured start PC, defaulting to DefaultStartPC
// when unset.
func (c Config) Start() int {
	if c.StartPC == nil {
		return DefaultStartPC
	}
	return *c.StartPC
}
