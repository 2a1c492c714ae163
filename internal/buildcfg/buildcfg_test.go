/*
   SPECT build configuration preset tests.

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

package buildcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesHardCodedFallback(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultParity, cfg.ParityMode)
	assert.Equal(t, DefaultISAVersion, cfg.ISAVersion)
	assert.True(t, cfg.InstrMemAHBReadable())
	assert.True(t, cfg.InstrMemAHBWritable())
	assert.Equal(t, DefaultStartPC, cfg.Start())
}

func TestSymbolsIncludesAutoISAVersion(t *testing.T) {
	cfg := Default()
	cfg.Predefined = []string{"FOO", "BAR"}
	syms := cfg.Symbols()
	assert.Contains(t, syms, "FOO")
	assert.Contains(t, syms, "BAR")
	assert.Contains(t, syms, "SPECT_ISA_VERSION_2")
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.toml")
	content := `
predefined = ["DEBUG_BUILD"]
parity_mode = "odd"
isa_version = 1
instr_mem_ahb_w = false
start_pc = 32768
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "odd", cfg.ParityMode)
	assert.Equal(t, 1, cfg.ISAVersion)
	assert.False(t, cfg.InstrMemAHBWritable())
	assert.True(t, cfg.InstrMemAHBReadable())
	assert.Equal(t, 32768, cfg.Start())
	assert.Contains(t, cfg.Symbols(), "SPECT_ISA_VERSION_1")
	assert.Contains(t, cfg.Symbols(), "DEBUG_BUILD")
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := Load("/nonexistent/path/preset.toml")
	assert.Error(t, err)
}
