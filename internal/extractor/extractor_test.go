package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor(t *testing.T) {
	_, err := NewExtractor("python")
	require.NoError(t, err)

	_, err = NewExtractor("cobol")
	assert.Error(t, err)
}

func TestExtractor_ExtractSource_Imports(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	t.Run("Plain and dotted imports", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("import os\nimport pkg.mod\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"os", "pkg.mod"}, res.Imports)
	})

	t.Run("Aliased import keeps the real name", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("import numpy as np\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"numpy"}, res.Imports)
	})

	t.Run("Multiple targets in one statement", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("import os, sys\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"os", "sys"}, res.Imports)
	})

	t.Run("From-import records the module only", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("from pkg.mod import thing, other\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"pkg.mod"}, res.Imports)
	})

	t.Run("Relative from-import drops the dots", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("from .routes import get_routes\nfrom ..core.db import Database\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"routes", "core.db"}, res.Imports)
	})

	t.Run("Bare relative import contributes nothing", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("from . import sibling\n"))
		require.NoError(t, err)
		assert.Empty(t, res.Imports)
	})

	t.Run("Imports inside function bodies are found", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("def lazy():\n    import pkg.heavy\n    return pkg.heavy\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"pkg.heavy"}, res.Imports)
	})

	t.Run("Duplicates are preserved in document order", func(t *testing.T) {
		res, err := ext.ExtractSource([]byte("import os\nimport os\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"os", "os"}, res.Imports)
	})
}

func TestExtractor_ExtractSource_Symbols(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	src := []byte(`
class Database:
    def connect(self):
        pass

async def fetch():
    pass

def helper():
    def inner():
        pass
`)
	res, err := ext.ExtractSource(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"Database", "connect", "fetch", "helper", "inner"}, res.Symbols)
}

func TestExtractor_ExtractSource_ParseFailure(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	_, err = ext.ExtractSource([]byte("def broken(:\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestExtractor_ExtractFile(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("import json\n"), 0o644))

	res, err := ext.ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"json"}, res.Imports)

	_, err = ext.ExtractFile(filepath.Join(dir, "missing.py"))
	assert.Error(t, err)
}

func TestExtractor_Analyze(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	t.Run("Sorted and deduplicated", func(t *testing.T) {
		rep := ext.Analyze([]byte("import zlib\nimport abc\nimport zlib\n\ndef z(): pass\n\ndef a(): pass\n"))
		assert.Empty(t, rep.Error)
		assert.Equal(t, []string{"abc", "zlib"}, rep.Imports)
		assert.Equal(t, []string{"a", "z"}, rep.Symbols)
	})

	t.Run("Private imports are not filtered here", func(t *testing.T) {
		rep := ext.Analyze([]byte("import _internal\n"))
		assert.Equal(t, []string{"_internal"}, rep.Imports)
	})

	t.Run("Parse failure stays well-formed", func(t *testing.T) {
		rep := ext.Analyze([]byte("class Broken(\n"))
		assert.NotEmpty(t, rep.Error)
		assert.Equal(t, []string{}, rep.Imports)
		assert.Equal(t, []string{}, rep.Symbols)
	})
}
