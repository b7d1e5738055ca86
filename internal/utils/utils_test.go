package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "pizza roma", NormalizeQuery("  Pizza Roma\t"))
	assert.Equal(t, "", NormalizeQuery("   "))
	assert.Equal(t, "ph\u1edf", NormalizeQuery(" Pho\u031b\u0309 "))
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, FoldKey("B\u00fan"), FoldKey("Bu\u0301n"))
	assert.Equal(t, "B\u00fan", Compose("Bu\u0301n"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
	assert.Empty(t, CreateRankList(-1))
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("Pizza")

	assert.False(t, f.ShouldInclude("pizza"))
	assert.True(t, f.ShouldInclude("Pasta"))
	assert.False(t, f.ShouldInclude("PASTA"))
	assert.True(t, f.ShouldInclude("pho"))
	assert.True(t, f.ShouldInclude("B\u00fan"))
	assert.False(t, f.ShouldInclude("bu\u0301n"))
}

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"pi", true},
		{"pizza roma", true},
		{"phở", true},
		{"coca-cola", true},
		{"123", false},
		{"pi$$a", false},
		{"aaaa", false},
		{"aa", true},
		{"7up", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidInput(tc.input))
		})
	}
}

func TestTOMLRoundTripAndRecovery(t *testing.T) {
	type section struct {
		Addr string `toml:"addr"`
		Size int    `toml:"size"`
	}
	type doc struct {
		Remote section `toml:"remote"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, WriteTOMLFile(path, doc{Remote: section{Addr: "redis:6379", Size: 7}}))
	require.NoError(t, WriteTOMLFile(path, doc{Remote: section{Addr: "cache:6380", Size: 7}}))
	assert.True(t, FileExists(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	var got doc
	require.NoError(t, DecodeTOMLFile(path, &got))
	assert.Equal(t, "cache:6380", got.Remote.Addr)

	raw, err := DecodeTOMLTable(path)
	require.NoError(t, err)
	remote, ok := Table(raw, "remote")
	require.True(t, ok)
	addr, ok := Value[string](remote, "addr")
	assert.True(t, ok)
	assert.Equal(t, "cache:6380", addr)
	size, ok := Value[int](remote, "size")
	assert.True(t, ok)
	assert.Equal(t, 7, size)
	_, ok = Value[bool](remote, "size")
	assert.False(t, ok)
	_, ok = Value[int](remote, "missing")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("[remote\naddr = "), 0644))
	_, err = DecodeTOMLTable(path)
	assert.Error(t, err)
}

func TestDirWritableDoesNotCreate(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "missing")

	assert.True(t, DirWritable(base))
	assert.False(t, DirWritable(missing))
	assert.NoDirExists(t, missing)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAbsPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, AbsPath(dir))
	assert.Equal(t, "unknown", AbsPath(""))
	assert.True(t, filepath.IsAbs(AbsPath("config.toml")))
}
