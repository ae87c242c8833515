// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvCacheDir, dir)
	t.Setenv(EnvCache, "")
	return dir
}

func TestDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		dir := useTempCache(t)
		got, ok := Dir()
		assert.True(t, ok)
		assert.Equal(t, dir, got)
	})

	t.Run("falls back to user cache dir", func(t *testing.T) {
		t.Setenv(EnvCacheDir, "")
		got, ok := Dir()
		if ok {
			assert.True(t, filepath.IsAbs(got))
			assert.Equal(t, "osmx", filepath.Base(got))
		}
	})
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv(EnvCache, tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv(EnvCache, "0")
		base, ok, err := EnsureBaseDir()
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, base)
	})

	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "cache")
		t.Setenv(EnvCacheDir, dir)
		t.Setenv(EnvCache, "")

		base, ok, err := EnsureBaseDir()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, dir, base)
		assert.DirExists(t, dir)
	})

	t.Run("base is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o600))
		t.Setenv(EnvCacheDir, file)
		t.Setenv(EnvCache, "")

		_, ok, err := EnsureBaseDir()
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestWriteRead(t *testing.T) {
	dir := useTempCache(t)
	subdirs := []string{"overpass"}
	key := `[out:json];area(3600167454)->.searchArea;`

	_, ok := Read(subdirs, key, 0)
	assert.False(t, ok)

	require.NoError(t, Write(subdirs, key, []byte(`{"elements":[]}`)))

	p, exists := EntryPath(subdirs, key)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "overpass"), filepath.Dir(p))
	assert.Len(t, filepath.Base(p), 64)

	e, ok := Read(subdirs, key, time.Hour)
	require.True(t, ok)
	assert.Equal(t, key, e.Key)
	assert.Equal(t, filepath.Base(p), e.EncodedKey)
	assert.Equal(t, `{"elements":[]}`, string(e.Data))
}

func TestRead_Stale(t *testing.T) {
	useTempCache(t)
	require.NoError(t, Write(nil, "k", []byte("v")))

	p, _ := EntryPath(nil, "k")
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	_, ok := Read(nil, "k", time.Hour)
	assert.False(t, ok)

	_, ok = Read(nil, "k", 0)
	assert.True(t, ok)
}

func TestWriteRead_Disabled(t *testing.T) {
	useTempCache(t)
	t.Setenv(EnvCache, "false")

	require.NoError(t, Write(nil, "k", []byte("v")))
	_, exists := EntryPath(nil, "k")
	assert.False(t, exists)

	_, ok := Read(nil, "k", 0)
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	useTempCache(t)
	require.NoError(t, Write([]string{"nominatim"}, "old", []byte("1")))
	require.NoError(t, Write([]string{"nominatim"}, "new", []byte("2")))

	oldPath, _ := EntryPath([]string{"nominatim"}, "old")
	stamp := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stamp, stamp))

	require.NoError(t, Purge(0))
	assert.FileExists(t, oldPath)

	require.NoError(t, Purge(24))
	assert.NoFileExists(t, oldPath)
	_, exists := EntryPath([]string{"nominatim"}, "new")
	assert.True(t, exists)
}

func TestPurge_MissingDir(t *testing.T) {
	t.Setenv(EnvCacheDir, filepath.Join(t.TempDir(), "absent"))
	assert.NoError(t, Purge(1))
}

func TestDisk(t *testing.T) {
	useTempCache(t)
	d := Disk{Subdirs: []string{"overpass"}, MaxAge: time.Hour}

	_, ok := d.Get("q")
	assert.False(t, ok)

	require.NoError(t, d.Put("q", []byte("payload")))
	got, ok := d.Get("q")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}
