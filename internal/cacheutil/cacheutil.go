// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/osmx/osmx/internal/log"
)

const (
	EnvCacheDir = "OSMX_CACHE_DIR"
	EnvCache    = "OSMX_CACHE"
)

// Entry is a cached response on disk. Key is the clear-text key and
// EncodedKey the hashed filename.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
	ModTime    time.Time
}

// Dir resolves the base cache directory: OSMX_CACHE_DIR when set, otherwise
// os.UserCacheDir()/osmx. Returns ("", false) when neither resolves.
func Dir() (string, bool) {
	if c, ok := os.LookupEnv(EnvCacheDir); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "osmx"), true
	}
	return "", false
}

// Enabled is true unless OSMX_CACHE is "0" or "false".
func Enabled() bool {
	v := os.Getenv(EnvCache)
	return v != "0" && v != "false"
}

// EnsureBaseDir creates the base cache directory when caching is enabled.
// It returns the path and whether the cache is usable.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}

	base, ok := Dir()
	if !ok {
		return "", false, nil
	}

	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	log.Debugf("cache dir ready: path=%s", base)
	return base, true, nil
}

// EntryPath returns where the entry for clearKey lives beneath subdirs and
// whether a file is already there.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append(append([]string{base}, subdirs...), encodeKey(clearKey))...)
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return p, false
}

// Purge removes cached files older than hours. hours <= 0 disables it.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	removed := 0
	err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	log.Debugf("cache purged: removed=%d older_than=%s", removed, maxAge)
	return nil
}

// Read returns the entry for clearKey. Entries older than maxAge are treated
// as misses; maxAge <= 0 accepts any age.
func Read(subdirs []string, clearKey string, maxAge time.Duration) (*Entry, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := EntryPath(subdirs, clearKey)
	if !ok {
		return nil, false
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if maxAge > 0 && time.Since(info.ModTime()) > maxAge {
		log.Debugf("cache stale: key=%s age=%s", clearKey, time.Since(info.ModTime()))
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", clearKey)
	return &Entry{
		Key:        clearKey,
		EncodedKey: encodeKey(clearKey),
		Path:       p,
		Data:       b,
		ModTime:    info.ModTime(),
	}, true
}

// Write stores data for clearKey beneath subdirs.
func Write(subdirs []string, clearKey string, data []byte) error {
	if !Enabled() {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, encodeKey(clearKey)), data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s bytes=%d", clearKey, len(data))
	return nil
}

// Disk is a namespaced view of the cache, suitable for HTTP response caching.
type Disk struct {
	Subdirs []string
	MaxAge  time.Duration
}

// Get returns the cached bytes for key.
func (d Disk) Get(key string) ([]byte, bool) {
	e, ok := Read(d.Subdirs, key, d.MaxAge)
	if !ok {
		return nil, false
	}
	return e.Data, true
}

// Put stores data under key.
func (d Disk) Put(key string, data []byte) error {
	return Write(d.Subdirs, key, data)
}

func encodeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
