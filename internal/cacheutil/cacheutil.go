// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tfctl/nodectl/internal/log"
)

// Environment variables controlling the cache.
const (
	EnvDir     = "NODECTL_CACHE_DIR"
	EnvEnabled = "NODECTL_CACHE"
)

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o600
)

// Entry is a payload read back from the cache. Files are named by the
// sha256 of Key so tokens and query strings never show up on disk.
type Entry struct {
	Key        string
	EncodedKey string
	Path       string
	Data       []byte
	ModTime    time.Time
}

// Age is the time since the entry was written.
func (e *Entry) Age() time.Duration {
	return time.Since(e.ModTime)
}

// Dir is $NODECTL_CACHE_DIR when set, else <user cache dir>/nodectl. It
// reports false when neither resolves, which callers treat as disabled.
func Dir() (string, bool) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, true
	}
	userDir, err := os.UserCacheDir()
	if err != nil || userDir == "" {
		return "", false
	}
	return filepath.Join(userDir, "nodectl"), true
}

// Enabled is false only when NODECTL_CACHE is "0" or "false".
func Enabled() bool {
	switch strings.ToLower(os.Getenv(EnvEnabled)) {
	case "0", "false":
		return false
	}
	return true
}

// Key joins the parts identifying a payload into one clear-text key. Hash
// secrets before passing them in.
func Key(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// root returns the base directory when caching is on and resolvable.
func root() (string, bool) {
	if !Enabled() {
		return "", false
	}
	return Dir()
}

// EnsureBaseDir creates the base directory. ok is false when caching is off
// or the directory could not be made.
func EnsureBaseDir() (base string, ok bool, err error) {
	base, ok = root()
	if !ok {
		return "", false, nil
	}
	if mkErr := os.MkdirAll(base, dirMode); mkErr != nil {
		return base, false, fmt.Errorf("failed to create cache base directory: %w", mkErr)
	}
	log.Debugf("cache dir ready: path=%s", base)
	return base, true, nil
}

// EntryPath is where the entry for clearKey lives beneath subdirs, and
// whether a file is there now.
func EntryPath(subdirs []string, clearKey string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(slices.Concat([]string{base}, subdirs, []string{encodeKey(clearKey)})...)
	_, err := os.Stat(p)
	return p, err == nil
}

// Purge deletes cached files last written more than hours ago. Directories
// are left in place. hours <= 0 disables it.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		log.Debugf("cache purged: path=%s", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Read returns the entry for clearKey if it was written within maxAge. A
// maxAge <= 0 accepts any age.
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

	entry := &Entry{
		Key:        clearKey,
		EncodedKey: filepath.Base(p),
		Path:       p,
		ModTime:    info.ModTime(),
	}
	if maxAge > 0 && entry.Age() > maxAge {
		log.Debugf("cache stale: key=%q, age=%s", clearKey, entry.Age())
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	entry.Data = bytes.TrimSpace(data)
	log.Debugf("cache hit: key=%q", clearKey)
	return entry, true
}

// Write stores data for clearKey beneath subdirs, replacing any previous
// entry.
func Write(subdirs []string, clearKey string, data []byte) error {
	base, ok := root()
	if !ok {
		return nil
	}
	dir := filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, encodeKey(clearKey)), data, fileMode); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%q", clearKey)
	return nil
}

func encodeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
