// Copyright 2025 The Ghost Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache implements the on-disk binary cache that memoises
// JIT-compiled kernel binaries across runs, keyed by device fingerprint +
// source + options. See spec.md §4.4 and §6, grounded directly on
// original_source/src/binary_cache.cpp.
package cache

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gmeeker/ghost/digest"
	"github.com/gmeeker/ghost/internal/glog"
)

// Fingerprint is the minimal device-identity contract the cache needs to
// build its identity digest. Each backend's device implementation supplies
// one; the cache package never imports a backend package, avoiding a
// dependency cycle (backends depend on cache, not the reverse).
type Fingerprint struct {
	Vendor        string
	Name          string
	DriverVersion string // May be empty; empty means "omitted from the digest".
	SubUnitCount  int
}

// Cache is the process-wide binary cache. The zero value is a disabled
// cache (matches spec.md: "Enabled iff a non-empty cache directory is
// configured").
type Cache struct {
	path string

	hits   atomic.Int64
	misses atomic.Int64
	saves  atomic.Int64
}

// New returns a Cache rooted at path. An empty path disables the cache.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Enabled reports whether the cache has a configured directory.
func (c *Cache) Enabled() bool {
	return c != nil && c.path != ""
}

// Stats returns hit/miss/save counters accumulated since construction.
// This is additive over original_source, in the idiom of the teacher's
// webgpu backend's memoryStats counters (internal/backend/webgpu/backend.go)
// — a lightweight, always-on counter block on a long-lived stateful
// component, not a new metrics subsystem.
func (c *Cache) Stats() (hits, misses, saves int64) {
	return c.hits.Load(), c.misses.Load(), c.saves.Load()
}

// identityDigest builds D1: the environment fingerprint, repeated once per
// sub-unit, with driver version omitted when empty. Source and options are
// NOT mixed in.
func identityDigest(fp Fingerprint) *digest.Digest {
	d := digest.New()
	n := fp.SubUnitCount
	if n < 0 {
		n = 0
	}
	for i := 0; i < n; i++ {
		d.Update([]byte(fp.Vendor))
		d.Update([]byte(fp.Name))
		if fp.DriverVersion != "" {
			d.Update([]byte(fp.DriverVersion))
		}
	}
	return d
}

// fileKeyDigest builds F: identityDigest plus options then source bytes.
func fileKeyDigest(fp Fingerprint, data []byte, options string) *digest.Digest {
	d := identityDigest(fp)
	if options != "" {
		d.Update([]byte(options))
	}
	if len(data) > 0 {
		d.Update(data)
	}
	return d
}

func (c *Cache) filePath(hex string) string {
	return filepath.Join(c.path, hex)
}

// Load attempts to retrieve cached binaries for the given device
// fingerprint, compile input, and options. A miss is reported via
// ok=false — any I/O error during load is treated as a miss per
// spec.md §7.
func (c *Cache) Load(fp Fingerprint, data []byte, options string) (binaries [][]byte, ok bool) {
	if !c.Enabled() {
		return nil, false
	}

	fileKeyHex := fileKeyDigest(fp, data, options).Hex()
	f, err := os.Open(c.filePath(fileKeyHex))
	if err != nil {
		c.recordMiss()
		return nil, false
	}
	defer f.Close()

	binaries, err = readCacheFile(f, fp)
	if err != nil {
		glog.Debugf("cache", "load miss: %v", err)
		c.recordMiss()
		return nil, false
	}
	c.hits.Add(1)
	return binaries, true
}

func (c *Cache) recordMiss() { c.misses.Add(1) }

func readCacheFile(r io.Reader, fp Fingerprint) ([][]byte, error) {
	wantIdentity := identityDigest(fp).Sum()

	var gotIdentity [digest.Length]byte
	if _, err := io.ReadFull(r, gotIdentity[:]); err != nil {
		return nil, err
	}
	if gotIdentity != wantIdentity {
		return nil, errMismatch{"identity digest"}
	}

	var payloadDigest [digest.Length]byte
	if _, err := io.ReadFull(r, payloadDigest[:]); err != nil {
		return nil, err
	}

	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint64(countBuf[:])
	if count == 0 || int(count) != fp.SubUnitCount {
		return nil, errMismatch{"device count"}
	}

	sizes := make([]uint64, count)
	for i := range sizes {
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		sizes[i] = binary.LittleEndian.Uint64(buf[:])
	}

	binaries := make([][]byte, count)
	payload := digest.New()
	for i, sz := range sizes {
		if sz == 0 {
			continue
		}
		buf := make([]byte, sz)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		binaries[i] = buf
		payload.Update(buf)
	}

	gotPayload := payload.Sum()
	if gotPayload != payloadDigest {
		return nil, errMismatch{"payload digest"}
	}
	return binaries, nil
}

type errMismatch struct{ what string }

func (e errMismatch) Error() string { return "cache: " + e.what + " mismatch" }

// Save writes binaries to the cache under the key derived from fp, data,
// and options. Writes are atomic: write to a temp file, fsync, rename into
// place. Any I/O error is swallowed — the caller must not rely on
// persistence (spec.md §7).
func (c *Cache) Save(fp Fingerprint, binaries [][]byte, data []byte, options string) {
	if !c.Enabled() {
		return
	}
	if err := c.save(fp, binaries, data, options); err != nil {
		glog.Debugf("cache", "save failed: %v", err)
		return
	}
	c.saves.Add(1)
}

func (c *Cache) save(fp Fingerprint, binaries [][]byte, data []byte, options string) error {
	fileKeyHex := fileKeyDigest(fp, data, options).Hex()
	identity := identityDigest(fp).Sum()

	payload := digest.New()
	for _, b := range binaries {
		payload.Update(b)
	}
	payloadSum := payload.Sum()

	var buf bytes.Buffer
	buf.Write(identity[:])
	buf.Write(payloadSum[:])

	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(binaries)))
	buf.Write(countBuf[:])

	for _, b := range binaries {
		var szBuf [8]byte
		binary.LittleEndian.PutUint64(szBuf[:], uint64(len(b)))
		buf.Write(szBuf[:])
	}
	for _, b := range binaries {
		buf.Write(b)
	}

	if err := os.MkdirAll(c.path, 0o755); err != nil {
		return err
	}

	tmpPath := c.filePath(fileKeyHex + "." + uuid.NewString() + ".tmp")
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, c.filePath(fileKeyHex))
}

// PurgeBinaries unlinks every entry in the cache directory whose modtime is
// older than days. Traversal is non-recursive. Best-effort: I/O failures
// are swallowed.
func (c *Cache) PurgeBinaries(days int) {
	if !c.Enabled() {
		return
	}
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return
	}
	oldest := time.Now().AddDate(0, 0, -days)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(oldest) {
			_ = os.Remove(filepath.Join(c.path, e.Name()))
		}
	}
}
