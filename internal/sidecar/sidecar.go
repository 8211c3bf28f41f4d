// Package sidecar loads and memoizes the per-directory .paths-info.json
// mapping that is the sole source of ETag and LFS metadata.
package sidecar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/cache"
)

// LFS carries the large-file-storage pointer for a file.
type LFS struct {
	OID  string `json:"oid"`
	Size int64  `json:"size"`
}

// Entry is one sidecar record for a relative file path.
type Entry struct {
	Size int64  `json:"size"`
	OID  string `json:"oid"`
	LFS  *LFS   `json:"lfs,omitempty"`
}

// Map is a relative-path → Entry mapping. Callers must treat it as
// immutable: it is shared by reference out of the cache.
type Map map[string]Entry

const filename = ".paths-info.json"

// Store loads and memoizes sidecar files keyed by (absolute path, mtime,
// size) of the sidecar itself.
type Store struct {
	cache *cache.Cache[string, Map]
}

// New builds a Store bounded to capacity parsed sidecars.
func New(capacity int) *Store {
	// The version key (mtime, size) is what actually guarantees freshness
	// here, so a generous TTL is fine. Load never consults the cache for a
	// missing sidecar, so a deleted sidecar's parse stays held until
	// capacity eviction pushes it out.
	return &Store{cache: cache.New[string, Map](capacity, 24*time.Hour)}
}

// Load returns the sidecar mapping for directory dir, or an empty Map if no
// sidecar file is present. A malformed sidecar yields a SidecarMalformed
// apierr.Error.
func (s *Store) Load(dir string) (Map, error) {
	path := filepath.Join(dir, filename)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Map{}, nil
		}
		return nil, apierr.IOf("stat sidecar %s: %v", path, err)
	}
	if info.IsDir() {
		return Map{}, nil
	}

	version := cache.Version{ModTime: info.ModTime().UnixNano(), Size: info.Size()}
	if m, ok := s.cache.Get(path, version); ok {
		return m, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apierr.IOf("read sidecar %s: %v", path, err)
	}
	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, apierr.SidecarMalformedf("parse sidecar %s: %v", path, err)
	}
	normalized := make(Map, len(m))
	for p, e := range m {
		normalized[normalizePath(p)] = e
	}

	s.cache.Set(path, version, normalized)
	return normalized, nil
}

// Version returns the identity of dir's sidecar file — its mtime and size —
// for use as a cache key by components that memoize sidecar-derived data
// without going through Load, such as the paths-info engine. A missing
// sidecar yields the zero Version, which is stable until a sidecar appears.
func Version(dir string) cache.Version {
	info, err := os.Stat(filepath.Join(dir, filename))
	if err != nil {
		return cache.Version{}
	}
	return cache.Version{ModTime: info.ModTime().UnixNano(), Size: info.Size()}
}

// Stats reports the store's cache hit/miss counters.
func (s *Store) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

// Lookup returns the entry for relPath within m, if present. Paths are
// compared byte-for-byte after forward-slash normalization and leading-slash
// stripping.
func (m Map) Lookup(relPath string) (Entry, bool) {
	e, ok := m[normalizePath(relPath)]
	return e, ok
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "/")
}

// ETag derives the strict ETag for a file entry: the LFS oid (its
// "sha256:" prefix stripped) when LFS is present, else the plain oid.
// Returns ok=false when neither is available.
func (e Entry) ETag() (string, bool) {
	if e.LFS != nil && e.LFS.OID != "" {
		return strings.TrimPrefix(e.LFS.OID, "sha256:"), true
	}
	if e.OID != "" {
		return e.OID, true
	}
	return "", false
}
