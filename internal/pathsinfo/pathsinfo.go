// Package pathsinfo answers batched path-metadata queries against a
// repository, combining on-disk enumeration with sidecar-sourced oid/lfs
// data.
package pathsinfo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/cache"
	"github.com/localhub/hfhub/internal/pathresolver"
	"github.com/localhub/hfhub/internal/sidecar"
	"github.com/localhub/hfhub/internal/siblings"
)

// FactType distinguishes a file fact from a directory fact.
type FactType string

const (
	TypeFile      FactType = "file"
	TypeDirectory FactType = "directory"
)

// LFS mirrors the sidecar's LFS pointer shape in a response fact.
type LFS struct {
	OID  string `json:"oid"`
	Size int64  `json:"size"`
}

// Fact is one entry of a paths-info response: a file with size/oid/lfs, or
// a bare directory marker. Size is a pointer so a zero-byte file still
// reports "size":0 while a directory fact, which has no size, omits the
// key entirely rather than colliding with that zero value.
type Fact struct {
	Path string   `json:"path"`
	Type FactType `json:"type"`
	Size *int64   `json:"size,omitempty"`
	OID  string   `json:"oid,omitempty"`
	LFS  *LFS     `json:"lfs,omitempty"`
}

// Request is the decoded body of a paths-info POST.
type Request struct {
	Paths  []string
	Expand bool
}

// Engine answers paths-info requests, memoized by repository identity,
// sidecar identity, and request fingerprint.
type Engine struct {
	cache *cache.Cache[string, []Fact]
}

// New builds an Engine bounded to capacity memoized answers.
func New(capacity int, ttl time.Duration) *Engine {
	return &Engine{cache: cache.New[string, []Fact](capacity, ttl)}
}

// Stats reports the engine's cache hit/miss counters.
func (e *Engine) Stats() (hits, misses int64) {
	return e.cache.Stats()
}

// Resolve answers req against the repository rooted at base, using sc for
// oid/lfs lookups. base must already be a resolved, existing directory.
func (e *Engine) Resolve(base string, sc sidecar.Map, sidecarVersion cache.Version, req Request) ([]Fact, error) {
	paths := req.Paths
	if len(paths) == 0 {
		paths = []string{""}
	}

	key := fingerprint(base, paths, req.Expand)
	if facts, ok := e.cache.Get(key, sidecarVersion); ok {
		return facts, nil
	}

	var facts []Fact
	seen := make(map[string]bool)
	for _, p := range paths {
		resolved, err := resolveOne(base, sc, p, req.Expand)
		if err != nil {
			return nil, err
		}
		for _, f := range resolved {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			facts = append(facts, f)
		}
	}

	e.cache.Set(key, sidecarVersion, facts)
	return facts, nil
}

// resolveOne treats an empty path, ".", and "/" as all referring to the
// repository base: each triggers full enumeration regardless of expand,
// rather than falling through to a single directory fact for the base.
func resolveOne(base string, sc sidecar.Map, p string, expand bool) ([]Fact, error) {
	if p == "" || p == "." || p == "/" {
		return enumerate(base, base, sc)
	}

	target, err := pathresolver.SecureJoin(base, p)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, apierr.NotFoundf("path %s not found", p)
	}

	if info.Mode().IsRegular() {
		rel := filepath.ToSlash(p)
		return []Fact{fileFact(rel, info.Size(), sc)}, nil
	}
	if !info.IsDir() {
		return nil, apierr.NotFoundf("path %s not found", p)
	}
	if !expand {
		return []Fact{{Path: filepath.ToSlash(p), Type: TypeDirectory}}, nil
	}
	return enumerate(base, target, sc)
}

func enumerate(base, dir string, sc sidecar.Map) ([]Fact, error) {
	result, err := siblings.Walk(base, dir)
	if err != nil {
		return nil, err
	}
	facts := make([]Fact, 0, len(result.Siblings))
	for _, f := range result.Siblings {
		facts = append(facts, fileFact(f.RFilename, f.Size, sc))
	}
	return facts, nil
}

// fileFact reports diskSize unconditionally: size always comes from disk,
// never from the sidecar. Only oid/lfs are sidecar-sourced, when present.
func fileFact(rel string, diskSize int64, sc sidecar.Map) Fact {
	fact := Fact{Path: rel, Type: TypeFile, Size: &diskSize}
	entry, ok := sc.Lookup(rel)
	if !ok {
		return fact
	}
	fact.OID = entry.OID
	if entry.LFS != nil {
		fact.LFS = &LFS{OID: entry.LFS.OID, Size: entry.LFS.Size}
	}
	return fact
}

// fingerprint deterministically serializes the request shape for cache
// keying: sorted paths plus the expand flag.
func fingerprint(base string, paths []string, expand bool) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	enc, _ := json.Marshal(struct {
		Base   string   `json:"base"`
		Paths  []string `json:"paths"`
		Expand bool     `json:"expand"`
	}{base, sorted, expand})
	return string(enc)
}
