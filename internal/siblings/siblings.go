// Package siblings walks a repository directory tree and reports its files
// and total size, skipping the sidecar file.
package siblings

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/cache"
)

// File is one entry in a deterministic, depth-first, lexicographically
// sorted walk of a repository.
type File struct {
	RFilename string
	Size      int64
}

// Result is the outcome of walking a repository base directory.
type Result struct {
	Siblings    []File
	UsedStorage int64
}

// Builder walks and memoizes repository trees, keyed by (absolute base
// path, mtime, size) of the base directory itself — a cache-coherence
// weakness against deep mutations, bounded by TTL.
type Builder struct {
	cache *cache.Cache[string, Result]
}

// New builds a Builder bounded to capacity memoized repository walks.
func New(capacity int, ttl time.Duration) *Builder {
	return &Builder{cache: cache.New[string, Result](capacity, ttl)}
}

// Stats reports the builder's cache hit/miss counters.
func (b *Builder) Stats() (hits, misses int64) {
	return b.cache.Stats()
}

// Build walks base and returns its siblings and used storage. The sidecar
// file is never included, at any depth.
func (b *Builder) Build(base string) (Result, error) {
	info, err := os.Stat(base)
	if err != nil {
		return Result{}, apierr.NotFoundf("repository base %s not found", base)
	}
	version := cache.Version{ModTime: info.ModTime().UnixNano(), Size: info.Size()}
	if r, ok := b.cache.Get(base, version); ok {
		return r, nil
	}

	result, err := Walk(base, base)
	if err != nil {
		return Result{}, err
	}
	b.cache.Set(base, version, result)
	return result, nil
}

// Walk performs the deterministic depth-first, lexicographically-sorted
// directory walk shared by siblings, paths-info, and tree listings. root is
// the repository base (used to compute relative paths); dir is the
// subdirectory currently being walked (equal to root for a full walk).
func Walk(root, dir string) (Result, error) {
	var result Result
	err := walk(root, dir, &result)
	return result, err
}

func walk(root, dir string, result *Result) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return apierr.IOf("read dir %s: %v", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.Name() == sidecarName {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := walk(root, full, result); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return apierr.IOf("stat %s: %v", full, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return apierr.IOf("relativize %s: %v", full, err)
		}
		rel = filepath.ToSlash(rel)
		result.Siblings = append(result.Siblings, File{RFilename: rel, Size: info.Size()})
		result.UsedStorage += info.Size()
	}
	return nil
}

const sidecarName = ".paths-info.json"

// Child is one immediate entry of a directory listing: a file or a
// subdirectory, never the sidecar.
type Child struct {
	Name  string
	IsDir bool
	Size  int64
}

// ImmediateChildren lists dir's direct children, sorted by name, skipping
// the sidecar file. It does not recurse.
func ImmediateChildren(dir string) ([]Child, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apierr.IOf("read dir %s: %v", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	children := make([]Child, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == sidecarName {
			continue
		}
		if entry.IsDir() {
			children = append(children, Child{Name: entry.Name(), IsDir: true})
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, apierr.IOf("stat %s: %v", entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		children = append(children, Child{Name: entry.Name(), Size: info.Size()})
	}
	return children, nil
}
