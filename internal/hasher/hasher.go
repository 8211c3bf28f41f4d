// Package hasher computes SHA-256 digests of on-disk files, memoized by
// file identity and deduplicated across concurrent callers.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/cache"
)

// bufferSize caps the read buffer at 1 MiB.
const bufferSize = 1 << 20

// Hasher computes and memoizes file digests.
type Hasher struct {
	cache *cache.Cache[string, string]
	group singleflight.Group
}

// New builds a Hasher bounded to capacity memoized digests, each valid for
// ttl unless invalidated earlier by a version mismatch.
func New(capacity int, ttl time.Duration) *Hasher {
	return &Hasher{cache: cache.New[string, string](capacity, ttl)}
}

// Stats reports the hasher's cache hit/miss counters.
func (h *Hasher) Stats() (hits, misses int64) {
	return h.cache.Stats()
}

// SHA256 returns the lowercase hex SHA-256 digest of path. Concurrent calls
// for the same path collapse into a single computation via singleflight;
// correctness does not depend on this, only throughput under load does.
func (h *Hasher) SHA256(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", apierr.NotFoundf("file %s not found", path)
	}
	if !info.Mode().IsRegular() {
		return "", apierr.NotFoundf("file %s is not a regular file", path)
	}

	version := cache.Version{ModTime: info.ModTime().UnixNano(), Size: info.Size()}
	if sum, ok := h.cache.Get(path, version); ok {
		return sum, nil
	}

	result, err, _ := h.group.Do(path, func() (any, error) {
		sum, err := digest(path)
		if err != nil {
			return "", err
		}
		h.cache.Set(path, version, sum)
		return sum, nil
	})
	if err != nil {
		return "", apierr.IOf("hash %s: %v", path, err)
	}
	return result.(string), nil
}

func digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
