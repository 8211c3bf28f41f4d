// Package modelhub wires the path resolver, sidecar store, hasher,
// siblings builder, and paths-info engine into one composition root used by
// the HTTP handlers.
package modelhub

import (
	"time"

	"github.com/localhub/hfhub/internal/config"
	"github.com/localhub/hfhub/internal/hasher"
	"github.com/localhub/hfhub/internal/pathresolver"
	"github.com/localhub/hfhub/internal/pathsinfo"
	"github.com/localhub/hfhub/internal/sidecar"
	"github.com/localhub/hfhub/internal/siblings"
)

// Service holds every long-lived, shared core component. One Service
// instance serves the whole process; it carries no per-request state.
type Service struct {
	Resolver  *pathresolver.Resolver
	Sidecar   *sidecar.Store
	Hasher    *hasher.Hasher
	Siblings  *siblings.Builder
	PathsInfo *pathsinfo.Engine
}

// New builds a Service from cfg. The root directory must already exist;
// New does not create it.
func New(cfg *config.Config) *Service {
	ttl := cfg.CacheTTL.DurationValue()
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &Service{
		Resolver:  pathresolver.New(cfg.RootDir),
		Sidecar:   sidecar.New(cfg.SidecarCacheCapacity),
		Hasher:    hasher.New(cfg.Sha256CacheCapacity, ttl),
		Siblings:  siblings.New(cfg.SiblingsCacheCapacity, ttl),
		PathsInfo: pathsinfo.New(cfg.PathsInfoCacheCapacity, ttl),
	}
}

// CacheStats reports hit/miss counters for every memoized component, for
// the diagnostics endpoint.
type CacheStats struct {
	Sidecar   Stats `json:"sidecar"`
	Siblings  Stats `json:"siblings"`
	PathsInfo Stats `json:"paths_info"`
	Sha256    Stats `json:"sha256"`
}

// Stats is one cache's hit/miss snapshot.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// CacheStats snapshots every memoized component's hit/miss counters.
func (s *Service) CacheStats() CacheStats {
	toStats := func(hits, misses int64) Stats { return Stats{Hits: hits, Misses: misses} }
	return CacheStats{
		Sidecar:   toStats(s.Sidecar.Stats()),
		Siblings:  toStats(s.Siblings.Stats()),
		PathsInfo: toStats(s.PathsInfo.Stats()),
		Sha256:    toStats(s.Hasher.Stats()),
	}
}
