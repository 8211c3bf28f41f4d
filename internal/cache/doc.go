// Package cache implements the bounded TTL+LRU map shared by every memoized
// component in this service: sidecar parses, directory siblings, paths-info
// answers, and SHA-256 digests. Every entry carries a version key drawn from
// the live filesystem (mtime, size) so a content change invalidates the
// entry regardless of how much TTL remains — see Cache.Get.
// No entry is ever mutated in place; replacement is the only form of update.
package cache
