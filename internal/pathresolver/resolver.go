// Package pathresolver turns (root, RepoKind, repo_id, sub-path) tuples into
// filesystem paths, rejecting anything that would escape the configured
// root. It is the only package in this service allowed to call
// filepath.Abs/EvalSymlinks against untrusted request input.
package pathresolver

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/localhub/hfhub/internal/apierr"
	"github.com/localhub/hfhub/internal/repokind"
)

// RepoKind selects the on-disk prefix for a repository. It is
// an alias of repokind.Kind so callers can use either package's constants
// interchangeably.
type RepoKind = repokind.Kind

const (
	KindModel   = repokind.Model
	KindDataset = repokind.Dataset
)

// SidecarFilename is never a valid resolve target.
const SidecarFilename = ".paths-info.json"

// Resolver joins a configured root directory with repo/kind/sub-path
// request input, rejecting traversal attempts.
type Resolver struct {
	root string
}

// New builds a Resolver rooted at root, which must already be an absolute,
// existing directory.
func New(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the configured root directory.
func (r *Resolver) Root() string {
	return r.root
}

// RepoBase resolves the base directory for a repository without touching a
// sub-path. repoID must contain exactly one '/'; each segment
// is URL-decoded exactly once.
func (r *Resolver) RepoBase(kind RepoKind, repoID string) (string, error) {
	org, name, err := splitRepoID(repoID)
	if err != nil {
		return "", err
	}

	prefix, err := repokind.BasePrefix(kind)
	if err != nil {
		return "", apierr.NotFoundf("repository %s not found", repoID)
	}
	base := filepath.Join(r.root, prefix, org, name)

	base, err = r.canonicalize(base)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return "", apierr.NotFoundf("repository %s not found", repoID)
	}
	return base, nil
}

// File resolves a file sub-path within a repository. It fails with NotFound
// if the repository or file is missing, and with PathEscape if the sub-path
// attempts to leave the repository. Requesting the sidecar file itself is
// NotFound.
func (r *Resolver) File(kind RepoKind, repoID, subPath string) (string, error) {
	base, err := r.RepoBase(kind, repoID)
	if err != nil {
		return "", err
	}
	return r.JoinFile(base, subPath)
}

// JoinFile joins subPath onto an already-resolved repository base,
// rejecting traversal and the sidecar filename, and requiring the target to
// exist as a regular file.
func (r *Resolver) JoinFile(base, subPath string) (string, error) {
	clean, err := SecureJoin(base, subPath)
	if err != nil {
		return "", err
	}
	if filepath.Base(clean) == SidecarFilename {
		return "", apierr.NotFoundf("%s is not a resolvable path", subPath)
	}
	info, err := os.Stat(clean)
	if err != nil {
		return "", apierr.NotFoundf("file %s not found", subPath)
	}
	if !info.Mode().IsRegular() {
		return "", apierr.NotFoundf("file %s not found", subPath)
	}
	return clean, nil
}

// SecureJoin joins rel onto base, skipping empty and "." segments. It
// rejects any ".." segment, any segment containing a NUL byte, and any
// result whose canonical path is not a descendant of base. It does not
// require the result to exist.
func SecureJoin(base, rel string) (string, error) {
	segments := strings.Split(strings.ReplaceAll(rel, "\\", "/"), "/")
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		if strings.ContainsRune(seg, 0) {
			return "", apierr.PathEscapef("invalid path segment in %q", rel)
		}
		if seg == ".." {
			return "", apierr.PathEscapef("path escapes repository root: %q", rel)
		}
	}

	joined := filepath.Join(base, filepath.FromSlash(rel))
	resolved, err := resolveWithinBase(base, joined)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

func resolveWithinBase(base, joined string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", apierr.IOf("resolve base: %v", err)
	}
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", apierr.IOf("resolve path: %v", err)
	}

	if canon, err := filepath.EvalSymlinks(absJoined); err == nil {
		absJoined = canon
	}
	if canonBase, err := filepath.EvalSymlinks(absBase); err == nil {
		absBase = canonBase
	}

	if absJoined != absBase && !strings.HasPrefix(absJoined, absBase+string(filepath.Separator)) {
		return "", apierr.PathEscapef("path escapes repository root")
	}
	return absJoined, nil
}

func (r *Resolver) canonicalize(path string) (string, error) {
	return resolveWithinBase(r.root, path)
}

// splitRepoID decodes and validates a two-segment repo_id: decode exactly
// once, never double-decode.
func splitRepoID(repoID string) (org, name string, err error) {
	parts := strings.Split(repoID, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apierr.NotFoundf("repo_id must have exactly one '/': %q", repoID)
	}
	org, err = decodeSegmentOnce(parts[0])
	if err != nil {
		return "", "", apierr.PathEscapef("invalid repo_id segment: %v", err)
	}
	name, err = decodeSegmentOnce(parts[1])
	if err != nil {
		return "", "", apierr.PathEscapef("invalid repo_id segment: %v", err)
	}
	if org == ".." || org == "." || name == ".." || name == "." {
		return "", "", apierr.PathEscapef("invalid repo_id segment")
	}
	return org, name, nil
}

// decodeSegmentOnce URL-decodes seg if it contains percent-escapes, and
// leaves it untouched otherwise — decoding an already-pure segment is a
// no-op either way, but this makes the "decode exactly once" contract
// explicit rather than relying on url.PathUnescape's idempotence.
func decodeSegmentOnce(seg string) (string, error) {
	if !strings.ContainsRune(seg, '%') {
		return seg, nil
	}
	return url.PathUnescape(seg)
}
