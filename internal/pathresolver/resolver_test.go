package pathresolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/localhub/hfhub/internal/apierr"
)

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

func TestRepoBaseModelAndDataset(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "u", "m"))
	mustMkdirAll(t, filepath.Join(root, "datasets", "u", "d"))

	r := New(root)

	if _, err := r.RepoBase(KindModel, "u/m"); err != nil {
		t.Fatalf("model repo base: %v", err)
	}
	if _, err := r.RepoBase(KindDataset, "u/d"); err != nil {
		t.Fatalf("dataset repo base: %v", err)
	}
	if _, err := r.RepoBase(KindModel, "missing/repo"); err == nil {
		t.Fatalf("expected NotFound for missing repo")
	}
}

func TestRepoBaseDecodesSegmentsOnce(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "u-1", "m"))

	r := New(root)
	base, err := r.RepoBase(KindModel, "u%2D1/m")
	if err != nil {
		t.Fatalf("decode repo id: %v", err)
	}
	if filepath.Base(filepath.Dir(base)) != "u-1" {
		t.Fatalf("expected org to decode to u-1, got %s", base)
	}
}

func TestFileRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "u", "m"))
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(root)
	_, err := r.File(KindModel, "u/m", "../../secret.txt")
	if err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
	apiErr, ok := err.(*apierr.Error)
	if !ok || apiErr.Code != apierr.PathEscape {
		t.Fatalf("expected PathEscape, got %v", err)
	}
}

func TestFileRejectsSidecar(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "u", "m")
	mustMkdirAll(t, repoDir)
	if err := os.WriteFile(filepath.Join(repoDir, SidecarFilename), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(root)
	_, err := r.File(KindModel, "u/m", SidecarFilename)
	if err == nil {
		t.Fatalf("expected sidecar to be rejected as a resolve target")
	}
	apiErr, ok := err.(*apierr.Error)
	if !ok || apiErr.Code != apierr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestFileMissing(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "u", "m"))

	r := New(root)
	if _, err := r.File(KindModel, "u/m", "a.bin"); err == nil {
		t.Fatalf("expected NotFound for missing file")
	}
}

func TestFileRejectsNulByte(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "u", "m"))

	r := New(root)
	_, err := r.File(KindModel, "u/m", "a\x00b")
	if err == nil {
		t.Fatalf("expected NUL byte to be rejected")
	}
}
