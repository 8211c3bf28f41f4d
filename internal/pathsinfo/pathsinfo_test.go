package pathsinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/localhub/hfhub/internal/cache"
	"github.com/localhub/hfhub/internal/sidecar"
)

func setupRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.bin"), make([]byte, 10), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "b.bin"), make([]byte, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func scFor(root string) (sidecar.Map, error) {
	store := sidecar.New(4)
	return store.Load(root)
}

func TestResolveWholeRepoDefaultsToEnumeration(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts, got %d: %+v", len(facts), facts)
	}
	if facts[0].Path != "a.bin" || facts[0].Type != TypeFile || facts[0].Size == nil || *facts[0].Size != 10 {
		t.Fatalf("unexpected first fact: %+v", facts[0])
	}
}

func TestResolveSingleFilePath(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"a.bin"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 1 || facts[0].Path != "a.bin" || facts[0].Size == nil || *facts[0].Size != 10 {
		t.Fatalf("unexpected facts: %+v", facts)
	}
}

func TestResolveDotPathEnumeratesLikeEmptyPath(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"."}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("expected full enumeration for \".\", got %d facts: %+v", len(facts), facts)
	}
}

func TestResolveSlashPathEnumeratesLikeEmptyPath(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"/"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("expected full enumeration for \"/\", got %d facts: %+v", len(facts), facts)
	}
}

func TestResolveDirectoryWithoutExpand(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"sub"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 1 || facts[0].Type != TypeDirectory || facts[0].Path != "sub" {
		t.Fatalf("expected single directory fact, got %+v", facts)
	}
}

func TestResolveDirectoryWithExpand(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"sub"}, Expand: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 1 || facts[0].Path != "sub/b.bin" || facts[0].Type != TypeFile {
		t.Fatalf("expected expanded file fact, got %+v", facts)
	}
}

func TestResolveDeduplicatesFirstOccurrenceWins(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"a.bin", "a.bin", ""}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	count := 0
	for _, f := range facts {
		if f.Path == "a.bin" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected a.bin to appear exactly once, appeared %d times in %+v", count, facts)
	}
}

func TestResolveMissingPathIsNotFound(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	if _, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"missing.bin"}}); err == nil {
		t.Fatalf("expected NotFound for missing path")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	root := setupRepo(t)
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	if _, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"../escape"}}); err == nil {
		t.Fatalf("expected PathEscape for traversal attempt")
	}
}

func TestResolveUsesSidecarOIDAndLFS(t *testing.T) {
	root := setupRepo(t)
	sidecarJSON := `{"a.bin":{"size":10,"oid":"deadbeef","lfs":{"oid":"sha256:abc123","size":10}}}`
	if err := os.WriteFile(filepath.Join(root, ".paths-info.json"), []byte(sidecarJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"a.bin"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if facts[0].OID != "deadbeef" || facts[0].LFS == nil || facts[0].LFS.OID != "sha256:abc123" {
		t.Fatalf("unexpected fact: %+v", facts[0])
	}
}

func TestResolveSizeAlwaysComesFromDiskNotSidecar(t *testing.T) {
	root := setupRepo(t)
	sidecarJSON := `{"a.bin":{"size":999999,"oid":"deadbeef"}}`
	if err := os.WriteFile(filepath.Join(root, ".paths-info.json"), []byte(sidecarJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"a.bin"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if facts[0].Size == nil || *facts[0].Size != 10 {
		t.Fatalf("expected disk size 10 regardless of sidecar size, got %+v", facts[0])
	}
}

func TestResolveZeroByteFileReportsExplicitZeroSize(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "empty.bin"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := scFor(root)
	if err != nil {
		t.Fatal(err)
	}

	e := New(4, time.Minute)
	facts, err := e.Resolve(root, sc, cache.Version{}, Request{Paths: []string{"empty.bin"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(facts) != 1 || facts[0].Size == nil || *facts[0].Size != 0 {
		t.Fatalf("expected an explicit zero size for an empty file, got %+v", facts)
	}
}
