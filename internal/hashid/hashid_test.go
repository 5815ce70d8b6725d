package hashid

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashBytesDeterministic(t *testing.T) {
	a := HashBytes([]byte("the quick brown fox"))
	b := HashBytes([]byte("the quick brown fox"))
	if a != b {
		t.Errorf("same bytes produced different digests: %s vs %s", a, b)
	}
	if len(a) != HexLength {
		t.Errorf("digest length = %d, want %d", len(a), HexLength)
	}

	c := HashBytes([]byte("the quick brown foxes"))
	if a == c {
		t.Errorf("different bytes produced identical digest %s", a)
	}
}

func TestHashFileMatchesHashBytes(t *testing.T) {
	dir := t.TempDir()
	content := []byte("chapter one\n\nchapter two\n")

	first := filepath.Join(dir, "book.txt")
	second := filepath.Join(dir, "renamed-copy.txt")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	h1, err := HashFile(first)
	if err != nil {
		t.Fatalf("HashFile(%s): %v", first, err)
	}
	h2, err := HashFile(second)
	if err != nil {
		t.Fatalf("HashFile(%s): %v", second, err)
	}

	if h1 != h2 {
		t.Errorf("byte-identical files hashed differently: %s vs %s", h1, h2)
	}
	if want := HashBytes(content); h1 != want {
		t.Errorf("HashFile = %s, HashBytes = %s", h1, want)
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
