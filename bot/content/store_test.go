package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "guides"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "Гайд для новичка.\n\nС чего начать:\n"
	if err := os.WriteFile(filepath.Join(dir, "guides", "guide.txt"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	text, ok := s.Load("guides/guide.txt")
	if !ok {
		t.Fatal("expected file to load")
	}
	if text != "Гайд для новичка.\n\nС чего начать:" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, ok := s.Load("guides/no_such.txt"); ok {
		t.Fatal("missing file must not report ok")
	}
}
