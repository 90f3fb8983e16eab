package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "aaa")
	writeFile(t, filepath.Join(tmpDir, "sub", "b.txt"), "bbb")
	writeFile(t, filepath.Join(tmpDir, "sub", "c.md"), "ccc")

	walker := NewWalker([]string{"**/*.txt"}, nil, true)
	files, err := walker.Walk(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
}

func TestWalkNonRecursive(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "aaa")
	writeFile(t, filepath.Join(tmpDir, "sub", "b.txt"), "bbb")

	walker := NewWalker([]string{"**/*.txt"}, nil, false)
	files, err := walker.Walk(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "a.txt" {
		t.Errorf("expected a.txt, got %s", files[0].Path)
	}
}

func TestWalkExcludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "keep.txt"), "keep")
	writeFile(t, filepath.Join(tmpDir, "skip", "drop.txt"), "drop")

	walker := NewWalker([]string{"**/*.txt"}, []string{"skip/**"}, true)
	files, err := walker.Walk(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "keep.txt" {
		t.Errorf("expected keep.txt, got %s", files[0].Path)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	walker := NewWalker(nil, nil, true)
	if _, err := walker.Walk("/nonexistent/osindexer/root"); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestReadFileRejectsBinary(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "blob.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFile(path); err == nil {
		t.Error("expected error for non-text file")
	}
}
