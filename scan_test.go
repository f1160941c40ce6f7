package mattepicker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestIsSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png":      true,
		"B.JPG":      true,
		"c.jpeg":     true,
		"d.Bmp":      true,
		"e.gif":      true,
		"f.tiff":     false,
		"g.webp":     false,
		"png":        false,
		"archive.7z": false,
	} {
		if got := IsSupported(name); got != want {
			t.Errorf("IsSupported(%q) = %v, expected %v", name, got, want)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.JPG", "a.png", "notes.txt", "c.gif"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "c.gif"),
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("ScanDir (-want +got):\n%s", diff)
	}

	if _, err := ScanDir(filepath.Join(dir, "missing")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
