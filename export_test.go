package mattepicker

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestExportCreatesDirectoriesAndRoundTrips(t *testing.T) {
	// 64x32 photo at (16,32) so every 16x16 JPEG block is a single color.
	matted, err := Compose(imaging.New(64, 32, color.NRGBA{R: 220, G: 40, B: 40, A: 255}),
		color.NRGBA{R: 30, G: 60, B: 200, A: 255}, image.Pt(96, 96))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.jpg")
	if err := Export(matted, path, 95); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	decoded, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Exported file is not readable: %v", err)
	}
	if decoded.Bounds().Size() != matted.Bounds().Size() {
		t.Fatalf("Expected %v, got %v", matted.Bounds().Size(), decoded.Bounds().Size())
	}
	for _, p := range []image.Point{{4, 4}, {88, 88}, {40, 40}, {60, 56}, {20, 36}, {8, 70}} {
		want := matted.NRGBAAt(p.X, p.Y)
		r, g, b, _ := decoded.At(p.X, p.Y).RGBA()
		got := color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
		if absDiff(got.R, want.R) > 8 || absDiff(got.G, want.G) > 8 || absDiff(got.B, want.B) > 8 {
			t.Errorf("Pixel %v = %v, expected ~%v", p, got, want)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the exported file, found %d entries", len(entries))
	}
}

func TestExportOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Export(imaging.New(8, 8, color.White), path, 95); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if _, err := imaging.Open(path); err != nil {
		t.Errorf("Overwritten file is not a readable image: %v", err)
	}
}

func TestExportFileMode(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(8, 8, color.White)

	fresh := filepath.Join(dir, "fresh.jpg")
	if err := Export(img, fresh, 95); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	fi, err := os.Stat(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Errorf("Expected mode 0644, got %v", fi.Mode().Perm())
	}

	kept := filepath.Join(dir, "kept.jpg")
	if err := os.WriteFile(kept, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(kept, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := Export(img, kept, 95); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if fi, err = os.Stat(kept); err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o640 {
		t.Errorf("Overwrite should keep mode 0640, got %v", fi.Mode().Perm())
	}
}

func TestExportUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{
		filepath.Join(blocker, "sub", "out.jpg"),
		"",
		dir,
	} {
		err := Export(imaging.New(4, 4, color.White), path, 95)
		var exportErr *ExportError
		if !errors.As(err, &exportErr) {
			t.Errorf("Export(%q): expected *ExportError, got %v", path, err)
		}
	}
}

func TestOutputPath(t *testing.T) {
	for _, tc := range []struct{ src, want string }{
		{"/in/photo.jpg", "/out/photo.jpg"},
		{"/in/photo.JPEG", "/out/photo.JPEG"},
		{"/in/scan.png", "/out/scan.jpg"},
		{"/in/old.tar.bmp", "/out/old.tar.jpg"},
	} {
		if got := OutputPath("/out", tc.src); got != filepath.FromSlash(tc.want) {
			t.Errorf("OutputPath(%q) = %q, expected %q", tc.src, got, tc.want)
		}
	}
	if got := DefaultOutputDir("/in"); got != filepath.FromSlash("/in/output_images") {
		t.Errorf("DefaultOutputDir = %q", got)
	}
}
