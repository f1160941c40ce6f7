package mattepicker

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Export writes img as a JPEG of the given quality to path, creating parent
// directories and replacing any existing file. The data goes to a temporary
// file first so a failed write never leaves a truncated image at path.
func Export(img image.Image, path string, quality int) (err error) {
	if path == "" || strings.HasSuffix(path, string(os.PathSeparator)) {
		return &ExportError{Path: path, Err: os.ErrInvalid}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".matte-*.jpg")
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	// CreateTemp makes the file 0600. A replaced file keeps its mode.
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// OutputPath is where the matted version of src is written inside outDir.
// The base name is kept; sources that are not JPEG get a .jpg extension.
func OutputPath(outDir, src string) string {
	name := filepath.Base(src)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
	default:
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return filepath.Join(outDir, name)
}

// DefaultOutputDir is the output folder used when none is given.
func DefaultOutputDir(inputDir string) string {
	return filepath.Join(inputDir, "output_images")
}
