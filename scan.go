package mattepicker

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Extensions lists the file extensions picked up by ScanDir.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// IsSupported reports whether name has one of Extensions, ignoring case.
func IsSupported(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// ScanDir returns the paths of the supported images directly inside dir in
// directory listing order. Subdirectories are not descended into.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "failed to read directory: %v", err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsSupported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
