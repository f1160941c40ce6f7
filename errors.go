package mattepicker

import (
	"github.com/pkg/errors"
	"github.com/setanarut/mattepicker/palette"
)

var (
	// ErrInvalidInput covers bad options, empty images and files that cannot
	// be decoded.
	ErrInvalidInput = palette.ErrInvalidInput
	// ErrColorConversion is returned when border variants cannot be derived.
	ErrColorConversion = palette.ErrColorConversion
	// ErrNoImages is returned when a folder holds no supported image.
	ErrNoImages = errors.New("no supported images found")
)

// ExportError reports a matted image that could not be written. The session
// position is not advanced when it occurs.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return "export " + e.Path + ": " + e.Err.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
