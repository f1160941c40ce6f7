package palette

import "github.com/pkg/errors"

var (
	// ErrInvalidInput reports a non-positive color count, an empty image
	// or malformed options.
	ErrInvalidInput = errors.New("invalid input")

	// ErrColorConversion reports a Lab transform that could not be built or
	// applied.
	ErrColorConversion = errors.New("color conversion failed")
)
