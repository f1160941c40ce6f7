package mattepicker

import (
	"image"

	"github.com/pkg/errors"
	"github.com/setanarut/mattepicker/palette"
)

type Options struct {
	// Canvas size of every exported image.
	TargetSize image.Point
	// Sum of the left and right (and of the top and bottom) border at the
	// binding axis. The photo is scaled to fit TargetSize minus this.
	MinimumBorder int
	// Dominant colors per image. Twice as many candidates are offered.
	NumColors int
	// Clustering settings for the extractor.
	Palette palette.Options
	// Lightness rule for the dark and light variants.
	Tone palette.ToneRule
	// Lab reference white, "D50" (ICC Lab) or "D65".
	WhitePoint string
	// Offer candidates ordered by dominant color brightness instead of
	// clustering order.
	SortByBrightness bool
	// JPEG quality of exported images, 1-100.
	JPEGQuality int
	// Apply EXIF orientation when decoding.
	AutoOrient bool
}

func DefaultOptions() Options {
	return Options{
		TargetSize:    image.Pt(3840, 2160),
		MinimumBorder: 120,
		NumColors:     8,
		Palette:       palette.DefaultOptions(),
		Tone:          palette.DefaultToneRule(),
		WhitePoint:    "D50",
		JPEGQuality:   95,
		AutoOrient:    true,
	}
}

func (o Options) Validate() error {
	switch {
	case o.TargetSize.X <= 0 || o.TargetSize.Y <= 0:
		return errors.Wrapf(ErrInvalidInput, "target size must be positive, got %v", o.TargetSize)
	case o.MinimumBorder < 0:
		return errors.Wrapf(ErrInvalidInput, "minimum border must not be negative, got %d", o.MinimumBorder)
	case o.MinimumBorder >= o.TargetSize.X || o.MinimumBorder >= o.TargetSize.Y:
		return errors.Wrapf(ErrInvalidInput, "minimum border %d leaves no room in %v", o.MinimumBorder, o.TargetSize)
	case o.NumColors <= 0:
		return errors.Wrapf(ErrInvalidInput, "color count must be positive, got %d", o.NumColors)
	case o.JPEGQuality < 1 || o.JPEGQuality > 100:
		return errors.Wrapf(ErrInvalidInput, "jpeg quality must be within 1-100, got %d", o.JPEGQuality)
	}
	return o.Palette.Validate()
}
