package mattepicker

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// LoadImage decodes the image at path and flattens it onto black so every
// pixel is opaque 8-bit RGB.
func LoadImage(path string, autoOrient bool) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "failed to decode %s: %v", path, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.Wrapf(ErrInvalidInput, "%s has no pixels", path)
	}
	dst := imaging.New(b.Dx(), b.Dy(), color.Black)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst, nil
}

// FitSize returns the size of src scaled by a single factor so that it fits
// inside target shrunk by border on both axes. The binding axis gets exactly
// the available length; the other one is truncated.
func FitSize(src, target image.Point, border int) image.Point {
	availW, availH := target.X-border, target.Y-border
	if src.X <= 0 || src.Y <= 0 || availW <= 0 || availH <= 0 {
		return image.Point{}
	}
	if src.X*availH > src.Y*availW {
		h := int(float64(src.Y) * float64(availW) / float64(src.X))
		return image.Pt(availW, max(h, 1))
	}
	w := int(float64(src.X) * float64(availH) / float64(src.Y))
	return image.Pt(max(w, 1), availH)
}

// FitScale is the uniform scale factor applied by FitSize.
func FitScale(src, target image.Point, border int) float64 {
	if src.X <= 0 || src.Y <= 0 {
		return 0
	}
	return min(float64(target.X-border)/float64(src.X), float64(target.Y-border)/float64(src.Y))
}

// Fit resizes img with the FitSize policy. Upscaling uses a bilinear filter,
// downscaling Lanczos.
func Fit(img image.Image, target image.Point, border int) (*image.NRGBA, error) {
	src := img.Bounds().Size()
	size := FitSize(src, target, border)
	if size.X == 0 || size.Y == 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "cannot fit %v into %v with border %d", src, target, border)
	}
	filter := imaging.Lanczos
	if FitScale(src, target, border) > 1.0 {
		filter = imaging.Linear
	}
	return imaging.Resize(img, size.X, size.Y, filter), nil
}

// Offset is the top-left paste position that centers resized on canvas.
// Odd differences leave the extra pixel on the right or bottom.
func Offset(canvas, resized image.Point) image.Point {
	return image.Pt(floorHalf(canvas.X-resized.X), floorHalf(canvas.Y-resized.Y))
}

func floorHalf(v int) int {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}

// Compose fills a canvas of size with border and pastes resized centered on
// it with a hard edge. Parts of resized that fall outside the canvas are
// clipped.
func Compose(resized image.Image, border color.Color, size image.Point) (*image.NRGBA, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "canvas size must be positive, got %v", size)
	}
	canvas := imaging.New(size.X, size.Y, border)
	return imaging.Paste(canvas, resized, Offset(size, resized.Bounds().Size())), nil
}
