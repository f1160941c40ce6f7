package mattepicker

import (
	"image"

	"golang.org/x/image/draw"
)

// Preview shrinks img by an integer divisor for on-screen display using
// Catmull-Rom resampling. A divisor below 2 returns img unchanged.
func Preview(img image.Image, divisor int) image.Image {
	if divisor < 2 {
		return img
	}
	b := img.Bounds()
	w, h := max(b.Dx()/divisor, 1), max(b.Dy()/divisor, 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
