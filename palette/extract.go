// Package palette reduces an image to a few dominant colors and derives
// light and dark border tones from them.
package palette

import (
	"image"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/muesli/clusters"
	"github.com/pkg/errors"
)

type Method int

const (
	// MethodKMeans clusters with random restarts and keeps the most compact run.
	MethodKMeans Method = iota
	// MethodQuickKMeans runs a single muesli/kmeans partition.
	MethodQuickKMeans
	// MethodDominantColor uses dominantcolor candidates reduced by Lab diversity.
	MethodDominantColor
)

func (m Method) String() string {
	switch m {
	case MethodQuickKMeans:
		return "quick"
	case MethodDominantColor:
		return "dominantcolor"
	default:
		return "kmeans"
	}
}

// ParseMethod maps a method name as printed by String back to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kmeans":
		return MethodKMeans, nil
	case "quick":
		return MethodQuickKMeans, nil
	case "dominantcolor", "dominant":
		return MethodDominantColor, nil
	}
	return MethodKMeans, errors.Wrapf(ErrInvalidInput, "unknown palette method %q", s)
}

type Options struct {
	Method Method
	// Number of clustering restarts. The most compact run wins.
	Attempts int
	// Iteration cap per restart.
	MaxIterations int
	// Restart stops once no center moves farther than this, in 8-bit units.
	Epsilon float64
	// Upper bound on clustered pixels, 0 means every pixel of the
	// downsampled image is used.
	MaxSamples int
	// Seed for center initialization with MethodKMeans, 0 seeds from the
	// clock. MethodQuickKMeans draws from the global source and is not
	// reproducible.
	Seed uint64
}

func DefaultOptions() Options {
	return Options{
		Method:        MethodKMeans,
		Attempts:      10,
		MaxIterations: 100,
		Epsilon:       0.2,
	}
}

func (o Options) Validate() error {
	switch {
	case o.Attempts <= 0:
		return errors.Wrapf(ErrInvalidInput, "attempts must be positive, got %d", o.Attempts)
	case o.MaxIterations <= 0:
		return errors.Wrapf(ErrInvalidInput, "max iterations must be positive, got %d", o.MaxIterations)
	case o.Epsilon < 0:
		return errors.Wrapf(ErrInvalidInput, "epsilon must not be negative, got %g", o.Epsilon)
	case o.MaxSamples < 0:
		return errors.Wrapf(ErrInvalidInput, "max samples must not be negative, got %d", o.MaxSamples)
	}
	return nil
}

// Extract returns exactly k representative colors of img.
//
// The image is halved on both axes before clustering. This shifts centroids
// slightly compared to full resolution but keeps the same set of plausible
// colors. Low-diversity images may yield duplicate colors.
func Extract(img image.Image, k int, opt Options) ([]RGB, error) {
	if k <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "color count must be positive, got %d", k)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errors.Wrap(ErrInvalidInput, "image has no pixels")
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	small := downsample(img)

	var (
		colors []RGB
		err    error
	)
	switch opt.Method {
	case MethodDominantColor:
		colors, err = dominantPalette(small, k)
	case MethodQuickKMeans:
		data := observations(small, opt.MaxSamples)
		if len(data) == 0 {
			return nil, errors.Wrap(ErrInvalidInput, "image has no opaque pixels")
		}
		colors, err = quickKMeansPalette(data, k)
	default:
		data := observations(small, opt.MaxSamples)
		if len(data) == 0 {
			return nil, errors.Wrap(ErrInvalidInput, "image has no opaque pixels")
		}
		cc := restartedKMeans(data, k, opt, newRand(opt.Seed))
		colors = make([]RGB, 0, len(cc))
		for _, c := range cc {
			colors = append(colors, centerColor(c.Center))
		}
	}
	if err != nil {
		return nil, err
	}
	if len(colors) == 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "%s produced no colors", opt.Method)
	}
	return pad(colors, k), nil
}

func downsample(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx()/2, b.Dy()/2
	if w == 0 || h == 0 {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// observations flattens img into normalized RGB coordinates, skipping fully
// transparent pixels. With maxSamples > 0 pixels are taken on a regular grid.
func observations(img image.Image, maxSamples int) clusters.Observations {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	step := 1
	if maxSamples > 0 && width*height > maxSamples {
		for (width/step)*(height/step) > maxSamples {
			step++
		}
	}

	dataset := make(clusters.Observations, 0, (width/step+1)*(height/step+1))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / 65535.0,
				float64(g16) / 65535.0,
				float64(b16) / 65535.0,
			})
		}
	}
	return dataset
}

func centerColor(center clusters.Coordinates) RGB {
	if len(center) < 3 {
		return RGB{}
	}
	return fromUnit(center[0], center[1], center[2])
}

// pad repeats colors cyclically until there are k of them.
func pad(colors []RGB, k int) []RGB {
	if len(colors) >= k {
		return colors[:k]
	}
	out := make([]RGB, 0, k)
	out = append(out, colors...)
	for i := 0; len(out) < k; i++ {
		out = append(out, colors[i%len(colors)])
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
