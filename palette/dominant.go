package palette

import (
	"image"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

func dominantPalette(img image.Image, k int) ([]RGB, error) {
	nCandidates := max(24, k*8)
	candidates := dominantcolor.FindWeight(img, nCandidates)

	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: c.Weight})
	}
	return selectDiverse(weighted, k), nil
}

// selectDiverse greedily picks up to k colors: the heaviest candidate first,
// then repeatedly the one farthest in Lab from everything picked so far,
// scaled by its weight.
func selectDiverse(cands []weightedColor, k int) []RGB {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		l, a, b := c.Col.Lab()
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		maxW = max(maxW, w)
		items = append(items, item{col: c.Col, lab: [3]float64{l, a, b}, w: w})
	}
	k = min(k, len(items))

	seed := 0
	for i := range items {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	picked := []int{seed}

	for len(picked) < k {
		bestIdx := -1
		bestScore := -1.0
		for i := range items {
			if slices.Contains(picked, i) {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		picked = append(picked, bestIdx)
	}

	out := make([]RGB, 0, len(picked))
	for _, idx := range picked {
		out = append(out, fromColorful(items[idx].col))
	}
	return out
}

// SortByBrightness orders colors from darkest to brightest by relative
// luminance. The sort is stable so equal colors keep their extraction order.
func SortByBrightness(colors []RGB) {
	slices.SortStableFunc(colors, func(a, b RGB) int {
		ya, yb := luminance(a), luminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

func luminance(c RGB) float64 {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
