package palette

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LightnessThreshold splits dominant colors into the two tone rules. L* only
// spans 0-100, so with 128 every color takes the first rule. The value is
// kept as found in the picker this tool replaces until the intended visual
// behavior is confirmed.
const LightnessThreshold = 128.0

type Tone int

const (
	Dark Tone = iota
	Light
)

func (t Tone) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// ToneRule maps the lightness L of a dominant color to the lightness of its
// two border variants: L*Scale plus an offset chosen by Threshold.
type ToneRule struct {
	Threshold float64
	Scale     float64

	// Offsets used when L < Threshold.
	DarkOffset  float64
	LightOffset float64

	// Offsets used otherwise.
	HighDarkOffset  float64
	HighLightOffset float64
}

func DefaultToneRule() ToneRule {
	return ToneRule{
		Threshold:       LightnessThreshold,
		Scale:           0.3,
		DarkOffset:      20,
		LightOffset:     180,
		HighDarkOffset:  0,
		HighLightOffset: 120,
	}
}

// Lightness returns the dark and light variant lightness for l.
func (r ToneRule) Lightness(l float64) (dark, light float64) {
	if l < r.Threshold {
		return l*r.Scale + r.DarkOffset, l*r.Scale + r.LightOffset
	}
	return l*r.Scale + r.HighDarkOffset, l*r.Scale + r.HighLightOffset
}

// Candidate is one border color offered to the operator.
type Candidate struct {
	Color RGB
	Tone  Tone
	// Source indexes the dominant color the candidate was derived from.
	Source   int
	Dominant RGB
}

// Deriver converts colors through CIE L*a*b* relative to a fixed white point.
type Deriver struct {
	Rule ToneRule
	wref [3]float64
	// Bradford adaptation from sRGB's D65 white to wref and back, nil for D65.
	toRef, fromRef *mat.Dense
}

var whitePoints = map[string][3]float64{
	"D65": colorful.D65,
	"D50": colorful.D50,
}

// Bradford chromatic adaptation D65 -> D50 and its inverse.
var (
	bradfordD65toD50 = mat.NewDense(3, 3, []float64{
		1.0478112, 0.0228866, -0.0501270,
		0.0295424, 0.9904844, -0.0170491,
		-0.0092345, 0.0150436, 0.7521316,
	})
	bradfordD50toD65 = mat.NewDense(3, 3, []float64{
		0.9555766, -0.0230393, 0.0631636,
		-0.0282895, 1.0099416, 0.0210077,
		0.0122982, -0.0204830, 1.3299098,
	})
)

// NewDeriver builds a Deriver for the named white point ("D50" or "D65",
// empty means D50). An unknown white point fails with ErrColorConversion.
//
// sRGB is D65 based, so D50 Lab goes through a Bradford adaptation and
// neutral grays stay neutral, as in an ICC Lab profile.
func NewDeriver(rule ToneRule, whitePoint string) (*Deriver, error) {
	name := strings.ToUpper(strings.TrimSpace(whitePoint))
	if name == "" {
		name = "D50"
	}
	wref, ok := whitePoints[name]
	if !ok {
		return nil, errors.Wrapf(ErrColorConversion, "unknown white point %q", whitePoint)
	}
	d := &Deriver{Rule: rule, wref: wref}
	if name == "D50" {
		d.toRef, d.fromRef = bradfordD65toD50, bradfordD50toD65
	}
	return d, nil
}

var defaultDeriver, _ = NewDeriver(DefaultToneRule(), "D50")

// DeriveVariants returns the dark and light border variants of c using the
// default tone rule and a D50 white point.
func DeriveVariants(c RGB) (dark, light RGB, err error) {
	return defaultDeriver.Variants(c)
}

func adapt(m *mat.Dense, x, y, z float64) (float64, float64, float64) {
	if m == nil {
		return x, y, z
	}
	var v mat.VecDense
	v.MulVec(m, mat.NewVecDense(3, []float64{x, y, z}))
	return v.AtVec(0), v.AtVec(1), v.AtVec(2)
}

// ToLab converts c to L*a*b* with L on 0-100.
func (d *Deriver) ToLab(c RGB) (l, a, b float64) {
	x, y, z := c.colorful().Xyz()
	x, y, z = adapt(d.toRef, x, y, z)
	l, a, b = colorful.XyzToLabWhiteRef(x, y, z, d.wref)
	return l * 100, a * 100, b * 100
}

// FromLab converts L*a*b* (L on 0-100) back to RGB. Out-of-gamut results are
// clamped to the 8-bit range.
func (d *Deriver) FromLab(l, a, b float64) (RGB, error) {
	x, y, z := colorful.LabToXyzWhiteRef(l/100, a/100, b/100, d.wref)
	c := colorful.Xyz(adapt(d.fromRef, x, y, z))
	for _, v := range [...]float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return RGB{}, errors.Wrapf(ErrColorConversion, "Lab(%g, %g, %g) has no RGB value", l, a, b)
		}
	}
	return fromColorful(c), nil
}

// Variants returns the dark and light border variants of c. Chroma is held
// fixed; only lightness changes.
func (d *Deriver) Variants(c RGB) (dark, light RGB, err error) {
	l, a, b := d.ToLab(c)
	darkL, lightL := d.Rule.Lightness(l)
	if dark, err = d.FromLab(darkL, a, b); err != nil {
		return RGB{}, RGB{}, err
	}
	if light, err = d.FromLab(lightL, a, b); err != nil {
		return RGB{}, RGB{}, err
	}
	return dark, light, nil
}

// Candidates derives a (dark, light) pair for each dominant color, in order.
func (d *Deriver) Candidates(dominant []RGB) ([]Candidate, error) {
	out := make([]Candidate, 0, 2*len(dominant))
	for i, c := range dominant {
		dark, light, err := d.Variants(c)
		if err != nil {
			return nil, errors.Wrapf(err, "dominant color %d %s", i, c)
		}
		out = append(out,
			Candidate{Color: dark, Tone: Dark, Source: i, Dominant: c},
			Candidate{Color: light, Tone: Light, Source: i, Dominant: c},
		)
	}
	return out, nil
}
