package palette

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func TestLabRoundTrip(t *testing.T) {
	for _, wp := range []string{"D65", "D50"} {
		d, err := NewDeriver(DefaultToneRule(), wp)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range []RGB{
			{128, 128, 128},
			{200, 30, 60},
			{40, 120, 200},
			{90, 160, 70},
			{250, 240, 220},
			{0, 0, 0},
		} {
			got, err := d.FromLab(d.ToLab(c))
			if err != nil {
				t.Fatalf("%s %s: %v", wp, c, err)
			}
			if !near(got, c, 2) {
				t.Errorf("%s: round trip of %s gave %s", wp, c, got)
			}
		}
	}
}

func TestMidGrayLightness(t *testing.T) {
	l, a, b := defaultDeriver.ToLab(RGB{128, 128, 128})
	if math.Abs(l-53.59) > 0.1 {
		t.Errorf("Expected L ~53.59, got %f", l)
	}
	if math.Abs(a) > 0.01 || math.Abs(b) > 0.01 {
		t.Errorf("Expected neutral chroma, got a=%f b=%f", a, b)
	}
}

func TestDeriveVariantsMidGray(t *testing.T) {
	dark, light, err := DeriveVariants(RGB{128, 128, 128})
	if err != nil {
		t.Fatal(err)
	}
	// L=53.6 takes the low rule: dark L'=36.1, light L'=196.1 which is
	// far above white and clamps.
	if !near(dark, RGB{85, 85, 85}, 2) {
		t.Errorf("Expected dark ~(85,85,85), got %s", dark)
	}
	if light != white {
		t.Errorf("Expected light to clamp to white, got %s", light)
	}
}

func TestDeriveVariantsDeterministic(t *testing.T) {
	for _, c := range []RGB{red, green, blue, {12, 200, 99}} {
		d1, l1, err := DeriveVariants(c)
		if err != nil {
			t.Fatal(err)
		}
		d2, l2, err := DeriveVariants(c)
		if err != nil {
			t.Fatal(err)
		}
		if d1 != d2 || l1 != l2 {
			t.Errorf("DeriveVariants(%s) not deterministic: (%s,%s) vs (%s,%s)", c, d1, l1, d2, l2)
		}
		if luminance(d1) > luminance(l1) {
			t.Errorf("DeriveVariants(%s): dark %s brighter than light %s", c, d1, l1)
		}
	}
}

func TestToneRuleLightness(t *testing.T) {
	for _, tc := range []struct {
		name        string
		rule        ToneRule
		l           float64
		dark, light float64
	}{
		{"default low", DefaultToneRule(), 50, 35, 195},
		{"default at 100", DefaultToneRule(), 100, 50, 210},
		{"high branch", ToneRule{Threshold: 40, Scale: 0.3, HighLightOffset: 120}, 50, 15, 135},
		{"threshold is exclusive", ToneRule{Threshold: 50, Scale: 1, DarkOffset: 1, LightOffset: 2}, 50, 50, 50},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dark, light := tc.rule.Lightness(tc.l)
			if math.Abs(dark-tc.dark) > 1e-9 || math.Abs(light-tc.light) > 1e-9 {
				t.Errorf("Lightness(%g) = (%g, %g), expected (%g, %g)", tc.l, dark, light, tc.dark, tc.light)
			}
		})
	}
}

func TestCandidatesOrder(t *testing.T) {
	dominant := []RGB{red, blue, red}
	cands, err := defaultDeriver.Candidates(dominant)
	if err != nil {
		t.Fatal(err)
	}
	type key struct {
		Tone   Tone
		Source int
	}
	var got []key
	for _, c := range cands {
		got = append(got, key{c.Tone, c.Source})
		if c.Dominant != dominant[c.Source] {
			t.Errorf("Candidate %v has dominant %s, expected %s", c, c.Dominant, dominant[c.Source])
		}
	}
	want := []key{{Dark, 0}, {Light, 0}, {Dark, 1}, {Light, 1}, {Dark, 2}, {Light, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if cands[0] != (Candidate{Color: cands[4].Color, Tone: Dark, Source: 0, Dominant: red}) {
		t.Errorf("Duplicate dominant colors should derive identical candidates: %v vs %v", cands[0], cands[4])
	}
}

func TestNewDeriverUnknownWhitePoint(t *testing.T) {
	if _, err := NewDeriver(DefaultToneRule(), "D93"); !errors.Is(err, ErrColorConversion) {
		t.Errorf("Expected ErrColorConversion, got %v", err)
	}
	if _, err := NewDeriver(DefaultToneRule(), ""); err != nil {
		t.Errorf("Empty white point should default to D50, got %v", err)
	}
}

func TestWhitePointsKeepGrayNeutral(t *testing.T) {
	d65, err := NewDeriver(DefaultToneRule(), "D65")
	if err != nil {
		t.Fatal(err)
	}
	d50, err := NewDeriver(DefaultToneRule(), "d50")
	if err != nil {
		t.Fatal(err)
	}
	for _, g := range []uint8{20, 128, 230} {
		c := RGB{g, g, g}
		l65, _, _ := d65.ToLab(c)
		l50, a, b := d50.ToLab(c)
		if math.Abs(a) > 0.01 || math.Abs(b) > 0.01 {
			t.Errorf("D50 %s: expected neutral chroma, got a=%f b=%f", c, a, b)
		}
		if math.Abs(l50-l65) > 0.01 {
			t.Errorf("%s: lightness differs between white points: %f vs %f", c, l50, l65)
		}
	}

	// Chroma of a saturated color depends on the reference white.
	_, a65, b65 := d65.ToLab(blue)
	_, a50, b50 := d50.ToLab(blue)
	if math.Abs(a65-a50) < 1 && math.Abs(b65-b50) < 1 {
		t.Errorf("Expected D50 and D65 chroma of %s to differ, got (%f,%f) and (%f,%f)", blue, a50, b50, a65, b65)
	}
}

func TestVariantsNaNRuleFails(t *testing.T) {
	d, err := NewDeriver(ToneRule{Threshold: 128, Scale: math.NaN()}, "D65")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.Variants(red); !errors.Is(err, ErrColorConversion) {
		t.Errorf("Expected ErrColorConversion, got %v", err)
	}
	if _, err := d.Candidates([]RGB{red}); !errors.Is(err, ErrColorConversion) {
		t.Errorf("Expected ErrColorConversion from Candidates, got %v", err)
	}
}
