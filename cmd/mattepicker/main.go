// Command mattepicker walks a folder of photos, offers border colors derived
// from each photo's dominant colors and exports the matted result as JPEG.
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/setanarut/mattepicker"
	"github.com/setanarut/mattepicker/palette"
	"github.com/setanarut/mattepicker/ui/pickerwindow"
)

func main() {
	defaults := mattepicker.DefaultOptions()

	inDir := flag.String("in", "", "input folder (prompted when empty)")
	outDir := flag.String("out", "", "output folder (default <input>/output_images)")
	width := flag.Int("width", defaults.TargetSize.X, "canvas width in pixels")
	height := flag.Int("height", defaults.TargetSize.Y, "canvas height in pixels")
	border := flag.Int("border", defaults.MinimumBorder, "minimum total border at the binding axis")
	colors := flag.Int("colors", defaults.NumColors, "dominant colors per image")
	method := flag.String("method", defaults.Palette.Method.String(), "palette method: kmeans, quick or dominantcolor")
	attempts := flag.Int("attempts", defaults.Palette.Attempts, "k-means restarts")
	maxSamples := flag.Int("max-samples", defaults.Palette.MaxSamples, "pixels sampled for clustering (0 = all)")
	seed := flag.Uint64("seed", defaults.Palette.Seed, "random seed (0 = time based)")
	whitePoint := flag.String("white-point", defaults.WhitePoint, "Lab reference white: D50 or D65")
	quality := flag.Int("quality", defaults.JPEGQuality, "JPEG quality 1-100")
	sortColors := flag.Bool("sort", defaults.SortByBrightness, "order swatches by brightness")
	autoOrient := flag.Bool("auto-orient", defaults.AutoOrient, "apply EXIF orientation")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	m, err := palette.ParseMethod(*method)
	if err != nil {
		fatal(err)
	}

	opts := defaults
	opts.TargetSize = image.Pt(*width, *height)
	opts.MinimumBorder = *border
	opts.NumColors = *colors
	opts.Palette.Method = m
	opts.Palette.Attempts = *attempts
	opts.Palette.MaxSamples = *maxSamples
	opts.Palette.Seed = *seed
	opts.WhitePoint = *whitePoint
	opts.JPEGQuality = *quality
	opts.SortByBrightness = *sortColors
	opts.AutoOrient = *autoOrient

	picker, err := mattepicker.NewPicker(opts, logger)
	if err != nil {
		fatal(err)
	}

	// Open the folder before any window exists so a bad -in fails fast.
	var session *mattepicker.Session
	if *inDir != "" {
		s, err := picker.Open(*inDir, *outDir)
		if err != nil {
			fatal(err)
		}
		session = &s
	}

	fyneApp := app.NewWithID("com.setanarut.mattepicker")
	win := pickerwindow.New(fyneApp, picker, *outDir, logger)
	win.Show()
	if session != nil {
		win.SetSession(*session)
	} else {
		win.PromptFolder()
	}
	fyneApp.Run()

	if err := win.Err(); err != nil {
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "mattepicker:", err)
	os.Exit(1)
}
