// Package pickerwindow provides the matte picker window: a preview of the
// matted image, one swatch per candidate border color and navigation.
package pickerwindow

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
	"github.com/setanarut/mattepicker"
)

const (
	appTitle       = "Matte Picker"
	previewDivisor = 2
	swatchWidth    = 80
	swatchHeight   = 40
)

// swatch is a colored patch with a flat button on top. Swatch i always shows
// candidate i.
type swatch struct {
	rect *canvas.Rectangle
	btn  *widget.Button
	obj  fyne.CanvasObject
}

// PickerWindow is the application window. It owns the current session and
// replaces it with the value returned by each Picker transition.
type PickerWindow struct {
	fyne.Window
	app    fyne.App
	picker *mattepicker.Picker
	logger *slog.Logger

	session mattepicker.Session
	loaded  bool
	outDir  string

	preview   *canvas.Image
	swatches  []*swatch
	statusBar *widget.Label

	// Set when the window had to give up before any image was shown.
	err error
}

// New creates the window. outDir overrides the default output folder of every
// folder opened from the window; empty keeps the default.
func New(fyneApp fyne.App, picker *mattepicker.Picker, outDir string, logger *slog.Logger) *PickerWindow {
	if logger == nil {
		logger = slog.Default()
	}
	pw := &PickerWindow{
		Window: fyneApp.NewWindow(appTitle),
		app:    fyneApp,
		picker: picker,
		logger: logger,
		outDir: outDir,
	}
	pw.setupUI()
	pw.setupMenus()
	pw.setupKeys()
	pw.Resize(fyne.NewSize(2000, 1080))
	return pw
}

// Err reports why the window quit without ever showing an image.
func (pw *PickerWindow) Err() error {
	return pw.err
}

func (pw *PickerWindow) setupUI() {
	size := pw.picker.Options().TargetSize
	pw.preview = canvas.NewImageFromImage(nil)
	pw.preview.FillMode = canvas.ImageFillContain
	pw.preview.SetMinSize(fyne.NewSize(float32(size.X/previewDivisor), float32(size.Y/previewDivisor)))

	n := 2 * pw.picker.Options().NumColors
	pw.swatches = make([]*swatch, n)
	for i := range n {
		pw.swatches[i] = pw.newSwatch(i)
	}

	// One row per dominant color: dark variant left, light variant right.
	grid := container.NewGridWithColumns(2)
	for _, s := range pw.swatches {
		grid.Add(s.obj)
	}

	prevBtn := widget.NewButton("Previous Image", pw.onPrevious)
	nextBtn := widget.NewButton("Next Image", pw.onNext)
	nextBtn.Importance = widget.HighImportance
	openBtn := widget.NewButton("Open Folder...", pw.onOpenFolder)

	side := container.NewVBox(
		grid,
		widget.NewSeparator(),
		nextBtn,
		prevBtn,
		openBtn,
	)

	pw.statusBar = widget.NewLabel("No folder open")

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(pw.statusBar), // bottom
		nil,                               // left
		side,                              // right
		pw.preview,                        // center
	)
	pw.SetContent(content)
}

func (pw *PickerWindow) newSwatch(i int) *swatch {
	rect := canvas.NewRectangle(color.Transparent)
	rect.SetMinSize(fyne.NewSize(swatchWidth, swatchHeight))
	btn := widget.NewButton("", func() { pw.onSwatch(i) })
	btn.Importance = widget.LowImportance
	return &swatch{rect: rect, btn: btn, obj: container.NewStack(rect, btn)}
}

func (pw *PickerWindow) setupMenus() {
	openItem := fyne.NewMenuItem("Open Folder...", pw.onOpenFolder)
	openItem.Shortcut = openShortcut

	fileMenu := fyne.NewMenu("File",
		openItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Next Image", pw.onNext),
		fyne.NewMenuItem("Previous Image", pw.onPrevious),
	)
	pw.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

var openShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}

var digitKeys = []fyne.KeyName{
	fyne.Key1, fyne.Key2, fyne.Key3, fyne.Key4, fyne.Key5,
	fyne.Key6, fyne.Key7, fyne.Key8, fyne.Key9,
}

func (pw *PickerWindow) setupKeys() {
	c := pw.Canvas()
	c.AddShortcut(openShortcut, func(fyne.Shortcut) { pw.onOpenFolder() })
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyRight, fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
			pw.onNext()
		case fyne.KeyLeft, fyne.KeyBackspace:
			pw.onPrevious()
		default:
			for i, k := range digitKeys {
				if ev.Name == k {
					pw.onSwatch(i)
					return
				}
			}
		}
	})
}

// SetSession shows s.
func (pw *PickerWindow) SetSession(s mattepicker.Session) {
	pw.session = s
	pw.loaded = true
	pw.refresh()
}

// PromptFolder asks for the input folder. Cancelling quits the application.
func (pw *PickerWindow) PromptFolder() {
	dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			pw.logger.Info("no folder chosen, exiting")
			pw.app.Quit()
			return
		}
		s, err := pw.picker.Open(uri.Path(), pw.outDir)
		if err != nil {
			pw.fail(err)
			return
		}
		pw.SetSession(s)
	}, pw.Window).Show()
}

// fail reports an error that leaves nothing to show and quits once the
// operator closes the dialog.
func (pw *PickerWindow) fail(err error) {
	pw.logger.Error("cannot start", "err", err)
	pw.err = err
	d := dialog.NewError(err, pw.Window)
	d.SetOnClosed(pw.app.Quit)
	d.Show()
}

func (pw *PickerWindow) refresh() {
	s := pw.session
	pk := s.Pick
	pw.preview.Image = mattepicker.Preview(pk.Matted, previewDivisor)
	pw.preview.Refresh()

	for i, sw := range pw.swatches {
		if i >= len(pk.Candidates) {
			sw.obj.Hide()
			continue
		}
		sw.obj.Show()
		sw.rect.FillColor = pk.Candidates[i].Color
		sw.rect.Refresh()
		label := ""
		if i == pk.Selected {
			label = "●"
		}
		sw.btn.SetText(label)
	}

	pw.SetTitle(fmt.Sprintf("%s - %s", appTitle, filepath.Base(s.Current())))
	pw.updateStatus(fmt.Sprintf("%d/%d  %s  border %s  →  %s",
		s.Index+1, len(s.Files), filepath.Base(s.Current()), pk.Color().Hex(), s.OutDir))

	if len(s.Skipped) > 0 {
		names := make([]string, len(s.Skipped))
		for i, f := range s.Skipped {
			names[i] = filepath.Base(f)
		}
		dialog.ShowInformation("Unreadable images skipped", strings.Join(names, "\n"), pw.Window)
	}
}

func (pw *PickerWindow) updateStatus(text string) {
	pw.statusBar.SetText(text)
}

func (pw *PickerWindow) onSwatch(i int) {
	if !pw.loaded {
		return
	}
	s, err := pw.picker.Select(pw.session, i)
	if err != nil {
		// Digit keys beyond the candidate count land here.
		pw.logger.Debug("select ignored", "index", i, "err", err)
		return
	}
	pw.SetSession(s)
}

func (pw *PickerWindow) onNext() {
	if !pw.loaded {
		return
	}
	s, err := pw.picker.Next(pw.session)
	if err != nil {
		dialog.ShowError(err, pw.Window)
		return
	}
	if s.Done {
		pw.session = s
		pw.logger.Info("all images exported", "output", s.OutDir)
		d := dialog.NewInformation("Done", "All images exported to\n"+s.OutDir, pw.Window)
		d.SetOnClosed(pw.app.Quit)
		d.Show()
		return
	}
	pw.SetSession(s)
}

func (pw *PickerWindow) onPrevious() {
	if !pw.loaded {
		return
	}
	s, err := pw.picker.Previous(pw.session)
	if err != nil {
		dialog.ShowError(err, pw.Window)
		return
	}
	pw.SetSession(s)
}

func (pw *PickerWindow) onOpenFolder() {
	dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, pw.Window)
			return
		}
		if uri == nil {
			return
		}
		if !pw.loaded {
			s, err := pw.picker.Open(uri.Path(), pw.outDir)
			if err != nil {
				dialog.ShowError(err, pw.Window)
				return
			}
			pw.SetSession(s)
			return
		}
		s, err := pw.picker.Reopen(pw.session, uri.Path())
		if errors.Is(err, mattepicker.ErrNoImages) {
			dialog.ShowInformation("No images", "No supported images in\n"+uri.Path(), pw.Window)
			return
		}
		if err != nil {
			dialog.ShowError(err, pw.Window)
			return
		}
		pw.SetSession(s)
	}, pw.Window).Show()
}
