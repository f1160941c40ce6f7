package mattepicker

import (
	"image"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/setanarut/mattepicker/palette"
)

// Picker runs the matting pipeline. It only holds configuration; the working
// state lives in the Pick and Session values its methods take and return,
// which are never modified in place.
type Picker struct {
	opts    Options
	deriver *palette.Deriver
	logger  *slog.Logger
}

// NewPicker validates opts and builds the Lab transform. A nil logger uses
// slog.Default().
func NewPicker(opts Options, logger *slog.Logger) (*Picker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	deriver, err := palette.NewDeriver(opts.Tone, opts.WhitePoint)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Picker{opts: opts, deriver: deriver, logger: logger}, nil
}

func (p *Picker) Options() Options {
	return p.opts
}

// Pick is the state of the image being matted.
type Pick struct {
	// Source file, empty for images passed to Prepare directly.
	Path       string
	Resized    *image.NRGBA
	Dominant   []palette.RGB
	Candidates []palette.Candidate
	// Index into Candidates of the border color shown in Matted.
	Selected int
	Matted   *image.NRGBA
}

// Color returns the selected border color.
func (pk Pick) Color() palette.RGB {
	return pk.Candidates[pk.Selected].Color
}

// Prepare fits src to the canvas, extracts its dominant colors, derives the
// candidate borders and composes the first candidate.
func (p *Picker) Prepare(src image.Image) (Pick, error) {
	resized, err := Fit(src, p.opts.TargetSize, p.opts.MinimumBorder)
	if err != nil {
		return Pick{}, err
	}
	dominant, err := palette.Extract(resized, p.opts.NumColors, p.opts.Palette)
	if err != nil {
		return Pick{}, err
	}
	if p.opts.SortByBrightness {
		palette.SortByBrightness(dominant)
	}
	candidates, err := p.deriver.Candidates(dominant)
	if err != nil {
		return Pick{}, err
	}
	pk := Pick{Resized: resized, Dominant: dominant, Candidates: candidates}
	return p.Choose(pk, 0)
}

// Load decodes path and prepares it.
func (p *Picker) Load(path string) (Pick, error) {
	src, err := LoadImage(path, p.opts.AutoOrient)
	if err != nil {
		return Pick{}, err
	}
	pk, err := p.Prepare(src)
	if err != nil {
		return Pick{}, errors.Wrapf(err, "prepare %s", path)
	}
	pk.Path = path
	p.logger.Debug("image loaded",
		"file", path,
		"source", src.Bounds().Size(),
		"resized", pk.Resized.Bounds().Size(),
		"method", p.opts.Palette.Method,
		"colors", len(pk.Dominant))
	return pk, nil
}

// Choose recomposes pk with candidate i as the border color.
func (p *Picker) Choose(pk Pick, i int) (Pick, error) {
	if i < 0 || i >= len(pk.Candidates) {
		return pk, errors.Wrapf(ErrInvalidInput, "candidate %d out of range [0,%d)", i, len(pk.Candidates))
	}
	matted, err := Compose(pk.Resized, pk.Candidates[i].Color, p.opts.TargetSize)
	if err != nil {
		return pk, err
	}
	pk.Selected = i
	pk.Matted = matted
	return pk, nil
}

// Session is the navigation state over one folder of images.
type Session struct {
	Dir    string
	OutDir string
	Files  []string
	Index  int
	Pick   Pick
	// Done is set once the last image has been exported.
	Done bool
	// Files that failed to decode during the last transition and were
	// stepped over.
	Skipped []string

	customOut bool
}

// Current returns the path of the image being matted.
func (s Session) Current() string {
	return s.Files[s.Index]
}

// Open scans dir and loads its first readable image. An empty outDir means
// DefaultOutputDir(dir).
func (p *Picker) Open(dir, outDir string) (Session, error) {
	files, err := ScanDir(dir)
	if err != nil {
		return Session{}, err
	}
	if len(files) == 0 {
		return Session{}, errors.Wrapf(ErrNoImages, "in %s", dir)
	}
	pk, idx, skipped, err := p.seek(files, 0, 1)
	if err != nil {
		return Session{}, errors.Wrapf(err, "in %s", dir)
	}
	s := Session{
		Dir:       dir,
		OutDir:    outDir,
		Files:     files,
		Index:     idx,
		Pick:      pk,
		Skipped:   skipped,
		customOut: outDir != "",
	}
	if !s.customOut {
		s.OutDir = DefaultOutputDir(dir)
	}
	p.logger.Info("folder opened", "dir", dir, "images", len(files), "output", s.OutDir)
	return s, nil
}

// Reopen switches s to another folder. An explicit output directory given to
// Open is kept. On failure s is returned unchanged with the error.
func (p *Picker) Reopen(s Session, dir string) (Session, error) {
	outDir := ""
	if s.customOut {
		outDir = s.OutDir
	}
	ns, err := p.Open(dir, outDir)
	if err != nil {
		return s, err
	}
	return ns, nil
}

// Select shows candidate i of the current image.
func (p *Picker) Select(s Session, i int) (Session, error) {
	pk, err := p.Choose(s.Pick, i)
	if err != nil {
		return s, err
	}
	s.Pick = pk
	s.Skipped = nil
	return s, nil
}

// Next exports the current matted image and moves to the following readable
// image. If the export fails s is returned unchanged. After the last image
// the returned session has Done set.
func (p *Picker) Next(s Session) (Session, error) {
	if s.Done {
		return s, nil
	}
	out := OutputPath(s.OutDir, s.Current())
	if err := Export(s.Pick.Matted, out, p.opts.JPEGQuality); err != nil {
		p.logger.Error("export failed", "file", s.Current(), "output", out, "err", err)
		return s, err
	}
	p.logger.Info("exported", "file", s.Current(), "output", out, "color", s.Pick.Color().Hex())

	pk, idx, skipped, err := p.seek(s.Files, s.Index+1, 1)
	switch {
	case errors.Is(err, ErrNoImages):
		s.Done = true
		s.Skipped = skipped
		return s, nil
	case err != nil:
		return s, err
	}
	s.Index = idx
	s.Pick = pk
	s.Skipped = skipped
	return s, nil
}

// Previous reloads the preceding readable image without exporting anything.
// On the first image it is a no-op.
func (p *Picker) Previous(s Session) (Session, error) {
	if s.Index == 0 {
		return s, nil
	}
	pk, idx, skipped, err := p.seek(s.Files, s.Index-1, -1)
	if err != nil {
		return s, err
	}
	s.Index = idx
	s.Pick = pk
	s.Done = false
	s.Skipped = skipped
	return s, nil
}

// seek loads the first decodable file starting at i and moving by step.
// Files that fail with ErrInvalidInput are logged and stepped over; other
// errors stop the search.
func (p *Picker) seek(files []string, i, step int) (Pick, int, []string, error) {
	var skipped []string
	for ; i >= 0 && i < len(files); i += step {
		pk, err := p.Load(files[i])
		if err == nil {
			return pk, i, skipped, nil
		}
		if !errors.Is(err, ErrInvalidInput) {
			return Pick{}, i, skipped, err
		}
		p.logger.Warn("skipping unreadable image", "file", files[i], "err", err)
		skipped = append(skipped, files[i])
	}
	return Pick{}, i, skipped, errors.Wrap(ErrNoImages, "no readable image left")
}
