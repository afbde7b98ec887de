package fontocr

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/dispatch"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/schuko"
	"golang.org/x/image/font/sfnt"
)

// Mode selects how glyphs are grouped for recognition.
type Mode int

const (
	PerGlyph Mode = iota // one canvas and one recognition per glyph
	Batched              // strips of a fixed number of glyphs
	Sheet                // all glyphs on one square sheet
)

func (m Mode) String() string {
	switch m {
	case PerGlyph:
		return "perglyph"
	case Batched:
		return "batched"
	case Sheet:
		return "sheet"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a mode name as used in configurations.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "perglyph", "per-glyph", "single":
		return PerGlyph, nil
	case "batched", "batch", "strip":
		return Batched, nil
	case "sheet", "square":
		return Sheet, nil
	}
	return PerGlyph, core.Error(core.EINVALID, "unknown transfer mode %q", s)
}

// RendererFactory creates the glyph renderer for a loaded font.
type RendererFactory func(f *sfnt.Font, fontSize int, scheme raster.Scheme) raster.GlyphRenderer

func defaultRenderer(f *sfnt.Font, fontSize int, scheme raster.Scheme) raster.GlyphRenderer {
	return raster.NewRenderer(f, fontSize, scheme)
}

type options struct {
	mode         Mode
	fontSize     int
	padding      int
	strip        int
	workers      int
	batchWorkers int
	scheme       raster.Scheme
	renderer     RendererFactory
	foldWidth    bool
	err          error
}

func defaultOptions() options {
	return options{
		mode:         PerGlyph,
		fontSize:     layout.DefaultFontSize,
		padding:      layout.DefaultPadding,
		strip:        layout.DefaultStripWidth,
		workers:      dispatch.DefaultWorkers,
		batchWorkers: 4,
		scheme:       raster.BlackOnWhite,
		renderer:     defaultRenderer,
	}
}

func (o options) cellSize() int {
	return layout.CellSize(o.fontSize, o.padding)
}

// Option configures a Transfer.
type Option func(*options)

// WithMode sets the transfer mode.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithFontSize sets the glyph size in pixels. Non-positive values are ignored.
func WithFontSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.fontSize = px
		}
	}
}

// WithPadding sets the padding around each glyph, in pixels per cell.
func WithPadding(px int) Option {
	return func(o *options) {
		if px >= 0 {
			o.padding = px
		}
	}
}

// WithStripWidth sets the number of glyphs per canvas in Batched mode.
func WithStripWidth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.strip = n
		}
	}
}

// WithWorkers caps the number of concurrent render jobs per canvas.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithBatchWorkers sets how many batches (or glyphs, in PerGlyph mode) are
// rendered and recognized concurrently. 1 processes them sequentially.
func WithBatchWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchWorkers = n
		}
	}
}

// WithScheme sets the colors glyphs are drawn with.
func WithScheme(s raster.Scheme) Option {
	return func(o *options) {
		if s.Background != nil && s.Ink != nil {
			o.scheme = s
		}
	}
}

// WithRendererFactory replaces the outline renderer.
func WithRendererFactory(f RendererFactory) Option {
	return func(o *options) {
		if f != nil {
			o.renderer = f
		}
	}
}

// WithWidthFolding folds full-width forms in recognition results to their
// narrow counterparts ("０" becomes "0"). Off by default, as full-width
// characters usually are the true text of the page.
func WithWidthFolding(on bool) Option {
	return func(o *options) { o.foldWidth = on }
}

// FromConfig applies the settings of a configuration. Keys not set keep
// their defaults; options given after FromConfig override it.
func FromConfig(conf schuko.Configuration) Option {
	return func(o *options) {
		s := core.SettingsFrom(conf)
		m, err := ParseMode(s.Mode)
		if err != nil {
			o.err = err
			return
		}
		o.mode = m
		o.fontSize = s.FontSize
		o.padding = s.Padding
		o.strip = s.Strip
		o.workers = s.Workers
		o.batchWorkers = s.BatchWorkers
		if s.Invert {
			o.scheme = raster.WhiteOnBlack
		}
		o.foldWidth = s.FoldWidth
	}
}
