/*
Package template implements a recognizer matching glyph bitmaps against
bitmaps rendered from a reference font.

For every character of a charset, the reference font's glyph is rendered at
the same pixel size as the glyphs to recognize. A glyph image is binarized,
its ink box is centered in a fixed window, and it is compared to every
template. The character of the best template wins if its score reaches the
threshold; otherwise the glyph is unresolved and the result is "".

Multi-glyph images are segmented into glyphs by ink projections: first
into rows, then every row into columns. Glyphs consisting of horizontally
separated parts ('"' for example) produce more than one segment, and
neighbouring glyphs touching each other produce one. Either way, the
number of results then differs from the number of glyphs placed.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package template

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'fontocr.recognize'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.recognize")
}

// DefaultCharset is used if no charset is configured.
const DefaultCharset = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

type options struct {
	charset   []rune
	fontSize  int
	threshold float64
	minGap    int
}

// Option configures a Recognizer.
type Option func(*options)

// WithCharset sets the characters templates are created for.
func WithCharset(chars string) Option {
	return func(o *options) {
		if chars != "" {
			o.charset = []rune(chars)
		}
	}
}

// WithFontSize sets the pixel size templates are rendered at. It must match
// the size glyphs are rendered at for recognition.
func WithFontSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.fontSize = px
		}
	}
}

// WithThreshold sets the minimum score, in percent, for a match.
func WithThreshold(percent int) Option {
	return func(o *options) {
		if percent > 0 && percent <= 100 {
			o.threshold = float64(percent) / 100
		}
	}
}

// Recognizer is a template matching recognizer. It is safe for concurrent use.
type Recognizer struct {
	templates []glyphTemplate
	window    int // edge length of the comparison window
	threshold float64
	minGap    int // blank pixels needed to separate two segments
}

type glyphTemplate struct {
	r    rune
	bits bitmap
}

// New creates a recognizer with templates rendered from font ref.
// Characters the reference font cannot draw are skipped.
func New(ref *sfnt.Font, opts ...Option) (*Recognizer, error) {
	o := options{
		charset:   []rune(DefaultCharset),
		fontSize:  layout.DefaultFontSize,
		threshold: 0.7,
		minGap:    2,
	}
	for _, opt := range opts {
		opt(&o)
	}
	rec := &Recognizer{
		window:    2 * o.fontSize,
		threshold: o.threshold,
		minGap:    o.minGap,
	}
	renderer := raster.NewRenderer(ref, o.fontSize, raster.BlackOnWhite)
	plan := layout.NewPlan(1, rec.window, layout.Square, 0)
	for _, r := range o.charset {
		canvas := raster.NewCanvas(plan, raster.BlackOnWhite)
		cell, err := canvas.Cell(plan.Cell(0).Rect())
		if err != nil {
			return nil, err
		}
		if err := renderer.RenderGlyph(cell, r); err != nil {
			tracer().Debugf("template: reference font cannot draw %q", r)
			continue
		}
		canvas.Seal()
		bits := rec.sample(binarize(canvas.Image()), canvas.Bounds())
		if bits == nil {
			continue
		}
		rec.templates = append(rec.templates, glyphTemplate{r: r, bits: bits})
	}
	if len(rec.templates) == 0 {
		return nil, core.Error(core.EINVALID, "reference font provides no templates")
	}
	tracer().Debugf("template recognizer with %d templates", len(rec.templates))
	return rec, nil
}

// NewFromName locates a reference font by file name among the system
// fonts and creates a recognizer from it. An empty name selects Go Regular.
func NewFromName(name string, opts ...Option) (*Recognizer, error) {
	data := goregular.TTF
	if name != "" {
		path, err := findfont.Find(name)
		if err != nil {
			return nil, core.WrapError(err, core.EMISSING, "reference font %q not found", name)
		}
		if data, err = os.ReadFile(path); err != nil {
			return nil, &core.FontParseError{Path: path, Err: err}
		}
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, &core.FontParseError{Path: name, Err: err}
	}
	return New(f, opts...)
}

// Name implements recognize.Named.
func (rec *Recognizer) Name() string { return "template" }

// Templates returns the number of templates.
func (rec *Recognizer) Templates() int { return len(rec.templates) }

// Recognize classifies the ink of img as a single glyph.
func (rec *Recognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ink := binarize(img)
	box, ok := ink.inkBounds(ink.rect)
	if !ok {
		return "", nil
	}
	return rec.classify(ink, box), nil
}

// RecognizeBatch segments img into glyphs and classifies each of them, in
// reading order. n is not used to force the number of results.
func (rec *Recognizer) RecognizeBatch(ctx context.Context, img image.Image, n int) ([]string, error) {
	ink := binarize(img)
	segments := rec.segment(ink)
	if len(segments) != n {
		tracer().Debugf("template: found %d segments for %d glyphs", len(segments), n)
	}
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		texts = append(texts, rec.classify(ink, seg))
	}
	return texts, nil
}

func (rec *Recognizer) classify(ink *inkMap, box image.Rectangle) string {
	bits := rec.sample(ink, box)
	if bits == nil {
		return ""
	}
	best, score := rune(0), 0.0
	for _, t := range rec.templates {
		if s := bestDice(bits, t.bits, rec.window); s > score {
			best, score = t.r, s
		}
	}
	if score < rec.threshold {
		tracer().Debugf("template: best match %q with %.2f below threshold", best, score)
		return ""
	}
	return string(best)
}

// sample centers the ink box of r in a window-sized bitmap.
func (rec *Recognizer) sample(ink *inkMap, r image.Rectangle) bitmap {
	box, ok := ink.inkBounds(r)
	if !ok {
		return nil
	}
	w := rec.window
	bits := make(bitmap, w*w)
	ox := (w - box.Dx()) / 2
	oy := (w - box.Dy()) / 2
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if !ink.at(x, y) {
				continue
			}
			bx, by := ox+x-box.Min.X, oy+y-box.Min.Y
			if bx >= 0 && bx < w && by >= 0 && by < w {
				bits[by*w+bx] = true
			}
		}
	}
	return bits
}

func (rec *Recognizer) String() string {
	return fmt.Sprintf("template recognizer(%d templates, window %d)", len(rec.templates), rec.window)
}
