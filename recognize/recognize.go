/*
Package recognize connects finished canvases to a text recognizer.

Recognizers are black boxes. A Recognizer turns the image of a single glyph
into one string; a BatchRecognizer turns an image showing a sequence of
glyphs into an ordered list of strings. For batch recognition the order of
the returned strings is assumed to follow glyph placement: left to right,
then top to bottom. Real recognizers do not guarantee this, and results of
batch recognition are checked for alignment downstream.

The Adapter wraps both kinds, refuses canvases which are not sealed, skips
empty canvases and normalizes recognized text.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package recognize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// tracer traces with key 'fontocr.recognize'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.recognize")
}

// Recognizer recognizes the text of a single glyph image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// BatchRecognizer recognizes the glyphs of a multi-glyph image. n is the
// number of glyphs placed on the image, passed as a hint. The result is
// expected in placement order.
type BatchRecognizer interface {
	RecognizeBatch(ctx context.Context, img image.Image, n int) ([]string, error)
}

// Named is implemented by recognizers which can name themselves for
// diagnostics.
type Named interface {
	Name() string
}

// Adapter submits sealed canvases to a recognizer.
type Adapter struct {
	single    Recognizer
	batch     BatchRecognizer
	name      string
	Normalize bool // apply Normalize to results; on by default
	FoldWidth bool // fold full-width forms to narrow ones; off by default
}

// NewAdapter wraps rec, which must implement Recognizer, BatchRecognizer
// or both.
func NewAdapter(rec any) (*Adapter, error) {
	a := &Adapter{Normalize: true}
	a.single, _ = rec.(Recognizer)
	a.batch, _ = rec.(BatchRecognizer)
	if a.single == nil && a.batch == nil {
		return nil, core.Error(core.EINVALID, "%T is neither a Recognizer nor a BatchRecognizer", rec)
	}
	a.name = fmt.Sprintf("%T", rec)
	if n, ok := rec.(Named); ok {
		a.name = n.Name()
	}
	return a, nil
}

// Name returns the name of the wrapped recognizer.
func (a *Adapter) Name() string { return a.name }

// CanSingle reports whether the wrapped recognizer supports single-glyph
// recognition.
func (a *Adapter) CanSingle() bool { return a.single != nil }

// CanBatch reports whether the wrapped recognizer supports batch recognition.
func (a *Adapter) CanBatch() bool { return a.batch != nil }

// RecognizeSingle recognizes a canvas holding one glyph. An empty canvas is
// not submitted and yields "".
func (a *Adapter) RecognizeSingle(ctx context.Context, canvas *raster.Canvas) (string, error) {
	if a.single == nil {
		return "", core.Error(core.EINVALID, "recognizer %s does not support single glyphs", a.name)
	}
	if !canvas.Sealed() {
		return "", core.ErrCanvasNotSealed
	}
	if canvas.Empty() {
		return "", nil
	}
	text, err := a.single.Recognize(ctx, canvas.Image())
	if err != nil {
		tracer().Errorf("recognizer %s failed: %v", a.name, err)
		return "", &core.RecognizerUnavailableError{Recognizer: a.name, Err: err}
	}
	return a.clean(text), nil
}

// RecognizeBatch recognizes a canvas holding a sequence of glyphs. An empty
// canvas is not submitted and yields no strings. The length of the result
// is not checked here.
func (a *Adapter) RecognizeBatch(ctx context.Context, canvas *raster.Canvas) ([]string, error) {
	if a.batch == nil {
		return nil, core.Error(core.EINVALID, "recognizer %s does not support batches", a.name)
	}
	if !canvas.Sealed() {
		return nil, core.ErrCanvasNotSealed
	}
	if canvas.Empty() {
		return nil, nil
	}
	texts, err := a.batch.RecognizeBatch(ctx, canvas.Image(), canvas.Glyphs())
	if err != nil {
		tracer().Errorf("recognizer %s failed: %v", a.name, err)
		return nil, &core.RecognizerUnavailableError{Recognizer: a.name, Err: err}
	}
	for i := range texts {
		texts[i] = a.clean(texts[i])
	}
	return texts, nil
}

func (a *Adapter) clean(s string) string {
	if a.Normalize {
		s = Normalize(s)
	}
	if a.FoldWidth {
		s = FoldWidth(s)
	}
	return s
}

// Normalize cleans up a recognized string: surrounding white space is
// removed and the result is NFC-composed. Full-width forms are kept, they
// are real page text on CJK sites.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return norm.NFC.String(s)
}

// FoldWidth folds full-width forms to their narrow counterparts,
// e.g. "０" to "0".
func FoldWidth(s string) string {
	return width.Narrow.String(s)
}

// EncodePNG encodes an image as PNG, for recognizers which consume files
// or byte streams.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("cannot encode image: %w", err)
	}
	return buf.Bytes(), nil
}
