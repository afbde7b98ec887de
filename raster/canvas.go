/*
Package raster provides the canvas glyphs are drawn onto and the renderer
drawing them.

A Canvas is a single RGBA surface shared by all render jobs of one dispatch.
Jobs obtain disjoint cells of it as sub-images and draw concurrently; the
pixel buffer is shared, but no two cells share a pixel. Once all jobs have
finished, the canvas is sealed and is from then on read-only.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync/atomic"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontocr.raster'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.raster")
}

// Scheme is the pair of colors a canvas is painted with.
type Scheme struct {
	Background color.Color
	Ink        color.Color
}

// Predefined color schemes.
var (
	BlackOnWhite = Scheme{Background: color.White, Ink: color.Black}
	WhiteOnBlack = Scheme{Background: color.Black, Ink: color.White}
)

// Canvas is a raster surface for a planned set of glyphs.
type Canvas struct {
	img    *image.RGBA
	plan   layout.Plan
	scheme Scheme
	sealed atomic.Bool
}

// NewCanvas creates a canvas sized for plan and fills it with the scheme's
// background color.
func NewCanvas(plan layout.Plan, scheme Scheme) *Canvas {
	if scheme.Background == nil || scheme.Ink == nil {
		scheme = BlackOnWhite
	}
	img := image.NewRGBA(plan.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(scheme.Background), image.Point{}, draw.Src)
	return &Canvas{img: img, plan: plan, scheme: scheme}
}

// Plan returns the layout the canvas was created for.
func (c *Canvas) Plan() layout.Plan { return c.plan }

// Scheme returns the canvas' colors.
func (c *Canvas) Scheme() Scheme { return c.scheme }

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Glyphs returns the number of glyphs planned for this canvas.
func (c *Canvas) Glyphs() int { return c.plan.Count() }

// Empty is true for a canvas without glyphs.
func (c *Canvas) Empty() bool { return c.plan.Empty() }

// Cell returns the writable region r of the canvas. r must lie within the
// canvas. Writes through the returned image touch only pixels inside r.
// After the canvas is sealed, Cell fails with core.ErrCanvasSealed.
func (c *Canvas) Cell(r image.Rectangle) (draw.Image, error) {
	if c.sealed.Load() {
		return nil, core.ErrCanvasSealed
	}
	if r.Empty() || !r.In(c.img.Bounds()) {
		return nil, core.Error(core.EINVALID, "cell %v outside canvas %v", r, c.img.Bounds())
	}
	return c.img.SubImage(r).(*image.RGBA), nil
}

// Seal marks the canvas as final. Sealing twice is harmless.
func (c *Canvas) Seal() {
	if c.sealed.CompareAndSwap(false, true) {
		tracer().Debugf("canvas %dx%d with %d glyphs sealed", c.img.Bounds().Dx(),
			c.img.Bounds().Dy(), c.plan.Count())
	}
}

// Sealed reports whether the canvas has been sealed.
func (c *Canvas) Sealed() bool { return c.sealed.Load() }

// Image returns the canvas content. Clients must not write to it.
func (c *Canvas) Image() image.Image { return c.img }

// CellImage returns the read-only content of cell i of a sealed canvas.
func (c *Canvas) CellImage(i int) (image.Image, error) {
	if !c.sealed.Load() {
		return nil, core.ErrCanvasNotSealed
	}
	if i < 0 || i >= c.plan.Count() {
		return nil, core.Error(core.EINVALID, "cell index %d out of range", i)
	}
	return c.img.SubImage(c.plan.Cell(i).Rect()), nil
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("cannot encode canvas: %w", err)
	}
	return nil
}

// PNG returns the canvas as PNG bytes.
func (c *Canvas) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
