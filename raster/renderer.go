package raster

import (
	"errors"
	"image"
	"image/draw"

	"github.com/npillmayer/fontocr/core"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// GlyphRenderer draws a single code point into a cell.
// Implementations must not touch pixels outside cell.Bounds() and must be
// safe for concurrent use on disjoint cells.
type GlyphRenderer interface {
	RenderGlyph(cell draw.Image, r rune) error
}

// GlyphIndexRenderer is implemented by renderers which can draw a glyph by
// its index in the font. r is used for error reporting only.
type GlyphIndexRenderer interface {
	RenderGlyphIndex(cell draw.Image, gid uint32, r rune) error
}

var (
	errNoGlyph      = errors.New("font has no glyph for code point")
	errEmptyOutline = errors.New("glyph outline is empty")
)

// Renderer draws glyph outlines of a font at a fixed pixel size.
type Renderer struct {
	font *sfnt.Font
	ppem int
	ink  image.Image
}

// NewRenderer creates a renderer for f, drawing glyphs at fontSize pixels
// per em with the ink of scheme.
func NewRenderer(f *sfnt.Font, fontSize int, scheme Scheme) *Renderer {
	if scheme.Ink == nil {
		scheme = BlackOnWhite
	}
	return &Renderer{font: f, ppem: fontSize, ink: image.NewUniform(scheme.Ink)}
}

// RenderGlyph draws code point r centered into cell. If the font cannot
// draw r, the cell is left untouched and a *core.RenderFailure is returned.
func (rd *Renderer) RenderGlyph(cell draw.Image, r rune) error {
	var buf sfnt.Buffer // sfnt.Font is safe for concurrent use with separate buffers
	gid, err := rd.font.GlyphIndex(&buf, r)
	if err != nil {
		return &core.RenderFailure{CodePoint: r, Err: err}
	}
	return rd.render(cell, &buf, gid, r)
}

// RenderGlyphIndex draws glyph gid centered into cell, without a lookup in
// the font's character map.
func (rd *Renderer) RenderGlyphIndex(cell draw.Image, gid uint32, r rune) error {
	if gid > 0xFFFF || int(gid) >= rd.font.NumGlyphs() {
		return &core.RenderFailure{CodePoint: r, Err: errNoGlyph}
	}
	var buf sfnt.Buffer
	return rd.render(cell, &buf, sfnt.GlyphIndex(gid), r)
}

func (rd *Renderer) render(cell draw.Image, buf *sfnt.Buffer, gid sfnt.GlyphIndex, r rune) error {
	if gid == 0 {
		return &core.RenderFailure{CodePoint: r, Err: errNoGlyph}
	}
	segs, err := rd.font.LoadGlyph(buf, gid, fixed.I(rd.ppem), nil)
	if err != nil {
		return &core.RenderFailure{CodePoint: r, Err: err}
	}
	if len(segs) == 0 {
		return &core.RenderFailure{CodePoint: r, Err: errEmptyOutline}
	}
	bounds := cell.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	// center the glyph's measured ink box in the cell
	gb := segs.Bounds()
	glyphCenterX := (float32(gb.Min.X) + float32(gb.Max.X)) / 128
	glyphCenterY := (float32(gb.Min.Y) + float32(gb.Max.Y)) / 128
	tx := float32(width)/2 - glyphCenterX
	ty := float32(height)/2 - glyphCenterY

	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	pt := func(p fixed.Point26_6) (float32, float32) {
		return tx + float32(p.X)/64, ty + float32(p.Y)/64
	}
	for i, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				rast.ClosePath()
			}
			rast.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			rast.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			rast.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(seg.Args[0])
			x2, y2 := pt(seg.Args[1])
			x3, y3 := pt(seg.Args[2])
			rast.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	rast.ClosePath()
	// the rasterizer's mask is cell-sized; Draw maps it onto bounds only
	rast.Draw(cell, bounds, rd.ink, image.Point{})
	return nil
}

var (
	_ GlyphRenderer      = (*Renderer)(nil)
	_ GlyphIndexRenderer = (*Renderer)(nil)
)
