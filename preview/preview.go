/*
Package preview draws contact sheets of transfer results, for checking a
transfer map by eye.

Every glyph of a font is shown in a tile, next to its code point and the
string it was recognized as:

	┌────┬──────────┐
	│ 字 │ U+E01A   │
	│    │ → "的"   │
	└────┴──────────┘

Unresolved glyphs are labelled with a red "?".

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package preview

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/dispatch"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/fontocr/reconcile"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'fontocr'
func tracer() tracing.Trace {
	return tracing.Select("fontocr")
}

// Sheet configures a contact sheet.
type Sheet struct {
	Columns   int     // tiles per row, default 8
	CellSize  int     // size of a glyph cell in pixels, default 24
	LabelSize float64 // label font size in pixels, default 11
	LabelFont []byte  // TTF/OTF data for labels, default Go Regular
	Scheme    raster.Scheme
}

func (s Sheet) withDefaults() Sheet {
	if s.Columns <= 0 {
		s.Columns = 8
	}
	if s.CellSize <= 0 {
		s.CellSize = layout.CellSize(layout.DefaultFontSize, layout.DefaultPadding)
	}
	if s.LabelSize <= 0 {
		s.LabelSize = 11
	}
	if len(s.LabelFont) == 0 {
		s.LabelFont = goregular.TTF
	}
	if s.Scheme.Background == nil || s.Scheme.Ink == nil {
		s.Scheme = raster.BlackOnWhite
	}
	return s
}

// tileWidth leaves room for a label of about 12 characters.
func (s Sheet) tileWidth() int {
	return s.CellSize + int(s.LabelSize*8) + 8
}

func (s Sheet) tileHeight() int {
	return max(s.CellSize, int(2*s.LabelSize*1.3)) + 4
}

// Render draws entries with rd and labels them with their strings from tm,
// which may be nil.
func (s Sheet) Render(entries []glyphs.GlyphEntry, tm *reconcile.TransferMap,
	rd raster.GlyphRenderer) (image.Image, error) {
	//
	s = s.withDefaults()
	if len(entries) == 0 {
		return nil, core.Error(core.EINVALID, "no glyphs to preview")
	}
	plan := layout.NewPlan(len(entries), s.CellSize, layout.Square, 0)
	glyphSheet, rep, err := dispatch.Dispatcher{}.Dispatch(entries, raster.NewCanvas(plan, s.Scheme), rd)
	if err != nil {
		return nil, err
	}
	if len(rep.Failed) > 0 {
		tracer().Debugf("preview: %d glyphs not drawable", len(rep.Failed))
	}
	src, err := text.NewFontSource(s.LabelFont)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "label font not usable")
	}
	defer src.Close()
	//
	tw, th := s.tileWidth(), s.tileHeight()
	rows := (len(entries) + s.Columns - 1) / s.Columns
	dc := gg.NewContext(s.Columns*tw, rows*th)
	defer dc.Close()
	dc.ClearWithColor(gg.White)
	dc.SetFont(src.Face(s.LabelSize))
	for i, e := range entries {
		x, y := float64((i%s.Columns)*tw), float64((i/s.Columns)*th)
		cell, err := glyphSheet.CellImage(i)
		if err != nil {
			return nil, err
		}
		dc.DrawImage(gg.ImageBufFromImage(cell), x+2, y+2)
		lx := x + float64(s.CellSize) + 6
		dc.SetRGB(0, 0, 0)
		dc.DrawString(fmt.Sprintf("U+%04X", e.CodePoint), lx, y+2+s.LabelSize)
		str, ok := "", false
		if tm != nil {
			str, ok = tm.Get(e.CodePoint)
		}
		if ok {
			dc.DrawString("→ "+strconv.QuoteToGraphic(str), lx, y+2+2.2*s.LabelSize)
		} else {
			dc.SetRGB(0.8, 0, 0)
			dc.DrawString("?", lx, y+2+2.2*s.LabelSize)
		}
	}
	img := dc.Image()
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

// WritePNG renders a contact sheet and writes it as PNG.
func (s Sheet) WritePNG(w io.Writer, entries []glyphs.GlyphEntry, tm *reconcile.TransferMap,
	rd raster.GlyphRenderer) error {
	//
	img, err := s.Render(entries, tm, rd)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
