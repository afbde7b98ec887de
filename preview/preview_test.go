package preview

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/fontocr/reconcile"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func TestContactSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr")
	defer teardown()
	//
	f, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)
	var entries []glyphs.GlyphEntry
	for _, r := range "ABCDEFGHIJ" {
		entries = append(entries, glyphs.GlyphEntry{CodePoint: r, HasOutline: true})
	}
	tm := reconcile.FromMap(map[rune]string{'A': "a", 'B': "b"})
	sheet := Sheet{Columns: 4}
	img, err := sheet.Render(entries, tm, raster.NewRenderer(f, 20, raster.BlackOnWhite))
	require.NoError(t, err)
	s := sheet.withDefaults()
	if got, want := img.Bounds().Dx(), 4*s.tileWidth(); got != want {
		t.Errorf("width = %d; want %d", got, want)
	}
	if got, want := img.Bounds().Dy(), 3*s.tileHeight(); got != want {
		t.Errorf("height = %d; want %d", got, want)
	}
	var buf bytes.Buffer
	require.NoError(t, sheet.WritePNG(&buf, entries, tm, raster.NewRenderer(f, 20, raster.BlackOnWhite)))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("PNG bounds = %v; want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestEmptySheet(t *testing.T) {
	if _, err := (Sheet{}).Render(nil, nil, nil); err == nil {
		t.Errorf("Render of no glyphs succeeded; want error")
	}
}
