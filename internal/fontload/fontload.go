/*
Package fontload reads font files for the transfer pipeline.

A loaded font carries two parsed views of the same bytes: an x/image SFNT
view, used for rasterization, and a go-text view, used for describing the
font. Both are safe for concurrent reading.
*/
package fontload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'fontocr'
func tracer() tracing.Trace {
	return tracing.Select("fontocr")
}

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
	Font     *font.Font // go-text view, read-only
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
// Any failure is reported as a *core.FontParseError.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, &core.FontParseError{Path: fontfile, Err: err}
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		if fpe, ok := err.(*core.FontParseError); ok {
			fpe.Path = fontfile
		}
		return nil, err
	}
	f.Filepath = fontfile
	if f.Fontname == "" {
		f.Fontname = strings.TrimSuffix(filepath.Base(fontfile), filepath.Ext(fontfile))
	}
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	if len(fbytes) == 0 {
		return nil, &core.FontParseError{Err: core.Error(core.EMISSING, "empty font data")}
	}
	f = &ScalableFont{Binary: fbytes}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, &core.FontParseError{Err: err}
	}
	face, err := font.ParseTTF(bytes.NewReader(f.Binary))
	if err != nil {
		return nil, &core.FontParseError{Err: err}
	}
	f.Font = face.Font
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil || f.Fontname == "" {
		f.Fontname = f.Font.Describe().Family
	}
	tracer().Debugf("loaded and parsed font %q", f.Fontname)
	return f, nil
}
