/*
Package glyphs enumerates the code points of a font which are mapped to
visible glyphs.

Fonts used for text obfuscation map many code points, some of them to blank
glyphs (spaces, empty placeholders). Only code points with a non-degenerate
outline are candidates for recognition. The order of the catalog follows the
font's own character map, so that later stages place glyphs
deterministically.

Font parsing is delegated to a Parser. The default implementation uses
go-text/typesetting.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package glyphs

import (
	"fmt"
	"os"
	"unicode"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontocr.glyphs'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.glyphs")
}

// GID is a font-internal glyph index.
type GID uint32

// Mapping is one entry of a font's character map.
type Mapping struct {
	CodePoint rune
	Glyph     GID
}

// Font is the view of a parsed font the catalog needs.
type Font interface {
	// Mappings returns the entries of the character map in table order.
	Mappings() []Mapping
	// HasOutline reports whether a glyph has a non-empty drawable outline.
	HasOutline(GID) bool
	// GlyphName returns the glyph's name, or "" if the font has no names.
	GlyphName(GID) string
}

// Parser turns font data into a Font.
type Parser interface {
	Parse(data []byte) (Font, error)
}

// GlyphEntry is a code point of a font together with its glyph.
// Entries are immutable once created.
type GlyphEntry struct {
	CodePoint  rune
	GlyphID    string // glyph name, or "gid<n>" for unnamed glyphs
	GID        GID
	HasOutline bool
}

func (e GlyphEntry) String() string {
	return fmt.Sprintf("U+%04X(%s)", e.CodePoint, e.GlyphID)
}

// ExtractFile reads a font file and extracts its glyph catalog.
func ExtractFile(p Parser, path string) ([]GlyphEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.FontParseError{Path: path, Err: err}
	}
	entries, err := Extract(p, data)
	if fpe, ok := err.(*core.FontParseError); ok {
		fpe.Path = path
	}
	return entries, err
}

// Extract parses font data and returns the code points with visible glyphs,
// in character map order. Every entry returned has HasOutline set.
// A parser failure is returned as *core.FontParseError.
func Extract(p Parser, data []byte) ([]GlyphEntry, error) {
	if p == nil {
		return nil, core.Error(core.EINVALID, "no font parser given")
	}
	f, err := p.Parse(data)
	if err != nil {
		return nil, &core.FontParseError{Err: err}
	}
	return Catalog(f), nil
}

// Catalog filters the character map of an already parsed font.
func Catalog(f Font) []GlyphEntry {
	set := linkedhashmap.New()
	seen := hashset.New()
	blank := 0
	for _, m := range f.Mappings() {
		if seen.Contains(m.CodePoint) {
			continue // first mapping of a code point wins, even if rejected
		}
		seen.Add(m.CodePoint)
		if m.CodePoint == 0 || unicode.IsControl(m.CodePoint) {
			continue
		}
		if !f.HasOutline(m.Glyph) {
			blank++
			continue
		}
		name := f.GlyphName(m.Glyph)
		if name == "" {
			name = fmt.Sprintf("gid%d", m.Glyph)
		}
		set.Put(m.CodePoint, GlyphEntry{
			CodePoint:  m.CodePoint,
			GlyphID:    name,
			GID:        m.Glyph,
			HasOutline: true,
		})
	}
	entries := make([]GlyphEntry, 0, set.Size())
	for _, v := range set.Values() {
		entries = append(entries, v.(GlyphEntry))
	}
	tracer().Debugf("catalog: %d glyphs with outline, %d blank", len(entries), blank)
	return entries
}

// CodePoints returns the code points of a catalog, in catalog order.
func CodePoints(entries []GlyphEntry) []rune {
	cps := make([]rune, len(entries))
	for i, e := range entries {
		cps[i] = e.CodePoint
	}
	return cps
}
