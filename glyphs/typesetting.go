package glyphs

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/font"
)

// TypesettingParser parses fonts with go-text/typesetting.
type TypesettingParser struct{}

// Parse implements Parser.
func (TypesettingParser) Parse(data []byte) (Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &typesettingFont{face: face}, nil
}

// typesettingFont adapts a go-text face. Faces cache glyph extents and are
// not safe for concurrent use, hence the mutex.
type typesettingFont struct {
	mx   sync.Mutex
	face *font.Face
}

func (f *typesettingFont) Mappings() []Mapping {
	var mappings []Mapping
	it := f.face.Cmap.Iter()
	for it.Next() {
		r, gid := it.Char()
		mappings = append(mappings, Mapping{CodePoint: r, Glyph: GID(gid)})
	}
	return mappings
}

func (f *typesettingFont) HasOutline(gid GID) bool {
	f.mx.Lock()
	defer f.mx.Unlock()
	ext, ok := f.face.GlyphExtents(font.GID(gid))
	return ok && ext.Width != 0 && ext.Height != 0
}

func (f *typesettingFont) GlyphName(gid GID) string {
	return f.face.GlyphName(font.GID(gid))
}

var _ Parser = TypesettingParser{}
