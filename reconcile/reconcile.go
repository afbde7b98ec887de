/*
Package reconcile pairs recognition results with the glyphs they were
recognized from and collects them into a transfer map.

Results and glyphs are paired by position: the i-th recognized string
belongs to the i-th glyph of a batch. If the counts differ, the positional
correspondence is lost and the whole batch is discarded.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package reconcile

import (
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontocr'
func tracer() tracing.Trace {
	return tracing.Select("fontocr")
}

// Reconcile zips entries with texts, the recognition results in placement
// order. Empty strings denote unrecognized glyphs and are left out of the
// result.
//
// If the lengths differ, an empty map is returned together with a
// *core.AlignmentError for batch 0; callers processing numbered batches use
// Batch.
func Reconcile(entries []glyphs.GlyphEntry, texts []string) (map[rune]string, error) {
	return Batch(0, entries, texts)
}

// Batch is Reconcile for a numbered batch.
func Batch(batch int, entries []glyphs.GlyphEntry, texts []string) (map[rune]string, error) {
	if len(entries) != len(texts) {
		tracer().Errorf("batch %d discarded: %d glyphs, %d recognized strings",
			batch, len(entries), len(texts))
		return map[rune]string{}, &core.AlignmentError{
			Batch:   batch,
			Glyphs:  len(entries),
			Results: len(texts),
		}
	}
	m := make(map[rune]string, len(entries))
	for i, e := range entries {
		if texts[i] == "" {
			tracer().Debugf("glyph %s not recognized", e)
			continue
		}
		m[e.CodePoint] = texts[i]
	}
	return m, nil
}
