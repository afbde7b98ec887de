/*
Package fontocr recovers the true text behind obfuscating web fonts.

Some web sites ship custom fonts whose character maps assign private or
shuffled code points to glyphs, so that the text in the page source is
meaningless while the rendered page reads fine. fontocr draws every glyph
of such a font, has the drawing read by a text recognizer and returns a
transfer map from obfuscated code point to the string the recognizer saw.

A transfer run is a pipeline:

	font file ─▶ glyph catalog ─▶ layout ─▶ concurrent rendering
	          ─▶ recognition ─▶ reconciliation ─▶ transfer map

Both the font parser and the recognizer are injected by the client:

	tr, err := fontocr.New(glyphs.TypesettingParser{}, recognizer,
	    fontocr.WithMode(fontocr.PerGlyph))
	result, err := tr.Run(ctx, "obfuscated.woff2.ttf")
	fmt.Println(result.Map.Translate(scraped))

# Modes

PerGlyph (the default) draws each glyph onto a canvas of its own and
recognizes glyphs one at a time. Batched draws strips of a few glyphs and
Sheet draws the whole font onto a single square sheet. Both batch modes
depend on the recognizer returning one string per glyph in reading order;
batches where this fails are discarded.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontocr

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fontocr'
func tracer() tracing.Trace {
	return tracing.Select("fontocr")
}
