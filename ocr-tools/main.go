// Command ocr-tools converts obfuscating web fonts into transfer maps.
//
//	ocr-tools catalog  <font>              list the drawable code points of a font
//	ocr-tools sheet    <font>              draw all glyphs onto one PNG sheet
//	ocr-tools transfer <font>              recognize all glyphs, print/save the map
//	ocr-tools preview  <font>              transfer and draw a labelled contact sheet
//	ocr-tools translate <site> <font> <text…>  de-obfuscate text with a saved map
//
// Settings are read from fontocr.nt at the standard configuration locations
// and from the file given with --config.
package main

import (
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("ocr-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for recovering the text behind obfuscating web fonts.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("catalog").
		SetDescription("List the code points of a font which are mapped to visible glyphs.").
		SetShortDescription("list glyphs").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("codepoints,c", "restrict to codepoints (comma/space separated, e.g. U+E001,U+E002)", commando.String, "-").
		AddFlag("config,C", "configuration file (NestedText)", commando.String, "-").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runCatalogCommand)

	commando.
		Register("sheet").
		SetDescription("Render all glyphs of a font onto a single square sheet and write it as PNG.").
		SetShortDescription("glyph sheet").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("output,o", "output PNG file", commando.String, "ocr-tools-sheet.png").
		AddFlag("size,s", "glyph size in pixels (0 uses configuration)", commando.Int, 0).
		AddFlag("invert,i", "draw white glyphs on black", commando.Bool, nil).
		AddFlag("config,C", "configuration file (NestedText)", commando.String, "-").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runSheetCommand)

	commando.
		Register("transfer").
		SetDescription("Recognize all glyphs of a font and print the resulting transfer map.").
		SetShortDescription("create transfer map").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("mode,m", "transfer mode: perglyph|batched|sheet", commando.String, "-").
		AddFlag("recognizer,r", "recognizer: template|tesseract|remote", commando.String, "-").
		AddFlag("site", "site the font belongs to; with --save, stores the map", commando.String, "-").
		AddFlag("name,n", "font name for storing (default: name from font)", commando.String, "-").
		AddFlag("save", "save the map to the font dictionary", commando.Bool, nil).
		AddFlag("config,C", "configuration file (NestedText)", commando.String, "-").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runTransferCommand)

	commando.
		Register("preview").
		SetDescription("Recognize all glyphs of a font and draw a labelled contact sheet.").
		SetShortDescription("contact sheet").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("output,o", "output PNG file", commando.String, "ocr-tools-preview.png").
		AddFlag("columns", "tiles per row", commando.Int, 8).
		AddFlag("mode,m", "transfer mode: perglyph|batched|sheet", commando.String, "-").
		AddFlag("recognizer,r", "recognizer: template|tesseract|remote", commando.String, "-").
		AddFlag("config,C", "configuration file (NestedText)", commando.String, "-").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runPreviewCommand)

	commando.
		Register("translate").
		SetDescription("Replace obfuscated characters in text using a saved transfer map.").
		SetShortDescription("de-obfuscate text").
		AddArgument("site", "site the font belongs to", "").
		AddArgument("font", "font name as saved", "").
		AddArgument("text...", "text to translate", "").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated)", commando.String, "-").
		AddFlag("config,C", "configuration file (NestedText)", commando.String, "-").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Error").
		SetAction(runTranslateCommand)

	commando.Parse(nil)
}
