package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (bool, error) {
	help(op.arg(0))
	return false, nil
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	switch strings.ToLower(topic) {
	case "load":
		pterm.Info.Println("load <font file>")
		pterm.Println(`
	Renders every glyph of the font and has it recognized, as configured
	(ocr.mode, ocr.recognizer). The result becomes the current map.
	`)
	case "open", "save", "fonts":
		pterm.Info.Println("Font dictionary")
		pterm.Println(`
	open  [<site>] <font>   load a saved map
	save  <site> [<font>]   save the current map
	fonts <site>            list the fonts saved for a site

	The dictionary is the sqlite database configured as store.dsn.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load <font file>        create a map from a font
	open, save, fonts       font dictionary (see 'help open')
	map [U+XXXX]            show the current map or one entry
	tr <text>               translate text; any line not starting with
	                        a command is translated as well
	quit                    leave (or <ctrl>D)
	`)
	}
}
