// Command ocrcli is an interactive translator for obfuscated web text.
//
// It holds one transfer map at a time, created from a font or loaded from
// the font dictionary, and translates lines typed or pasted at the prompt.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/internal/setup"
	"github.com/npillmayer/fontocr/reconcile"
	"github.com/npillmayer/fontocr/store"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontocr'
func tracer() tracing.Trace {
	return tracing.Select("fontocr")
}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	confPath := flag.String("config", "", "Configuration file (NestedText)")
	fontname := flag.String("font", "", "Font to transfer on start")
	site := flag.String("site", "", "Site of the font dictionary to open on start")
	flag.Parse()

	// set up configuration and logging
	conf, err := core.LoadConfiguration(*confPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	if err := setup.Tracing(conf, *tlevel); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.Info.Println("Welcome to the font OCR CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("ocr > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp := &Intp{repl: repl, conf: conf, tm: reconcile.NewTransferMap(), site: *site}
	if *fontname != "" {
		if _, err := intp.execute(fmt.Sprintf("load %s", *fontname)); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	pterm.Info.Println("Quit with <ctrl>D, type 'help' for a list of commands")
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl *readline.Instance
	conf schuko.Configuration
	db   *store.Store // opened on first use
	tm   *reconcile.TransferMap
	site string
	font string
}

func (intp *Intp) String() string {
	if intp.font == "" {
		return "( no map )"
	}
	site := intp.site
	if site == "" {
		site = "-"
	}
	return fmt.Sprintf("( %s / %s : %d entries )", site, intp.font, intp.tm.Len())
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	if intp.db != nil {
		intp.db.Close()
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) store(ctx context.Context) (*store.Store, error) {
	if intp.db != nil {
		return intp.db, nil
	}
	db, err := store.Open(ctx, core.SettingsFrom(intp.conf).DSN)
	if err != nil {
		return nil, err
	}
	intp.db = db
	return db, nil
}
