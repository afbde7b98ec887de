package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/fontocr/internal/setup"
	"github.com/npillmayer/fontocr/store"
	"github.com/pterm/pterm"
)

// Op is a parsed command line: an op-code and its arguments.
type Op struct {
	code int
	args []string
	rest string // input after the command word, verbatim
}

const (
	QUIT int = iota
	HELP
	LOAD
	OPEN
	SAVE
	FONTS
	MAP
	TRANSLATE
)

var opMap = map[string]int{
	"quit":      QUIT,
	"help":      HELP,
	"load":      LOAD,
	"open":      OPEN,
	"save":      SAVE,
	"fonts":     FONTS,
	"map":       MAP,
	"translate": TRANSLATE,
	"tr":        TRANSLATE,
}

var commandFn = map[int]func(*Intp, *Op) (bool, error){
	QUIT:      quitOp,
	HELP:      helpOp,
	LOAD:      loadOp,
	OPEN:      openOp,
	SAVE:      saveOp,
	FONTS:     fontsOp,
	MAP:       mapOp,
	TRANSLATE: translateOp,
}

// parseCommand splits a line into command word and arguments. Lines which
// do not start with a command word are translated.
func parseCommand(line string) *Op {
	line = strings.TrimSpace(line)
	word, rest, _ := strings.Cut(line, " ")
	code, ok := opMap[strings.ToLower(word)]
	if !ok {
		return &Op{code: TRANSLATE, rest: line}
	}
	rest = strings.TrimSpace(rest)
	return &Op{code: code, args: strings.Fields(rest), rest: rest}
}

func (op *Op) arg(i int) string {
	if i < len(op.args) {
		return op.args[i]
	}
	return ""
}

func (intp *Intp) execute(line string) (stop bool, err error) {
	op := parseCommand(line)
	tracer().Debugf("op = %d %v", op.code, op.args)
	f, ok := commandFn[op.code]
	if !ok {
		return false, fmt.Errorf("unknown command code: %d", op.code)
	}
	return f(intp, op)
}

func quitOp(*Intp, *Op) (bool, error) {
	pterm.Println("Goodbye!")
	return true, nil
}

func loadOp(intp *Intp, op *Op) (bool, error) {
	if op.rest == "" {
		return false, errors.New("usage: load <font file>")
	}
	tr, err := setup.Transfer(intp.conf)
	if err != nil {
		return false, err
	}
	spinner, _ := pterm.DefaultSpinner.Start("recognizing glyphs of " + op.rest)
	res, err := tr.Run(context.Background(), op.rest)
	if res == nil {
		spinner.Fail(err.Error())
		return false, err
	}
	if err != nil {
		spinner.Warning(err.Error())
	} else {
		spinner.Success(fmt.Sprintf("%d of %d glyphs resolved", res.Map.Len(), len(res.Glyphs)))
	}
	intp.tm, intp.font = res.Map, res.Font
	return false, nil
}

func openOp(intp *Intp, op *Op) (bool, error) {
	site, font := op.arg(0), op.arg(1)
	if font == "" && intp.site != "" {
		site, font = intp.site, op.arg(0)
	}
	if site == "" || font == "" {
		return false, errors.New("usage: open [<site>] <font>")
	}
	ctx := context.Background()
	db, err := intp.store(ctx)
	if err != nil {
		return false, err
	}
	tm, err := db.Load(ctx, site, font)
	if err != nil {
		return false, err
	}
	if tm.Len() == 0 {
		return false, fmt.Errorf("no entries for %s/%s", site, font)
	}
	intp.tm, intp.site, intp.font = tm, site, font
	return false, nil
}

func saveOp(intp *Intp, op *Op) (bool, error) {
	site, font := op.arg(0), op.arg(1)
	if site == "" {
		site = intp.site
	}
	if font == "" {
		font = intp.font
	}
	if site == "" || font == "" {
		return false, errors.New("usage: save <site> [<font>]")
	}
	if intp.tm.Len() == 0 {
		return false, errors.New("nothing to save")
	}
	ctx := context.Background()
	db, err := intp.store(ctx)
	if err != nil {
		return false, err
	}
	n, err := db.Save(ctx, site, font, intp.tm)
	if err != nil {
		return false, err
	}
	intp.site, intp.font = site, font
	pterm.Success.Printf("saved %d entries for %s/%s\n", n, site, font)
	return false, nil
}

func fontsOp(intp *Intp, op *Op) (bool, error) {
	site := op.arg(0)
	if site == "" {
		site = intp.site
	}
	if site == "" {
		return false, errors.New("usage: fonts <site>")
	}
	ctx := context.Background()
	db, err := intp.store(ctx)
	if err != nil {
		return false, err
	}
	fonts, err := db.Fonts(ctx, site)
	if err != nil {
		return false, err
	}
	if len(fonts) == 0 {
		pterm.Printf("no fonts stored for %s\n", site)
		return false, nil
	}
	for _, f := range fonts {
		pterm.Printf("  %s\n", f)
	}
	return false, nil
}

func mapOp(intp *Intp, op *Op) (bool, error) {
	if cp := op.arg(0); cp != "" {
		r, err := store.ParseCodePoint(cp)
		if err != nil {
			return false, err
		}
		s, ok := intp.tm.Get(r)
		if !ok {
			pterm.Printf("%s is not mapped\n", store.FormatCodePoint(r))
		} else {
			pterm.Printf("%s => %q\n", store.FormatCodePoint(r), s)
		}
		return false, nil
	}
	if intp.tm.Len() == 0 {
		pterm.Println("map is empty")
		return false, nil
	}
	data := [][]string{
		{"Code Point", "Glyph", "String"},
	}
	for _, r := range intp.tm.CodePoints() {
		s, _ := intp.tm.Get(r)
		data = append(data, []string{store.FormatCodePoint(r), string(r), s})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return false, nil
}

func translateOp(intp *Intp, op *Op) (bool, error) {
	if intp.tm.Len() == 0 {
		return false, errors.New("no transfer map; use 'load' or 'open' first")
	}
	pterm.Println(intp.tm.Translate(op.rest))
	return false, nil
}
