package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/npillmayer/fontocr"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/internal/fontload"
	"github.com/npillmayer/fontocr/internal/setup"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/preview"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/fontocr/store"
	"github.com/npillmayer/schuko"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// runTransfer runs a configured transfer. A partial result is reported
// and returned; only a failure to produce any result is fatal.
func runTransfer(ctx context.Context, conf schuko.Configuration, fontPath string) *fontocr.Result {
	tr, err := setup.Transfer(conf)
	if err != nil {
		fatal(err)
	}
	res, err := tr.Run(ctx, fontPath)
	if res == nil {
		fatal(err)
	}
	if err != nil {
		pterm.Warning.Printf("transfer incomplete: %v\n", err)
	}
	for _, d := range res.Discarded {
		pterm.Warning.Println(core.UserMessage(d), "-", d.Error())
	}
	return res
}

func runTransferCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	conf := mustConfigure(flags)
	fontPath := mustFontPath(args)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res := runTransfer(ctx, conf, fontPath)
	//
	entries := res.Map.Entries()
	data := [][]string{
		{"Code Point", "Glyph", "String"},
	}
	for _, e := range res.Glyphs {
		s, ok := entries[e.CodePoint]
		if !ok {
			s = "?"
		} else {
			s = printable(s)
		}
		data = append(data, []string{fmt.Sprintf("U+%04X", e.CodePoint), e.GlyphID, s})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Printf("Font: %s\nResolved: %d of %d (unresolved %d, not drawable %d)\n",
		res.Font, res.Map.Len(), len(res.Glyphs), len(res.Unresolved()), len(res.RenderFailures))
	//
	if !mustFlagBool(flags["save"], "save") {
		return
	}
	site := flagString(flags, "site")
	if site == "" {
		fatalf("--save needs --site")
	}
	name := flagString(flags, "name")
	if name == "" {
		name = res.Font
	}
	db, err := store.Open(ctx, core.SettingsFrom(conf).DSN)
	if err != nil {
		fatal(err)
	}
	defer db.Close()
	n, err := db.Save(ctx, site, name, res.Map)
	if err != nil {
		fatal(err)
	}
	pterm.Success.Printf("saved %d entries for %s/%s\n", n, site, name)
}

func runPreviewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	conf := mustConfigure(flags)
	fontPath := mustFontPath(args)
	outPath := flagString(flags, "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res := runTransfer(ctx, conf, fontPath)
	if len(res.Glyphs) == 0 {
		fatalf("font has no drawable glyphs")
	}
	sf, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		fatal(err)
	}
	s := core.SettingsFrom(conf)
	sheet := preview.Sheet{
		Columns:  mustFlagInt(flags["columns"], "columns"),
		CellSize: layout.CellSize(s.FontSize, s.Padding),
	}
	f, err := os.Create(outPath)
	if err != nil {
		fatalf("cannot create %s: %v", outPath, err)
	}
	err = sheet.WritePNG(f, res.Glyphs, res.Map, raster.NewRenderer(sf.SFNT, s.FontSize, raster.BlackOnWhite))
	if err = errors.Join(err, f.Close()); err != nil {
		fatalf("preview failed: %v", err)
	}
	fmt.Printf("wrote %s (glyphs=%d, resolved=%d)\n", outPath, len(res.Glyphs), res.Map.Len())
}
