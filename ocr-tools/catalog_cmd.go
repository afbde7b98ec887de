package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"slices"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/dispatch"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/fontocr/internal/fontload"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/raster"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"golang.org/x/text/unicode/runenames"
)

func runCatalogCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	mustConfigure(flags)
	fontPath := mustFontPath(args)
	entries, err := glyphs.ExtractFile(glyphs.TypesettingParser{}, fontPath)
	if err != nil {
		fatal(err)
	}
	if cps := flagString(flags, "codepoints"); cps != "" {
		only, err := parseCodepoints(cps)
		if err != nil {
			fatal(err)
		}
		entries = slices.DeleteFunc(entries, func(e glyphs.GlyphEntry) bool {
			return !slices.Contains(only, e.CodePoint)
		})
	}
	fmt.Printf("Path: %s\n", fontPath)
	fmt.Printf("Glyphs: %d\n", len(entries))
	data := [][]string{
		{"#", "Code Point", "Glyph", "GID", "Unicode Name"},
	}
	for i, e := range entries {
		name := runenames.Name(e.CodePoint)
		if name == "" {
			name = "-"
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("U+%04X", e.CodePoint),
			e.GlyphID,
			fmt.Sprintf("%d", e.GID),
			name,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func runSheetCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	s := core.SettingsFrom(mustConfigure(flags))
	fontPath := mustFontPath(args)
	if size := mustFlagInt(flags["size"], "size"); size > 0 {
		s.FontSize = size
	}
	scheme := raster.BlackOnWhite
	if s.Invert || mustFlagBool(flags["invert"], "invert") {
		scheme = raster.WhiteOnBlack
	}
	outPath := flagString(flags, "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	sf, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		fatal(err)
	}
	entries, err := glyphs.Extract(glyphs.TypesettingParser{}, sf.Binary)
	if err != nil {
		fatal(err)
	}
	plan := layout.NewPlan(len(entries), layout.CellSize(s.FontSize, s.Padding), layout.Square, 0)
	d := dispatch.Dispatcher{Workers: s.Workers}
	canvas, rep, err := d.Dispatch(entries, raster.NewCanvas(plan, scheme),
		raster.NewRenderer(sf.SFNT, s.FontSize, scheme))
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if err := writePNG(outPath, canvas.Image()); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s (glyphs=%d, grid=%dx%d, not drawable=%d)\n",
		outPath, rep.Rendered, plan.Columns(), plan.Rows(), len(rep.Failed))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
