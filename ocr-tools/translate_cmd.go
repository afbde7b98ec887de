package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/store"
	"github.com/thatisuday/commando"
)

func runTranslateCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	conf := mustConfigure(flags)
	site := strings.TrimSpace(args["site"].Value)
	font := strings.TrimSpace(args["font"].Value)
	if site == "" || font == "" {
		fatalf("site and font are required")
	}
	text := args["text"].Value
	if cps := flagString(flags, "codepoints"); cps != "" {
		runes, err := parseCodepoints(cps)
		if err != nil {
			fatal(err)
		}
		text = string(runes)
	}
	ctx := context.Background()
	db, err := store.Open(ctx, core.SettingsFrom(conf).DSN)
	if err != nil {
		fatal(err)
	}
	defer db.Close()
	tm, err := db.Load(ctx, site, font)
	if err != nil {
		fatal(err)
	}
	if tm.Len() == 0 {
		fonts, _ := db.Fonts(ctx, site)
		fatalf("no transfer map for %s/%s (fonts of site: %s)", site, font, strings.Join(fonts, ", "))
	}
	tracer().Debugf("translating with %d entries", tm.Len())
	fmt.Println(tm.Translate(text))
}
