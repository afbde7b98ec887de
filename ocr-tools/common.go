package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/internal/setup"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'fontocr'
func tracer() tracing.Trace {
	return tracing.Select("fontocr")
}

// mustConfigure loads the configuration and sets up tracing. Flags which
// correspond to configuration keys override the configured values.
func mustConfigure(flags map[string]commando.FlagValue) *koanfadapter.KConf {
	conf, err := core.LoadConfiguration(flagString(flags, "config"))
	if err != nil {
		fatal(err)
	}
	for flag, key := range map[string]string{
		"mode":       core.KeyMode,
		"recognizer": core.KeyRecognizer,
	} {
		if v := flagString(flags, flag); v != "" {
			conf.Set(key, v)
		}
	}
	if err := setup.Tracing(conf, flagString(flags, "trace")); err != nil {
		fatal(err)
	}
	return conf
}

func mustFontPath(args map[string]commando.ArgValue) string {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	return fontPath
}

// flagString returns a string flag, with "-" and a missing flag meaning "".
func flagString(flags map[string]commando.FlagValue, name string) string {
	flag, ok := flags[name]
	if !ok {
		return ""
	}
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	if s = strings.TrimSpace(s); s == "-" {
		s = ""
	}
	return s
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

// fatal reports err with its user message and exits.
func fatal(err error) {
	tracer().Debugf("ocr-tools: %v", err)
	core.UserError(err)
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ocr-tools: "+format+"\n", args...)
	os.Exit(1)
}

func parseCodepoints(cps string) ([]rune, error) {
	parts := splitCSVSpace(cps)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	if u > 0x10FFFF {
		return 0, fmt.Errorf("codepoint %q out of range", token)
	}
	return rune(u), nil
}

func splitCSVSpace(cps string) []string {
	return strings.FieldsFunc(cps, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// printable quotes strings which would otherwise garble a terminal.
func printable(s string) string {
	for _, r := range s {
		if !strconv.IsGraphic(r) {
			return strconv.QuoteToGraphic(s)
		}
	}
	return s
}
