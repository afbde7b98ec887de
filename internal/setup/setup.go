/*
Package setup wires configuration, tracing and recognizers for the
command line tools.
*/
package setup

import (
	"github.com/npillmayer/fontocr"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/fontocr/recognize/remote"
	"github.com/npillmayer/fontocr/recognize/template"
	"github.com/npillmayer/fontocr/recognize/tesseract"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// Tracing registers the trace adapters "go" and "logrus", configures the
// root tracer from conf (adapter key "tracing.adapter", levels
// "trace.<key>") and installs it as the global trace selector.
// level, if not empty, overrides the level of all fontocr tracers.
func Tracing(conf schuko.Configuration, level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot configure tracing")
	}
	tracing.SetTraceSelector(trace2go.Selector())
	if level != "" {
		l := tracing.TraceLevelFromString(level)
		for _, key := range TraceKeys {
			tracing.Select(key).SetTraceLevel(l)
		}
	}
	return nil
}

// TraceKeys are the trace keys used throughout fontocr.
var TraceKeys = []string{
	"fontocr",
	"fontocr.glyphs",
	"fontocr.raster",
	"fontocr.dispatch",
	"fontocr.recognize",
	"fontocr.store",
}

// Recognizer creates the recognizer named in s.
func Recognizer(s core.Settings) (any, error) {
	switch s.Recognizer {
	case "", "template":
		return template.NewFromName(s.Reference,
			template.WithFontSize(s.FontSize),
			template.WithThreshold(s.Threshold))
	case "tesseract":
		return tesseract.New(s.Tesseract, "")
	case "remote":
		return remote.New(s.Endpoint)
	}
	return nil, core.Error(core.EINVALID, "unknown recognizer %q (template|tesseract|remote)", s.Recognizer)
}

// Transfer creates a transfer pipeline as configured in conf. Options in
// opts take precedence over conf.
func Transfer(conf schuko.Configuration, opts ...fontocr.Option) (*fontocr.Transfer, error) {
	rec, err := Recognizer(core.SettingsFrom(conf))
	if err != nil {
		return nil, err
	}
	opts = append([]fontocr.Option{fontocr.FromConfig(conf)}, opts...)
	return fontocr.New(glyphs.TypesettingParser{}, rec, opts...)
}
