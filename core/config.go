package core

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
)

// AppTag identifies configuration files at the standard locations.
const AppTag = "fontocr"

// Configuration keys.
const (
	KeyMode         = "ocr.mode"
	KeyFontSize     = "ocr.fontsize"
	KeyPadding      = "ocr.padding"
	KeyStrip        = "ocr.strip"
	KeyWorkers      = "ocr.workers"
	KeyBatchWorkers = "ocr.batchworkers"
	KeyInvert       = "ocr.invert"
	KeyFoldWidth    = "ocr.foldwidth"
	KeyRecognizer   = "ocr.recognizer"
	KeyThreshold    = "ocr.threshold"
	KeyReference    = "ocr.reference"
	KeyTesseract    = "ocr.tesseract"
	KeyEndpoint     = "ocr.endpoint"
	KeyDSN          = "store.dsn"
	KeyTraceAdapter = "tracing.adapter"
)

// Settings is the typed view of a configuration.
type Settings struct {
	Mode         string // perglyph | batched | sheet
	FontSize     int    // glyph size in pixels
	Padding      int    // cell padding in pixels, split between both sides
	Strip        int    // glyphs per canvas in batched mode
	Workers      int    // render worker cap per dispatch
	BatchWorkers int    // concurrent batches / per-glyph recognitions
	Invert       bool   // white ink on black
	FoldWidth    bool   // fold full-width recognition results to narrow forms
	Recognizer   string // template | tesseract | remote
	Threshold    int    // template match threshold in percent
	Reference    string // reference font for template matching
	Tesseract    string // tesseract binary
	Endpoint     string // remote OCR service URL
	DSN          string // sqlite data source
	TraceAdapter string
}

// DefaultSettings returns the settings used if nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Mode:         "perglyph",
		FontSize:     20,
		Padding:      4,
		Strip:        5,
		Workers:      15,
		BatchWorkers: 4,
		Recognizer:   "template",
		Threshold:    70,
		Tesseract:    "tesseract",
		DSN:          "fontocr.db",
		TraceAdapter: "go",
	}
}

// SettingsFrom overlays the default settings with every key set in conf.
// conf may be nil.
func SettingsFrom(conf schuko.Configuration) Settings {
	s := DefaultSettings()
	if conf == nil {
		return s
	}
	str := func(key string, dst *string) {
		if conf.IsSet(key) {
			if v := strings.TrimSpace(conf.GetString(key)); v != "" {
				*dst = v
			}
		}
	}
	num := func(key string, dst *int) {
		if conf.IsSet(key) {
			if n := conf.GetInt(key); n > 0 {
				*dst = n
			}
		}
	}
	str(KeyMode, &s.Mode)
	num(KeyFontSize, &s.FontSize)
	if conf.IsSet(KeyPadding) {
		if n := conf.GetInt(KeyPadding); n >= 0 {
			s.Padding = n
		}
	}
	num(KeyStrip, &s.Strip)
	num(KeyWorkers, &s.Workers)
	num(KeyBatchWorkers, &s.BatchWorkers)
	if conf.IsSet(KeyInvert) {
		s.Invert = conf.GetBool(KeyInvert)
	}
	if conf.IsSet(KeyFoldWidth) {
		s.FoldWidth = conf.GetBool(KeyFoldWidth)
	}
	str(KeyRecognizer, &s.Recognizer)
	num(KeyThreshold, &s.Threshold)
	str(KeyReference, &s.Reference)
	str(KeyTesseract, &s.Tesseract)
	str(KeyEndpoint, &s.Endpoint)
	str(KeyDSN, &s.DSN)
	str(KeyTraceAdapter, &s.TraceAdapter)
	s.Mode = strings.ToLower(s.Mode)
	s.Recognizer = strings.ToLower(s.Recognizer)
	return s
}

// LoadConfiguration creates a koanf based configuration. Defaults are loaded
// first, then NestedText files found at the standard locations for AppTag,
// then every file in paths, in order.
func LoadConfiguration(paths ...string) (*koanfadapter.KConf, error) {
	conf := koanfadapter.New(koanf.New("."), AppTag, []string{".nt"})
	conf.InitDefaults()
	d := DefaultSettings()
	for key, value := range map[string]interface{}{
		KeyMode:         d.Mode,
		KeyFontSize:     d.FontSize,
		KeyPadding:      d.Padding,
		KeyStrip:        d.Strip,
		KeyWorkers:      d.Workers,
		KeyBatchWorkers: d.BatchWorkers,
		KeyRecognizer:   d.Recognizer,
		KeyThreshold:    d.Threshold,
		KeyTesseract:    d.Tesseract,
		KeyDSN:          d.DSN,
	} {
		if !conf.IsSet(key) {
			conf.Set(key, value)
		}
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if ext := filepath.Ext(path); ext != ".nt" {
			return nil, Error(EINVALID, "configuration file %s: unsupported format %q", path, ext)
		}
		if err := conf.Koanf().Load(file.Provider(path), koanfadapter.Parser()); err != nil {
			return nil, WrapError(err, EINVALID, "cannot load configuration file %s", path)
		}
	}
	return conf, nil
}
