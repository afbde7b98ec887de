package setup

import (
	"testing"

	"github.com/npillmayer/fontocr"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/recognize/template"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestRecognizerSelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr.recognize")
	defer teardown()
	//
	rec, err := Recognizer(core.DefaultSettings())
	if err != nil {
		t.Fatalf("default recognizer: %v", err)
	}
	if _, ok := rec.(*template.Recognizer); !ok {
		t.Errorf("default recognizer is %T; want *template.Recognizer", rec)
	}
	s := core.DefaultSettings()
	s.Recognizer = "remote"
	if _, err := Recognizer(s); core.Code(err) != core.EMISSING {
		t.Errorf("remote without endpoint: error = %v; want EMISSING", err)
	}
	s.Recognizer = "crystal-ball"
	if _, err := Recognizer(s); core.Code(err) != core.EINVALID {
		t.Errorf("unknown recognizer: error = %v; want EINVALID", err)
	}
}

func TestTransferFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr")
	defer teardown()
	//
	conf := testconfig.Conf{
		core.KeyMode:       "sheet",
		core.KeyRecognizer: "template",
	}
	tr, err := Transfer(conf)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Mode() != fontocr.Sheet {
		t.Errorf("mode = %s; want sheet", tr.Mode())
	}
	tr, err = Transfer(conf, fontocr.WithMode(fontocr.PerGlyph))
	if err != nil {
		t.Fatal(err)
	}
	if tr.Mode() != fontocr.PerGlyph {
		t.Errorf("mode = %s; want perglyph after override", tr.Mode())
	}
	if tr.Recognizer() != "template" {
		t.Errorf("recognizer = %q; want template", tr.Recognizer())
	}
}
