package main

import (
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/reconcile"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseCommand(t *testing.T) {
	for _, tc := range []struct {
		line string
		code int
		args []string
		rest string
	}{
		{"quit", QUIT, nil, ""},
		{"Open example.com obf-1", OPEN, []string{"example.com", "obf-1"}, "example.com obf-1"},
		{"tr  hello world", TRANSLATE, []string{"hello", "world"}, "hello world"},
		{"\uE001 is not a command", TRANSLATE, nil, "\uE001 is not a command"},
		{"load /tmp/my font.ttf", LOAD, []string{"/tmp/my", "font.ttf"}, "/tmp/my font.ttf"},
	} {
		op := parseCommand(tc.line)
		if op.code != tc.code || op.rest != tc.rest || len(op.args) != len(tc.args) {
			t.Errorf("parseCommand(%q) = %d %v %q; want %d %v %q",
				tc.line, op.code, op.args, op.rest, tc.code, tc.args, tc.rest)
			continue
		}
		for i := range tc.args {
			if op.args[i] != tc.args[i] {
				t.Errorf("parseCommand(%q).args[%d] = %q; want %q", tc.line, i, op.args[i], tc.args[i])
			}
		}
	}
}

func TestSaveAndOpen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr")
	defer teardown()
	//
	conf := testconfig.Conf{core.KeyDSN: filepath.Join(t.TempDir(), "dict.db")}
	intp := &Intp{conf: conf, tm: reconcile.FromMap(map[rune]string{0xE001: "的"})}
	if _, err := intp.execute("save example.com obf-1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	intp.tm = reconcile.NewTransferMap()
	if _, err := intp.execute("translate \uE001"); err == nil {
		t.Errorf("translate with empty map succeeded; want error")
	}
	if _, err := intp.execute("open example.com obf-1"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if s, _ := intp.tm.Get(0xE001); s != "的" {
		t.Errorf("opened map has %q for U+E001; want 的", s)
	}
	if _, err := intp.execute("open example.com unknown"); err == nil {
		t.Errorf("open of unknown font succeeded; want error")
	}
	if stop, err := intp.execute("quit"); !stop || err != nil {
		t.Errorf("quit = %v, %v; want true, nil", stop, err)
	}
	intp.db.Close()
}
