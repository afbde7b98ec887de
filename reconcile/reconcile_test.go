package reconcile

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func entries(cps ...rune) []glyphs.GlyphEntry {
	es := make([]glyphs.GlyphEntry, len(cps))
	for i, r := range cps {
		es[i] = glyphs.GlyphEntry{CodePoint: r, GlyphID: fmt.Sprintf("uni%04X", r), HasOutline: true}
	}
	return es
}

func TestReconcileZips(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr")
	defer teardown()
	//
	got, err := Reconcile(entries('A', 'B', 'C'), []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	want := map[rune]string{'A': "1", 'B': "2", 'C': "3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reconcile mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileLengthMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr")
	defer teardown()
	//
	got, err := Batch(3, entries(1, 2, 3, 4, 5), []string{"a", "b", "c", "d"})
	if len(got) != 0 {
		t.Errorf("len(map) = %d; want 0", len(got))
	}
	var align *core.AlignmentError
	if !errors.As(err, &align) {
		t.Fatalf("error = %v; want AlignmentError", err)
	}
	if align.Batch != 3 || align.Glyphs != 5 || align.Results != 4 {
		t.Errorf("AlignmentError = %+v; want batch 3, 5 glyphs, 4 results", *align)
	}
	if core.Code(err) != core.EALIGN {
		t.Errorf("Code = %d; want %d", core.Code(err), core.EALIGN)
	}
}

func TestReconcileSkipsUnresolved(t *testing.T) {
	got, err := Reconcile(entries('A', 'B', 'C'), []string{"x", "", "z"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[rune]string{'A': "x", 'C': "z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reconcile mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileEmpty(t *testing.T) {
	got, err := Reconcile(nil, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Reconcile(nil, nil) = %v, %v; want empty map, nil", got, err)
	}
}

func TestReconcileIsDeterministic(t *testing.T) {
	es, texts := entries(0xE001, 0xE002, 0xE003), []string{"的", "是", "了"}
	first, _ := Reconcile(es, texts)
	second, _ := Reconcile(es, texts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Reconcile differs:\n%s", diff)
	}
}

func TestTransferMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontocr")
	defer teardown()
	//
	tm := NewTransferMap()
	if n := tm.Merge(map[rune]string{0xE003: "c", 0xE001: "a"}); n != 0 {
		t.Errorf("collisions = %d; want 0", n)
	}
	if n := tm.Merge(map[rune]string{0xE002: "b", 0xE001: "a"}); n != 0 {
		t.Errorf("collisions = %d; want 0 for equal re-mapping", n)
	}
	if n := tm.Merge(map[rune]string{0xE003: "C"}); n != 1 {
		t.Errorf("collisions = %d; want 1", n)
	}
	if tm.Len() != 3 {
		t.Errorf("Len = %d; want 3", tm.Len())
	}
	if diff := cmp.Diff([]rune{0xE001, 0xE002, 0xE003}, tm.CodePoints()); diff != "" {
		t.Errorf("CodePoints mismatch:\n%s", diff)
	}
	if s, ok := tm.Get(0xE003); !ok || s != "C" {
		t.Errorf("Get(U+E003) = %q, %v; want \"C\", true", s, ok)
	}
	if _, ok := tm.Get('x'); ok {
		t.Errorf("Get('x') found; want missing")
	}
	got := tm.Translate("\uE001-\uE002-\uE003!")
	if got != "a-b-C!" {
		t.Errorf("Translate = %q; want %q", got, "a-b-C!")
	}
	e := tm.Entries()
	e[0xE001] = "changed"
	if s, _ := tm.Get(0xE001); s != "a" {
		t.Errorf("Entries is not a copy")
	}
}

func TestTransferMapConcurrentMerge(t *testing.T) {
	tm := NewTransferMap()
	var wg sync.WaitGroup
	for b := 0; b < 10; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			m := make(map[rune]string)
			for i := 0; i < 100; i++ {
				m[rune(0xE000+b*100+i)] = fmt.Sprint(i)
			}
			tm.Merge(m)
		}(b)
	}
	wg.Wait()
	if tm.Len() != 1000 {
		t.Errorf("Len = %d; want 1000", tm.Len())
	}
}
