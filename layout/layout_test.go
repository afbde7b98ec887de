package layout

import (
	"image"
	"testing"
)

func TestGridWidth(t *testing.T) {
	tests := []struct {
		count, width int
	}{
		{0, 0}, {1, 1}, {2, 2}, {4, 2}, {5, 3}, {9, 3}, {10, 4}, {600, 25}, {601, 25}, {626, 26},
	}
	for _, tt := range tests {
		if w := GridWidth(tt.count); w != tt.width {
			t.Errorf("GridWidth(%d) = %d; want %d", tt.count, w, tt.width)
		}
	}
}

func TestSquareGridCoversCount(t *testing.T) {
	for n := 1; n <= 2000; n++ {
		p := NewPlan(n, CellSize(DefaultFontSize, DefaultPadding), Square, 0)
		if p.Columns()*p.Rows() < n {
			t.Fatalf("n=%d: %d×%d grid too small", n, p.Columns(), p.Rows())
		}
		if p.Columns() > 1 && (p.Columns()-1)*(p.Columns()-1) >= n {
			t.Fatalf("n=%d: grid width %d not minimal", n, p.Columns())
		}
	}
}

func TestCellsDoNotOverlap(t *testing.T) {
	for _, mode := range []Mode{Square, Strip} {
		for _, n := range []int{1, 2, 5, 17, 100, 257} {
			p := NewPlan(n, 24, mode, 5)
			cells := p.Cells()
			if a, b, found := Overlaps(cells); found {
				t.Errorf("%s n=%d: cells %d and %d overlap", mode, n, a, b)
			}
			bounds := p.Bounds()
			for _, c := range cells {
				if !c.Rect().In(bounds) {
					t.Errorf("%s n=%d: cell %d at %v outside canvas %v", mode, n, c.Index, c.Rect(), bounds)
				}
			}
		}
	}
}

func TestSquareOrigins(t *testing.T) {
	p := NewPlan(5, 24, Square, 0)
	if p.Width() != 72 || p.Height() != 72 {
		t.Errorf("canvas = %d×%d; want 72×72", p.Width(), p.Height())
	}
	want := []image.Point{{0, 0}, {24, 0}, {48, 0}, {0, 24}, {24, 24}}
	for i, o := range want {
		if got := p.Origin(i); got != o {
			t.Errorf("Origin(%d) = %v; want %v", i, got, o)
		}
	}
}

func TestStripPlan(t *testing.T) {
	p := NewPlan(5, 24, Strip, 5)
	if p.Width() != 120 || p.Height() != 24 {
		t.Errorf("strip canvas = %d×%d; want 120×24", p.Width(), p.Height())
	}
	for i := 0; i < 5; i++ {
		if got := p.Origin(i); got != image.Pt(i*24, 0) {
			t.Errorf("Origin(%d) = %v; want (%d,0)", i, got, i*24)
		}
	}
	short := NewPlan(2, 24, Strip, 5)
	if short.Columns() != 2 || short.Width() != 48 {
		t.Errorf("partial strip: %d columns, width %d; want 2, 48", short.Columns(), short.Width())
	}
}

func TestEmptyPlan(t *testing.T) {
	p := NewPlan(0, 24, Square, 0)
	if !p.Empty() || p.Width() != 0 || p.Height() != 0 || len(p.Cells()) != 0 {
		t.Errorf("expected empty 0×0 plan, got %d×%d with %d cells", p.Width(), p.Height(), len(p.Cells()))
	}
}

func TestCellOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected Cell(3) on a 3-glyph plan to panic")
		}
	}()
	NewPlan(3, 24, Square, 0).Cell(3)
}
