package template

import (
	"image"
	"image/color"
)

type bitmap []bool

// inkMap is a binarized image. A pixel is ink if its luminance differs from
// the background's by more than half the range. The background is taken
// from the top left pixel, which is padding on every canvas.
type inkMap struct {
	rect image.Rectangle
	ink  []bool
}

func binarize(img image.Image) *inkMap {
	b := img.Bounds()
	m := &inkMap{rect: b, ink: make([]bool, b.Dx()*b.Dy())}
	if b.Empty() {
		return m
	}
	bg := luminance(img.At(b.Min.X, b.Min.Y))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := int(luminance(img.At(x, y))) - int(bg)
			if d < 0 {
				d = -d
			}
			m.ink[(y-b.Min.Y)*b.Dx()+(x-b.Min.X)] = d > 0x7f
		}
	}
	return m
}

func luminance(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

func (m *inkMap) at(x, y int) bool {
	if !image.Pt(x, y).In(m.rect) {
		return false
	}
	return m.ink[(y-m.rect.Min.Y)*m.rect.Dx()+(x-m.rect.Min.X)]
}

// inkBounds returns the smallest rectangle within r containing all ink of r.
func (m *inkMap) inkBounds(r image.Rectangle) (image.Rectangle, bool) {
	r = r.Intersect(m.rect)
	box := image.Rectangle{}
	found := false
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !m.at(x, y) {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box, found
}

// segment splits the ink of m into glyph boxes in reading order.
func (rec *Recognizer) segment(m *inkMap) []image.Rectangle {
	var boxes []image.Rectangle
	rowProfile := make([]bool, m.rect.Dy())
	for y := range rowProfile {
		for x := m.rect.Min.X; x < m.rect.Max.X; x++ {
			if m.at(x, m.rect.Min.Y+y) {
				rowProfile[y] = true
				break
			}
		}
	}
	for _, rows := range runs(rowProfile, rec.minGap+1) { // dots of i and j need a wider gap
		band := image.Rect(m.rect.Min.X, m.rect.Min.Y+rows[0], m.rect.Max.X, m.rect.Min.Y+rows[1])
		colProfile := make([]bool, m.rect.Dx())
		for x := range colProfile {
			for y := band.Min.Y; y < band.Max.Y; y++ {
				if m.at(m.rect.Min.X+x, y) {
					colProfile[x] = true
					break
				}
			}
		}
		for _, cols := range runs(colProfile, rec.minGap) {
			r := image.Rect(m.rect.Min.X+cols[0], band.Min.Y, m.rect.Min.X+cols[1], band.Max.Y)
			if box, ok := m.inkBounds(r); ok {
				boxes = append(boxes, box)
			}
		}
	}
	return boxes
}

// runs returns the [start,end) intervals of true values in profile. Runs
// separated by fewer than minGap false values are merged.
func runs(profile []bool, minGap int) [][2]int {
	var out [][2]int
	start := -1
	for i, v := range profile {
		switch {
		case v && start < 0:
			start = i
		case !v && start >= 0:
			out = append(out, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, [2]int{start, len(profile)})
	}
	merged := out[:0]
	for _, r := range out {
		if n := len(merged); n > 0 && r[0]-merged[n-1][1] < minGap {
			merged[n-1][1] = r[1]
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// bestDice compares two window-sized bitmaps with shifts of up to one pixel
// and returns the best Dice coefficient.
func bestDice(a, b bitmap, w int) float64 {
	best := 0.0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if s := dice(a, b, w, dx, dy); s > best {
				best = s
			}
		}
	}
	return best
}

func dice(a, b bitmap, w, dx, dy int) float64 {
	na, nb, both := 0, 0, 0
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			if a[y*w+x] {
				na++
			}
			bx, by := x+dx, y+dy
			inB := bx >= 0 && bx < w && by >= 0 && by < w && b[by*w+bx]
			if inB {
				nb++
				if a[y*w+x] {
					both++
				}
			}
		}
	}
	if na+nb == 0 {
		return 0
	}
	return 2 * float64(both) / float64(na+nb)
}
