/*
Package dispatch renders sets of glyphs onto canvases, concurrently.

Each glyph is an independent render job writing to its own cell. Jobs run
on a bounded worker pool; a dispatch returns only after every job has
finished, and then seals the canvas. The binding between a glyph and its
cell is fixed by the glyph's position in the input slice, not by the order
in which jobs complete.

In batched mode, a glyph set is split into groups of fixed size, each group
getting its own canvas, dispatch and barrier.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package dispatch

import (
	"context"
	"sync"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/fontocr/internal/parallel"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontocr.dispatch'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.dispatch")
}

// DefaultWorkers is the cap of concurrent render jobs per dispatch.
const DefaultWorkers = parallel.DefaultWorkers

// Report summarizes the render jobs of one or more dispatches.
type Report struct {
	Rendered int    // glyphs drawn
	Failed   []rune // code points which could not be drawn, blank cells
}

// Add accumulates another report into r.
func (r *Report) Add(other Report) {
	r.Rendered += other.Rendered
	r.Failed = append(r.Failed, other.Failed...)
}

// Dispatcher runs render jobs on a bounded worker pool.
// The zero value uses DefaultWorkers and runs batches sequentially.
type Dispatcher struct {
	Workers      int // cap of concurrent render jobs per canvas
	BatchWorkers int // number of batches processed concurrently; ≤ 1 is sequential
}

// Dispatch renders entries onto canvas, entry i into cell i of the canvas'
// plan, waits for all jobs and returns the sealed canvas. Glyphs which fail
// to render leave their cell blank and are listed in the report; they are
// not retried. A renderer implementing raster.GlyphIndexRenderer draws each
// entry by its glyph index.
func (d Dispatcher) Dispatch(entries []glyphs.GlyphEntry, canvas *raster.Canvas,
	r raster.GlyphRenderer) (*raster.Canvas, Report, error) {
	//
	plan := canvas.Plan()
	if len(entries) != plan.Count() {
		return nil, Report{}, core.Error(core.EINVALID,
			"%d glyphs for a canvas planned for %d", len(entries), plan.Count())
	}
	if canvas.Sealed() {
		return nil, Report{}, core.ErrCanvasSealed
	}
	failed := make([]bool, len(entries)) // each job writes its own slot only
	byIndex, _ := r.(raster.GlyphIndexRenderer)
	pool := parallel.NewPool(d.Workers)
	pool.ForEach(len(entries), func(i int) {
		e := entries[i]
		cell, err := canvas.Cell(plan.Cell(i).Rect())
		switch {
		case err != nil:
		case byIndex != nil && e.GID != 0: // draw the glyph the catalog chose
			err = byIndex.RenderGlyphIndex(cell, uint32(e.GID), e.CodePoint)
		default:
			err = r.RenderGlyph(cell, e.CodePoint)
		}
		if err != nil {
			tracer().Debugf("glyph %s left blank: %v", e, err)
			failed[i] = true
		}
	})
	canvas.Seal()
	var rep Report
	for i, f := range failed {
		if f {
			rep.Failed = append(rep.Failed, entries[i].CodePoint)
		} else {
			rep.Rendered++
		}
	}
	if len(rep.Failed) > 0 {
		tracer().Infof("%d of %d glyphs could not be rendered", len(rep.Failed), len(entries))
	}
	return canvas, rep, nil
}

// Batches partitions entries, in order, into groups of at most size entries.
// The last group may be shorter.
func Batches(entries []glyphs.GlyphEntry, size int) [][]glyphs.GlyphEntry {
	if size < 1 {
		size = 1
	}
	batches := make([][]glyphs.GlyphEntry, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		end := min(start+size, len(entries))
		batches = append(batches, entries[start:end:end])
	}
	return batches
}

// CanvasFactory creates an open canvas for a batch of n glyphs.
type CanvasFactory func(n int) *raster.Canvas

// BatchFunc receives the sealed canvas of a batch. batch is the batch's
// sequence number, starting at 1.
type BatchFunc func(batch int, entries []glyphs.GlyphEntry, canvas *raster.Canvas, rep Report)

// DispatchBatches splits entries into groups of size, renders every group
// onto its own canvas and calls fn with each sealed canvas. Groups are
// processed by up to BatchWorkers goroutines, so fn must be safe for
// concurrent use if BatchWorkers > 1.
//
// If ctx is cancelled, batches not yet started are skipped; batches already
// dispatched always run to completion. The accumulated report is returned
// together with ctx's error, if any.
func (d Dispatcher) DispatchBatches(ctx context.Context, entries []glyphs.GlyphEntry, size int,
	newCanvas CanvasFactory, r raster.GlyphRenderer, fn BatchFunc) (Report, error) {
	//
	batches := Batches(entries, size)
	tracer().Debugf("dispatching %d glyphs in %d batches of %d", len(entries), len(batches), size)
	var (
		mx    sync.Mutex
		total Report
		errs  []error
	)
	outer := parallel.NewPool(max(1, d.BatchWorkers))
	outer.ForEach(len(batches), func(i int) {
		if ctx.Err() != nil {
			return
		}
		batch := batches[i]
		canvas, rep, err := d.Dispatch(batch, newCanvas(len(batch)), r)
		mx.Lock()
		total.Add(rep)
		if err != nil {
			errs = append(errs, err)
		}
		mx.Unlock()
		if err == nil {
			fn(i+1, batch, canvas, rep)
		}
	})
	if len(errs) > 0 {
		return total, errs[0]
	}
	return total, ctx.Err()
}
