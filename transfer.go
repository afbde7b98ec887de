package fontocr

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/dispatch"
	"github.com/npillmayer/fontocr/glyphs"
	"github.com/npillmayer/fontocr/internal/fontload"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/raster"
	"github.com/npillmayer/fontocr/recognize"
	"github.com/npillmayer/fontocr/reconcile"
)

// Transfer runs the font-to-text pipeline with an injected font parser and
// recognizer. A Transfer may be used for any number of runs, also
// concurrently.
type Transfer struct {
	parser  glyphs.Parser
	adapter *recognize.Adapter
	opts    options
}

// New creates a transfer pipeline. rec must implement recognize.Recognizer
// for mode PerGlyph and recognize.BatchRecognizer for the batch modes.
// If parser is nil, glyphs.TypesettingParser is used.
func New(parser glyphs.Parser, rec any, opts ...Option) (*Transfer, error) {
	t := &Transfer{parser: parser, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&t.opts)
	}
	if t.opts.err != nil {
		return nil, t.opts.err
	}
	if t.parser == nil {
		t.parser = glyphs.TypesettingParser{}
	}
	if rec == nil {
		return nil, core.Error(core.EINVALID, "no recognizer given")
	}
	var err error
	if t.adapter, err = recognize.NewAdapter(rec); err != nil {
		return nil, err
	}
	t.adapter.FoldWidth = t.opts.foldWidth
	switch t.opts.mode {
	case PerGlyph:
		if !t.adapter.CanSingle() {
			return nil, core.Error(core.EINVALID, "mode %s needs a single-glyph recognizer, %s is not",
				t.opts.mode, t.adapter.Name())
		}
	case Batched, Sheet:
		if !t.adapter.CanBatch() {
			return nil, core.Error(core.EINVALID, "mode %s needs a batch recognizer, %s is not",
				t.opts.mode, t.adapter.Name())
		}
	default:
		return nil, core.Error(core.EINVALID, "unknown transfer mode %s", t.opts.mode)
	}
	return t, nil
}

// Mode returns the transfer mode.
func (t *Transfer) Mode() Mode { return t.opts.mode }

// Recognizer returns the name of the recognizer.
func (t *Transfer) Recognizer() string { return t.adapter.Name() }

// Result is the outcome of a transfer run.
type Result struct {
	Font           string                 // name of the font
	Glyphs         []glyphs.GlyphEntry    // the glyph catalog, in processing order
	Map            *reconcile.TransferMap // obfuscated code point → true string
	Batches        int                    // number of canvases recognized
	Discarded      []*core.AlignmentError // batches dropped for misalignment
	RenderFailures []rune                 // glyphs which could not be drawn, ascending
}

// Unresolved returns the code points of the catalog without a mapping,
// in catalog order.
func (r *Result) Unresolved() []rune {
	var cps []rune
	for _, e := range r.Glyphs {
		if _, ok := r.Map.Get(e.CodePoint); !ok {
			cps = append(cps, e.CodePoint)
		}
	}
	return cps
}

// Run loads a font file and creates its transfer map.
//
// A font which cannot be read or parsed aborts the run with a
// *core.FontParseError. Otherwise a result is always returned: glyphs
// which cannot be drawn and batches whose recognition results are out of
// alignment are recorded in the result, while recognizer failures and
// cancellation of ctx are returned as a joined error together with the
// partial map.
func (t *Transfer) Run(ctx context.Context, fontPath string) (*Result, error) {
	sf, err := fontload.LoadOpenTypeFont(fontPath)
	if err != nil {
		tracer().Errorf("cannot load font %s: %v", fontPath, err)
		return nil, err
	}
	return t.run(ctx, sf)
}

// RunData is Run for a font held in memory. name is used for reporting.
func (t *Transfer) RunData(ctx context.Context, name string, data []byte) (*Result, error) {
	sf, err := fontload.ParseOpenTypeFont(data)
	if err != nil {
		var fpe *core.FontParseError
		if errors.As(err, &fpe) && fpe.Path == "" {
			fpe.Path = name
		}
		return nil, err
	}
	if name != "" {
		sf.Fontname = name
	}
	return t.run(ctx, sf)
}

func (t *Transfer) run(ctx context.Context, sf *fontload.ScalableFont) (*Result, error) {
	entries, err := glyphs.Extract(t.parser, sf.Binary)
	if err != nil {
		var fpe *core.FontParseError
		if errors.As(err, &fpe) && fpe.Path == "" {
			fpe.Path = sf.Filepath
		}
		return nil, err
	}
	res := &Result{
		Font:   sf.Fontname,
		Glyphs: entries,
		Map:    reconcile.NewTransferMap(),
	}
	tracer().Infof("transfer of %q: %d glyphs, mode %s, recognizer %s",
		res.Font, len(entries), t.opts.mode, t.adapter.Name())
	rd := t.opts.renderer(sf.SFNT, t.opts.fontSize, t.opts.scheme)
	var runErr error
	switch t.opts.mode {
	case Sheet:
		runErr = t.sheet(ctx, entries, rd, res)
	case Batched:
		runErr = t.batched(ctx, entries, rd, res)
	default:
		runErr = t.perGlyph(ctx, entries, rd, res)
	}
	tracer().Infof("transfer of %q: %d of %d glyphs resolved in %d batches, %d discarded, %d not drawable",
		res.Font, res.Map.Len(), len(entries), res.Batches, len(res.Discarded), len(res.RenderFailures))
	return res, runErr
}

// sheet places all glyphs on a single square canvas.
func (t *Transfer) sheet(ctx context.Context, entries []glyphs.GlyphEntry, rd raster.GlyphRenderer,
	res *Result) error {
	//
	if err := ctx.Err(); err != nil {
		return err
	}
	plan := layout.NewPlan(len(entries), t.opts.cellSize(), layout.Square, 0)
	d := dispatch.Dispatcher{Workers: t.opts.workers}
	canvas, rep, err := d.Dispatch(entries, raster.NewCanvas(plan, t.opts.scheme), rd)
	if err != nil {
		return err
	}
	res.RenderFailures = rep.Failed
	slices.Sort(res.RenderFailures)
	if canvas.Empty() {
		return nil
	}
	res.Batches = 1
	texts, err := t.adapter.RecognizeBatch(ctx, canvas)
	if err != nil {
		return err
	}
	t.merge(1, entries, texts, res)
	return nil
}

// batched places glyphs on strips of fixed width, one canvas per strip.
func (t *Transfer) batched(ctx context.Context, entries []glyphs.GlyphEntry, rd raster.GlyphRenderer,
	res *Result) error {
	//
	cell, strip := t.opts.cellSize(), t.opts.strip
	newCanvas := func(n int) *raster.Canvas {
		return raster.NewCanvas(layout.NewPlan(n, cell, layout.Strip, strip), t.opts.scheme)
	}
	var (
		mx   sync.Mutex
		errs []error
	)
	d := dispatch.Dispatcher{Workers: t.opts.workers, BatchWorkers: t.opts.batchWorkers}
	rep, err := d.DispatchBatches(ctx, entries, strip, newCanvas, rd,
		func(batch int, group []glyphs.GlyphEntry, canvas *raster.Canvas, _ dispatch.Report) {
			texts, err := t.adapter.RecognizeBatch(ctx, canvas)
			mx.Lock()
			defer mx.Unlock()
			res.Batches++
			if err != nil {
				errs = append(errs, err)
				return
			}
			t.merge(batch, group, texts, res)
		})
	res.RenderFailures = rep.Failed
	slices.Sort(res.RenderFailures)
	slices.SortFunc(res.Discarded, func(a, b *core.AlignmentError) int { return a.Batch - b.Batch })
	return errors.Join(append(errs, err)...)
}

// perGlyph recognizes every glyph on a canvas of its own.
func (t *Transfer) perGlyph(ctx context.Context, entries []glyphs.GlyphEntry, rd raster.GlyphRenderer,
	res *Result) error {
	//
	cell := t.opts.cellSize()
	newCanvas := func(n int) *raster.Canvas {
		return raster.NewCanvas(layout.NewPlan(n, cell, layout.Square, 0), t.opts.scheme)
	}
	var (
		mx   sync.Mutex
		errs []error
	)
	d := dispatch.Dispatcher{Workers: 1, BatchWorkers: t.opts.batchWorkers}
	rep, err := d.DispatchBatches(ctx, entries, 1, newCanvas, rd,
		func(_ int, group []glyphs.GlyphEntry, canvas *raster.Canvas, r dispatch.Report) {
			if len(r.Failed) > 0 { // blank canvas, nothing to recognize
				return
			}
			text, err := t.adapter.RecognizeSingle(ctx, canvas)
			mx.Lock()
			defer mx.Unlock()
			res.Batches++
			if err != nil {
				errs = append(errs, err)
				return
			}
			if text == "" {
				tracer().Debugf("glyph %s not recognized", group[0])
				return
			}
			res.Map.Merge(map[rune]string{group[0].CodePoint: text})
		})
	res.RenderFailures = rep.Failed
	slices.Sort(res.RenderFailures)
	return errors.Join(append(errs, err)...)
}

// merge reconciles a batch into the result. Must be called with exclusive
// access to res.
func (t *Transfer) merge(batch int, entries []glyphs.GlyphEntry, texts []string, res *Result) {
	m, err := reconcile.Batch(batch, entries, texts)
	var align *core.AlignmentError
	if errors.As(err, &align) {
		res.Discarded = append(res.Discarded, align)
		return
	}
	res.Map.Merge(m)
}
