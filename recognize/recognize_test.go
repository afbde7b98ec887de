package recognize

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/layout"
	"github.com/npillmayer/fontocr/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	calls int
	text  string
	texts []string
	err   error
	n     int
}

func (s *stub) Recognize(_ context.Context, _ image.Image) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stub) RecognizeBatch(_ context.Context, _ image.Image, n int) ([]string, error) {
	s.calls++
	s.n = n
	return s.texts, s.err
}

func (s *stub) Name() string { return "stub" }

func sealed(n int) *raster.Canvas {
	c := raster.NewCanvas(layout.NewPlan(n, 24, layout.Strip, 5), raster.BlackOnWhite)
	c.Seal()
	return c
}

func TestNewAdapterRejectsNonRecognizer(t *testing.T) {
	_, err := NewAdapter(42)
	assert.Equal(t, core.EINVALID, core.Code(err))
	a, err := NewAdapter(&stub{})
	require.NoError(t, err)
	assert.Equal(t, "stub", a.Name())
	assert.True(t, a.CanSingle())
	assert.True(t, a.CanBatch())
}

func TestRecognizeSingle(t *testing.T) {
	s := &stub{text: " Ａ \n"}
	a, _ := NewAdapter(s)
	text, err := a.RecognizeSingle(context.Background(), sealed(1))
	require.NoError(t, err)
	assert.Equal(t, "Ａ", text)
	a.FoldWidth = true
	text, err = a.RecognizeSingle(context.Background(), sealed(1))
	require.NoError(t, err)
	assert.Equal(t, "A", text)

	open := raster.NewCanvas(layout.NewPlan(1, 24, layout.Square, 0), raster.BlackOnWhite)
	_, err = a.RecognizeSingle(context.Background(), open)
	assert.ErrorIs(t, err, core.ErrCanvasNotSealed)
}

func TestEmptyCanvasShortCircuits(t *testing.T) {
	s := &stub{texts: []string{"x"}}
	a, _ := NewAdapter(s)
	texts, err := a.RecognizeBatch(context.Background(), sealed(0))
	require.NoError(t, err)
	assert.Empty(t, texts)
	text, err := a.RecognizeSingle(context.Background(), sealed(0))
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, 0, s.calls, "recognizer must not be called for an empty canvas")
}

func TestRecognizeBatchPassesGlyphCount(t *testing.T) {
	s := &stub{texts: []string{"一", "２", " c"}}
	a, _ := NewAdapter(s)
	texts, err := a.RecognizeBatch(context.Background(), sealed(3))
	require.NoError(t, err)
	assert.Equal(t, 3, s.n)
	assert.Equal(t, []string{"一", "２", "c"}, texts)
}

func TestRecognizerFailureIsWrapped(t *testing.T) {
	cause := errors.New("engine crashed")
	a, _ := NewAdapter(&stub{err: cause})
	_, err := a.RecognizeBatch(context.Background(), sealed(2))
	var rue *core.RecognizerUnavailableError
	require.ErrorAs(t, err, &rue)
	assert.Equal(t, "stub", rue.Recognizer)
	assert.ErrorIs(t, err, cause)
	_, err = a.RecognizeSingle(context.Background(), sealed(1))
	assert.Equal(t, core.ERECOGNIZER, core.Code(err))
}

type singleOnly struct{}

func (singleOnly) Recognize(context.Context, image.Image) (string, error) { return "x", nil }

func TestUnsupportedMode(t *testing.T) {
	a, err := NewAdapter(singleOnly{})
	require.NoError(t, err)
	assert.False(t, a.CanBatch())
	_, err = a.RecognizeBatch(context.Background(), sealed(2))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"  a ", "a"},
		{"ｂ", "ｂ"},
		{" ，", "，"},
		{"（０）", "（０）"},
		{"é", "é"},
		{"字", "字"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldWidth(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ｂ", "b"},
		{"，", ","},
		{"（０）", "(0)"},
		{"字", "字"},
	}
	for _, tt := range tests {
		if got := FoldWidth(tt.in); got != tt.want {
			t.Errorf("FoldWidth(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFullWidthResultsKeptByDefault(t *testing.T) {
	s := &stub{texts: []string{"，", "０", "（"}}
	a, _ := NewAdapter(s)
	texts, err := a.RecognizeBatch(context.Background(), sealed(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"，", "０", "（"}, texts)
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(sealed(2).Image())
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 48, 24), img.Bounds())
}
