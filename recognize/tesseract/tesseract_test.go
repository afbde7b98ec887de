package tesseract

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/npillmayer/fontocr/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTesseract writes a shell script which swallows stdin and prints output.
func fakeTesseract(t *testing.T, output string, exit int) *Recognizer {
	t.Helper()
	return scriptTesseract(t, "printf '%s' '"+output+"'\nexit "+string(rune('0'+exit)))
}

// scriptTesseract writes a shell script which swallows stdin and runs body.
func scriptTesseract(t *testing.T, body string) *Recognizer {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake not available on windows")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	script := "#!/bin/sh\ncat > /dev/null\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	rec, err := New(path, "")
	require.NoError(t, err)
	return rec
}

func blank() image.Image {
	return image.NewGray(image.Rect(0, 0, 24, 24))
}

func TestRecognizeSingle(t *testing.T) {
	rec := fakeTesseract(t, " A\n", 0)
	text, err := rec.Recognize(context.Background(), blank())
	require.NoError(t, err)
	assert.Equal(t, "A", text)
}

func TestRecognizeBatchWords(t *testing.T) {
	rec := fakeTesseract(t, "ab c d\n", 0)
	texts, err := rec.RecognizeBatch(context.Background(), blank(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "c", "d"}, texts)
}

func TestRecognizeBatchCharacters(t *testing.T) {
	rec := fakeTesseract(t, "abc d\n", 0)
	texts, err := rec.RecognizeBatch(context.Background(), blank(), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, texts)
}

func TestSegmentationModeFollowsLayout(t *testing.T) {
	// echoes the value following --psm
	rec := scriptTesseract(t, `printf '%s' "$4"`)
	strip := image.NewGray(image.Rect(0, 0, 5*24, 24))
	texts, err := rec.RecognizeBatch(context.Background(), strip, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, texts)
	square := image.NewGray(image.Rect(0, 0, 3*24, 3*24))
	texts, err = rec.RecognizeBatch(context.Background(), square, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, texts)
}

func TestBatchPSM(t *testing.T) {
	tests := []struct {
		w, h, n int
		want    string
	}{
		{120, 24, 5, "7"}, // strip
		{48, 24, 2, "7"},  // square sheet of one row
		{72, 72, 9, "6"},
		{72, 48, 5, "6"},
		{24, 24, 1, "7"},
	}
	for _, tt := range tests {
		if got := batchPSM(image.Rect(0, 0, tt.w, tt.h), tt.n); got != tt.want {
			t.Errorf("batchPSM(%dx%d, %d) = %s; want %s", tt.w, tt.h, tt.n, got, tt.want)
		}
	}
}

func TestFailure(t *testing.T) {
	rec := fakeTesseract(t, "", 1)
	_, err := rec.Recognize(context.Background(), blank())
	assert.Error(t, err)
}

func TestMissingBinary(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-tesseract"), "")
	assert.Equal(t, core.EMISSING, core.Code(err))
}
