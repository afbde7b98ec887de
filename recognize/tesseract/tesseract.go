/*
Package tesseract runs the tesseract OCR command line tool as a recognizer.

Images are piped into tesseract as PNG on stdin, and recognized text is
read from stdout. Single glyphs are recognized with page segmentation mode
10 (single character), strips of glyphs with mode 7 (single text line) and
square sheets of several rows with mode 6 (uniform block of text).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"
	"unicode"

	"github.com/npillmayer/fontocr/core"
	"github.com/npillmayer/fontocr/recognize"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontocr.recognize'
func tracer() tracing.Trace {
	return tracing.Select("fontocr.recognize")
}

// Recognizer calls a tesseract binary.
type Recognizer struct {
	Binary string   // path or name of the executable
	Lang   string   // tesseract language, e.g. "eng" or "chi_sim"; empty for default
	Args   []string // additional arguments
}

// New creates a recognizer for binary, which is looked up in PATH.
func New(binary, lang string) (*Recognizer, error) {
	if binary == "" {
		binary = "tesseract"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "tesseract executable %q not found", binary)
	}
	return &Recognizer{Binary: path, Lang: lang}, nil
}

// Name implements recognize.Named.
func (t *Recognizer) Name() string { return "tesseract" }

// Recognize recognizes a single glyph.
func (t *Recognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	out, err := t.run(ctx, img, "10")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RecognizeBatch recognizes a line or block of glyphs. If tesseract
// separates the text into n words, the words are returned; otherwise every
// non-space character is taken as one glyph.
func (t *Recognizer) RecognizeBatch(ctx context.Context, img image.Image, n int) ([]string, error) {
	out, err := t.run(ctx, img, batchPSM(img.Bounds(), n))
	if err != nil {
		return nil, err
	}
	if words := strings.Fields(out); len(words) == n {
		return words, nil
	}
	var chars []string
	for _, r := range out {
		if !unicode.IsSpace(r) {
			chars = append(chars, string(r))
		}
	}
	return chars, nil
}

// batchPSM selects the page segmentation mode for n square cells on an
// image: a single row of cells is at least n cells wide.
func batchPSM(bounds image.Rectangle, n int) string {
	if n <= 1 || bounds.Dx() >= n*bounds.Dy() {
		return "7"
	}
	return "6"
}

func (t *Recognizer) run(ctx context.Context, img image.Image, psm string) (string, error) {
	data, err := recognize.EncodePNG(img)
	if err != nil {
		return "", err
	}
	args := []string{"stdin", "stdout", "--psm", psm}
	if t.Lang != "" {
		args = append(args, "-l", t.Lang)
	}
	args = append(args, t.Args...)
	cmd := exec.CommandContext(ctx, t.Binary, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		tracer().Debugf("tesseract failed: %v: %s", err, msg)
		return "", fmt.Errorf("tesseract: %w (%s)", err, msg)
	}
	return stdout.String(), nil
}

var (
	_ recognize.Recognizer      = (*Recognizer)(nil)
	_ recognize.BatchRecognizer = (*Recognizer)(nil)
)
