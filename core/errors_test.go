package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, NOERROR},
		{"plain", errors.New("x"), EINTERNAL},
		{"coded", Error(EMISSING, "no such font"), EMISSING},
		{"font", &FontParseError{Path: "a.ttf", Err: io.ErrUnexpectedEOF}, EFONT},
		{"render", &RenderFailure{CodePoint: 'A', Err: errors.New("empty")}, ERENDER},
		{"align", &AlignmentError{Batch: 1, Glyphs: 5, Results: 4}, EALIGN},
		{"recognizer", &RecognizerUnavailableError{Err: io.EOF}, ERECOGNIZER},
		{"wrapped", fmt.Errorf("run: %w", &AlignmentError{}), EALIGN},
	}
	for _, tt := range tests {
		if code := Code(tt.err); code != tt.code {
			t.Errorf("%s: Code() = %d; want %d", tt.name, code, tt.code)
		}
	}
}

func TestAlignmentErrorText(t *testing.T) {
	err := &AlignmentError{Batch: 2, Glyphs: 5, Results: 4}
	want := "[132] batch 2: 5 glyphs, but 4 recognized strings"
	if err.Error() != want {
		t.Errorf("AlignmentError.Error() = %q; want %q", err.Error(), want)
	}
}

func TestUnwrap(t *testing.T) {
	err := fmt.Errorf("transfer: %w", &FontParseError{Path: "x.ttf", Err: io.ErrUnexpectedEOF})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected FontParseError to unwrap to io.ErrUnexpectedEOF")
	}
	var fpe *FontParseError
	if !errors.As(err, &fpe) || fpe.Path != "x.ttf" {
		t.Errorf("expected errors.As to find FontParseError for x.ttf, got %v", fpe)
	}
	if msg := UserMessage(err); msg != "font file unreadable or malformed" {
		t.Errorf("UserMessage() = %q", msg)
	}
	rec := WrapError(io.EOF, ECONNECTION, "remote OCR at %s", "localhost")
	if !errors.Is(rec, io.EOF) || UserMessage(rec) != "remote OCR at localhost" {
		t.Errorf("WrapError lost cause or message: %v", rec)
	}
}

func TestCanvasSentinels(t *testing.T) {
	err := fmt.Errorf("cell 3: %w", ErrCanvasSealed)
	if !errors.Is(err, ErrCanvasSealed) {
		t.Errorf("expected wrapped ErrCanvasSealed to match")
	}
	if errors.Is(err, ErrCanvasNotSealed) {
		t.Errorf("did not expect ErrCanvasNotSealed to match")
	}
}

func TestUserError(t *testing.T) {
	var buf bytes.Buffer
	userErrors = &buf
	defer func() { userErrors = os.Stderr }()
	tests := []struct {
		err  error
		want string
	}{
		{Error(EMISSING, "no font %s", "x.ttf"), "[122] no font x.ttf\n"},
		{&FontParseError{Path: "a.ttf", Err: io.ErrUnexpectedEOF}, "[130] font file unreadable or malformed\n"},
		{errors.New("boom"), "Error: boom\n"},
	}
	for _, tt := range tests {
		buf.Reset()
		UserError(tt.err)
		if got := buf.String(); got != tt.want {
			t.Errorf("UserError(%v) printed %q; want %q", tt.err, got, tt.want)
		}
	}
}
