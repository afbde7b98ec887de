package core

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// General error codes
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // validation failed
	ECONNECTION int = 124 // remote resource not connected
	EINTERNAL   int = 125 // internal error
	EFONT       int = 130 // font file unreadable or malformed
	ERENDER     int = 131 // glyph could not be drawn
	EALIGN      int = 132 // recognizer result count does not match glyph count
	ERECOGNIZER int = 133 // recognizer call failed
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case ECONNECTION:
		return "transmission-error"
	case EINTERNAL:
		return "internal error"
	case EFONT:
		return "font parse error"
	case ERENDER:
		return "render failure"
	case EALIGN:
		return "recognition alignment error"
	case ERECOGNIZER:
		return "recognizer unavailable"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting the code's default text is wrapped.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks the error code and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// userErrors receives the output of UserError.
var userErrors io.Writer = os.Stderr

// UserError prints an error to stderr, preferring the user message of
// application errors.
func UserError(err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(userErrors, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(userErrors, "Error: %s\n", err.Error())
}

// --- Pipeline errors -------------------------------------------------------

// Canvas lifecycle violations. These denote programming errors.
var (
	ErrCanvasSealed    = Error(EINTERNAL, "canvas is sealed, no further writes permitted")
	ErrCanvasNotSealed = Error(EINTERNAL, "canvas has not been sealed")
)

// FontParseError is returned if a font file cannot be read or is malformed.
// It aborts a transfer run.
type FontParseError struct {
	Path string // file path or font name, may be empty
	Err  error  // underlying error
}

func (e *FontParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%d] cannot parse font: %v", EFONT, e.Err)
	}
	return fmt.Sprintf("[%d] cannot parse font %s: %v", EFONT, e.Path, e.Err)
}

func (e *FontParseError) Unwrap() error       { return e.Err }
func (e *FontParseError) ErrorCode() int      { return EFONT }
func (e *FontParseError) UserMessage() string { return "font file unreadable or malformed" }

// RenderFailure denotes a glyph which could not be drawn onto its cell.
// It is never fatal: the cell stays blank.
type RenderFailure struct {
	CodePoint rune
	Err       error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("[%d] cannot render U+%04X: %v", ERENDER, e.CodePoint, e.Err)
}

func (e *RenderFailure) Unwrap() error       { return e.Err }
func (e *RenderFailure) ErrorCode() int      { return ERENDER }
func (e *RenderFailure) UserMessage() string { return fmt.Sprintf("glyph U+%04X not drawable", e.CodePoint) }

// AlignmentError reports a recognition batch whose result count differs
// from the number of glyphs placed on its canvas. The batch is discarded.
type AlignmentError struct {
	Batch   int // batch number, 0 for single-canvas runs
	Glyphs  int // number of glyphs placed
	Results int // number of strings returned by the recognizer
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("[%d] batch %d: %d glyphs, but %d recognized strings",
		EALIGN, e.Batch, e.Glyphs, e.Results)
}

func (e *AlignmentError) ErrorCode() int      { return EALIGN }
func (e *AlignmentError) UserMessage() string { return "recognition results out of alignment, batch discarded" }

// RecognizerUnavailableError wraps a failing call to a recognizer.
type RecognizerUnavailableError struct {
	Recognizer string // name of the recognizer, if known
	Err        error
}

func (e *RecognizerUnavailableError) Error() string {
	if e.Recognizer == "" {
		return fmt.Sprintf("[%d] recognizer failed: %v", ERECOGNIZER, e.Err)
	}
	return fmt.Sprintf("[%d] recognizer %s failed: %v", ERECOGNIZER, e.Recognizer, e.Err)
}

func (e *RecognizerUnavailableError) Unwrap() error       { return e.Err }
func (e *RecognizerUnavailableError) ErrorCode() int      { return ERECOGNIZER }
func (e *RecognizerUnavailableError) UserMessage() string { return "text recognizer unavailable" }

var (
	_ AppError = (*FontParseError)(nil)
	_ AppError = (*RenderFailure)(nil)
	_ AppError = (*AlignmentError)(nil)
	_ AppError = (*RecognizerUnavailableError)(nil)
)
