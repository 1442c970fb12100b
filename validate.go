package rfc2html

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// InputError locates the first byte that made a document unacceptable.
type InputError struct {
	Err    error
	Offset int
	Line   int
	Column int
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v at line %d column %d (offset %d)", e.Err, e.Line, e.Column, e.Offset)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ValidateInput rejects documents that are not plain text: invalid UTF-8,
// NUL bytes, or more than a trace of control characters. Page break form
// feeds count as text. The returned error is an *InputError wrapping
// ErrInvalidUTF8 or ErrBinaryInput.
func ValidateInput(src []byte) error {
	firstControl := -1
	control := 0
	for i := 0; i < len(src); {
		c := src[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(src[i:])
			if r == utf8.RuneError && size <= 1 {
				return inputError(src, i, ErrInvalidUTF8)
			}
			i += size
			continue
		}
		if c == 0x00 {
			return inputError(src, i, ErrBinaryInput)
		}
		if isControlByte(c) {
			if firstControl < 0 {
				firstControl = i
			}
			control++
		}
		i++
	}
	if len(src) >= minBinarySample && control*100 >= len(src)*maxControlPct {
		return inputError(src, firstControl, ErrBinaryInput)
	}
	return nil
}

func inputError(src []byte, offset int, err error) *InputError {
	line, col := Span{Start: offset}.LineCol(string(src))
	return &InputError{Err: err, Offset: offset, Line: line, Column: col}
}

// isControlByte reports C0 controls other than tab, line feed, vertical
// tab, form feed and carriage return, plus DEL.
func isControlByte(b byte) bool {
	return b < '\t' || (b > '\r' && b < ' ') || b == 0x7F
}
