package eff

import (
	"fmt"
	"unicode/utf8"
)

// CString is a nul-terminated byte string as stored in the EFF name
// tables. The bytes are kept raw so that names which are not valid text
// still round-trip untouched; the terminator is not part of the value.
type CString []byte

// NewCString returns the string's bytes as a CString.
func NewCString(s string) CString {
	return CString(s)
}

// Text interprets the stored bytes as UTF-8.
// It fails with ErrInvalidText on invalid sequences.
func (s CString) Text() (string, error) {
	if !utf8.Valid(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidText, []byte(s))
	}
	return string(s), nil
}
