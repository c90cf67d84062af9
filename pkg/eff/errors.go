package eff

import "errors"

var (
	// ErrBadMagic means the input does not start with the EFFN signature.
	ErrBadMagic = errors.New("eff: invalid magic")

	// ErrTruncated means the input ended inside a record or name table.
	ErrTruncated = errors.New("eff: truncated file")

	// ErrCorruptIndex means a raw index points outside its target array.
	ErrCorruptIndex = errors.New("eff: index out of range")

	// ErrInvalidText means stored name bytes are not valid UTF-8. Raw
	// round-tripping is unaffected; only text conversion fails.
	ErrInvalidText = errors.New("eff: name is not valid UTF-8")
)
