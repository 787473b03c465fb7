package bz2xsi

import "errors"

var (
	// ErrHeader indicates the file does not start with a recognized XSI header.
	ErrHeader = errors.New("invalid xsi header")

	// ErrParse indicates a reader failure.
	ErrParse = errors.New("parse error")

	// ErrEncode indicates scene data the writer cannot render.
	ErrEncode = errors.New("encode error")

	// ErrDuplicateFrame indicates a frame name collision in the frame table.
	ErrDuplicateFrame = errors.New("duplicate frame")

	// ErrProperty indicates a malformed material custom property value.
	ErrProperty = errors.New("material property")
)
