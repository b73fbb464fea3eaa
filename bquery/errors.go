package bquery

import "github.com/pkg/errors"

// Query-layer error sentinels returned while tokenizing or evaluating a
// path expression.
var (
	ErrInvalidQuery       = errors.New("bquery: path could not be tokenized")
	ErrInvalidType        = errors.New("bquery: result size does not match the requested type")
	ErrInvalidValue       = errors.New("bquery: pointer step resolved to no memory")
	ErrFieldNotFound      = errors.New("bquery: no field with that name on the current aggregate")
	ErrIndexOutOfBounds   = errors.New("bquery: index step reads past the end of its slice")
	ErrIndexedInvalidType = errors.New("bquery: step is invalid for the current type")
)
