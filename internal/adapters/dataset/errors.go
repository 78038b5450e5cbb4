package dataset

import "errors"

// Sentinel kinds for dataset loading errors. Schema problems are fatal
// before any check runs; the data cannot be interpreted without them.
var (
	ErrSchema            = errors.New("required column missing")
	ErrRaggedTable       = errors.New("columns differ in length")
	ErrBadValue          = errors.New("malformed column value")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrEmptyInput        = errors.New("input holds no table")
)
