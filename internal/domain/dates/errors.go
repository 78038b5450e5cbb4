package dates

import "errors"

// Sentinel kinds for date-normalization errors. Both are fatal for the
// whole column; a column is never partially trusted.
var (
	ErrFormatInconsistency = errors.New("inconsistent date format")
	ErrParse               = errors.New("unparseable date value")
)
