package check

import "errors"

// Sentinel kinds for test-matrix errors. A shape mismatch signals an
// integration bug, not a data-quality finding.
var (
	ErrShapeMismatch = errors.New("row count mismatch")
)
