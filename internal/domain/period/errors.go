package period

import "errors"

// Sentinel kinds for study-period resolution errors.
var (
	ErrEmptyPeriod = errors.New("no events to infer study period from")
)
