// Package check provides the tri-state record-test engine.
//
// A check is a pure function over the normalized table producing one
// Result with the same row count as the input. Fail and Inapplicable are
// both "not pass" in binary summaries, but stay distinguishable here:
// Inapplicable means the check does not pertain to the record (wrong
// event type, or an operand was missing), not that the record is bad.
package check

// Outcome is one record's result under one check.
type Outcome uint8

const (
	Pass Outcome = iota
	Fail
	Inapplicable
)

// String renders the outcome for reports.
func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Inapplicable:
		return "n/a"
	default:
		return "unknown"
	}
}

// Result is a record-aligned sequence of outcomes for one check.
type Result struct {
	Description string
	Outcomes    []Outcome
}

// Len returns the row count of the result.
func (r Result) Len() int {
	return len(r.Outcomes)
}

// Tally counts outcomes per kind.
type Tally struct {
	Pass         int
	Fail         int
	Inapplicable int
}

// Tally aggregates the result's outcomes.
func (r Result) Tally() Tally {
	var t Tally
	for _, o := range r.Outcomes {
		switch o {
		case Pass:
			t.Pass++
		case Fail:
			t.Fail++
		case Inapplicable:
			t.Inapplicable++
		}
	}
	return t
}

// AllPass reports whether every row passed. Such columns are vacuous for
// reporting and dropped by Matrix.Compress.
func (r Result) AllPass() bool {
	for _, o := range r.Outcomes {
		if o != Pass {
			return false
		}
	}
	return true
}
