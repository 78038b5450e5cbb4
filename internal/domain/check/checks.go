package check

import "github.com/mkanyama/hdssqc/internal/domain/model"

// Accessor functions take a row index and return the operand plus a
// presence flag. Scalar bounds are expressed as closures over a constant,
// per-record bounds as closures over a slice; the checks do not care.

// Missing passes rows where present reports true.
func Missing(desc string, n int, present func(int) bool) Result {
	out := make([]Outcome, n)
	for i := range out {
		if !present(i) {
			out[i] = Fail
		}
	}
	return Result{Description: desc, Outcomes: out}
}

// Membership passes rows whose value belongs to valid. Rows with a
// missing value are inapplicable, not failed.
func Membership(desc string, n int, value func(int) (string, bool), valid map[string]struct{}) Result {
	out := make([]Outcome, n)
	for i := range out {
		v, ok := value(i)
		if !ok {
			out[i] = Inapplicable
			continue
		}
		if _, in := valid[v]; !in {
			out[i] = Fail
		}
	}
	return Result{Description: desc, Outcomes: out}
}

// DateRange passes rows where lower <= value <= upper, inclusive on both
// ends. A missing operand makes the row inapplicable.
func DateRange(desc string, n int, value, lower, upper func(int) model.Date) Result {
	out := make([]Outcome, n)
	for i := range out {
		v, lo, hi := value(i), lower(i), upper(i)
		if !v.Valid || !lo.Valid || !hi.Valid {
			out[i] = Inapplicable
			continue
		}
		if v.Time.Before(lo.Time) || v.Time.After(hi.Time) {
			out[i] = Fail
		}
	}
	return Result{Description: desc, Outcomes: out}
}

// DateOrder passes rows where a <= b. A missing operand makes the row
// inapplicable.
func DateOrder(desc string, n int, a, b func(int) model.Date) Result {
	out := make([]Outcome, n)
	for i := range out {
		x, y := a(i), b(i)
		if !x.Valid || !y.Valid {
			out[i] = Inapplicable
			continue
		}
		if x.Time.After(y.Time) {
			out[i] = Fail
		}
	}
	return Result{Description: desc, Outcomes: out}
}

// Scalar wraps a constant date as a per-record bound accessor.
func Scalar(d model.Date) func(int) model.Date {
	return func(int) model.Date { return d }
}

// MaskInapplicable returns a copy of r with rows where exempt reports
// true overridden to Inapplicable. Used to exempt specific event types
// from a generic check.
func MaskInapplicable(r Result, exempt func(int) bool) Result {
	out := make([]Outcome, len(r.Outcomes))
	copy(out, r.Outcomes)
	for i := range out {
		if exempt(i) {
			out[i] = Inapplicable
		}
	}
	return Result{Description: r.Description, Outcomes: out}
}
