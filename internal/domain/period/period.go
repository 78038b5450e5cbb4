// Package period resolves the study window bounding plausible event dates.
//
// The window is inferred from the dataset's own entry and closing events,
// or taken from an explicit override. An override always wins; inference
// is skipped entirely when one is supplied.
package period

import (
	"fmt"
	"math"
	"time"

	"github.com/mkanyama/hdssqc/internal/domain/dates"
	"github.com/mkanyama/hdssqc/internal/domain/model"
)

// daysPerYear converts fractional years to days for the grace allowance.
const daysPerYear = 365.25

// Period is the valid temporal window for a dataset, normalized so that
// Begin <= End regardless of input order.
type Period struct {
	Begin time.Time
	End   time.Time
}

// fromPair orders two dates into a Period.
func fromPair(a, b time.Time) Period {
	if b.Before(a) {
		a, b = b, a
	}
	return Period{Begin: a, End: b}
}

// Explicit parses a caller-supplied two-value override. The values may
// arrive in either order.
func Explicit(a, b string) (Period, error) {
	da, err := dates.Parse(a)
	if err != nil {
		return Period{}, fmt.Errorf("study period begin: %w", err)
	}
	db, err := dates.Parse(b)
	if err != nil {
		return Period{}, fmt.Errorf("study period end: %w", err)
	}
	return fromPair(da.Time, db.Time), nil
}

// GraceDays converts a fractional-year observation lag to whole days.
// It extends only the observation-date upper bound, never the begin or
// the event-date upper bound.
func GraceDays(years float64) int {
	return int(math.Round(years * daysPerYear))
}

// Resolver infers a dataset's implicit study period from its entry and
// closing events.
type Resolver struct {
	entry   map[string]struct{}
	closing map[string]struct{}
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithEntryCodes overrides the codes treated as sequence entries.
func WithEntryCodes(codes []string) Option {
	return func(r *Resolver) {
		if len(codes) > 0 {
			r.entry = toSet(codes)
		}
	}
}

// WithClosingCodes overrides the codes treated as sequence closures.
func WithClosingCodes(codes []string) Option {
	return func(r *Resolver) {
		if len(codes) > 0 {
			r.closing = toSet(codes)
		}
	}
}

// NewResolver creates a Resolver with the standard entry and closing
// vocabularies.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		entry:   toSet(model.EntryCodes()),
		closing: toSet(model.ClosingCodes()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve computes Begin as the earliest non-missing event date among
// entry-coded records and End as the latest among closing-coded records.
// It fails with ErrEmptyPeriod when either set is empty, since no bound
// can be computed from an empty set.
func (r *Resolver) Resolve(records []model.Record) (Period, error) {
	var begin, end model.Date
	for _, rec := range records {
		if !rec.EventDate.Valid {
			continue
		}
		if _, ok := r.entry[rec.Code]; ok {
			if !begin.Valid || rec.EventDate.Time.Before(begin.Time) {
				begin = rec.EventDate
			}
		}
		if _, ok := r.closing[rec.Code]; ok {
			if !end.Valid || rec.EventDate.Time.After(end.Time) {
				end = rec.EventDate
			}
		}
	}
	if !begin.Valid {
		return Period{}, fmt.Errorf("%w: no dated entry events", ErrEmptyPeriod)
	}
	if !end.Valid {
		return Period{}, fmt.Errorf("%w: no dated closing events", ErrEmptyPeriod)
	}
	return fromPair(begin.Time, end.Time), nil
}

func toSet(codes []string) map[string]struct{} {
	s := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}
