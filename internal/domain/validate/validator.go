// Package validate runs the ordered record-quality battery over a
// normalized dataset.
//
// Checks are independent: one check failing never blocks the next, and
// per-record findings are always data in the result matrix, never errors.
// The only errors out of Run signal integration bugs (shape mismatches).
package validate

import (
	"context"
	"math"

	"github.com/mkanyama/hdssqc/internal/domain/check"
	"github.com/mkanyama/hdssqc/internal/domain/model"
	"github.com/mkanyama/hdssqc/internal/domain/period"
	"github.com/mkanyama/hdssqc/pkg/logger"
	"github.com/mkanyama/hdssqc/pkg/metrics"
)

const (
	defaultMaxAgeYears = 105
	daysPerYear        = 365.25
)

// Validator holds the reference tables and tuning for one battery run.
// Reference tables are injected configuration, never process-wide state.
type Validator struct {
	countries  map[string]struct{}
	centres    map[string]struct{}
	eventCodes map[string]struct{}
	sexes      map[string]struct{}
	causes     map[string]struct{}

	maxAgeYears float64
	graceYears  float64

	log logger.Logger
}

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithCountries sets the valid country-code table.
func WithCountries(codes []string) Option {
	return func(v *Validator) { v.countries = toSet(codes) }
}

// WithCentres sets the valid centre-code table.
func WithCentres(codes []string) Option {
	return func(v *Validator) { v.centres = toSet(codes) }
}

// WithEventCodes overrides the event-code vocabulary.
func WithEventCodes(codes []string) Option {
	return func(v *Validator) {
		if len(codes) > 0 {
			v.eventCodes = toSet(codes)
		}
	}
}

// WithCauseCodes sets the verbal-autopsy cause vocabulary.
func WithCauseCodes(codes []string) Option {
	return func(v *Validator) { v.causes = toSet(codes) }
}

// WithMaxAge sets the plausible maximum age in years.
func WithMaxAge(years float64) Option {
	return func(v *Validator) {
		if years > 0 {
			v.maxAgeYears = years
		}
	}
}

// WithGrace sets the observation lag allowance in fractional years.
func WithGrace(years float64) Option {
	return func(v *Validator) {
		if years >= 0 {
			v.graceYears = years
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// New creates a Validator with the standard vocabulary, m/f sexes and a
// 105-year age ceiling.
func New(opts ...Option) *Validator {
	v := &Validator{
		eventCodes:  toSet(model.Vocabulary()),
		sexes:       toSet(model.Sexes()),
		maxAgeYears: defaultMaxAgeYears,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run executes the battery in order over records, bounded by the study
// period p, and returns one matrix with a column per check.
func (v *Validator) Run(ctx context.Context, records []model.Record, p period.Period) (*check.Matrix, error) {
	n := len(records)

	groups := []*check.Matrix{
		v.codeChecks(records),
		v.missingChecks(records),
		v.rangeChecks(records, p),
		v.orderChecks(records),
		v.linkageChecks(records),
	}

	out := check.NewMatrix(n)
	for _, g := range groups {
		combined, err := check.Combine(out, g)
		if err != nil {
			return nil, err
		}
		out = combined
	}

	failing := 0
	for _, r := range out.Results() {
		t := r.Tally()
		metrics.CheckCompleted(r.Description, t.Pass, t.Fail, t.Inapplicable)
		failing += t.Fail
	}
	if v.log != nil {
		v.log.Info(ctx, "record battery complete",
			logger.Int("records", n),
			logger.Int("checks", len(out.Results())),
			logger.Int("failing_outcomes", failing))
	}
	return out, nil
}

// codeChecks validates country, centre, sex and event codes against their
// reference tables.
func (v *Validator) codeChecks(records []model.Record) *check.Matrix {
	n := len(records)
	m := check.NewMatrix(n)

	appendMembership(m, "country code valid", n, v.countries,
		func(i int) (string, bool) { return records[i].Country, records[i].Country != "" })
	appendMembership(m, "centre code valid", n, v.centres,
		func(i int) (string, bool) { return records[i].Centre, records[i].Centre != "" })
	appendMembership(m, "sex code valid", n, v.sexes,
		func(i int) (string, bool) { return records[i].Sex, records[i].Sex != "" })
	appendMembership(m, "event code valid", n, v.eventCodes,
		func(i int) (string, bool) { return records[i].Code, records[i].Code != "" })
	return m
}

// missingChecks verifies that the always-required fields are present.
func (v *Validator) missingChecks(records []model.Record) *check.Matrix {
	n := len(records)
	m := check.NewMatrix(n)

	mustAppend(m, check.Missing("location present", n,
		func(i int) bool { return records[i].Location != "" }))
	mustAppend(m, check.Missing("birth date present", n,
		func(i int) bool { return records[i].BirthDate.Valid }))
	mustAppend(m, check.Missing("event date present", n,
		func(i int) bool { return records[i].EventDate.Valid }))
	mustAppend(m, check.Missing("observation date present", n,
		func(i int) bool { return records[i].ObservationDate.Valid }))
	return m
}

// rangeChecks bounds birth, event and observation dates. The birth-date
// lower bound is anchored per record on its own event date; the grace
// allowance extends only the observation-date upper bound.
func (v *Validator) rangeChecks(records []model.Record, p period.Period) *check.Matrix {
	n := len(records)
	m := check.NewMatrix(n)

	maxAgeDays := int(math.Round(v.maxAgeYears * daysPerYear))
	begin := model.NewDate(p.Begin)
	end := model.NewDate(p.End)
	obsEnd := model.NewDate(p.End.AddDate(0, 0, period.GraceDays(v.graceYears)))

	mustAppend(m, check.DateRange("birth date within plausible age range", n,
		func(i int) model.Date { return records[i].BirthDate },
		func(i int) model.Date {
			ev := records[i].EventDate
			if !ev.Valid {
				return model.Date{}
			}
			return model.NewDate(ev.Time.AddDate(0, 0, -maxAgeDays))
		},
		check.Scalar(end)))
	mustAppend(m, check.DateRange("event date within study period", n,
		func(i int) model.Date { return records[i].EventDate },
		check.Scalar(begin), check.Scalar(end)))
	mustAppend(m, check.DateRange("observation date within study period", n,
		func(i int) model.Date { return records[i].ObservationDate },
		check.Scalar(begin), check.Scalar(obsEnd)))
	return m
}

// orderChecks verifies temporal ordering within each record. Closing
// events are exempt from the event-before-observation rule: operational
// practice pulls the final observation date forward to the closing date,
// so that inversion is expected, not a quality failure.
func (v *Validator) orderChecks(records []model.Record) *check.Matrix {
	n := len(records)
	m := check.NewMatrix(n)

	mustAppend(m, check.DateOrder("birth date on or before event date", n,
		func(i int) model.Date { return records[i].BirthDate },
		func(i int) model.Date { return records[i].EventDate }))

	eventBeforeObs := check.DateOrder("event date on or before observation date", n,
		func(i int) model.Date { return records[i].EventDate },
		func(i int) model.Date { return records[i].ObservationDate })
	mustAppend(m, check.MaskInapplicable(eventBeforeObs,
		func(i int) bool { return records[i].Code == model.CodeObservationEnd }))
	return m
}

// linkageChecks verifies cross-record consistency: delivery subjects are
// female, births link to a delivery somewhere in the dataset, sequence
// numbers are unique, and any verbal-autopsy causes use known codes.
func (v *Validator) linkageChecks(records []model.Record) *check.Matrix {
	n := len(records)
	m := check.NewMatrix(n)

	mustAppend(m, check.Membership("delivery subject is female", n,
		func(i int) (string, bool) {
			r := records[i]
			if r.Code != model.CodeDelivery {
				return "", false
			}
			return r.Sex, r.Sex != ""
		},
		map[string]struct{}{model.SexFemale: {}}))

	// Delivery links match across the whole dataset, not per individual.
	deliveries := make(map[string]struct{})
	for _, r := range records {
		if r.Code == model.CodeDelivery && r.DeliveryID != "" {
			deliveries[r.DeliveryID] = struct{}{}
		}
	}
	mustAppend(m, check.Membership("birth links to a delivery record", n,
		func(i int) (string, bool) {
			r := records[i]
			if r.Code != model.CodeBirth {
				return "", false
			}
			return r.DeliveryID, r.DeliveryID != ""
		},
		deliveries))

	seen := make(map[int64]int, n)
	for _, r := range records {
		seen[r.Seq]++
	}
	uniq := make([]check.Outcome, n)
	for i, r := range records {
		if seen[r.Seq] > 1 {
			uniq[i] = check.Fail
		}
	}
	mustAppend(m, check.Result{Description: "record sequence number unique", Outcomes: uniq})

	if len(v.causes) > 0 {
		mustAppend(m, v.causeCheck(records))
	}
	return m
}

// causeCheck passes rows whose present verbal-autopsy cause codes all
// belong to the configured vocabulary; rows with no causes recorded are
// inapplicable.
func (v *Validator) causeCheck(records []model.Record) check.Result {
	out := make([]check.Outcome, len(records))
	for i, r := range records {
		any := false
		for _, c := range r.Causes {
			if c.Code == "" {
				continue
			}
			any = true
			if _, ok := v.causes[c.Code]; !ok {
				out[i] = check.Fail
				break
			}
		}
		if !any && out[i] != check.Fail {
			out[i] = check.Inapplicable
		}
	}
	return check.Result{Description: "cause-of-death code valid", Outcomes: out}
}

// appendMembership adds a membership check, or an all-inapplicable column
// when no reference table was configured: without a table the check
// cannot pertain to any record.
func appendMembership(m *check.Matrix, desc string, n int, valid map[string]struct{}, value func(int) (string, bool)) {
	if len(valid) == 0 {
		out := make([]check.Outcome, n)
		for i := range out {
			out[i] = check.Inapplicable
		}
		mustAppend(m, check.Result{Description: desc, Outcomes: out})
		return
	}
	mustAppend(m, check.Membership(desc, n, value, valid))
}

// mustAppend adds a result built for the matrix's own row count; a
// mismatch is unreachable by construction.
func mustAppend(m *check.Matrix, r check.Result) {
	if err := m.Append(r); err != nil {
		panic(err)
	}
}

func toSet(codes []string) map[string]struct{} {
	s := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}
