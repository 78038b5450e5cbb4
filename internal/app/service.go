// Package app orchestrates the full QC pipeline over one dataset:
// normalization, study-period resolution, the validation battery and
// trajectory analysis.
package app

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/mkanyama/hdssqc/internal/adapters/dataset"
	"github.com/mkanyama/hdssqc/internal/domain/check"
	"github.com/mkanyama/hdssqc/internal/domain/period"
	"github.com/mkanyama/hdssqc/internal/domain/trajectory"
	"github.com/mkanyama/hdssqc/internal/domain/validate"
	"github.com/mkanyama/hdssqc/pkg/logger"
	"github.com/mkanyama/hdssqc/pkg/metrics"
)

const defaultMaxAgeYears = 105

// Service runs the pipeline. Construct once per configuration; Run is
// stateless across datasets.
type Service struct {
	maxAgeYears float64
	graceYears  float64
	studyBegin  string
	studyEnd    string
	workerCount int
	countries   []string
	centres     []string
	causeCodes  []string

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxAge sets the plausible maximum age in years.
func WithMaxAge(years float64) Option {
	return func(s *Service) {
		if years > 0 {
			s.maxAgeYears = years
		}
	}
}

// WithGrace sets the observation lag allowance in fractional years.
func WithGrace(years float64) Option {
	return func(s *Service) {
		if years >= 0 {
			s.graceYears = years
		}
	}
}

// WithStudyPeriod supplies an explicit period override, bypassing
// inference from the data.
func WithStudyPeriod(begin, end string) Option {
	return func(s *Service) {
		if begin != "" && end != "" {
			s.studyBegin, s.studyEnd = begin, end
		}
	}
}

// WithWorkerCount sets the goroutines used for transition accumulation.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithCountries sets the valid country-code table.
func WithCountries(codes []string) Option {
	return func(s *Service) { s.countries = codes }
}

// WithCentres sets the valid centre-code table.
func WithCentres(codes []string) Option {
	return func(s *Service) { s.centres = codes }
}

// WithCauseCodes sets the verbal-autopsy cause vocabulary.
func WithCauseCodes(codes []string) Option {
	return func(s *Service) { s.causeCodes = codes }
}

// New creates a Service with defaults.
func New(opts ...Option) *Service {
	s := &Service{
		maxAgeYears: defaultMaxAgeYears,
		workerCount: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report is the outcome of one pipeline run.
type Report struct {
	RunID       string
	Rows        int
	Individuals int
	Period      period.Period
	Validation  *check.Matrix
	Patterns    map[string]string
	FirstEvents map[string]int
	LastEvents  map[string]int
	Transitions trajectory.Matrices
	Duration    time.Duration
}

// Run executes the pipeline over one raw table. Structural problems
// (schema, date columns, empty study period) abort with an error;
// record-quality findings come back as data in the report.
func (s *Service) Run(ctx context.Context, table *dataset.Table) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()

	records, err := dataset.Records(table)
	if err != nil {
		return nil, err
	}

	var p period.Period
	if s.studyBegin != "" {
		p, err = period.Explicit(s.studyBegin, s.studyEnd)
	} else {
		p, err = period.NewResolver().Resolve(records)
	}
	if err != nil {
		return nil, err
	}

	v := validate.New(
		validate.WithCountries(s.countries),
		validate.WithCentres(s.centres),
		validate.WithCauseCodes(s.causeCodes),
		validate.WithMaxAge(s.maxAgeYears),
		validate.WithGrace(s.graceYears),
		validate.WithLogger(s.log),
	)
	matrix, err := v.Run(ctx, records, p)
	if err != nil {
		return nil, err
	}

	analyzer := trajectory.New(trajectory.WithWorkerCount(s.workerCount))
	seqs := analyzer.Sequences(records)
	_, firstDist := analyzer.FirstEvents(seqs)
	_, lastDist := analyzer.LastEvents(seqs)
	matrices := analyzer.Transitions(ctx, seqs)

	metrics.IndividualsTracked(len(seqs))
	duration := time.Since(start)
	metrics.ObserveRunDuration(duration)

	if s.log != nil {
		s.log.Info(ctx, "pipeline run complete",
			logger.String("run_id", runID),
			logger.Int("rows", len(records)),
			logger.Int("individuals", len(seqs)),
			logger.String("study_begin", p.Begin.Format("2006-01-02")),
			logger.String("study_end", p.End.Format("2006-01-02")),
			logger.Int("transitions", matrices.Total()))
	}

	return &Report{
		RunID:       runID,
		Rows:        len(records),
		Individuals: len(seqs),
		Period:      p,
		Validation:  matrix,
		Patterns:    analyzer.Patterns(seqs),
		FirstEvents: firstDist,
		LastEvents:  lastDist,
		Transitions: matrices,
		Duration:    duration,
	}, nil
}
