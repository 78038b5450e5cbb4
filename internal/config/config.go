// Package config defines process configuration structures and loading.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Reference tables (country/centre codes, verbal-autopsy causes) are
//   configuration inputs consumed by the pipeline, never computed.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Default tuning values.
const (
	defaultMaxAgeYears = 105
	defaultGraceYears  = 0.25
)

// Config contains process configuration for one pipeline run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Input is the dataset path: .csv, .zip holding a CSV, or .xlsx.
	Input string `koanf:"input"`

	// MaxAgeYears bounds plausible subject age for birth-date checks.
	MaxAgeYears float64 `koanf:"max_age_years" validate:"gt=0"`

	// GraceYears extends the observation-date upper bound past study
	// end, in fractional years.
	GraceYears float64 `koanf:"grace_years" validate:"gte=0"`

	// StudyBegin and StudyEnd, when both set, override study-period
	// inference entirely.
	StudyBegin string `koanf:"study_begin" validate:"omitempty,datetime=2006-01-02"`
	StudyEnd   string `koanf:"study_end" validate:"omitempty,datetime=2006-01-02"`

	// WorkerCount sets the goroutines used for transition accumulation.
	WorkerCount int `koanf:"worker_count" validate:"gte=0"`

	// Countries and Centres are the valid site code tables.
	Countries []string `koanf:"countries"`
	Centres   []string `koanf:"centres"`

	// CauseCodes is the verbal-autopsy cause vocabulary.
	CauseCodes []string `koanf:"cause_codes"`

	// Compress drops all-pass checks from the rendered report.
	Compress bool `koanf:"compress"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		MaxAgeYears: defaultMaxAgeYears,
		GraceYears:  defaultGraceYears,
		WorkerCount: runtime.NumCPU(),
	}
}
