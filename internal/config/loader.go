package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HDSSQC_CONFIG is set
//  3. env (prefix HDSSQC_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("HDSSQC_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Map env keys like HDSSQC_MAX_AGE_YEARS -> max_age_years, keeping
	// underscores to match the koanf tags on the struct.
	envProvider := env.Provider("HDSSQC_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "hdssqc_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if (cfg.StudyBegin == "") != (cfg.StudyEnd == "") {
		return nil, fmt.Errorf("%w: study_begin and study_end must be set together", ErrInvalidConfig)
	}
	return &cfg, nil
}
