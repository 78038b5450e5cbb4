// Package dates normalizes raw date columns into canonical dates.
//
// Sites use different locale conventions for the separator between the
// year, month and day fields. Silently mixing formats would corrupt date
// comparisons downstream, so a column whose entries disagree on length or
// separator is rejected wholesale rather than partially trusted.
package dates

import (
	"fmt"
	"time"

	"github.com/mkanyama/hdssqc/internal/domain/model"
)

// Canonical layout geometry: <year>x<month>x<day> in ten characters,
// with the separator at two fixed interior offsets.
const (
	canonicalWidth  = 10
	firstSepOffset  = 4
	secondSepOffset = 7
)

// NormalizeColumn parses one raw date column into canonical dates.
//
// Empty entries stay missing and are never rejected. All non-missing
// entries must share one character length and one separator character;
// anything longer than ten characters is truncated first to drop a
// trailing time of day. The deduced layout string is returned alongside
// the dates so callers can round-trip values for reporting.
func NormalizeColumn(raw []string) ([]model.Date, string, error) {
	out := make([]model.Date, len(raw))

	width := -1
	for _, v := range raw {
		if v == "" {
			continue
		}
		if width == -1 {
			width = len(v)
			continue
		}
		if len(v) != width {
			return nil, "", fmt.Errorf("%w: entry lengths %d and %d in one column", ErrFormatInconsistency, width, len(v))
		}
	}
	if width == -1 {
		// Column is entirely missing; nothing to deduce.
		return out, "", nil
	}
	if width < canonicalWidth {
		return nil, "", fmt.Errorf("%w: entries are %d characters, want at least %d", ErrFormatInconsistency, width, canonicalWidth)
	}

	var sep byte
	seen := false
	for i, v := range raw {
		if v == "" {
			continue
		}
		v = v[:canonicalWidth]
		a, b := v[firstSepOffset], v[secondSepOffset]
		if a != b {
			return nil, "", fmt.Errorf("%w: separators %q and %q disagree at row %d", ErrFormatInconsistency, a, b, i)
		}
		if !seen {
			sep, seen = a, true
			continue
		}
		if a != sep {
			return nil, "", fmt.Errorf("%w: separator %q at row %d, column uses %q", ErrFormatInconsistency, a, i, sep)
		}
	}

	layout := "2006" + string(sep) + "01" + string(sep) + "02"
	for i, v := range raw {
		if v == "" {
			continue
		}
		t, err := time.Parse(layout, v[:canonicalWidth])
		if err != nil {
			return nil, "", fmt.Errorf("%w: %q at row %d under layout %q", ErrParse, v, i, layout)
		}
		out[i] = model.NewDate(t)
	}
	return out, layout, nil
}

// Parse reads a single ISO-8601 date string, as used for explicit study
// period overrides in configuration.
func Parse(s string) (model.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return model.Date{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	return model.NewDate(t), nil
}
