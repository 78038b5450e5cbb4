package check

import (
	"context"
	"fmt"

	"github.com/mkanyama/hdssqc/pkg/logger"
)

// Matrix aggregates the results of many checks over one table. Columns
// keep the order in which checks ran; the row count is fixed at
// construction so appends are O(1) per check.
type Matrix struct {
	rows    int
	results []Result
}

// NewMatrix creates an empty matrix for a table of rows records.
func NewMatrix(rows int) *Matrix {
	return &Matrix{rows: rows}
}

// Rows returns the record count the matrix is aligned to.
func (m *Matrix) Rows() int {
	return m.rows
}

// Results returns the columns in check order.
func (m *Matrix) Results() []Result {
	return m.results
}

// Append adds one result column. The result must be aligned to the
// matrix's row count.
func (m *Matrix) Append(r Result) error {
	if r.Len() != m.rows {
		return fmt.Errorf("%w: result %q has %d rows, matrix has %d", ErrShapeMismatch, r.Description, r.Len(), m.rows)
	}
	m.results = append(m.results, r)
	return nil
}

// Combine concatenates two matrices with matching row counts into one,
// preserving column order and descriptions.
func Combine(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows {
		return nil, fmt.Errorf("%w: %d vs %d rows", ErrShapeMismatch, a.rows, b.rows)
	}
	out := &Matrix{rows: a.rows, results: make([]Result, 0, len(a.results)+len(b.results))}
	out.results = append(out.results, a.results...)
	out.results = append(out.results, b.results...)
	return out, nil
}

// Compress returns a view without all-pass columns. When every column is
// vacuous the result is empty; that is a warning condition, never an
// error, since it simply means the dataset is clean.
func (m *Matrix) Compress(ctx context.Context, log logger.Logger) *Matrix {
	out := &Matrix{rows: m.rows}
	for _, r := range m.results {
		if !r.AllPass() {
			out.results = append(out.results, r)
		}
	}
	if len(m.results) > 0 && len(out.results) == 0 && log != nil {
		log.Warn(ctx, "all check columns passed; compressed view is empty",
			logger.Int("checks", len(m.results)))
	}
	return out
}
