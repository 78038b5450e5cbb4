// Package dataset loads raw surveillance tables and builds normalized
// event records from them.
package dataset

import (
	"fmt"
	"strings"
)

// Canonical column names of a surveillance extract.
const (
	ColSeq             = "RecNr"
	ColIndividual      = "IdNr"
	ColCountry         = "CountryId"
	ColCentre          = "CentreId"
	ColLocation        = "LocationId"
	ColSex             = "Sex"
	ColBirthDate       = "DoB"
	ColEventCode       = "EventCode"
	ColEventDate       = "EventDate"
	ColObservationDate = "ObservationDate"
	ColEventCount      = "EventCount"
	ColEventNumber     = "EventNr"
	ColDeliveryID      = "DeliveryId"
)

// Optional verbal-autopsy extension columns, up to three pairs.
const (
	ColCausePrefix      = "Cause"
	ColLikelihoodPrefix = "Likelihood"
	MaxCauses           = 3
)

// RequiredColumns lists the columns every dataset must carry.
func RequiredColumns() []string {
	return []string{
		ColSeq,
		ColIndividual,
		ColCountry,
		ColCentre,
		ColLocation,
		ColSex,
		ColBirthDate,
		ColEventCode,
		ColEventDate,
		ColObservationDate,
		ColEventCount,
		ColEventNumber,
	}
}

// Table is an immutable in-memory raw table: named string columns of one
// shared length. Dates are raw strings here; normalization happens when
// records are built.
type Table struct {
	rows  int
	cols  map[string][]string
	order []string
}

// NewTable builds a Table from named columns. Column order is kept for
// reproducible output. All columns must share one length.
func NewTable(names []string, columns map[string][]string) (*Table, error) {
	rows := -1
	for _, name := range names {
		col, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q named but not supplied", ErrSchema, name)
		}
		if rows == -1 {
			rows = len(col)
			continue
		}
		if len(col) != rows {
			return nil, fmt.Errorf("%w: %q has %d rows, want %d", ErrRaggedTable, name, len(col), rows)
		}
	}
	if rows == -1 {
		rows = 0
	}
	return &Table{rows: rows, cols: columns, order: names}, nil
}

// Rows returns the record count.
func (t *Table) Rows() int {
	return t.rows
}

// Names returns the column names in input order.
func (t *Table) Names() []string {
	return t.order
}

// Column returns a named column and whether it exists.
func (t *Table) Column(name string) ([]string, bool) {
	col, ok := t.cols[name]
	return col, ok
}

// CheckSchema verifies every required column is present, failing with
// one error naming all absentees.
func (t *Table) CheckSchema() error {
	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := t.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}
