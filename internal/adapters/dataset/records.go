package dataset

import (
	"fmt"
	"strconv"

	"github.com/mkanyama/hdssqc/internal/domain/dates"
	"github.com/mkanyama/hdssqc/internal/domain/model"
	"github.com/mkanyama/hdssqc/pkg/metrics"
)

// Records normalizes a raw table into event records. The schema is
// checked once here, at the table boundary; every date column is
// normalized wholesale, so a bad column rejects the dataset rather than
// poisoning individual rows.
func Records(t *Table) ([]model.Record, error) {
	if err := t.CheckSchema(); err != nil {
		return nil, err
	}

	birth, err := normalizedColumn(t, ColBirthDate)
	if err != nil {
		return nil, err
	}
	event, err := normalizedColumn(t, ColEventDate)
	if err != nil {
		return nil, err
	}
	observation, err := normalizedColumn(t, ColObservationDate)
	if err != nil {
		return nil, err
	}

	seqRaw, _ := t.Column(ColSeq)
	individual, _ := t.Column(ColIndividual)
	country, _ := t.Column(ColCountry)
	centre, _ := t.Column(ColCentre)
	location, _ := t.Column(ColLocation)
	sex, _ := t.Column(ColSex)
	code, _ := t.Column(ColEventCode)
	eventCount, _ := t.Column(ColEventCount)
	eventNumber, _ := t.Column(ColEventNumber)
	delivery := optionalColumn(t, ColDeliveryID)

	out := make([]model.Record, t.Rows())
	for i := range out {
		seq, err := strconv.ParseInt(seqRaw[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q at row %d", ErrBadValue, ColSeq, seqRaw[i], i)
		}
		out[i] = model.Record{
			Seq:             seq,
			Individual:      individual[i],
			Country:         country[i],
			Centre:          centre[i],
			Location:        location[i],
			Sex:             sex[i],
			BirthDate:       birth[i],
			Code:            code[i],
			EventDate:       event[i],
			ObservationDate: observation[i],
			DeliveryID:      delivery[i],
			EventCount:      eventCount[i],
			EventNumber:     eventNumber[i],
			Causes:          causes(t, i),
		}
	}
	metrics.RecordsLoaded(len(out))
	return out, nil
}

// normalizedColumn runs the date normalizer over one raw column,
// attributing failures to the column by name.
func normalizedColumn(t *Table, name string) ([]model.Date, error) {
	raw, _ := t.Column(name)
	normalized, _, err := dates.NormalizeColumn(raw)
	if err != nil {
		metrics.NormalizationFailure()
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	metrics.ColumnNormalized()
	return normalized, nil
}

// optionalColumn returns the column or an all-missing stand-in.
func optionalColumn(t *Table, name string) []string {
	if col, ok := t.Column(name); ok {
		return col
	}
	return make([]string, t.Rows())
}

// causes collects the row's verbal-autopsy cause/likelihood pairs.
func causes(t *Table, row int) []model.Cause {
	var out []model.Cause
	for k := 1; k <= MaxCauses; k++ {
		codeCol, ok := t.Column(fmt.Sprintf("%s%d", ColCausePrefix, k))
		if !ok {
			break
		}
		if codeCol[row] == "" {
			continue
		}
		c := model.Cause{Code: codeCol[row]}
		if lkCol, ok := t.Column(fmt.Sprintf("%s%d", ColLikelihoodPrefix, k)); ok {
			c.Likelihood = lkCol[row]
		}
		out = append(out, c)
	}
	return out
}
