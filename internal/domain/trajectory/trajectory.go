// Package trajectory reconstructs per-individual event sequences and
// aggregates state-to-state transition matrices.
//
// Records are grouped by individual before any pair is walked, so a
// transition can never span two individuals regardless of input row
// order. Within a group, records sort by event date with the record
// sequence number as a deterministic tie-break.
package trajectory

import (
	"runtime"
	"sort"
	"strings"

	"github.com/mkanyama/hdssqc/internal/domain/model"
)

// defaultSeparator joins event codes in rendered patterns.
const defaultSeparator = "->"

// Analyzer computes patterns and transition matrices over normalized,
// individual-grouped records.
type Analyzer struct {
	vocabulary []string
	workers    int
	sep        string
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithVocabulary overrides the event-code vocabulary indexing the
// transition matrices.
func WithVocabulary(codes []string) Option {
	return func(a *Analyzer) {
		if len(codes) > 0 {
			a.vocabulary = codes
		}
	}
}

// WithWorkerCount sets how many goroutines accumulate transitions.
func WithWorkerCount(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithSeparator sets the string joining codes in rendered patterns.
func WithSeparator(sep string) Option {
	return func(a *Analyzer) {
		if sep != "" {
			a.sep = sep
		}
	}
}

// New creates an Analyzer over the standard vocabulary.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		vocabulary: model.Vocabulary(),
		workers:    runtime.NumCPU(),
		sep:        defaultSeparator,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sequence is one individual's date-ordered event records.
type Sequence struct {
	Individual string
	Records    []model.Record
}

// Sequences groups records by individual and orders each group by
// (event date, sequence number). Records without an event date cannot be
// placed on a timeline and are left out. Groups are returned in
// individual-identifier order for deterministic output.
func (a *Analyzer) Sequences(records []model.Record) []Sequence {
	groups := make(map[string][]model.Record)
	for _, r := range records {
		if !r.EventDate.Valid {
			continue
		}
		groups[r.Individual] = append(groups[r.Individual], r)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Sequence, 0, len(ids))
	for _, id := range ids {
		recs := groups[id]
		sort.Slice(recs, func(i, j int) bool {
			if !recs[i].EventDate.Time.Equal(recs[j].EventDate.Time) {
				return recs[i].EventDate.Time.Before(recs[j].EventDate.Time)
			}
			return recs[i].Seq < recs[j].Seq
		})
		out = append(out, Sequence{Individual: id, Records: recs})
	}
	return out
}

// Pattern renders one sequence's event codes as a separator-joined string.
func (a *Analyzer) Pattern(s Sequence) string {
	codes := make([]string, len(s.Records))
	for i, r := range s.Records {
		codes[i] = r.Code
	}
	return strings.Join(codes, a.sep)
}

// Patterns renders every individual's pattern string.
func (a *Analyzer) Patterns(seqs []Sequence) map[string]string {
	out := make(map[string]string, len(seqs))
	for _, s := range seqs {
		out[s.Individual] = a.Pattern(s)
	}
	return out
}

// FirstEvents returns each individual's opening code and the frequency
// distribution of opening codes across all individuals.
func (a *Analyzer) FirstEvents(seqs []Sequence) (map[string]string, map[string]int) {
	perIndividual := make(map[string]string, len(seqs))
	dist := make(map[string]int)
	for _, s := range seqs {
		if len(s.Records) == 0 {
			continue
		}
		code := s.Records[0].Code
		perIndividual[s.Individual] = code
		dist[code]++
	}
	return perIndividual, dist
}

// LastEvents returns each individual's closing code and the frequency
// distribution of closing codes across all individuals. A dataset where
// some individual does not close with OBE surfaces here, it never
// crashes the analyzer.
func (a *Analyzer) LastEvents(seqs []Sequence) (map[string]string, map[string]int) {
	perIndividual := make(map[string]string, len(seqs))
	dist := make(map[string]int)
	for _, s := range seqs {
		if len(s.Records) == 0 {
			continue
		}
		code := s.Records[len(s.Records)-1].Code
		perIndividual[s.Individual] = code
		dist[code]++
	}
	return perIndividual, dist
}
