package trajectory

import (
	"context"
	"sync"

	"github.com/mkanyama/hdssqc/internal/domain/model"
	"github.com/mkanyama/hdssqc/pkg/metrics"
)

// Matrices are the two parallel layers of the transition matrix: integer
// pair counts and summed elapsed days, both square over the closed
// vocabulary. Codes unseen in a dataset keep zero entries.
type Matrices struct {
	Codes     []string
	Counts    map[string]map[string]int
	DeltaDays map[string]map[string]int
}

func newMatrices(vocab []string) Matrices {
	m := Matrices{
		Codes:     vocab,
		Counts:    make(map[string]map[string]int, len(vocab)),
		DeltaDays: make(map[string]map[string]int, len(vocab)),
	}
	for _, from := range vocab {
		m.Counts[from] = make(map[string]int, len(vocab))
		m.DeltaDays[from] = make(map[string]int, len(vocab))
		for _, to := range vocab {
			m.Counts[from][to] = 0
			m.DeltaDays[from][to] = 0
		}
	}
	return m
}

// accumulate walks one individual's consecutive pairs. Pairs with a code
// outside the vocabulary are skipped; such codes are a validation
// finding, not a trajectory state.
func (m *Matrices) accumulate(s Sequence) {
	for i := 0; i+1 < len(s.Records); i++ {
		from, to := s.Records[i], s.Records[i+1]
		row, ok := m.Counts[from.Code]
		if !ok {
			continue
		}
		if _, ok := row[to.Code]; !ok {
			continue
		}
		m.Counts[from.Code][to.Code]++
		m.DeltaDays[from.Code][to.Code] += model.DaysBetween(from.EventDate, to.EventDate)
	}
}

// merge adds other into m elementwise. Accumulation is associative and
// commutative per layer, so merge order does not matter.
func (m *Matrices) merge(other Matrices) {
	for _, from := range m.Codes {
		for _, to := range m.Codes {
			m.Counts[from][to] += other.Counts[from][to]
			m.DeltaDays[from][to] += other.DeltaDays[from][to]
		}
	}
}

// Total sums all pair counts.
func (m Matrices) Total() int {
	total := 0
	for _, row := range m.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Transitions accumulates pair counts and elapsed days over every
// individual's ordered sequence. Sequences are partitioned across
// workers and the partial matrices merged, which is safe because
// per-individual ordering was resolved in Sequences.
func (a *Analyzer) Transitions(ctx context.Context, seqs []Sequence) Matrices {
	workers := a.workers
	if workers > len(seqs) {
		workers = len(seqs)
	}
	if workers <= 1 {
		out := newMatrices(a.vocabulary)
		for _, s := range seqs {
			out.accumulate(s)
		}
		metrics.TransitionsCounted(out.Total())
		return out
	}

	partials := make([]Matrices, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			part := newMatrices(a.vocabulary)
			for i := w; i < len(seqs); i += workers {
				part.accumulate(seqs[i])
			}
			partials[w] = part
		}(w)
	}
	wg.Wait()

	out := newMatrices(a.vocabulary)
	for _, part := range partials {
		out.merge(part)
	}
	metrics.TransitionsCounted(out.Total())
	return out
}
