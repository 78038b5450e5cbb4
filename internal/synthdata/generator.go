// Package synthdata generates synthetic surveillance datasets for
// exercising the pipeline and producing test fixtures.
package synthdata

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mkanyama/hdssqc/internal/adapters/dataset"
	"github.com/mkanyama/hdssqc/internal/domain/model"
)

// Generation bounds.
const (
	maxEntryLagDays    = 300 // entry events scatter over the first months
	maxAdultAgeYears   = 60
	minAdultAgeYears   = 16
	maxInternalMoves   = 2
	observationLagDays = 14
	deliveryShare      = 0.2 // share of adult females who deliver
)

// Study window the synthetic data lives in.
var (
	windowBegin = time.Date(2004, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2006, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Config tunes one generated dataset.
type Config struct {
	// Individuals is the number of enumerated adults.
	Individuals int

	// Seed makes generation reproducible.
	Seed int64

	// MaleDeliveries injects delivery records on male subjects.
	MaleDeliveries int

	// DanglingBirths injects birth records whose delivery link matches
	// no delivery record.
	DanglingBirths int
}

// Generate produces a raw table in the canonical column layout, ready
// for the same reader path as real extracts.
func Generate(cfg Config) (*dataset.Table, error) {
	if cfg.Individuals <= 0 {
		return nil, fmt.Errorf("individuals must be positive, got %d", cfg.Individuals)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	b := newBuilder()
	deliveries := 0
	maleDeliveries := 0

	for i := 0; i < cfg.Individuals; i++ {
		id := uuid.New().String()
		sex := model.SexFemale
		if rng.Intn(2) == 0 {
			sex = model.SexMale
		}
		ageYears := minAdultAgeYears + rng.Intn(maxAdultAgeYears-minAdultAgeYears)
		dob := windowBegin.AddDate(-ageYears, 0, -rng.Intn(365))
		entry := windowBegin.AddDate(0, 0, rng.Intn(maxEntryLagDays))

		var events []event
		events = append(events, event{code: model.CodeEnumeration, date: entry})

		cursor := entry
		for m := 0; m < rng.Intn(maxInternalMoves+1); m++ {
			cursor = cursor.AddDate(0, 0, 30+rng.Intn(200))
			if cursor.After(windowEnd) {
				break
			}
			code := model.CodeInternalOut
			if m%2 == 1 {
				code = model.CodeInternalIn
			}
			events = append(events, event{code: code, date: cursor})
		}

		wantsDelivery := sex == model.SexFemale && rng.Float64() < deliveryShare
		injectMale := sex == model.SexMale && maleDeliveries < cfg.MaleDeliveries
		if wantsDelivery || injectMale {
			deliveries++
			if injectMale {
				maleDeliveries++
			}
			deliveryID := fmt.Sprintf("D%04d", deliveries)
			deliveryDate := entry.AddDate(0, 0, 60+rng.Intn(365))
			if !deliveryDate.After(windowEnd) {
				events = append(events, event{code: model.CodeDelivery, date: deliveryDate, deliveryID: deliveryID})
				b.addIndividual(newborn(rng, deliveryDate, deliveryID))
			}
		}

		// Every synthetic individual closes with the study.
		events = append(events, event{code: model.CodeObservationEnd, date: windowEnd})

		b.addIndividual(individual{id: id, sex: sex, dob: dob, location: location(rng), events: events})
	}

	for d := 0; d < cfg.DanglingBirths; d++ {
		birthDate := windowBegin.AddDate(0, 6, rng.Intn(300))
		nb := newborn(rng, birthDate, fmt.Sprintf("X%04d", d))
		b.addIndividual(nb)
	}

	return b.table()
}

type event struct {
	code       string
	date       time.Time
	deliveryID string
}

type individual struct {
	id       string
	sex      string
	dob      time.Time
	location string
	events   []event
}

// newborn builds the child individual created by a delivery. The birth
// record shares the delivery-link identifier.
func newborn(rng *rand.Rand, birthDate time.Time, deliveryID string) individual {
	sex := model.SexFemale
	if rng.Intn(2) == 0 {
		sex = model.SexMale
	}
	return individual{
		id:       uuid.New().String(),
		sex:      sex,
		dob:      birthDate,
		location: location(rng),
		events: []event{
			{code: model.CodeBirth, date: birthDate, deliveryID: deliveryID},
			{code: model.CodeObservationEnd, date: windowEnd},
		},
	}
}

func location(rng *rand.Rand) string {
	return fmt.Sprintf("L%03d", 1+rng.Intn(50))
}

// builder accumulates rows in the canonical column layout.
type builder struct {
	names []string
	cols  map[string][]string
	seq   int64
}

func newBuilder() *builder {
	names := append(dataset.RequiredColumns(), dataset.ColDeliveryID)
	cols := make(map[string][]string, len(names))
	for _, n := range names {
		cols[n] = nil
	}
	return &builder{names: names, cols: cols}
}

func (b *builder) addIndividual(ind individual) {
	total := strconv.Itoa(len(ind.events))
	for i, ev := range ind.events {
		b.seq++
		obs := ev.date.AddDate(0, 0, observationLagDays)
		if ev.code == model.CodeObservationEnd || obs.After(windowEnd) {
			// Closing pulls the observation date onto the event itself.
			obs = ev.date
		}
		b.row(map[string]string{
			dataset.ColSeq:             strconv.FormatInt(b.seq, 10),
			dataset.ColIndividual:      ind.id,
			dataset.ColCountry:         "1",
			dataset.ColCentre:          "10",
			dataset.ColLocation:        ind.location,
			dataset.ColSex:             ind.sex,
			dataset.ColBirthDate:       ind.dob.Format("2006-01-02"),
			dataset.ColEventCode:       ev.code,
			dataset.ColEventDate:       ev.date.Format("2006-01-02"),
			dataset.ColObservationDate: obs.Format("2006-01-02"),
			dataset.ColEventCount:      total,
			dataset.ColEventNumber:     strconv.Itoa(i + 1),
			dataset.ColDeliveryID:      ev.deliveryID,
		})
	}
}

func (b *builder) row(values map[string]string) {
	for _, n := range b.names {
		b.cols[n] = append(b.cols[n], values[n])
	}
}

func (b *builder) table() (*dataset.Table, error) {
	return dataset.NewTable(b.names, b.cols)
}
