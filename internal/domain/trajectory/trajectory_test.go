package trajectory_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkanyama/hdssqc/internal/domain/model"
	"github.com/mkanyama/hdssqc/internal/domain/trajectory"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y, m, d int) model.Date {
	return model.NewDate(time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC))
}

func rec(seq int64, individual, code string, date model.Date) model.Record {
	return model.Record{Seq: seq, Individual: individual, Code: code, EventDate: date}
}

func TestSequencesAndPatterns(t *testing.T) {
	Convey("Given an analyzer", t, func() {
		a := trajectory.New()
		ctx := context.Background()

		Convey("When one individual has a two-event history", func() {
			records := []model.Record{
				rec(1, "A", model.CodeEnumeration, day(2004, 10, 1)),
				rec(2, "A", model.CodeDeath, day(2004, 10, 5)),
			}
			seqs := a.Sequences(records)

			Convey("Then the pattern joins codes in date order", func() {
				So(seqs, ShouldHaveLength, 1)
				So(a.Pattern(seqs[0]), ShouldEqual, "ENU->DTH")
			})

			Convey("Then the transition matrices count the single pair", func() {
				m := a.Transitions(ctx, seqs)
				So(m.Counts["ENU"]["DTH"], ShouldEqual, 1)
				So(m.DeltaDays["ENU"]["DTH"], ShouldEqual, 4)
			})
		})

		Convey("When rows arrive out of order", func() {
			records := []model.Record{
				rec(3, "A", model.CodeObservationEnd, day(2005, 1, 1)),
				rec(1, "A", model.CodeEnumeration, day(2004, 10, 1)),
				rec(2, "A", model.CodeDeath, day(2004, 10, 5)),
			}
			seqs := a.Sequences(records)

			Convey("Then ordering is recovered from event dates", func() {
				So(a.Pattern(seqs[0]), ShouldEqual, "ENU->DTH->OBE")
			})
		})

		Convey("When events share one date", func() {
			records := []model.Record{
				rec(9, "A", model.CodeDeath, day(2004, 10, 1)),
				rec(2, "A", model.CodeEnumeration, day(2004, 10, 1)),
			}
			seqs := a.Sequences(records)

			Convey("Then the sequence number breaks the tie deterministically", func() {
				So(a.Pattern(seqs[0]), ShouldEqual, "ENU->DTH")
			})
		})

		Convey("When a record has no event date", func() {
			records := []model.Record{
				rec(1, "A", model.CodeEnumeration, day(2004, 10, 1)),
				rec(2, "A", model.CodeDeath, model.Date{}),
			}
			seqs := a.Sequences(records)

			Convey("Then the undated record is left off the timeline", func() {
				So(a.Pattern(seqs[0]), ShouldEqual, "ENU")
			})
		})

		Convey("When a custom separator is configured", func() {
			custom := trajectory.New(trajectory.WithSeparator(" | "))
			seqs := custom.Sequences([]model.Record{
				rec(1, "A", model.CodeEnumeration, day(2004, 10, 1)),
				rec(2, "A", model.CodeDeath, day(2004, 10, 5)),
			})

			So(custom.Pattern(seqs[0]), ShouldEqual, "ENU | DTH")
		})
	})
}

func TestFirstAndLastEvents(t *testing.T) {
	Convey("Given sequences for several individuals", t, func() {
		a := trajectory.New()
		records := []model.Record{
			rec(1, "A", model.CodeEnumeration, day(2004, 1, 1)),
			rec(2, "A", model.CodeObservationEnd, day(2006, 1, 1)),
			rec(3, "B", model.CodeBirth, day(2004, 5, 1)),
			rec(4, "B", model.CodeDeath, day(2005, 5, 1)),
			rec(5, "C", model.CodeInMigration, day(2004, 2, 1)),
			rec(6, "C", model.CodeObservationEnd, day(2006, 1, 1)),
		}
		seqs := a.Sequences(records)

		Convey("When computing first events", func() {
			per, dist := a.FirstEvents(seqs)

			Convey("Then each individual maps to its opening code", func() {
				So(per["A"], ShouldEqual, "ENU")
				So(per["B"], ShouldEqual, "BTH")
				So(per["C"], ShouldEqual, "IMG")
			})

			Convey("Then the distribution counts across individuals", func() {
				So(dist["ENU"], ShouldEqual, 1)
				So(dist["BTH"], ShouldEqual, 1)
				So(dist["IMG"], ShouldEqual, 1)
			})
		})

		Convey("When computing last events", func() {
			_, dist := a.LastEvents(seqs)

			Convey("Then a sequence not closed by OBE surfaces in the distribution", func() {
				So(dist["OBE"], ShouldEqual, 2)
				So(dist["DTH"], ShouldEqual, 1)
			})
		})
	})
}

func TestTransitions(t *testing.T) {
	Convey("Given records for several individuals", t, func() {
		a := trajectory.New()
		ctx := context.Background()

		records := []model.Record{
			rec(1, "A", model.CodeEnumeration, day(2004, 1, 1)),
			rec(2, "A", model.CodeInternalOut, day(2004, 6, 1)),
			rec(3, "A", model.CodeObservationEnd, day(2006, 1, 1)),
			rec(4, "B", model.CodeEnumeration, day(2004, 1, 1)),
			rec(5, "B", model.CodeObservationEnd, day(2006, 1, 1)),
			rec(6, "C", model.CodeBirth, day(2005, 3, 1)),
		}

		Convey("When accumulating transitions", func() {
			m := a.Transitions(ctx, a.Sequences(records))

			Convey("Then total pairs equal the sum of per-individual events minus one", func() {
				// A has 3 events, B has 2, C has 1: (3-1)+(2-1)+(1-1) = 3
				So(m.Total(), ShouldEqual, 3)
			})

			Convey("Then no pair crosses individuals", func() {
				// B's OBE never chains into C's BTH
				So(m.Counts["OBE"]["BTH"], ShouldEqual, 0)
			})

			Convey("Then unseen codes keep zero rows over the full vocabulary", func() {
				So(m.Counts["DLV"]["DTH"], ShouldEqual, 0)
				So(len(m.Counts), ShouldEqual, len(model.Vocabulary()))
				So(len(m.DeltaDays["DLV"]), ShouldEqual, len(model.Vocabulary()))
			})
		})

		Convey("When rows are permuted", func() {
			permuted := []model.Record{records[5], records[2], records[0], records[4], records[3], records[1]}

			base := a.Transitions(ctx, a.Sequences(records))
			again := a.Transitions(ctx, a.Sequences(permuted))

			Convey("Then counts and elapsed days are unchanged after regrouping", func() {
				So(again.Counts, ShouldResemble, base.Counts)
				So(again.DeltaDays, ShouldResemble, base.DeltaDays)
			})
		})

		Convey("When accumulation is partitioned across workers", func() {
			serial := trajectory.New(trajectory.WithWorkerCount(1))
			parallel := trajectory.New(trajectory.WithWorkerCount(4))

			seqs := serial.Sequences(records)
			m1 := serial.Transitions(ctx, seqs)
			m2 := parallel.Transitions(ctx, seqs)

			Convey("Then merged partials equal the serial result", func() {
				So(m2.Counts, ShouldResemble, m1.Counts)
				So(m2.DeltaDays, ShouldResemble, m1.DeltaDays)
			})
		})
	})
}
