package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mkanyama/hdssqc/internal/domain/model"
	"github.com/mkanyama/hdssqc/internal/domain/period"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y, m, d int) model.Date {
	return model.NewDate(time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC))
}

func TestResolver(t *testing.T) {
	Convey("Given a study-period resolver", t, func() {
		r := period.NewResolver()

		Convey("When the dataset has entry and closing events", func() {
			records := []model.Record{
				{Code: model.CodeEnumeration, EventDate: day(2004, 3, 1)},
				{Code: model.CodeBirth, EventDate: day(2003, 6, 15)},
				{Code: model.CodeDeath, EventDate: day(2005, 1, 1)},
				{Code: model.CodeObservationEnd, EventDate: day(2006, 12, 31)},
				{Code: model.CodeObservationEnd, EventDate: day(2006, 6, 30)},
			}

			p, err := r.Resolve(records)

			Convey("Then begin is the earliest entry date and end the latest closing date", func() {
				So(err, ShouldBeNil)
				So(p.Begin, ShouldResemble, time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC))
				So(p.End, ShouldResemble, time.Date(2006, 12, 31, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When entry events carry missing dates only", func() {
			records := []model.Record{
				{Code: model.CodeEnumeration},
				{Code: model.CodeObservationEnd, EventDate: day(2006, 12, 31)},
			}

			_, err := r.Resolve(records)

			Convey("Then resolution fails with an empty period", func() {
				So(errors.Is(err, period.ErrEmptyPeriod), ShouldBeTrue)
			})
		})

		Convey("When no closing events exist", func() {
			records := []model.Record{
				{Code: model.CodeEnumeration, EventDate: day(2004, 3, 1)},
				{Code: model.CodeDeath, EventDate: day(2005, 1, 1)},
			}

			_, err := r.Resolve(records)

			Convey("Then resolution fails with an empty period", func() {
				So(errors.Is(err, period.ErrEmptyPeriod), ShouldBeTrue)
			})
		})
	})
}

func TestExplicit(t *testing.T) {
	Convey("Given an explicit period override", t, func() {
		Convey("When the two values arrive out of order", func() {
			p, err := period.Explicit("2006-12-31", "2003-06-15")

			Convey("Then the period is normalized so begin <= end", func() {
				So(err, ShouldBeNil)
				So(p.Begin, ShouldResemble, time.Date(2003, 6, 15, 0, 0, 0, 0, time.UTC))
				So(p.End, ShouldResemble, time.Date(2006, 12, 31, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When a value is not a parseable date", func() {
			_, err := period.Explicit("2003-06-15", "not-a-date")

			Convey("Then the override is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestGraceDays(t *testing.T) {
	Convey("Given a fractional-year grace allowance", t, func() {
		Convey("When converting to days", func() {
			Convey("Then a 365.25-day year is rounded to the nearest day", func() {
				So(period.GraceDays(1), ShouldEqual, 365)
				So(period.GraceDays(0.5), ShouldEqual, 183)
				So(period.GraceDays(0), ShouldEqual, 0)
				So(period.GraceDays(105), ShouldEqual, 38351)
			})
		})
	})
}
