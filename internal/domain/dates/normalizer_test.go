package dates_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mkanyama/hdssqc/internal/domain/dates"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeColumn(t *testing.T) {
	Convey("Given a raw date column", t, func() {
		Convey("When all entries share one separator", func() {
			got, layout, err := dates.NormalizeColumn([]string{"2004/10/01", "2004/10/05"})

			Convey("Then every entry parses under the deduced layout", func() {
				So(err, ShouldBeNil)
				So(layout, ShouldEqual, "2006/01/02")
				So(got[0].Valid, ShouldBeTrue)
				So(got[0].Time, ShouldResemble, time.Date(2004, 10, 1, 0, 0, 0, 0, time.UTC))
				So(got[1].Time, ShouldResemble, time.Date(2004, 10, 5, 0, 0, 0, 0, time.UTC))
			})

			Convey("Then formatting back and reparsing round-trips every value", func() {
				So(err, ShouldBeNil)
				for _, d := range got {
					back, _, rerr := dates.NormalizeColumn([]string{d.Time.Format(layout)})
					So(rerr, ShouldBeNil)
					So(back[0].Time, ShouldResemble, d.Time)
				}
			})
		})

		Convey("When entries carry a trailing time of day", func() {
			got, _, err := dates.NormalizeColumn([]string{"2004-10-01 00:00:00", "2004-10-05 12:30:00"})

			Convey("Then the time component is truncated away", func() {
				So(err, ShouldBeNil)
				So(got[0].Time, ShouldResemble, time.Date(2004, 10, 1, 0, 0, 0, 0, time.UTC))
				So(got[1].Time, ShouldResemble, time.Date(2004, 10, 5, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When entries are empty", func() {
			got, layout, err := dates.NormalizeColumn([]string{"", "2004-10-01", ""})

			Convey("Then empty entries stay missing and are never rejected", func() {
				So(err, ShouldBeNil)
				So(got[0].Valid, ShouldBeFalse)
				So(got[1].Valid, ShouldBeTrue)
				So(got[2].Valid, ShouldBeFalse)
				So(layout, ShouldEqual, "2006-01-02")
			})
		})

		Convey("When the whole column is missing", func() {
			got, layout, err := dates.NormalizeColumn([]string{"", ""})

			Convey("Then nothing is deduced and nothing fails", func() {
				So(err, ShouldBeNil)
				So(layout, ShouldEqual, "")
				So(got, ShouldHaveLength, 2)
				So(got[0].Valid, ShouldBeFalse)
			})
		})

		Convey("When separators are inconsistent across entries", func() {
			got, _, err := dates.NormalizeColumn([]string{"2004/10/01", "2004-10-05"})

			Convey("Then the whole column is rejected", func() {
				So(errors.Is(err, dates.ErrFormatInconsistency), ShouldBeTrue)
				So(got, ShouldBeNil)
			})
		})

		Convey("When the two interior separators of one entry disagree", func() {
			_, _, err := dates.NormalizeColumn([]string{"2004/10-01"})

			Convey("Then the column is rejected as inconsistent", func() {
				So(errors.Is(err, dates.ErrFormatInconsistency), ShouldBeTrue)
			})
		})

		Convey("When entry lengths differ", func() {
			_, _, err := dates.NormalizeColumn([]string{"2004-10-01", "2004-10-01 00:00:00"})

			Convey("Then mixed encodings are rejected", func() {
				So(errors.Is(err, dates.ErrFormatInconsistency), ShouldBeTrue)
			})
		})

		Convey("When entries are too short to hold a date", func() {
			_, _, err := dates.NormalizeColumn([]string{"04-10-01"})

			Convey("Then the column is rejected as inconsistent", func() {
				So(errors.Is(err, dates.ErrFormatInconsistency), ShouldBeTrue)
			})
		})

		Convey("When an entry does not parse under the deduced layout", func() {
			_, _, err := dates.NormalizeColumn([]string{"2004-10-01", "2004-13-40"})

			Convey("Then the column fails with a parse error", func() {
				So(errors.Is(err, dates.ErrParse), ShouldBeTrue)
			})
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given an ISO-8601 date string", t, func() {
		Convey("When it is well formed", func() {
			d, err := dates.Parse("2010-01-01")

			So(err, ShouldBeNil)
			So(d.Valid, ShouldBeTrue)
			So(d.Time, ShouldResemble, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC))
		})

		Convey("When it is malformed", func() {
			_, err := dates.Parse("01/01/2010")

			So(errors.Is(err, dates.ErrParse), ShouldBeTrue)
		})
	})
}
