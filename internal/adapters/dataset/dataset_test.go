package dataset_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mkanyama/hdssqc/internal/adapters/dataset"
	"github.com/mkanyama/hdssqc/internal/domain/dates"
	"github.com/mkanyama/hdssqc/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `RecNr,IdNr,CountryId,CentreId,LocationId,Sex,DoB,EventCode,EventDate,ObservationDate,EventCount,EventNr,DeliveryId
1,A,1,10,L1,f,1980-05-01,ENU,2004-10-01,2004-10-01,2,1,
2,A,1,10,L1,f,1980-05-01,DTH,2004-10-05,2004-10-06,2,2,
3,B,1,10,L2,f,2004-06-01,BTH,2004-06-01,2004-06-02,1,1,D1
`

func TestReadCSVAndRecords(t *testing.T) {
	Convey("Given a CSV extract", t, func() {
		Convey("When reading and building records", func() {
			table, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
			So(err, ShouldBeNil)
			So(table.Rows(), ShouldEqual, 3)

			records, err := dataset.Records(table)
			So(err, ShouldBeNil)

			Convey("Then fields and dates are normalized into records", func() {
				So(records, ShouldHaveLength, 3)
				So(records[0].Seq, ShouldEqual, 1)
				So(records[0].Individual, ShouldEqual, "A")
				So(records[0].Code, ShouldEqual, model.CodeEnumeration)
				So(records[0].EventDate.Valid, ShouldBeTrue)
				So(records[0].EventDate.Time, ShouldResemble, time.Date(2004, 10, 1, 0, 0, 0, 0, time.UTC))
				So(records[2].DeliveryID, ShouldEqual, "D1")
				So(records[0].DeliveryID, ShouldEqual, "")
			})
		})

		Convey("When a required column is absent", func() {
			table, err := dataset.ReadCSV(strings.NewReader("RecNr,IdNr\n1,A\n"))
			So(err, ShouldBeNil)

			_, err = dataset.Records(table)

			Convey("Then the schema error halts processing before any check", func() {
				So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "EventDate")
			})
		})

		Convey("When a date column mixes separators", func() {
			mixed := strings.Replace(sampleCSV, "2004-10-05", "2004/10/05", 1)
			table, err := dataset.ReadCSV(strings.NewReader(mixed))
			So(err, ShouldBeNil)

			_, err = dataset.Records(table)

			Convey("Then the whole column is rejected and attributed by name", func() {
				So(errors.Is(err, dates.ErrFormatInconsistency), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "EventDate")
			})
		})

		Convey("When a sequence number is not numeric", func() {
			bad := strings.Replace(sampleCSV, "\n2,A", "\nx,A", 1)
			table, err := dataset.ReadCSV(strings.NewReader(bad))
			So(err, ShouldBeNil)

			_, err = dataset.Records(table)

			So(errors.Is(err, dataset.ErrBadValue), ShouldBeTrue)
		})

		Convey("When the input is empty", func() {
			_, err := dataset.ReadCSV(strings.NewReader(""))

			So(errors.Is(err, dataset.ErrEmptyInput), ShouldBeTrue)
		})
	})
}

func TestReadFormats(t *testing.T) {
	Convey("Given dataset files on disk", t, func() {
		dir := t.TempDir()

		Convey("When reading a plain CSV file", func() {
			path := filepath.Join(dir, "extract.csv")
			So(os.WriteFile(path, []byte(sampleCSV), 0o600), ShouldBeNil)

			table, err := dataset.Read(path)

			So(err, ShouldBeNil)
			So(table.Rows(), ShouldEqual, 3)
		})

		Convey("When reading a zip archive holding one CSV", func() {
			path := filepath.Join(dir, "extract.zip")
			var buf bytes.Buffer
			zw := zip.NewWriter(&buf)
			entry, err := zw.Create("extract.csv")
			So(err, ShouldBeNil)
			_, err = entry.Write([]byte(sampleCSV))
			So(err, ShouldBeNil)
			So(zw.Close(), ShouldBeNil)
			So(os.WriteFile(path, buf.Bytes(), 0o600), ShouldBeNil)

			table, err := dataset.Read(path)

			So(err, ShouldBeNil)
			So(table.Rows(), ShouldEqual, 3)
		})

		Convey("When reading an XLSX workbook", func() {
			path := filepath.Join(dir, "extract.xlsx")
			f := excelize.NewFile()
			rows := [][]interface{}{
				{"RecNr", "IdNr", "CountryId", "CentreId", "LocationId", "Sex", "DoB", "EventCode", "EventDate", "ObservationDate", "EventCount", "EventNr"},
				{"1", "A", "1", "10", "L1", "f", "1980-05-01", "ENU", "2004-10-01", "2004-10-01", "1", "1"},
			}
			for i, row := range rows {
				cell, err := excelize.CoordinatesToCellName(1, i+1)
				So(err, ShouldBeNil)
				So(f.SetSheetRow("Sheet1", cell, &row), ShouldBeNil)
			}
			So(f.SaveAs(path), ShouldBeNil)

			table, err := dataset.Read(path)

			So(err, ShouldBeNil)
			So(table.Rows(), ShouldEqual, 1)
			records, err := dataset.Records(table)
			So(err, ShouldBeNil)
			So(records[0].Code, ShouldEqual, model.CodeEnumeration)
		})

		Convey("When the extension is unsupported", func() {
			_, err := dataset.Read(filepath.Join(dir, "extract.parquet"))

			So(errors.Is(err, dataset.ErrUnsupportedFormat), ShouldBeTrue)
		})
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given a table", t, func() {
		table, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
		So(err, ShouldBeNil)

		Convey("When writing it back as CSV and re-reading", func() {
			var buf bytes.Buffer
			So(dataset.WriteCSV(&buf, table), ShouldBeNil)

			again, err := dataset.ReadCSV(&buf)

			Convey("Then rows, names and cells survive the round trip", func() {
				So(err, ShouldBeNil)
				So(again.Rows(), ShouldEqual, table.Rows())
				So(again.Names(), ShouldResemble, table.Names())
				col, ok := again.Column("EventCode")
				So(ok, ShouldBeTrue)
				So(col, ShouldResemble, []string{"ENU", "DTH", "BTH"})
			})
		})
	})
}
