package spreadsheet_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/popcast/internal/adapters/spreadsheet"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func readRows(b []byte, sheet string) ([][]string, []string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	return rows, f.GetSheetList(), err
}

func TestWrite(t *testing.T) {
	Convey("Given a projection table", t, func() {
		header := []any{"Ville", 2016, 2018, 2023, "Coefficient a", "Coefficient b", "Coefficient c"}
		rows := [][]any{
			{"NGAOUNDÉRÉ I", 109423.0, 115772.0, 132348.875, 20.125, 3134.25, 109423.0},
			{"YAOUNDE 1", 429252.0, nil, 1.5, 0.0, -2.5, 429252.0},
		}

		Convey("When writing it to a workbook", func() {
			var buf bytes.Buffer
			err := spreadsheet.Write(&buf, "Projections", header, rows)

			Convey("Then it should produce a readable xlsx", func() {
				So(err, ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)

				got, sheets, err := readRows(buf.Bytes(), "Projections")
				So(err, ShouldBeNil)
				So(sheets, ShouldResemble, []string{"Projections"})
				So(len(got), ShouldEqual, 3)
				So(got[0], ShouldResemble, []string{"Ville", "2016", "2018", "2023", "Coefficient a", "Coefficient b", "Coefficient c"})
				So(got[1], ShouldResemble, []string{"NGAOUNDÉRÉ I", "109423", "115772", "132348.875", "20.125", "3134.25", "109423"})
				So(got[2][0], ShouldEqual, "YAOUNDE 1")
				So(got[2][2], ShouldEqual, "")
				So(got[2][5], ShouldEqual, "-2.5")
			})
		})

		Convey("When keeping the default sheet name", func() {
			var buf bytes.Buffer
			err := spreadsheet.Write(&buf, "Sheet1", header, nil)

			Convey("Then only the header row is written", func() {
				So(err, ShouldBeNil)
				got, sheets, err := readRows(buf.Bytes(), "Sheet1")
				So(err, ShouldBeNil)
				So(sheets, ShouldResemble, []string{"Sheet1"})
				So(len(got), ShouldEqual, 1)
			})
		})

		Convey("When the header is empty", func() {
			var buf bytes.Buffer
			err := spreadsheet.Write(&buf, "Projections", nil, rows)

			Convey("Then it should refuse", func() {
				So(errors.Is(err, spreadsheet.ErrEmptyTable), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the sheet name is invalid", func() {
			var buf bytes.Buffer
			err := spreadsheet.Write(&buf, strings.Repeat("x", 40), header, rows)

			Convey("Then the workbook error is reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "rename sheet")
			})
		})
	})
}
