// Package spreadsheet renders tabular exports as Office Open XML workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// ErrEmptyTable is returned when there is no header to write.
var ErrEmptyTable = errors.New("spreadsheet: empty table")

// Write renders header and rows into a single-sheet workbook named sheet and
// writes it to w. Cells may be strings, numbers, or nil for an empty cell.
func Write(w io.Writer, sheet string, header []any, rows [][]any) (err error) {
	if len(header) == 0 {
		return ErrEmptyTable
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("spreadsheet: close workbook: %w", cerr)
		}
	}()

	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("spreadsheet: rename sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("spreadsheet: open stream writer: %w", err)
	}

	if err := writeRow(sw, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(sw, i+2, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("spreadsheet: flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

func writeRow(sw *excelize.StreamWriter, n int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("spreadsheet: row %d: %w", n, err)
	}
	if err := sw.SetRow(cell, cells); err != nil {
		return fmt.Errorf("spreadsheet: row %d: %w", n, err)
	}
	return nil
}
