// Package report renders attendance exports as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/protomem/timeclock/internal/attendance"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Attendance"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	FileName    = "attendance.xlsx"
)

type column struct {
	header string
	width  float64
}

var _columns = []column{
	{"Employee Name", 30},
	{"Pay Rate", 12},
	{"Clock In", 25},
	{"Clock Out", 25},
	{"Hours", 10},
	{"Pay", 12},
}

// WriteXLSX writes rows as a single-sheet workbook to w.
func WriteXLSX(w io.Writer, rows []attendance.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	// A new workbook starts with "Sheet1".
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	for i, col := range _columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, col.width); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, name+"1", col.header); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := []any{
			row.EmployeeName,
			row.HourlyRate,
			deref(row.InTime),
			deref(row.OutTime),
			row.Hours,
			row.Amount,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
