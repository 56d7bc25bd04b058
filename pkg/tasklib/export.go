package tasklib

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportDateLayout formats completion and actual times in exports (MM-DD-YYYY).
const ExportDateLayout = "01-02-2006"

// ExportColumns is the header row of every export.
var ExportColumns = []string{
	"Name",
	"Importance",
	"Completion Time",
	"In Charge",
	"Reminder Time",
	"Actual Time",
	"Starred",
}

// ExportRow renders one task in ExportColumns order.
func ExportRow(t *Task) []string {
	actual := "N/A"
	if t.ActualTime != nil {
		actual = t.ActualTime.Format(ExportDateLayout)
	}
	return []string{
		t.Name,
		string(t.Importance),
		t.CompletionTime.Format(ExportDateLayout),
		t.InCharge,
		strconv.Itoa(t.ReminderTime),
		actual,
		strconv.FormatBool(t.Starred),
	}
}

// WriteCSV writes the header and one row per task to w.
func WriteCSV(w io.Writer, tasks []*Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := cw.Write(ExportRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the tasks as a single-sheet workbook to w.
func WriteXLSX(w io.Writer, tasks []*Task) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := setRow(f, sheet, 1, ExportColumns); err != nil {
		return err
	}
	for i, t := range tasks {
		if err := setRow(f, sheet, i+2, ExportRow(t)); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// ExportPath normalizes an export destination: a path without a .csv or
// .xlsx extension gets .xlsx appended.
func ExportPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return path
	}
	return path + ".xlsx"
}

// Export writes tasks to w in the format implied by path's extension.
func Export(w io.Writer, path string, tasks []*Task) error {
	switch strings.ToLower(filepath.Ext(ExportPath(path))) {
	case ".csv":
		return WriteCSV(w, tasks)
	case ".xlsx":
		return WriteXLSX(w, tasks)
	}
	return fmt.Errorf("unsupported export format: %s", path)
}
