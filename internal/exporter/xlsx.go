package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WorkbookWriter writes tables as single-sheet xlsx workbooks
type WorkbookWriter struct {
	sheet string
}

// NewWorkbookWriter creates a writer that names its sheet sheetName
func NewWorkbookWriter(sheetName string) *WorkbookWriter {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &WorkbookWriter{sheet: sheetName}
}

// WriteTable saves the table to filePath with the header in row 1
func (w *WorkbookWriter) WriteTable(filePath string, table *Table) error {
	slog.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("sheet", w.sheet),
		slog.Int("record_count", len(table.Rows)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(w.sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i, err)
		}
		row := row
		if err := f.SetSheetRow(w.sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
