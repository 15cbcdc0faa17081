package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"revdiag/pkg/contracts/domain"
)

// ExportRow is one data row of a weekly export, in RequiredColumns order.
type ExportRow []interface{}

// WriteExport saves a weekly performance workbook named export.xlsx under dir
// and returns its path. An empty sheet keeps the workbook's default sheet.
func WriteExport(t *testing.T, dir, sheet string, header []string, rows ...ExportRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else {
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	}

	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &hdr))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		values := []interface{}(row)
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(dir, "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// HeaderWithout returns RequiredColumns minus the named column.
func HeaderWithout(column string) []string {
	header := make([]string, 0, len(domain.RequiredColumns))
	for _, c := range domain.RequiredColumns {
		if c != column {
			header = append(header, c)
		}
	}
	return header
}
