package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "revdiag/internal/errors"
	"revdiag/pkg/contracts/domain"
)

// ParseFile reads a weekly performance export and returns one VisitRecord per
// data row, in sheet order. sheetName selects the worksheet; when empty the
// first sheet is used.
func ParseFile(filePath, sheetName string) ([]domain.VisitRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("file", filePath)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheetName), err).
			WithContext("file", filePath)
	}

	slog.Info("Read export sheet",
		slog.String("file", filePath),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return ParseRows(rows)
}

// ParseRows converts raw sheet rows (header first) into visit records.
// Header names are whitespace-trimmed, blank cells read as zero and fully
// blank rows are skipped.
func ParseRows(rows [][]string) ([]domain.VisitRecord, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("sheet has no header row", nil)
	}

	columnMap := mapColumns(rows[0])
	for _, col := range domain.RequiredColumns {
		if _, ok := columnMap[col]; !ok {
			return nil, apperrors.NewParsingError(fmt.Sprintf("could not find required column: %s", col), nil).
				WithContext("column", col)
		}
	}

	var records []domain.VisitRecord
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		cells := rowReader{row: row, rowNumber: i + 1, columnMap: columnMap}
		record := domain.VisitRecord{
			Row:                i + 1,
			Payer:              cells.text(domain.ColPayer),
			CodeGroup:          cells.text(domain.ColCodeGroup),
			Year:               int(cells.number(domain.ColYear)),
			Week:               int(cells.number(domain.ColWeek)),
			VisitCount:         cells.number(domain.ColVisitCount),
			VisitsWithLabCount: cells.number(domain.ColVisitsWithLabCount),
			TotalPayments:      cells.number(domain.ColTotalPayments),
			PctOfTotalPayments: cells.number(domain.ColPctOfTotalPayments),
			AvgPaymentPerVisit: cells.number(domain.ColAvgPaymentPerVisit),
			AvgChartWeight:     cells.number(domain.ColAvgChartWeight),
			ChargeAmount:       cells.number(domain.ColChargeAmount),
			CollectionPct:      cells.number(domain.ColCollectionPct),
		}
		if cells.err != nil {
			return nil, cells.err
		}

		records = append(records, record)

		if len(records) <= 3 {
			slog.Debug("Record parsed",
				slog.Int("row", record.Row),
				slog.String("payer", record.Payer),
				slog.String("code_group", record.CodeGroup),
				slog.Int("year", record.Year),
				slog.Int("week", record.Week),
				slog.Float64("total_payments", record.TotalPayments))
		}
	}

	slog.Info("Processing complete", slog.Int("total_records", len(records)))

	return records, nil
}

// mapColumns maps trimmed header names to their column index. The first
// occurrence of a duplicated header wins.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if _, exists := columnMap[name]; !exists {
			columnMap[name] = j
		}
	}
	return columnMap
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowReader extracts typed cells from one row and keeps the first error.
type rowReader struct {
	row       []string
	rowNumber int
	columnMap map[string]int
	err       error
}

func (r *rowReader) raw(col string) string {
	if idx, ok := r.columnMap[col]; ok && idx < len(r.row) {
		return strings.TrimSpace(r.row[idx])
	}
	return ""
}

// text returns the cell as a string; a blank cell reads as "0".
func (r *rowReader) text(col string) string {
	if v := r.raw(col); v != "" {
		return v
	}
	return "0"
}

// number returns the cell as a float; a blank cell reads as 0.
func (r *rowReader) number(col string) float64 {
	v := r.raw(col)
	if v == "" || r.err != nil {
		return 0
	}
	n, err := parseNumber(v)
	if err != nil {
		r.err = apperrors.NewParsingError(fmt.Sprintf("invalid number in column %s", col), err).
			WithContext("row", r.rowNumber).
			WithContext("column", col).
			WithContext("value", v)
		return 0
	}
	return n
}

// parseNumber accepts thousands separators and a trailing percent sign,
// which is converted to a fraction.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if percent {
		n /= 100
	}
	return n, nil
}
