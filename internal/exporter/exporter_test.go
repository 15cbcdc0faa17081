package exporter

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"revdiag/pkg/contracts/domain"
)

var payerTitles = []string{"Aetna Analysis", "BCBS Analysis"}

func sampleWeeks() []domain.WeeklySummary {
	return []domain.WeeklySummary{
		{
			Key:               domain.WeekKey{Year: 2024, Week: 18},
			TotalPayments:     1000,
			Features:          domain.WeeklyFeatures{AvgPaymentPerVisit: 100, VisitCount: 10, PctVisitsWithLabs: math.NaN()},
			PredictedPayments: 950,
			PctError:          0.05,
			AbsoluteError:     0.05,
			Performance:       domain.OverPerformed,
			Diagnostics: domain.WeeklyDiagnostics{
				WentWell:   "AETNA - X Visit Count is 10.00, while its overall average is 5.00.",
				CanImprove: domain.NullDiagnostic,
				Payers: []domain.PayerDiagnostic{
					{Title: "BCBS Analysis", Text: domain.NullDiagnostic},
					{Title: "Aetna Analysis", Text: "AETNA - X Visit Count is 10.00, while its overall average is 5.00."},
				},
			},
		},
		{
			Key:               domain.WeekKey{Year: 2024, Week: 19},
			TotalPayments:     500,
			PredictedPayments: 0,
			PctError:          math.Inf(1),
			AbsoluteError:     math.Inf(1),
			Performance:       domain.OverPerformed,
		},
	}
}

func TestWeeklyHeaders(t *testing.T) {
	headers := WeeklyHeaders(payerTitles)

	assert.Equal(t, []string{
		"Year", "Week", "Total Payments",
		"% of Total Payments", "Avg. Payment Per Visit", "Avg. Chart E/M Weight",
		"Charge Amount", "Collection %", "Visit Count", "pct_visits_with_labs",
		"Predicted Payments", "% Error", "Absolute Error", "Performance Diagnostic",
		"What Went Well", "What Can Be Improved", "Aetna Analysis", "BCBS Analysis",
	}, headers)
}

func TestBuildWeeklyTable(t *testing.T) {
	table := BuildWeeklyTable(sampleWeeks(), payerTitles)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	require.Len(t, first, len(table.Headers))
	assert.Equal(t, 2024, first[0])
	assert.Equal(t, 18, first[1])
	assert.Equal(t, 1000.0, first[2])
	assert.Nil(t, first[9], "NaN lab fraction is an empty cell")
	assert.Equal(t, "Over Performed", first[13])
	assert.Equal(t, "AETNA - X Visit Count is 10.00, while its overall average is 5.00.", first[16])
	assert.Equal(t, domain.NullDiagnostic, first[17])

	second := table.Rows[1]
	assert.Equal(t, "inf", second[11])
	assert.Equal(t, domain.NullDiagnostic, second[14], "missing diagnostics read as null")
	assert.Equal(t, domain.NullDiagnostic, second[16])
}

func TestWorkbookWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "diagnostics.xlsx")
	table := BuildWeeklyTable(sampleWeeks(), payerTitles)

	require.NoError(t, NewWorkbookWriter("Sheet1").WriteTable(path, table))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Headers, rows[0])
	assert.Equal(t, "2024", rows[1][0])
	assert.Equal(t, "1000", rows[1][2])
	assert.Equal(t, "", rows[1][9])
	assert.Equal(t, "What Went Well", rows[0][14])
	assert.Equal(t, "inf", rows[2][11])
}

func TestCSVWriter_WriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.csv")
	table := BuildWeeklyTable(sampleWeeks(), payerTitles)

	require.NoError(t, NewCSVWriter().WriteTable(path, table))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(content) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])

	records, err := csv.NewReader(strings.NewReader(string(content[3:]))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, table.Headers, records[0])
	assert.Equal(t, "950", records[1][10])
	assert.Equal(t, "0.05", records[1][11])
	assert.Equal(t, "", records[1][9])
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"null", "null"},
		{2024, "2024"},
		{0.052631578947368418, "0.05263157894736842"},
		{1000.0, "1000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCell(tt.in))
	}
}
