// Package exporter writes the weekly diagnostics table.
//
// BuildWeeklyTable lays out the weekly summaries in output column order.
// WorkbookWriter saves the table as an xlsx workbook and CSVWriter as a CSV
// file with a UTF-8 BOM for Excel compatibility.
//
// Example usage:
//
//	table := exporter.BuildWeeklyTable(weeks, []string{"Aetna Analysis", "BCBS Analysis"})
//	err := exporter.NewWorkbookWriter("Sheet1").WriteTable("diagnostics.xlsx", table)
package exporter
