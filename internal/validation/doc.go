// Package validation checks the workbook and output paths of a run before
// any data is read or written.
package validation
