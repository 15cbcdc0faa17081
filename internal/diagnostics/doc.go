// Package diagnostics explains weekly over and under performance in terms of
// (payer, billing-code group) combinations.
//
// Compare computes, for every (payer, code group), the all-weeks mean of each
// diagnostic metric and attaches to every visit record its deviation from
// that baseline. A Generator then walks one week at a time, keeps the records
// whose deviation satisfies a direction predicate, ranks them by absolute
// deviation and renders the top entries as sentences such as
//
//	AETNA HEALTH - 99213-99215 Avg. Payment Per Visit is 120.00, while its overall average is 100.00.
//
// Sentences are grouped by metric in declaration order and joined with
// " | ". A field with nothing to report is the literal "null".
package diagnostics
