// Package dataprocessing turns a weekly performance export into weekly
// feature rows.
//
// It has three steps, run in order by the pipeline:
//
//  1. ParseFile reads the xlsx export into visit records, one per
//     (year, week, payer, code group) row.
//  2. DeriveFeatures adds the per-row lab-visit fraction.
//  3. GroupByWeek and AggregateWeekly collapse the records into one
//     WeeklySummary per (year, week), sorted by key.
//
// Usage:
//
//	records, err := dataprocessing.ParseFile("export.xlsx", "")
//	if err != nil {
//	    return err
//	}
//	dataprocessing.DeriveFeatures(records)
//	weeks := dataprocessing.AggregateWeekly(dataprocessing.GroupByWeek(records))
//
// Weekly summaries keep pointers back into the record slice through
// WeekGroup, so the slice must not be reallocated while groups are in use.
package dataprocessing
