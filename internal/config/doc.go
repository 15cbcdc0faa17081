// Package config provides configuration management for revdiag.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (the fixed input and output file names)
//	2. A YAML file (revdiag.yaml or configs/revdiag.yaml, or an explicit path)
//	3. Environment variables with the REVDIAG_ prefix
//
// # Environment Variables
//
//	REVDIAG_INPUT_PATH=export.xlsx
//	REVDIAG_OUTPUT_PATH=diagnostics.xlsx
//	REVDIAG_OUTPUT_CSV_PATH=diagnostics.csv
//	REVDIAG_DIAGNOSTICS_TOP_N=2
//	REVDIAG_LOGGING_LEVEL=debug
//	REVDIAG_TELEMETRY_TRACE_EXPORTER=stdout
//
// Payer analyses can only be changed from the YAML file:
//
//	diagnostics:
//	  payer_analyses:
//	    - title: Aetna Analysis
//	      match: AETNA
//	    - title: BCBS Analysis
//	      match: BCBS
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags and
// rejects duplicate payer analysis titles.
package config
