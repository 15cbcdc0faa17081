package config

import "revdiag/pkg/contracts"

// Application constants
const (
	AppName    = "revdiag"
	AppVersion = contracts.Version

	// EnvPrefix namespaces environment overrides, e.g. REVDIAG_INPUT_PATH
	EnvPrefix = "REVDIAG"

	DefaultInputFile   = "Weekly Performance Analsysis Export '24 & '24 W019.xlsx"
	DefaultOutputFile  = "Weekly_Model_Full_Diagnostics.xlsx"
	DefaultOutputSheet = "Sheet1"

	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/revdiag.log"

	DefaultTopN      = 2
	DefaultSeparator = " | "
)
