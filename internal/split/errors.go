package split

const (
	// Run outcomes.
	CodeDisabled = "S_DISABLED"
	CodeComplete = "S_COMPLETE"

	// Recovered per-region / per-chunk faults.
	CodeMissingRegionData = "E_MISSING_REGION_DATA"
	CodeExtractionFault   = "E_EXTRACTION_FAULT"
	CodePersistenceFault  = "E_PERSISTENCE_FAULT"

	// Overall failures.
	CodeInvalidConfig = "E_INVALID_CONFIG"
	CodeNoChunks      = "E_NO_CHUNKS"
	CodeUnrecoverable = "E_UNRECOVERABLE"
)

var knownCodes = map[string]struct{}{
	CodeDisabled:          {},
	CodeComplete:          {},
	CodeMissingRegionData: {},
	CodeExtractionFault:   {},
	CodePersistenceFault:  {},
	CodeInvalidConfig:     {},
	CodeNoChunks:          {},
	CodeUnrecoverable:     {},
}

func IsKnownCode(code string) bool {
	_, ok := knownCodes[code]
	return ok
}
