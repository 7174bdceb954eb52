package constants

import "os"

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetReportTable() string {
	table := os.Getenv("REPORT_TABLE")
	if table != "" {
		return table
	}
	return "ocarina-import-reports"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

// Defaults reported to the caller when the file carries no tempo or
// time-signature meta events.
const (
	DefaultTempoBPM = 120
	DefaultBeats    = 4
	DefaultBeatUnit = 4
)

// MicrosPerMinute converts microseconds-per-quarter-note to BPM.
const MicrosPerMinute = 60_000_000.0
