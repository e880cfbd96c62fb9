package schema

import "time"

// RunStats is the completion data recorded for an insight run.
type RunStats struct {
	TotalGames     int
	TotalSessions  int
	SkippedRecords int
}

// InsightRunRecord represents a row from the questlog_insight_runs table.
type InsightRunRecord struct {
	RunID          int64
	RunUUID        string
	Command        string
	StartTime      time.Time
	EndTime        *time.Time
	RunDurationMs  *int32
	TotalGames     int32
	TotalSessions  int32
	SkippedRecords int32
	ConfigParams   *string
}

// CalloutRecord represents a row from the questlog_callouts table.
type CalloutRecord struct {
	RunID           int64
	Position        int32
	CalloutType     string
	PeriodStart     time.Time
	Label           string
	PercentChange   float64
	ChangeMinutes   float64
	SentimentChange *float64
	Drivers         string // JSON-encoded CalloutDrivers
}
