package schema

import "time"

// LibraryStatus represents the status of the library store.
type LibraryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalGames    int              `json:"total_games"`
	TotalSessions int              `json:"total_sessions"`
	FirstSession  Date             `json:"first_session"`
	LastSession   Date             `json:"last_session"`
	SizeBytes     int64            `json:"size_bytes"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunStatus represents the status of the insight run store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalCallouts int              `json:"total_callouts"`
	SizeBytes     int64            `json:"size_bytes"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
