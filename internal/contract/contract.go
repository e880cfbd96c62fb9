// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/questlog/schema"
)

// StoreManager defines the interface for managing the library and run stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetLibraryStore() LibraryStore
	GetRunStore() RunStore
}

// ProgressFunc receives the number of records just written.
type ProgressFunc func(n int)

// LibraryStore holds the tracked games and logged sessions that feed the analytics.
type LibraryStore interface {
	// ReplaceSnapshot atomically swaps all stored games and sessions for the snapshot.
	// progress, when non-nil, is called once per inserted record.
	ReplaceSnapshot(snap schema.Snapshot, progress ProgressFunc) error

	// LoadSnapshot reads every stored game and session
	LoadSnapshot() (schema.Snapshot, error)

	// Clear removes all games and sessions
	Clear() error

	// GetStatus returns status information about the library store
	GetStatus() (schema.LibraryStatus, error)

	// Close closes the underlying connection
	Close() error
}

// RunStore tracks analytics runs and the callouts they produced.
type RunStore interface {
	// BeginRun creates a new run and returns its numeric ID
	BeginRun(runUUID, command string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, stats schema.RunStats) error

	// RecordCallouts stores the callouts detected during a run
	RecordCallouts(runID int64, callouts []schema.Callout) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns retrieves every recorded run for export
	GetAllRuns() ([]schema.InsightRunRecord, error)

	// GetAllCallouts retrieves every recorded callout for export
	GetAllCallouts() ([]schema.CalloutRecord, error)

	// Close closes the underlying connection
	Close() error
}
