package iocache

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCallouts() []schema.Callout {
	drop := -20.0
	return []schema.Callout{
		{
			Type: schema.SpikeCallout, PeriodStart: schema.NewDate(2024, 2, 1), Label: "Feb 2024",
			BaselineStart: schema.NewDate(2024, 1, 1), PercentChange: 1.5, ChangeMinutes: 300,
			Drivers: schema.CalloutDrivers{Titles: []schema.Driver{{Name: "Aurora Trails", GameID: 1, DeltaMinutes: 300}}},
		},
		{
			Type: schema.BurnoutCallout, PeriodStart: schema.NewDate(2024, 3, 1), Label: "Mar 2024",
			BaselineStart: schema.NewDate(2024, 2, 1), SentimentChange: &drop,
		},
	}
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun("uuid", "genres", time.Now(), map[string]any{"period": "month"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.EndRun(1, time.Now(), schema.RunStats{TotalGames: 3}))
	assert.NoError(t, store.RecordCallouts(1, sampleCallouts()))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	assert.NoError(t, store.Close())
}

func TestRunStore_SQLiteLifecycle(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("5f0c6d1e-0000-4000-8000-000000000001", "insights", start,
		map[string]any{"period": "month", "limit": 25})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordCallouts(runID, sampleCallouts()))
	require.NoError(t, store.EndRun(runID, start.Add(2*time.Second),
		schema.RunStats{TotalGames: 12, TotalSessions: 40, SkippedRecords: 3}))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "insights", run.Command)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(2000), *run.RunDurationMs)
	assert.Equal(t, int32(40), run.TotalSessions)
	assert.Equal(t, int32(3), run.SkippedRecords)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"period":"month","limit":25}`, *run.ConfigParams)

	callouts, err := store.GetAllCallouts()
	require.NoError(t, err)
	require.Len(t, callouts, 2)
	assert.Equal(t, "spike", callouts[0].CalloutType)
	assert.Equal(t, int32(0), callouts[0].Position)
	assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Equal(callouts[0].PeriodStart))
	assert.Nil(t, callouts[0].SentimentChange)
	require.NotNil(t, callouts[1].SentimentChange)
	assert.InDelta(t, -20.0, *callouts[1].SentimentChange, 1e-9)

	var drivers schema.CalloutDrivers
	require.NoError(t, json.Unmarshal([]byte(callouts[0].Drivers), &drivers))
	require.Len(t, drivers.Titles, 1)
	assert.Equal(t, "Aurora Trails", drivers.Titles[0].Name)
}

func TestRunStore_EndUnknownRun(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndRun(999, time.Now(), schema.RunStats{}))
}

func TestRunStore_Status(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)

	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	var lastID int64
	for i := range 3 {
		id, err := store.BeginRun("uuid", "engagement", first.Add(time.Duration(i)*time.Hour), nil)
		require.NoError(t, err)
		lastID = id
	}
	require.NoError(t, store.RecordCallouts(lastID, sampleCallouts()))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, 2, status.TotalCallouts)
	assert.Equal(t, lastID, status.LastRunID)
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.True(t, first.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.Equal(t, int64(3), status.TableSizes[insightRunsTable])
}

func TestRunStore_RecordNoCallouts(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.NoError(t, store.RecordCallouts(1, nil))
	callouts, err := store.GetAllCallouts()
	require.NoError(t, err)
	assert.Empty(t, callouts)
}
