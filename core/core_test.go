package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/iocache"
	"github.com/huangsam/questlog/internal/library"
	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// writeSnapshot stores the sample snapshot as JSON and returns its path.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, library.Encode(f, sampleSnapshot(), library.JSONFormat))
	return path
}

// fileConfig reads the sample snapshot from disk and writes JSON results to a temp file.
func fileConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		InputFile:      writeSnapshot(t),
		Output:         schema.JSONOut,
		OutputFile:     filepath.Join(t.TempDir(), "out.json"),
		Precision:      contract.DefaultPrecision,
		ResultLimit:    contract.DefaultResultLimit,
		Period:         schema.MonthPeriod,
		Today:          day(2024, 6, 30),
		LibraryBackend: schema.NoneBackend,
	}
}

// noStores returns a manager that has neither a library nor a run store.
func noStores() *iocache.MockStoreManager {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetLibraryStore").Return(nil).Maybe()
	mgr.On("GetRunStore").Return(nil).Maybe()
	return mgr
}

func TestExecutorsWithInputFile(t *testing.T) {
	tests := []struct {
		name string
		exec ExecutorFunc
	}{
		{"genres", ExecuteGenres},
		{"sentiment", ExecuteSentiment},
		{"lifecycle", ExecuteLifecycle},
		{"engagement", ExecuteEngagement},
		{"insights", ExecuteInsights},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := fileConfig(t)
			require.NoError(t, tt.exec(context.Background(), cfg, noStores()))

			data, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.True(t, json.Valid(data), "output should be valid JSON")
		})
	}
}

func TestExecutorsWithoutLibrary(t *testing.T) {
	cfg := fileConfig(t)
	cfg.InputFile = ""

	for _, exec := range []ExecutorFunc{ExecuteGenres, ExecuteSentiment, ExecuteLifecycle, ExecuteEngagement, ExecuteInsights} {
		err := exec(context.Background(), cfg, noStores())
		assert.ErrorIs(t, err, ErrNoLibrary)
	}

	cfg.LibraryBackend = schema.SQLiteBackend
	_, _, err := GetGenreResults(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNoLibrary)

	_, _, err = GetGenreResults(context.Background(), cfg, noStores())
	assert.ErrorIs(t, err, ErrNoLibrary)
}

func TestGetGenreResultsFromLibraryStore(t *testing.T) {
	cfg := fileConfig(t)
	cfg.InputFile = ""
	cfg.LibraryBackend = schema.SQLiteBackend
	cfg.ResultLimit = 2

	lib := &iocache.MockLibraryStore{}
	lib.On("LoadSnapshot").Return(sampleSnapshot(), nil).Once()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetLibraryStore").Return(lib)
	mgr.On("GetRunStore").Return(nil)

	summary, _, err := GetGenreResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, summary.Genres, 2)
	assert.Equal(t, "RPG", summary.Genres[0].Genre)
	lib.AssertExpectations(t)
}

func TestGetResultsLibraryLoadError(t *testing.T) {
	cfg := fileConfig(t)
	cfg.InputFile = ""
	cfg.LibraryBackend = schema.MySQLBackend

	lib := &iocache.MockLibraryStore{}
	lib.On("LoadSnapshot").Return(schema.Snapshot{}, errors.New("connection refused"))
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetLibraryStore").Return(lib)

	_, _, err := GetLifecycleResults(context.Background(), cfg, mgr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load library")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetEngagementResultsTracksRun(t *testing.T) {
	cfg := fileConfig(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "questlog.prom")

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, "engagement", mock.Anything, mock.Anything).Return(int64(7), nil).Once()
	runs.On("RecordCallouts", int64(7), mock.MatchedBy(func(c []schema.Callout) bool {
		return len(c) == 2
	})).Return(nil).Once()
	runs.On("EndRun", int64(7), mock.Anything, schema.RunStats{TotalGames: 4, TotalSessions: 4}).Return(nil).Once()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRunStore").Return(runs)

	summary, _, err := GetEngagementResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, summary.Callouts, 2)
	assert.Equal(t, schema.SpikeCallout, summary.Callouts[0].Type)
	assert.Equal(t, schema.BurnoutCallout, summary.Callouts[1].Type)
	runs.AssertExpectations(t)

	data, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `questlog_run_callouts{command="engagement",type="burnout"} 1`)
	assert.Contains(t, string(data), `questlog_run_games{command="engagement"} 4`)
}

func TestRunTrackingFailureDoesNotStopAnalysis(t *testing.T) {
	cfg := fileConfig(t)

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, "genres", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full"))
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRunStore").Return(runs)

	summary, _, err := GetGenreResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.Genres)
	runs.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetInsightResultsTruncatesGenreLists(t *testing.T) {
	cfg := fileConfig(t)
	cfg.ResultLimit = 1

	report, _, err := GetInsightResults(context.Background(), cfg, noStores())
	require.NoError(t, err)
	assert.Len(t, report.Genres.Genres, 1)
	assert.Len(t, report.Sentiment.Genres, 1)
	assert.NotEmpty(t, report.Engagement.Timeline)
}

func TestGetInsightResultsCancelledEndsRun(t *testing.T) {
	cfg := fileConfig(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "questlog.prom")

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, "insights", mock.Anything, mock.Anything).Return(int64(11), nil).Once()
	runs.On("EndRun", int64(11), mock.Anything, schema.RunStats{TotalGames: 4, TotalSessions: 4}).Return(nil).Once()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRunStore").Return(runs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := GetInsightResults(ctx, cfg, mgr)
	require.ErrorIs(t, err, context.Canceled)
	runs.AssertExpectations(t)
	runs.AssertNotCalled(t, "RecordCallouts", mock.Anything, mock.Anything)
	assert.NoFileExists(t, cfg.MetricsFile)
}

func TestMalformedRecordsCountAsSkipped(t *testing.T) {
	cfg := fileConfig(t)
	bad := `{"games":[{"id":1,"title":"Aurora Trails","status":"playing","genres":["RPG"]},
		{"id":2,"title":"Grid Tactics","elo_rating":"high"},{"id":3,"title":""}],
		"sessions":[{"id":1,"game_id":1,"session_date":"2024-01-02","playtime_minutes":"lots"}]}`
	require.NoError(t, os.WriteFile(cfg.InputFile, []byte(bad), 0o644))

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, "genres", mock.Anything, mock.Anything).Return(int64(5), nil)
	runs.On("EndRun", int64(5), mock.Anything, schema.RunStats{TotalGames: 1, SkippedRecords: 3}).Return(nil).Once()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRunStore").Return(runs)

	summary, _, err := GetGenreResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, summary.Genres, 1)
	assert.Equal(t, "RPG", summary.Genres[0].Genre)
	assert.Equal(t, 3, summary.DataQuality[schema.SkipInvalidRecord])
	runs.AssertExpectations(t)
}

func TestScreenedRecordsCountAsSkipped(t *testing.T) {
	cfg := fileConfig(t)
	bad := `{"games":[{"id":1,"title":"Aurora Trails","status":"playing","genres":["RPG"]},{"id":2,"title":""}],"sessions":[]}`
	require.NoError(t, os.WriteFile(cfg.InputFile, []byte(bad), 0o644))

	runs := &iocache.MockRunStore{}
	runs.On("BeginRun", mock.Anything, "genres", mock.Anything, mock.Anything).Return(int64(3), nil)
	runs.On("EndRun", int64(3), mock.Anything, schema.RunStats{TotalGames: 1, SkippedRecords: 1}).Return(nil).Once()
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRunStore").Return(runs)

	summary, _, err := GetGenreResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.DataQuality.Total())
	runs.AssertExpectations(t)
}

func TestExecuteThresholds(t *testing.T) {
	cfg := &contract.Config{
		Output:           schema.JSONOut,
		OutputFile:       filepath.Join(t.TempDir(), "thresholds.json"),
		Precision:        contract.DefaultPrecision,
		Thresholds:       schema.DefaultThresholds(),
		SentimentWeights: schema.DefaultSentimentWeights(),
	}
	require.NoError(t, ExecuteThresholds(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "spike_percent")
}

func TestTruncate(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, truncate(items, 2))
	assert.Equal(t, items, truncate(items, 0))
	assert.Equal(t, items, truncate(items, 5))
}
