package core

import (
	"context"
	"testing"

	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsights(t *testing.T) {
	snap := sampleSnapshot()
	opts := testOptions()

	report, err := BuildInsights(context.Background(), snap, opts)
	require.NoError(t, err)

	assert.Equal(t, AggregateGenres(snap.Games, opts), report.Genres)
	assert.Equal(t, AggregateSentiment(snap.Games, snap.Sessions, opts), report.Sentiment)
	assert.Equal(t, AnalyzeLifecycle(snap.Games, opts), report.Lifecycle)
	assert.Equal(t, BuildEngagement(snap.Games, snap.Sessions, opts), report.Engagement)
	assert.Equal(t, 0, report.SkippedRecords())
}

func TestBuildInsightsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := BuildInsights(ctx, sampleSnapshot(), testOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Genres.Genres)
}

func TestBuildInsightsSkippedRecords(t *testing.T) {
	snap := schema.Snapshot{
		Games:    []schema.Game{game(1, "Untagged", "backlog")},
		Sessions: []schema.Session{session(0, "Ghost", day(2024, 1, 1), 0, "good")},
	}
	report, err := BuildInsights(context.Background(), snap, testOptions())
	require.NoError(t, err)
	want := report.Genres.DataQuality.Total() +
		report.Sentiment.DataQuality.Total() +
		report.Lifecycle.DataQuality.Total() +
		report.Engagement.DataQuality.Total()
	assert.Positive(t, report.Genres.DataQuality.Total())
	assert.Positive(t, report.Engagement.DataQuality.Total())
	assert.Equal(t, want, report.SkippedRecords())
}

func TestBuildInsightsDoesNotMutateInput(t *testing.T) {
	snap := sampleSnapshot()
	before := sampleSnapshot()
	_, err := BuildInsights(context.Background(), snap, testOptions())
	require.NoError(t, err)
	assert.Equal(t, before, snap)
}
