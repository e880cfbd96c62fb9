package core

import (
	"testing"

	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateGenres(t *testing.T) {
	summary := AggregateGenres(sampleSnapshot().Games, testOptions())

	require.Len(t, summary.Genres, 4)
	names := make([]string, len(summary.Genres))
	for i, g := range summary.Genres {
		names[i] = g.Genre
	}
	assert.Equal(t, []string{"RPG", "Adventure", "Racing", "Strategy"}, names)

	rpg := summary.Genres[0]
	assert.Equal(t, 2.0, rpg.Total.Weight)
	assert.Equal(t, 2, rpg.Total.Count)
	assert.InDelta(t, 0.4, rpg.Total.Share, 1e-9)
	require.NotNil(t, rpg.Total.AverageElo)
	assert.InDelta(t, 1550, *rpg.Total.AverageElo, 1e-9)
	assert.Equal(t, 1.0, rpg.Buckets[schema.PlayingStatus].Weight)
	assert.Equal(t, 1.0, rpg.Buckets[schema.BacklogStatus].Weight)
	assert.Equal(t, schema.BalancedDominance, rpg.Dominant)

	racing := summary.Genres[2]
	assert.Nil(t, racing.Total.AverageElo, "unrated games leave the average undefined")
	assert.Equal(t, string(schema.StoryClearStatus), racing.Dominant)

	assert.Equal(t, 4.0, summary.Groups[schema.OwnedGroup].TotalWeight)
	assert.Equal(t, 3, summary.Groups[schema.OwnedGroup].TotalGames)
	assert.Equal(t, 1, summary.Groups[schema.WishlistGroup].TotalGames)
	assert.Len(t, summary.BucketOrder, len(schema.AllStatuses()))
	assert.Empty(t, summary.DataQuality)
}

func TestAggregateGenresSharesSumToOne(t *testing.T) {
	summary := AggregateGenres(sampleSnapshot().Games, testOptions())
	total := 0.0
	for _, g := range summary.Genres {
		total += g.Total.Share
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestAggregateGenresMergesCase(t *testing.T) {
	games := []schema.Game{
		game(1, "A", "backlog", "Roguelike"),
		game(2, "B", "backlog", " roguelike ", "ROGUELIKE"),
	}
	summary := AggregateGenres(games, testOptions())
	require.Len(t, summary.Genres, 1)
	assert.Equal(t, "Roguelike", summary.Genres[0].Genre)
	assert.Equal(t, 2.0, summary.Genres[0].Total.Weight)
	assert.Equal(t, string(schema.BacklogStatus), summary.Genres[0].Dominant)
}

func TestAggregateGenresDominance(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"all backlog", []string{"backlog", "backlog"}, string(schema.BacklogStatus)},
		{"even split", []string{"backlog", "playing"}, schema.BalancedDominance},
		{"exactly at threshold is balanced", []string{"backlog", "backlog", "backlog", "playing", "dropped"}, schema.BalancedDominance},
		{"above threshold", []string{"dropped", "dropped", "dropped", "playing"}, string(schema.DroppedStatus)},
		{"unknown status falls back to backlog", []string{"mystery"}, string(schema.BacklogStatus)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := make([]schema.Game, len(tt.statuses))
			for i, s := range tt.statuses {
				games[i] = game(int64(i+1), "G", s, "Puzzle")
			}
			summary := AggregateGenres(games, testOptions())
			require.Len(t, summary.Genres, 1)
			assert.Equal(t, tt.want, summary.Genres[0].Dominant)
		})
	}
}

func TestAggregateGenresNoGenres(t *testing.T) {
	games := []schema.Game{game(1, "Untagged", "backlog"), game(2, "Blank", "backlog", "  ")}
	summary := AggregateGenres(games, testOptions())
	assert.Empty(t, summary.Genres)
	assert.Equal(t, 2, summary.DataQuality[schema.SkipNoGenres])
	assert.Equal(t, 2, summary.Buckets[schema.BacklogStatus].TotalGames)
	assert.Equal(t, 0.0, summary.Buckets[schema.BacklogStatus].TotalWeight)
}

func TestAggregateGenresEmpty(t *testing.T) {
	summary := AggregateGenres(nil, testOptions())
	assert.Empty(t, summary.Genres)
	assert.Len(t, summary.BucketMetadata, len(schema.AllStatuses()))
	for _, status := range schema.AllStatuses() {
		_, ok := summary.Buckets[status]
		assert.True(t, ok, "bucket %s should be present", status)
	}
}
