package core

import (
	"math"
	"testing"

	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	tests := []struct {
		name string
		p    float64
		want float64
	}{
		{"min", 0, 10},
		{"p25", 0.25, 17.5},
		{"median", 0.5, 25},
		{"p90", 0.9, 37},
		{"max", 1, 40},
		{"above one clamps", 1.5, 40},
		{"below zero clamps", -1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := percentile(values, tt.p)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}

	assert.Nil(t, percentile(nil, 0.5))
	single := percentile([]float64{7}, 0.9)
	require.NotNil(t, single)
	assert.Equal(t, 7.0, *single)
}

func TestMean(t *testing.T) {
	assert.Nil(t, mean(nil))
	got := mean([]float64{1, 2, 6})
	require.NotNil(t, got)
	assert.InDelta(t, 3.0, *got, 1e-9)
}

func TestIsFinite(t *testing.T) {
	assert.True(t, isFinite(1.5))
	assert.False(t, isFinite(math.NaN()))
	assert.False(t, isFinite(math.Inf(1)))
	assert.False(t, isFinite(math.Inf(-1)))
}

func TestSentimentAcc(t *testing.T) {
	var acc sentimentAcc
	assert.Nil(t, acc.average())

	acc.add(30, 100, true)
	acc.add(90, 0, true)
	acc.add(60, 0, false)

	stats := acc.stats()
	assert.Equal(t, 180.0, stats.TotalPlaytimeMinutes)
	assert.Equal(t, 3, stats.SessionCount)
	require.NotNil(t, stats.WeightedSentiment)
	assert.InDelta(t, 25.0, *stats.WeightedSentiment, 1e-9)
}

func TestGameIndex(t *testing.T) {
	games := []schema.Game{
		game(7, "Hollow Peaks", "playing", "Metroidvania", "Action"),
		game(0, "Untracked Id", "backlog", "action"),
		game(7, "Duplicate Id", "backlog", "Puzzle"),
	}
	idx := newGameIndex(games)

	t.Run("resolve", func(t *testing.T) {
		tests := []struct {
			name    string
			session schema.Session
			want    int
		}{
			{"by id", schema.Session{GameID: 7}, 0},
			{"by title", schema.Session{GameTitle: "  hollow PEAKS "}, 0},
			{"id miss falls back to title", schema.Session{GameID: 42, GameTitle: "Untracked Id"}, 1},
			{"unmatched", schema.Session{GameID: 42, GameTitle: "Nope"}, -1},
			{"empty", schema.Session{}, -1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, idx.resolve(tt.session))
			})
		}
	})

	t.Run("genres keep the first spelling", func(t *testing.T) {
		assert.Equal(t, []string{"Metroidvania", "Action"}, idx.genresOf(0))
		assert.Equal(t, []string{"Action"}, idx.genresOf(1))
	})
}
