package core

import (
	"fmt"
	"testing"

	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fuzzTolerance = 1e-9

// fuzzGenres mixes spellings so case-insensitive merging is exercised.
var fuzzGenres = []string{"RPG", "rpg", "Adventure", "Strategy", " Racing ", "Puzzle", ""}

// fuzzSentiments includes values that never score.
var fuzzSentiments = []string{"good", "mediocre", "bad", "73", "nan", "", "meh"}

var fuzzPeriods = []schema.Period{schema.DayPeriod, schema.WeekPeriod, schema.MonthPeriod}

// gamesFromBytes builds one game per byte: the low bits pick the status and the
// high bits pick up to three genre tags.
func gamesFromBytes(data []byte) []schema.Game {
	statuses := schema.AllStatuses()
	games := make([]schema.Game, 0, len(data))
	for i, b := range data {
		g := game(int64(i+1), fmt.Sprintf("Game %d", i), string(statuses[int(b)%len(statuses)]))
		for k := range 3 {
			if b&(1<<(k+5)) != 0 {
				g.Genres = append(g.Genres, fuzzGenres[(int(b)+k*3)%len(fuzzGenres)])
			}
		}
		if b%3 == 0 {
			g.EloRating = f64(1200 + float64(b))
		}
		games = append(games, g)
	}
	return games
}

// sessionsFromBytes builds one session per three bytes: day offset, minutes and sentiment.
func sessionsFromBytes(data []byte) []schema.Session {
	origin := day(2023, 12, 25)
	var sessions []schema.Session
	for i := 0; i+2 < len(data); i += 3 {
		gameID := int64(data[i+2]%5) + 1
		sessions = append(sessions, session(gameID, fmt.Sprintf("Game %d", gameID-1),
			schema.DateOf(origin.AddDate(0, 0, int(data[i])*2)),
			float64(int(data[i+1])-20),
			fuzzSentiments[int(data[i+2])%len(fuzzSentiments)]))
	}
	return sessions
}

func assertAscending(t *testing.T, values ...*float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		require.NotNil(t, values[i-1])
		require.NotNil(t, values[i])
		assert.LessOrEqual(t, *values[i-1], *values[i]+fuzzTolerance, "position %d", i)
	}
}

// FuzzDescribe fuzzes describe with random duration samples.
func FuzzDescribe(f *testing.F) {
	seeds := [][]byte{
		{1, 2, 3},
		{0, 0, 0},
		{100},
		{}, // edge case
		{255, 0, 128, 7, 7, 7, 1},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		values := make([]float64, len(data))
		for i, b := range data {
			values[i] = float64(int8(b))
		}
		stats := describe(values)
		assert.Equal(t, len(data), stats.Count)
		if len(data) == 0 {
			assert.Nil(t, stats.Mean)
			assert.Nil(t, stats.Median)
			return
		}
		p := stats.Percentiles
		assertAscending(t, stats.Min, p.P10, p.P25, stats.Median, p.P75, p.P90, stats.Max)
		assertAscending(t, stats.Min, stats.Mean, stats.Max)
	})
}

// FuzzAggregateGenres fuzzes AggregateGenres with random libraries and checks that
// weight is conserved and shares normalize within each scope.
func FuzzAggregateGenres(f *testing.F) {
	seeds := [][]byte{
		{0xE0, 0x21, 0x42, 0x63},
		{0xFF, 0xFF, 0xFF},
		{0x01, 0x02}, // untagged games
		{},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		games := gamesFromBytes(data)
		opts := testOptions()
		summary := AggregateGenres(games, opts)

		expected := 0.0
		untagged := 0
		for _, g := range games {
			n := len(g.NormalizedGenres())
			expected += float64(n)
			if n == 0 {
				untagged++
			}
		}
		assert.Equal(t, untagged, summary.DataQuality[schema.SkipNoGenres])

		var entryWeight, bucketWeight, groupWeight, totalShare float64
		statusShare := make(map[schema.Status]float64)
		for _, entry := range summary.Genres {
			entryWeight += entry.Total.Weight
			totalShare += entry.Total.Share

			inBuckets := 0.0
			for status, stats := range entry.Buckets {
				inBuckets += stats.Weight
				statusShare[status] += stats.Share
			}
			assert.InDelta(t, entry.Total.Weight, inBuckets, fuzzTolerance, entry.Genre)

			if entry.Dominant != schema.BalancedDominance {
				dominant := entry.Buckets[schema.Status(entry.Dominant)]
				assert.Greater(t, dominant.Weight/entry.Total.Weight, opts.Thresholds.Dominance, entry.Genre)
			} else {
				for _, stats := range entry.Buckets {
					assert.LessOrEqual(t, stats.Weight/entry.Total.Weight, opts.Thresholds.Dominance, entry.Genre)
				}
			}
		}
		for _, bt := range summary.Buckets {
			bucketWeight += bt.TotalWeight
		}
		for _, gt := range summary.Groups {
			groupWeight += gt.TotalWeight
		}
		assert.InDelta(t, expected, entryWeight, fuzzTolerance)
		assert.InDelta(t, expected, bucketWeight, fuzzTolerance)
		assert.InDelta(t, expected, groupWeight, fuzzTolerance)

		if expected > 0 {
			assert.InDelta(t, 1.0, totalShare, 1e-6)
		}
		for status, share := range statusShare {
			if summary.Buckets[status].TotalWeight > 0 {
				assert.InDelta(t, 1.0, share, 1e-6, status)
			} else {
				assert.Zero(t, share, status)
			}
		}

		for i := 1; i < len(summary.Genres); i++ {
			assert.GreaterOrEqual(t, summary.Genres[i-1].Total.Weight, summary.Genres[i].Total.Weight)
		}
	})
}

// FuzzBuildEngagement fuzzes BuildEngagement with random session logs and checks
// that the timeline is continuous and conserves minutes for every period size.
func FuzzBuildEngagement(f *testing.F) {
	seeds := []struct {
		data   []byte
		period uint8
	}{
		{[]byte{0, 120, 0, 10, 200, 1, 40, 80, 2}, 0},
		{[]byte{3, 0, 4, 3, 10, 5, 200, 255, 6}, 1},
		{[]byte{255, 255, 255, 0, 21, 0}, 2},
		{[]byte{}, 2}, // edge case
	}
	for _, seed := range seeds {
		f.Add(seed.data, seed.period)
	}
	games := gamesFromBytes([]byte{0xE0, 0x21, 0x42, 0x63, 0xA4})

	f.Fuzz(func(t *testing.T, data []byte, period uint8) {
		sessions := sessionsFromBytes(data)
		opts := testOptions()
		opts.Period = fuzzPeriods[int(period)%len(fuzzPeriods)]
		summary := BuildEngagement(games, sessions, opts)

		var minutes float64
		valid := 0
		for _, s := range sessions {
			if s.PlaytimeMinutes > 0 {
				minutes += s.PlaytimeMinutes
				valid++
			}
		}
		assert.Equal(t, len(sessions)-valid, summary.DataQuality[schema.SkipNonPositiveTime])
		if valid == 0 {
			assert.Empty(t, summary.Timeline)
			assert.Empty(t, summary.Callouts)
			return
		}

		require.NotEmpty(t, summary.Timeline)
		assert.Equal(t, summary.RangeStart, summary.Timeline[0].PeriodStart)
		last := summary.Timeline[len(summary.Timeline)-1].PeriodStart
		assert.False(t, last.After(summary.RangeEnd.Time))
		assert.True(t, nextPeriod(last, opts.Period).After(summary.RangeEnd.Time))

		starts := make(map[string]int, len(summary.Timeline))
		var timelineMinutes float64
		sessionCount := 0
		for i, p := range summary.Timeline {
			starts[p.PeriodStart.String()] = i
			assert.Equal(t, periodStart(p.PeriodStart, opts.Period), p.PeriodStart)
			if i > 0 {
				assert.Equal(t, nextPeriod(summary.Timeline[i-1].PeriodStart, opts.Period), p.PeriodStart)
			}
			timelineMinutes += p.TotalMinutes
			sessionCount += p.SessionCount
			if p.AverageSentiment != nil {
				assert.GreaterOrEqual(t, *p.AverageSentiment, 0.0)
				assert.LessOrEqual(t, *p.AverageSentiment, 100.0)
			}
		}
		assert.InDelta(t, minutes, timelineMinutes, 1e-6)
		assert.Equal(t, valid, sessionCount)

		for _, c := range summary.Callouts {
			cur, ok := starts[c.PeriodStart.String()]
			require.True(t, ok, "callout period %s is on the timeline", c.PeriodStart)
			base, ok := starts[c.BaselineStart.String()]
			require.True(t, ok, "baseline %s is on the timeline", c.BaselineStart)
			assert.Less(t, base, cur)
		}
	})
}
