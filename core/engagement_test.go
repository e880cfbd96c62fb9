package core

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calloutTypes(callouts []schema.Callout) []schema.CalloutType {
	out := make([]schema.CalloutType, len(callouts))
	for i, c := range callouts {
		out[i] = c.Type
	}
	return out
}

func driverNames(drivers []schema.Driver) []string {
	out := make([]string, len(drivers))
	for i, d := range drivers {
		out[i] = d.Name
	}
	return out
}

func TestBuildEngagement(t *testing.T) {
	snap := sampleSnapshot()
	summary := BuildEngagement(snap.Games, snap.Sessions, testOptions())

	assert.Equal(t, schema.MonthPeriod, summary.Period)
	assert.Equal(t, day(2024, 1, 1), summary.RangeStart)
	assert.Equal(t, day(2024, 2, 12), summary.RangeEnd)
	require.Len(t, summary.Timeline, 2)

	jan := summary.Timeline[0]
	assert.Equal(t, "Jan 2024", jan.Label)
	assert.Equal(t, 180.0, jan.TotalMinutes)
	assert.Equal(t, 2, jan.ActiveTitles)
	assert.Equal(t, 2, jan.SessionCount)
	require.NotNil(t, jan.AverageSentiment)
	assert.InDelta(t, 100.0, *jan.AverageSentiment, 1e-9)
	require.Len(t, jan.TopTitles, 2)
	assert.Equal(t, "Aurora Trails", jan.TopTitles[0].Title)
	assert.Equal(t, int64(1), jan.TopTitles[0].GameID)
	assert.InDelta(t, 120.0/180.0, jan.TopTitles[0].Share, 1e-9)
	require.Len(t, jan.TopGenres, 3)
	assert.Equal(t, "Racing", jan.TopGenres[2].Genre)

	feb := summary.Timeline[1]
	assert.Equal(t, 360.0, feb.TotalMinutes)
	assert.Equal(t, 2, feb.ActiveTitles, "id and title sessions of one game count once")

	require.Equal(t, []schema.CalloutType{schema.SpikeCallout, schema.BurnoutCallout}, calloutTypes(summary.Callouts))
	spike := summary.Callouts[0]
	assert.Equal(t, "Feb 2024", spike.Label)
	assert.Equal(t, day(2024, 1, 1), spike.BaselineStart)
	assert.InDelta(t, 1.0, spike.PercentChange, 1e-9)
	assert.Equal(t, 180.0, spike.ChangeMinutes)
	assert.Nil(t, spike.SentimentChange)
	assert.Equal(t, []string{"Aurora Trails"}, driverNames(spike.Drivers.Titles))
	assert.Equal(t, []string{"Adventure", "RPG"}, driverNames(spike.Drivers.Genres))

	burnout := summary.Callouts[1]
	require.NotNil(t, burnout.SentimentChange)
	assert.InDelta(t, -50.0, *burnout.SentimentChange, 1e-9)
}

func TestBuildEngagementCallouts(t *testing.T) {
	g := game(1, "Loop", "playing", "Arcade")
	tests := []struct {
		name     string
		sessions []schema.Session
		want     []schema.CalloutType
	}{
		{
			name: "dip",
			sessions: []schema.Session{
				session(1, "Loop", day(2024, 1, 1), 300, "good"),
				session(1, "Loop", day(2024, 2, 1), 100, "good"),
			},
			want: []schema.CalloutType{schema.DipCallout},
		},
		{
			name: "below the noise floor",
			sessions: []schema.Session{
				session(1, "Loop", day(2024, 1, 1), 60, "good"),
				session(1, "Loop", day(2024, 2, 1), 100, "good"),
			},
			want: []schema.CalloutType{},
		},
		{
			name: "burnout needs flat or rising minutes",
			sessions: []schema.Session{
				session(1, "Loop", day(2024, 1, 1), 200, "good"),
				session(1, "Loop", day(2024, 2, 1), 190, "bad"),
			},
			want: []schema.CalloutType{},
		},
		{
			name: "burnout with flat minutes",
			sessions: []schema.Session{
				session(1, "Loop", day(2024, 1, 1), 200, "good"),
				session(1, "Loop", day(2024, 2, 1), 200, "mediocre"),
			},
			want: []schema.CalloutType{schema.BurnoutCallout},
		},
		{
			name: "drop to zero is reported once",
			sessions: []schema.Session{
				session(1, "Loop", day(2024, 1, 1), 200, "good"),
				session(1, "Loop", day(2024, 4, 1), 200, "good"),
			},
			want: []schema.CalloutType{schema.DipCallout},
		},
		{
			name: "return after a gap compares with the last active period",
			sessions: []schema.Session{
				session(1, "Loop", day(2024, 1, 1), 100, "good"),
				session(1, "Loop", day(2024, 3, 1), 400, "good"),
			},
			want: []schema.CalloutType{schema.DipCallout, schema.SpikeCallout},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := BuildEngagement([]schema.Game{g}, tt.sessions, testOptions())
			assert.Equal(t, tt.want, calloutTypes(summary.Callouts))
		})
	}
}

func TestBuildEngagementDipDrivers(t *testing.T) {
	games := []schema.Game{game(1, "Alpha", "playing", "RPG"), game(2, "Beta", "playing", "Puzzle")}
	sessions := []schema.Session{
		session(1, "Alpha", day(2024, 1, 3), 300, "good"),
		session(2, "Beta", day(2024, 1, 4), 100, "good"),
		session(2, "Beta", day(2024, 2, 4), 120, "good"),
	}
	summary := BuildEngagement(games, sessions, testOptions())
	require.Len(t, summary.Callouts, 1)
	dip := summary.Callouts[0]
	assert.Equal(t, schema.DipCallout, dip.Type)
	require.Len(t, dip.Drivers.Titles, 1)
	assert.Equal(t, "Alpha", dip.Drivers.Titles[0].Name)
	assert.Equal(t, -300.0, dip.Drivers.Titles[0].DeltaMinutes)
	assert.Equal(t, 0.0, dip.Drivers.Titles[0].CurrentMinutes)
	assert.Equal(t, []string{"RPG"}, driverNames(dip.Drivers.Genres))
}

func TestBuildEngagementFilters(t *testing.T) {
	snap := sampleSnapshot()
	opts := testOptions()
	opts.Start = day(2024, 2, 1)
	opts.End = day(2024, 3, 31)

	summary := BuildEngagement(snap.Games, snap.Sessions, opts)
	assert.Equal(t, 2, summary.DataQuality[schema.SkipOutOfRange])
	assert.Equal(t, day(2024, 2, 1), summary.RangeStart)
	assert.Equal(t, day(2024, 3, 31), summary.RangeEnd)
	require.Len(t, summary.Timeline, 2)
	assert.Equal(t, 0.0, summary.Timeline[1].TotalMinutes)
	assert.Nil(t, summary.Timeline[1].AverageSentiment)
	assert.Equal(t, []schema.CalloutType{schema.DipCallout}, calloutTypes(summary.Callouts))
}

func TestBuildEngagementTopTitlesRollup(t *testing.T) {
	opts := testOptions()
	opts.Thresholds.TopTitles = 2
	sessions := []schema.Session{
		session(0, "First", day(2024, 1, 1), 50, "good"),
		session(0, "Second", day(2024, 1, 2), 30, "good"),
		session(0, "Third", day(2024, 1, 3), 20, "good"),
	}
	summary := BuildEngagement(nil, sessions, opts)
	require.Len(t, summary.Timeline, 1)
	titles := summary.Timeline[0].TopTitles
	require.Len(t, titles, 3)
	assert.Equal(t, "First", titles[0].Title)
	assert.Equal(t, schema.OtherTitlesLabel, titles[2].Title)
	assert.Equal(t, 1, titles[2].OtherCount)
	assert.Equal(t, 20.0, titles[2].Minutes)
	assert.InDelta(t, 0.2, titles[2].Share, 1e-9)
	assert.Empty(t, summary.Timeline[0].TopGenres, "unlinked sessions carry no genre minutes")
}

func TestBuildEngagementWeekly(t *testing.T) {
	opts := testOptions()
	opts.Period = schema.WeekPeriod
	sessions := []schema.Session{
		session(0, "Solo", day(2024, 1, 3), 30, "good"),
		session(0, "Solo", day(2024, 1, 16), 30, "good"),
	}
	summary := BuildEngagement(nil, sessions, opts)
	require.Len(t, summary.Timeline, 3)
	assert.Equal(t, "Week of Jan 01, 2024", summary.Timeline[0].Label)
	assert.Equal(t, "Week of Jan 15, 2024", summary.Timeline[2].Label)
}

func TestBuildEngagementExclusions(t *testing.T) {
	sessions := []schema.Session{
		session(0, "Solo", day(2024, 1, 3), 0, "good"),
		session(0, "Solo", schema.Date{}, 30, "good"),
		session(0, "Solo", day(2024, 1, 4), 30, "???"),
	}
	summary := BuildEngagement(nil, sessions, testOptions())
	assert.Equal(t, 1, summary.DataQuality[schema.SkipNonPositiveTime])
	assert.Equal(t, 1, summary.DataQuality[schema.SkipMissingDate])
	assert.Equal(t, 1, summary.DataQuality[schema.SkipUnscoredSentiment])
	require.Len(t, summary.Timeline, 1)
	assert.Nil(t, summary.Timeline[0].AverageSentiment)
	assert.Equal(t, 30.0, summary.Timeline[0].TotalMinutes)
}

func TestBuildEngagementIgnoresNaNSentiment(t *testing.T) {
	sessions := []schema.Session{
		session(0, "Solo", day(2024, 1, 3), 60, "good"),
		session(0, "Solo", day(2024, 1, 4), 60, "nan"),
		session(0, "Solo", day(2024, 2, 4), 60, "NaN"),
	}
	summary := BuildEngagement(nil, sessions, testOptions())
	assert.Equal(t, 2, summary.DataQuality[schema.SkipUnscoredSentiment])
	require.Len(t, summary.Timeline, 2)
	require.NotNil(t, summary.Timeline[0].AverageSentiment)
	assert.InDelta(t, 100.0, *summary.Timeline[0].AverageSentiment, 1e-9)
	assert.Nil(t, summary.Timeline[1].AverageSentiment)

	_, err := json.Marshal(summary)
	assert.NoError(t, err)
}

func TestBuildEngagementEmpty(t *testing.T) {
	summary := BuildEngagement(nil, nil, testOptions())
	assert.NotNil(t, summary.Timeline)
	assert.Empty(t, summary.Timeline)
	assert.NotNil(t, summary.Callouts)
	assert.Empty(t, summary.Callouts)
	assert.True(t, summary.RangeStart.IsZero())
}

func TestBuildEngagementIsDeterministic(t *testing.T) {
	snap := sampleSnapshot()
	first := BuildEngagement(snap.Games, snap.Sessions, testOptions())
	for range 5 {
		assert.Equal(t, first, BuildEngagement(snap.Games, snap.Sessions, testOptions()))
	}
}
