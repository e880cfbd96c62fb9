package outwriter

import (
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

func f64(v float64) *float64 { return &v }

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:           output,
		Precision:        1,
		Width:            120,
		Thresholds:       schema.DefaultThresholds(),
		SentimentWeights: schema.DefaultSentimentWeights(),
	}
}

func sampleGenreSummary() schema.GenreSummary {
	metadata := make(map[schema.Status]schema.StatusDefinition)
	for _, def := range schema.StatusDefinitions() {
		metadata[def.Value] = def
	}
	return schema.GenreSummary{
		Genres: []schema.GenreAggregateEntry{
			{
				Genre:    "RPG",
				Total:    schema.GenreStats{Weight: 3, Count: 3, AverageElo: f64(1510), Share: 0.6},
				Buckets:  map[schema.Status]schema.GenreStats{schema.PlayingStatus: {Weight: 2, Count: 2, Share: 1}},
				Dominant: string(schema.PlayingStatus),
			},
			{
				Genre:    "Puzzle",
				Total:    schema.GenreStats{Weight: 2, Count: 2, Share: 0.4},
				Buckets:  map[schema.Status]schema.GenreStats{},
				Dominant: schema.BalancedDominance,
			},
		},
		BucketMetadata: metadata,
		BucketOrder:    schema.AllStatuses(),
		Buckets:        map[schema.Status]schema.BucketTotals{schema.PlayingStatus: {TotalGames: 2, TotalWeight: 2}},
		Groups:         map[schema.Group]schema.BucketTotals{schema.OwnedGroup: {TotalGames: 4}, schema.WishlistGroup: {TotalGames: 1}},
		DataQuality:    schema.DataQuality{schema.SkipNoGenres: 1},
	}
}

func sampleSentimentSummary() schema.SentimentSummary {
	return schema.SentimentSummary{
		Genres: []schema.GenreInterestSentiment{
			{
				Genre:    "Strategy",
				Interest: schema.InterestScore{InterestScore: f64(90), AverageElo: f64(1600), Count: 2},
				Sentiment: schema.GenreSentiment{SentimentStats: schema.SentimentStats{
					WeightedSentiment: f64(55), TotalPlaytimeMinutes: 180, SessionCount: 3,
				}},
			},
			{Genre: "Horror"},
		},
		DataQuality: schema.DataQuality{},
	}
}

func sampleLifecycleSummary() schema.LifecycleSummary {
	return schema.LifecycleSummary{
		PurchaseToStart: schema.LifecycleStage{
			Statistics: schema.LifecycleStageStats{Count: 2, Mean: f64(15), Median: f64(15), Min: f64(10), Max: f64(20)},
			LongestExamples: []schema.DurationSample{
				{GameID: 1, Title: "Aurora Trails", Days: 20, From: schema.NewDate(2024, 1, 1), To: schema.NewDate(2024, 1, 21)},
			},
		},
		StartToFinish: schema.LifecycleStage{Skipped: 1},
		AgingBacklog: []schema.AgingItem{
			{GameID: 2, Title: "Nebula Drift", Status: schema.BacklogStatus, Anchor: schema.NewDate(2023, 6, 1), DaysWaiting: 300, RawDays: 300},
		},
		Today:       schema.NewDate(2024, 3, 27),
		DataQuality: schema.DataQuality{schema.SkipInvertedDates: 1},
	}
}

func sampleEngagementSummary() schema.EngagementSummary {
	return schema.EngagementSummary{
		Period:     schema.MonthPeriod,
		RangeStart: schema.NewDate(2024, 1, 1),
		RangeEnd:   schema.NewDate(2024, 2, 1),
		Timeline: []schema.EngagementPeriod{
			{
				PeriodStart: schema.NewDate(2024, 1, 1), Label: "Jan 2024", TotalMinutes: 120,
				AverageSentiment: f64(80), ActiveTitles: 1, SessionCount: 2,
				TopTitles: []schema.TitleShare{{Title: "Aurora Trails", GameID: 1, Minutes: 120, Share: 1}},
				TopGenres: []schema.GenreShare{{Genre: "RPG", Minutes: 120, Share: 1}},
			},
			{
				PeriodStart: schema.NewDate(2024, 2, 1), Label: "Feb 2024", TotalMinutes: 360,
				AverageSentiment: f64(50), ActiveTitles: 1, SessionCount: 3,
				TopTitles: []schema.TitleShare{{Title: "Aurora Trails", GameID: 1, Minutes: 360, Share: 1}},
				TopGenres: []schema.GenreShare{{Genre: "RPG", Minutes: 360, Share: 1}},
			},
		},
		Callouts: []schema.Callout{
			{
				Type: schema.SpikeCallout, PeriodStart: schema.NewDate(2024, 2, 1), Label: "Feb 2024",
				BaselineStart: schema.NewDate(2024, 1, 1), PercentChange: 2, ChangeMinutes: 240,
				Drivers: schema.CalloutDrivers{
					Titles: []schema.Driver{{Name: "Aurora Trails", GameID: 1, DeltaMinutes: 240, CurrentMinutes: 360, PreviousMinutes: 120}},
					Genres: []schema.Driver{{Name: "RPG", DeltaMinutes: 240, CurrentMinutes: 360, PreviousMinutes: 120}},
				},
			},
			{
				Type: schema.BurnoutCallout, PeriodStart: schema.NewDate(2024, 2, 1), Label: "Feb 2024",
				BaselineStart: schema.NewDate(2024, 1, 1), PercentChange: 2, ChangeMinutes: 240,
				SentimentChange: f64(-30),
			},
		},
		DataQuality: schema.DataQuality{},
	}
}

func sampleInsightReport() schema.InsightReport {
	return schema.InsightReport{
		Genres:     sampleGenreSummary(),
		Sentiment:  sampleSentimentSummary(),
		Lifecycle:  sampleLifecycleSummary(),
		Engagement: sampleEngagementSummary(),
	}
}
