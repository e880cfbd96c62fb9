package schema

// InterestScore is the pre-play hype side of a genre.
type InterestScore struct {
	InterestScore *float64 `json:"interest_score"` // 0-100, nil when no qualifying rated game
	AverageElo    *float64 `json:"average_elo"`
	Count         int      `json:"count"`
}

// SentimentStats is playtime-weighted enjoyment for one scope.
type SentimentStats struct {
	WeightedSentiment    *float64 `json:"weighted_sentiment"` // nil when no scored session
	TotalPlaytimeMinutes float64  `json:"total_playtime_minutes"`
	SessionCount         int      `json:"session_count"`
}

// GenreSentiment combines enjoyment with its per-status breakdown.
type GenreSentiment struct {
	SentimentStats
	Statuses map[Status]SentimentStats `json:"statuses"`
}

// GenreInterestSentiment is one genre's hype versus enjoyment pair.
type GenreInterestSentiment struct {
	Genre     string         `json:"genre"`
	Interest  InterestScore  `json:"interest"`
	Sentiment GenreSentiment `json:"sentiment"`
}

// Gap returns interest minus enjoyment, or nil when either side is undefined.
func (g GenreInterestSentiment) Gap() *float64 {
	if g.Interest.InterestScore == nil || g.Sentiment.WeightedSentiment == nil {
		return nil
	}
	v := *g.Interest.InterestScore - *g.Sentiment.WeightedSentiment
	return &v
}

// SentimentSummary is the externally consumed hype/enjoyment comparison.
type SentimentSummary struct {
	Genres      []GenreInterestSentiment `json:"genres"`
	DataQuality DataQuality              `json:"data_quality"`
}
