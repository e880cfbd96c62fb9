package schema

// InsightReport bundles the four summaries produced from one snapshot.
type InsightReport struct {
	Genres     GenreSummary      `json:"genres"`
	Sentiment  SentimentSummary  `json:"sentiment"`
	Lifecycle  LifecycleSummary  `json:"lifecycle"`
	Engagement EngagementSummary `json:"engagement"`
}

// SkippedRecords returns the excluded-record count across every summary.
func (r InsightReport) SkippedRecords() int {
	return r.Genres.DataQuality.Total() +
		r.Sentiment.DataQuality.Total() +
		r.Lifecycle.DataQuality.Total() +
		r.Engagement.DataQuality.Total()
}
