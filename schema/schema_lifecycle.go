package schema

// Percentiles are linear-interpolation percentiles of a duration sample.
type Percentiles struct {
	P10 *float64 `json:"p10"`
	P25 *float64 `json:"p25"`
	P75 *float64 `json:"p75"`
	P90 *float64 `json:"p90"`
}

// LifecycleStageStats describes the durations of one stage. Scalars are nil when Count is 0.
type LifecycleStageStats struct {
	Count       int         `json:"count"`
	Mean        *float64    `json:"mean"`
	Median      *float64    `json:"median"`
	Min         *float64    `json:"min"`
	Max         *float64    `json:"max"`
	Percentiles Percentiles `json:"percentiles"`
}

// DurationSample is one game's elapsed days for a stage.
type DurationSample struct {
	GameID int64  `json:"game_id"`
	Title  string `json:"title"`
	Days   int    `json:"days"`
	From   Date   `json:"from"`
	To     Date   `json:"to"`
}

// LifecycleStage pairs the statistics with the longest samples.
type LifecycleStage struct {
	Statistics      LifecycleStageStats `json:"statistics"`
	LongestExamples []DurationSample    `json:"longest_examples"`
	Skipped         int                 `json:"skipped"` // samples dropped for inverted dates
}

// AgingItem is an owned game still waiting to be started.
type AgingItem struct {
	GameID      int64  `json:"game_id"`
	Title       string `json:"title"`
	Status      Status `json:"status"`
	Anchor      Date   `json:"anchor"` // purchase date, or created-at when the purchase date is absent
	DaysWaiting int    `json:"days_waiting"`
	RawDays     int    `json:"raw_days"` // unclamped, used for ordering
}

// LifecycleSummary is the externally consumed lifecycle report.
type LifecycleSummary struct {
	PurchaseToStart  LifecycleStage `json:"purchase_to_start"`
	StartToFinish    LifecycleStage `json:"start_to_finish"`
	PurchaseToFinish LifecycleStage `json:"purchase_to_finish"`
	AgingBacklog     []AgingItem    `json:"aging_backlog"`
	Today            Date           `json:"today"`
	DataQuality      DataQuality    `json:"data_quality"`
}
