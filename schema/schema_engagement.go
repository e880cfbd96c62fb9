package schema

// TitleShare is one title's contribution to a period.
type TitleShare struct {
	Title      string  `json:"title"`
	GameID     int64   `json:"game_id,omitempty"`
	Minutes    float64 `json:"minutes"`
	Share      float64 `json:"share"`
	OtherCount int     `json:"other_count,omitempty"` // titles folded into the rollup entry
}

// GenreShare is one genre's contribution to a period. Shares may sum above 1
// because multi-genre games count toward each genre.
type GenreShare struct {
	Genre   string  `json:"genre"`
	Minutes float64 `json:"minutes"`
	Share   float64 `json:"share"`
}

// EngagementPeriod is one calendar-aligned bucket of the timeline.
type EngagementPeriod struct {
	PeriodStart      Date         `json:"period_start"`
	Label            string       `json:"label"`
	TotalMinutes     float64      `json:"total_minutes"`
	AverageSentiment *float64     `json:"average_sentiment"`
	ActiveTitles     int          `json:"active_titles"`
	SessionCount     int          `json:"session_count"`
	TopTitles        []TitleShare `json:"top_titles"`
	TopGenres        []GenreShare `json:"top_genres"`
}

// Driver is an entity ranked by its minutes delta against the prior period.
type Driver struct {
	Name            string  `json:"name"`
	GameID          int64   `json:"game_id,omitempty"`
	DeltaMinutes    float64 `json:"delta_minutes"`
	CurrentMinutes  float64 `json:"current_minutes"`
	PreviousMinutes float64 `json:"previous_minutes"`
}

// CalloutDrivers lists the titles and genres behind a callout.
type CalloutDrivers struct {
	Titles []Driver `json:"titles"`
	Genres []Driver `json:"genres"`
}

// Callout is a detected change between a period and its baseline.
type Callout struct {
	Type            CalloutType    `json:"type"`
	PeriodStart     Date           `json:"period_start"`
	Label           string         `json:"label"`
	BaselineStart   Date           `json:"baseline_start"`
	PercentChange   float64        `json:"percent_change"` // fraction, 1.0 = +100%
	ChangeMinutes   float64        `json:"change_minutes"`
	SentimentChange *float64       `json:"sentiment_change,omitempty"`
	Drivers         CalloutDrivers `json:"drivers"`
}

// EngagementSummary is the externally consumed timeline report.
type EngagementSummary struct {
	Period      Period             `json:"period"`
	RangeStart  Date               `json:"range_start"`
	RangeEnd    Date               `json:"range_end"`
	Timeline    []EngagementPeriod `json:"timeline"`
	Callouts    []Callout          `json:"callouts"`
	DataQuality DataQuality        `json:"data_quality"`
}
