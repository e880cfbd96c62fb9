package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for library and run storage.
	DatabaseBackend string

	// Period represents the width of an engagement timeline bucket.
	Period string

	// CalloutType represents the kind of anomaly detected between two periods.
	CalloutType string

	// SkipReason names why a record was left out of an aggregate.
	SkipReason string

	// Group represents the logical group a status belongs to.
	Group string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All engagement periods supported.
const (
	DayPeriod   Period = "day"
	WeekPeriod  Period = "week"
	MonthPeriod Period = "month" // default
)

// All callout types supported.
const (
	SpikeCallout   CalloutType = "spike"
	DipCallout     CalloutType = "dip"
	BurnoutCallout CalloutType = "burnout"
)

// Status groups.
const (
	OwnedGroup    Group = "owned"
	WishlistGroup Group = "wishlist"
)

// Reasons a record can be excluded from an aggregate.
const (
	SkipNoGenres          SkipReason = "no_genres"
	SkipUnmatchedSession  SkipReason = "unmatched_session"
	SkipNonPositiveTime   SkipReason = "non_positive_playtime"
	SkipUnscoredSentiment SkipReason = "unscored_sentiment"
	SkipMissingDate       SkipReason = "missing_date"
	SkipInvertedDates     SkipReason = "inverted_dates"
	SkipOutOfRange        SkipReason = "out_of_range"
	SkipInvalidRecord     SkipReason = "invalid_record"
)

// BalancedDominance marks a genre whose weight is not concentrated in one bucket.
const BalancedDominance = "balanced"

// OtherTitlesLabel is the rollup entry for titles beyond the top-K of a period.
const OtherTitlesLabel = "Other Titles"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPeriods lists all valid engagement periods.
var ValidPeriods = map[Period]struct{}{
	DayPeriod:   {},
	WeekPeriod:  {},
	MonthPeriod: {},
}

// DataQuality counts excluded records per reason.
type DataQuality map[SkipReason]int

// Add increments the counter for reason.
func (dq DataQuality) Add(reason SkipReason) {
	dq[reason]++
}

// Total returns the number of excluded records across all reasons.
func (dq DataQuality) Total() int {
	total := 0
	for _, n := range dq {
		total += n
	}
	return total
}
