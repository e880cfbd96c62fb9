package schema

// GenreStats is the weight, count, ELO and share of one genre within a scope.
type GenreStats struct {
	Weight     float64  `json:"weight"`
	Count      int      `json:"count"`
	AverageElo *float64 `json:"average_elo"` // nil when no rated game contributes
	Share      float64  `json:"share"`       // weight / all genre weight in the same scope
}

// GenreAggregateEntry is one ranked genre.
type GenreAggregateEntry struct {
	Genre    string                `json:"genre"`
	Total    GenreStats            `json:"total"`
	Buckets  map[Status]GenreStats `json:"buckets"`
	Dominant string                `json:"dominant"` // a status value or BalancedDominance
}

// BucketTotals summarizes one status bucket across all genres.
type BucketTotals struct {
	TotalGames  int     `json:"total_games"`
	TotalWeight float64 `json:"total_weight"`
}

// GenreSummary is the externally consumed genre ranking.
type GenreSummary struct {
	Genres         []GenreAggregateEntry       `json:"genres"`
	BucketMetadata map[Status]StatusDefinition `json:"bucket_metadata"`
	BucketOrder    []Status                    `json:"bucket_order"`
	Buckets        map[Status]BucketTotals     `json:"buckets"`
	Groups         map[Group]BucketTotals      `json:"groups"`
	DataQuality    DataQuality                 `json:"data_quality"`
}
