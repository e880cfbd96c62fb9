package core

import (
	"sort"
	"strings"

	"github.com/huangsam/questlog/schema"
)

// genreTally accumulates weight, count and ELO for one genre in one scope.
type genreTally struct {
	weight   float64
	count    int
	eloSum   float64
	eloCount int
}

func (t *genreTally) add(elo *float64) {
	t.weight++
	t.count++
	if elo != nil && isFinite(*elo) {
		t.eloSum += *elo
		t.eloCount++
	}
}

func (t *genreTally) stats(scopeWeight float64) schema.GenreStats {
	s := schema.GenreStats{Weight: t.weight, Count: t.count}
	if t.eloCount > 0 {
		s.AverageElo = floatPtr(t.eloSum / float64(t.eloCount))
	}
	if scopeWeight > 0 {
		s.Share = t.weight / scopeWeight
	}
	return s
}

// AggregateGenres ranks genres by weight and splits each genre by status bucket.
// Every genre tag on a game receives weight 1, so multi-genre games count fully
// toward each of their genres.
func AggregateGenres(games []schema.Game, opts Options) schema.GenreSummary {
	opts = opts.withDefaults()
	statuses := schema.AllStatuses()
	idx := newGameIndex(games)

	type genreAcc struct {
		name    string
		total   genreTally
		buckets map[schema.Status]*genreTally
	}

	byGenre := make(map[string]*genreAcc)
	var order []string
	bucketTotals := make(map[schema.Status]schema.BucketTotals, len(statuses))
	groupTotals := make(map[schema.Group]schema.BucketTotals)
	scopeWeight := make(map[schema.Status]float64, len(statuses))
	totalWeight := 0.0
	dq := schema.DataQuality{}

	for i, g := range games {
		def := g.StatusDefinition()
		bt := bucketTotals[def.Value]
		gt := groupTotals[def.Group]
		bt.TotalGames++
		gt.TotalGames++

		genres := idx.genresOf(i)
		if len(genres) == 0 {
			dq.Add(schema.SkipNoGenres)
		}
		for _, genre := range genres {
			acc, ok := byGenre[genre]
			if !ok {
				acc = &genreAcc{name: genre, buckets: make(map[schema.Status]*genreTally, len(statuses))}
				byGenre[genre] = acc
				order = append(order, genre)
			}
			acc.total.add(g.EloRating)
			tally, ok := acc.buckets[def.Value]
			if !ok {
				tally = &genreTally{}
				acc.buckets[def.Value] = tally
			}
			tally.add(g.EloRating)

			bt.TotalWeight++
			gt.TotalWeight++
			scopeWeight[def.Value]++
			totalWeight++
		}
		bucketTotals[def.Value] = bt
		groupTotals[def.Group] = gt
	}

	entries := make([]schema.GenreAggregateEntry, 0, len(order))
	for _, genre := range order {
		acc := byGenre[genre]
		entry := schema.GenreAggregateEntry{
			Genre:   acc.name,
			Total:   acc.total.stats(totalWeight),
			Buckets: make(map[schema.Status]schema.GenreStats, len(statuses)),
		}
		for _, status := range statuses {
			tally, ok := acc.buckets[status]
			if !ok {
				tally = &genreTally{}
			}
			entry.Buckets[status] = tally.stats(scopeWeight[status])
		}
		entry.Dominant = dominantBucket(entry, statuses, opts.Thresholds.Dominance)
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Total.Weight != b.Total.Weight {
			return a.Total.Weight > b.Total.Weight
		}
		if a.Total.Count != b.Total.Count {
			return a.Total.Count > b.Total.Count
		}
		la, lb := strings.ToLower(a.Genre), strings.ToLower(b.Genre)
		if la != lb {
			return la < lb
		}
		return a.Genre < b.Genre
	})

	metadata := make(map[schema.Status]schema.StatusDefinition, len(statuses))
	for _, def := range schema.StatusDefinitions() {
		metadata[def.Value] = def
		if _, ok := bucketTotals[def.Value]; !ok {
			bucketTotals[def.Value] = schema.BucketTotals{}
		}
	}

	return schema.GenreSummary{
		Genres:         entries,
		BucketMetadata: metadata,
		BucketOrder:    statuses,
		Buckets:        bucketTotals,
		Groups:         groupTotals,
		DataQuality:    dq,
	}
}

// dominantBucket returns the bucket holding more than threshold of the genre's weight.
// Ties between buckets resolve to the earlier bucket in declaration order.
func dominantBucket(entry schema.GenreAggregateEntry, statuses []schema.Status, threshold float64) string {
	if entry.Total.Weight <= 0 {
		return schema.BalancedDominance
	}
	best := schema.Status("")
	bestWeight := 0.0
	for _, status := range statuses {
		if w := entry.Buckets[status].Weight; w > bestWeight {
			best, bestWeight = status, w
		}
	}
	if best == "" || bestWeight/entry.Total.Weight <= threshold {
		return schema.BalancedDominance
	}
	return string(best)
}
