package core

import (
	"sort"
	"strings"

	"github.com/huangsam/questlog/schema"
)

// AggregateSentiment compares pre-play interest with post-play enjoyment for every genre.
func AggregateSentiment(games []schema.Game, sessions []schema.Session, opts Options) schema.SentimentSummary {
	opts = opts.withDefaults()
	idx := newGameIndex(games)
	dq := schema.DataQuality{}

	type genreAcc struct {
		name      string
		sentiment sentimentAcc
		statuses  map[schema.Status]*sentimentAcc
		interest  []float64
		elo       []float64
	}
	byGenre := make(map[string]*genreAcc)
	var order []string
	touch := func(genre string) *genreAcc {
		acc, ok := byGenre[genre]
		if !ok {
			acc = &genreAcc{name: genre, statuses: make(map[schema.Status]*sentimentAcc)}
			byGenre[genre] = acc
			order = append(order, genre)
		}
		return acc
	}

	// Every tagged genre appears, even without sessions or interest.
	for i := range games {
		for _, genre := range idx.genresOf(i) {
			touch(genre)
		}
	}

	for _, s := range sessions {
		if !isFinite(s.PlaytimeMinutes) || s.PlaytimeMinutes <= 0 {
			dq.Add(schema.SkipNonPositiveTime)
			continue
		}
		gi := idx.resolve(s)
		if gi < 0 {
			dq.Add(schema.SkipUnmatchedSession)
			continue
		}
		score, scored := opts.Weights.Score(s.Sentiment)
		if !scored {
			dq.Add(schema.SkipUnscoredSentiment)
		}
		status := games[gi].StatusDefinition().Value
		for _, genre := range idx.genresOf(gi) {
			acc := touch(genre)
			acc.sentiment.add(s.PlaytimeMinutes, score, scored)
			st, ok := acc.statuses[status]
			if !ok {
				st = &sentimentAcc{}
				acc.statuses[status] = st
			}
			st.add(s.PlaytimeMinutes, score, scored)
		}
	}

	normalize := eloNormalizer(games)
	for i, g := range games {
		if !isInterestCandidate(g) || g.EloRating == nil || !isFinite(*g.EloRating) {
			continue
		}
		for _, genre := range idx.genresOf(i) {
			acc := touch(genre)
			acc.interest = append(acc.interest, normalize(*g.EloRating))
			acc.elo = append(acc.elo, *g.EloRating)
		}
	}

	entries := make([]schema.GenreInterestSentiment, 0, len(order))
	for _, genre := range order {
		acc := byGenre[genre]
		entry := schema.GenreInterestSentiment{
			Genre: acc.name,
			Interest: schema.InterestScore{
				InterestScore: mean(acc.interest),
				AverageElo:    mean(acc.elo),
				Count:         len(acc.interest),
			},
			Sentiment: schema.GenreSentiment{
				SentimentStats: acc.sentiment.stats(),
				Statuses:       make(map[schema.Status]schema.SentimentStats, len(acc.statuses)),
			},
		}
		for status, st := range acc.statuses {
			entry.Sentiment.Statuses[status] = st.stats()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Sentiment.TotalPlaytimeMinutes != b.Sentiment.TotalPlaytimeMinutes {
			return a.Sentiment.TotalPlaytimeMinutes > b.Sentiment.TotalPlaytimeMinutes
		}
		ai, bi := a.Interest.InterestScore, b.Interest.InterestScore
		switch {
		case ai != nil && bi == nil:
			return true
		case ai == nil && bi != nil:
			return false
		case ai != nil && bi != nil && *ai != *bi:
			return *ai > *bi
		}
		la, lb := strings.ToLower(a.Genre), strings.ToLower(b.Genre)
		if la != lb {
			return la < lb
		}
		return a.Genre < b.Genre
	})

	return schema.SentimentSummary{Genres: entries, DataQuality: dq}
}

// isInterestCandidate reports whether a game still carries pre-play hype:
// wishlisted, or in a not-started status with no start date.
func isInterestCandidate(g schema.Game) bool {
	def := g.StatusDefinition()
	if def.Group == schema.WishlistGroup {
		return true
	}
	return !def.Started && g.StartDate.IsZero()
}

// eloNormalizer maps a rating onto 0-100 relative to every rated game.
// A pool with a single distinct rating maps to the midpoint.
func eloNormalizer(games []schema.Game) func(float64) float64 {
	lo, hi := 0.0, 0.0
	seen := false
	for _, g := range games {
		if g.EloRating == nil || !isFinite(*g.EloRating) {
			continue
		}
		v := *g.EloRating
		if !seen {
			lo, hi, seen = v, v, true
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return func(v float64) float64 {
		if hi <= lo {
			return 50
		}
		return (v - lo) / (hi - lo) * 100
	}
}
