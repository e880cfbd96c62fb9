package core

import (
	"math"
	"strings"

	"github.com/huangsam/questlog/schema"
)

// floatPtr boxes v for optional JSON fields.
func floatPtr(v float64) *float64 {
	return &v
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// percentile returns the linear-interpolation percentile of ascending values.
// The index is (n-1)*p; p <= 0 yields the first value and p >= 1 the last.
func percentile(sorted []float64, p float64) *float64 {
	n := len(sorted)
	if n == 0 {
		return nil
	}
	if p <= 0 {
		return floatPtr(sorted[0])
	}
	if p >= 1 {
		return floatPtr(sorted[n-1])
	}
	pos := float64(n-1) * p
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return floatPtr(sorted[lower])
	}
	frac := pos - float64(lower)
	return floatPtr(sorted[lower] + (sorted[upper]-sorted[lower])*frac)
}

// mean returns the arithmetic mean, or nil for an empty slice.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return floatPtr(sum / float64(len(values)))
}

// sentimentAcc accumulates playtime-weighted sentiment.
// Unscored sessions add to minutes but not to the weighted score.
type sentimentAcc struct {
	weighted      float64
	scoredMinutes float64
	minutes       float64
	sessions      int
}

func (a *sentimentAcc) add(minutes, score float64, scored bool) {
	a.minutes += minutes
	a.sessions++
	if scored {
		a.weighted += score * minutes
		a.scoredMinutes += minutes
	}
}

func (a *sentimentAcc) average() *float64 {
	if a.scoredMinutes <= 0 {
		return nil
	}
	return floatPtr(a.weighted / a.scoredMinutes)
}

func (a *sentimentAcc) stats() schema.SentimentStats {
	return schema.SentimentStats{
		WeightedSentiment:    a.average(),
		TotalPlaytimeMinutes: a.minutes,
		SessionCount:         a.sessions,
	}
}

// gameIndex resolves sessions to games and canonicalizes genre labels.
// Genre labels merge case-insensitively and keep the first spelling seen.
type gameIndex struct {
	games   []schema.Game
	byID    map[int64]int
	byTitle map[string]int
	genres  [][]string
}

func newGameIndex(games []schema.Game) *gameIndex {
	idx := &gameIndex{
		games:   games,
		byID:    make(map[int64]int, len(games)),
		byTitle: make(map[string]int, len(games)),
		genres:  make([][]string, len(games)),
	}
	labels := make(map[string]string)
	for i, g := range games {
		if g.ID != 0 {
			if _, ok := idx.byID[g.ID]; !ok {
				idx.byID[g.ID] = i
			}
		}
		if key := schema.TitleKey(g.Title); key != "" {
			if _, ok := idx.byTitle[key]; !ok {
				idx.byTitle[key] = i
			}
		}
		for _, genre := range g.NormalizedGenres() {
			key := strings.ToLower(genre)
			label, ok := labels[key]
			if !ok {
				label = genre
				labels[key] = genre
			}
			idx.genres[i] = append(idx.genres[i], label)
		}
	}
	return idx
}

// resolve finds the game for a session by id, then by case-insensitive title.
// It returns the game position, or -1 when the session cannot be joined.
func (idx *gameIndex) resolve(s schema.Session) int {
	if s.GameID != 0 {
		if i, ok := idx.byID[s.GameID]; ok {
			return i
		}
	}
	if key := schema.TitleKey(s.GameTitle); key != "" {
		if i, ok := idx.byTitle[key]; ok {
			return i
		}
	}
	return -1
}

// genresOf returns the canonical genre labels of the game at position i.
func (idx *gameIndex) genresOf(i int) []string {
	return idx.genres[i]
}
