package schema

import (
	"maps"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Thresholds are the product-level knobs of the analytics.
type Thresholds struct {
	Dominance       float64 `json:"dominance"`        // bucket share of a genre's weight needed to be dominant
	SpikePercent    float64 `json:"spike_percent"`    // fractional change in minutes for spike/dip (0.5 = 50%)
	NoiseFloor      float64 `json:"noise_floor"`      // minimum absolute change in minutes for spike/dip
	BurnoutDrop     float64 `json:"burnout_drop"`     // sentiment points lost with flat-or-up minutes
	TopTitles       int     `json:"top_titles"`       // titles shown per period before the rollup
	LongestExamples int     `json:"longest_examples"` // outlier samples per lifecycle stage
	AgingLimit      int     `json:"aging_limit"`      // aging backlog entries kept, 0 for all
	DriverLimit     int     `json:"driver_limit"`     // drivers kept per callout dimension
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Dominance:       0.6,
		SpikePercent:    0.5,
		NoiseFloor:      60,
		BurnoutDrop:     15,
		TopTitles:       4,
		LongestExamples: 5,
		AgingLimit:      8,
		DriverLimit:     4,
	}
}

// SentimentWeights maps a categorical sentiment to a 0-100 score.
type SentimentWeights map[string]float64

// DefaultSentimentWeights returns the stock sentiment mapping.
func DefaultSentimentWeights() SentimentWeights {
	return SentimentWeights{
		"good":     100,
		"mediocre": 50,
		"bad":      0,
		"positive": 100,
		"neutral":  50,
		"negative": 0,
	}
}

// Score maps a raw sentiment to its score. Known categories win; otherwise a
// numeric value within [0, 100] is used directly. Anything else, NaN included, is unscored.
func (w SentimentWeights) Score(raw string) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return 0, false
	}
	if v, ok := w[key]; ok {
		return v, true
	}
	v, err := strconv.ParseFloat(key, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// Keys returns the categories sorted by descending score, then name.
func (w SentimentWeights) Keys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if w[keys[i]] != w[keys[j]] {
			return w[keys[i]] > w[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Clone returns an independent copy.
func (w SentimentWeights) Clone() SentimentWeights {
	out := make(SentimentWeights, len(w))
	maps.Copy(out, w)
	return out
}
