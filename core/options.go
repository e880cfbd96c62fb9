package core

import (
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

// Options carries everything the analytics need besides the snapshot.
type Options struct {
	Today      schema.Date // anchor for the aging backlog
	Period     schema.Period
	Start      schema.Date // inclusive engagement filter, zero for open
	End        schema.Date // inclusive engagement filter, zero for open
	Thresholds schema.Thresholds
	Weights    schema.SentimentWeights
}

// DefaultOptions returns options with stock thresholds, monthly periods and today's date.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// OptionsFromConfig derives analytics options from the validated configuration.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		Today:      cfg.Today,
		Period:     cfg.Period,
		Start:      cfg.StartDate,
		End:        cfg.EndDate,
		Thresholds: cfg.Thresholds,
		Weights:    cfg.SentimentWeights,
	}.withDefaults()
}

// withDefaults fills zero-valued fields.
func (o Options) withDefaults() Options {
	if o.Today.IsZero() {
		o.Today = schema.DateOf(time.Now())
	}
	if _, ok := schema.ValidPeriods[o.Period]; !ok {
		o.Period = schema.MonthPeriod
	}
	if o.Thresholds == (schema.Thresholds{}) {
		o.Thresholds = schema.DefaultThresholds()
	}
	if o.Weights == nil {
		o.Weights = schema.DefaultSentimentWeights()
	}
	return o
}
