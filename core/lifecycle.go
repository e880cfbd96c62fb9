package core

import (
	"sort"

	"github.com/huangsam/questlog/schema"
)

// stageSpec selects the two dates that bound a lifecycle stage.
type stageSpec struct {
	from func(schema.Game) schema.Date
	to   func(schema.Game) schema.Date
}

var (
	purchaseToStart = stageSpec{
		from: func(g schema.Game) schema.Date { return g.PurchaseDate },
		to:   func(g schema.Game) schema.Date { return g.StartDate },
	}
	startToFinish = stageSpec{
		from: func(g schema.Game) schema.Date { return g.StartDate },
		to:   func(g schema.Game) schema.Date { return g.FinishDate },
	}
	purchaseToFinish = stageSpec{
		from: func(g schema.Game) schema.Date { return g.PurchaseDate },
		to:   func(g schema.Game) schema.Date { return g.FinishDate },
	}
)

// AnalyzeLifecycle computes duration statistics for each stage and the aging backlog.
func AnalyzeLifecycle(games []schema.Game, opts Options) schema.LifecycleSummary {
	opts = opts.withDefaults()
	dq := schema.DataQuality{}
	limit := opts.Thresholds.LongestExamples

	return schema.LifecycleSummary{
		PurchaseToStart:  analyzeStage(games, purchaseToStart, limit, dq),
		StartToFinish:    analyzeStage(games, startToFinish, limit, dq),
		PurchaseToFinish: analyzeStage(games, purchaseToFinish, limit, dq),
		AgingBacklog:     agingBacklog(games, opts.Today, opts.Thresholds.AgingLimit, dq),
		Today:            opts.Today,
		DataQuality:      dq,
	}
}

func analyzeStage(games []schema.Game, spec stageSpec, limit int, dq schema.DataQuality) schema.LifecycleStage {
	stage := schema.LifecycleStage{LongestExamples: []schema.DurationSample{}}
	var samples []schema.DurationSample
	for _, g := range games {
		from, to := spec.from(g), spec.to(g)
		if from.IsZero() || to.IsZero() {
			continue
		}
		if to.Before(from.Time) {
			stage.Skipped++
			dq.Add(schema.SkipInvertedDates)
			continue
		}
		samples = append(samples, schema.DurationSample{
			GameID: g.ID,
			Title:  g.Title,
			Days:   from.DaysUntil(to),
			From:   from,
			To:     to,
		})
	}

	days := make([]float64, len(samples))
	for i, s := range samples {
		days[i] = float64(s.Days)
	}
	stage.Statistics = describe(days)

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Days != samples[j].Days {
			return samples[i].Days > samples[j].Days
		}
		return samples[i].Title < samples[j].Title
	})
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}
	stage.LongestExamples = append(stage.LongestExamples, samples...)
	return stage
}

// describe computes descriptive statistics. It sorts values in place.
func describe(values []float64) schema.LifecycleStageStats {
	stats := schema.LifecycleStageStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}
	sort.Float64s(values)
	stats.Mean = mean(values)
	stats.Median = percentile(values, 0.5)
	stats.Min = floatPtr(values[0])
	stats.Max = floatPtr(values[len(values)-1])
	stats.Percentiles = schema.Percentiles{
		P10: percentile(values, 0.10),
		P25: percentile(values, 0.25),
		P75: percentile(values, 0.75),
		P90: percentile(values, 0.90),
	}
	return stats
}

// agingBacklog lists owned games that have not been started, longest wait first.
func agingBacklog(games []schema.Game, today schema.Date, limit int, dq schema.DataQuality) []schema.AgingItem {
	items := []schema.AgingItem{}
	for _, g := range games {
		def := g.StatusDefinition()
		if def.Group != schema.OwnedGroup || def.Started || !g.StartDate.IsZero() {
			continue
		}
		anchor := g.PurchaseDate
		if anchor.IsZero() {
			anchor = g.CreatedAt
		}
		if anchor.IsZero() {
			dq.Add(schema.SkipMissingDate)
			continue
		}
		raw := anchor.DaysUntil(today)
		items = append(items, schema.AgingItem{
			GameID:      g.ID,
			Title:       g.Title,
			Status:      def.Value,
			Anchor:      anchor,
			DaysWaiting: max(raw, 0),
			RawDays:     raw,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].RawDays != items[j].RawDays {
			return items[i].RawDays > items[j].RawDays
		}
		return items[i].Title < items[j].Title
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
