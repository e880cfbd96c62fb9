package core

import (
	"context"

	"github.com/huangsam/questlog/schema"
)

// BuildInsights runs the four analyzers over one snapshot and bundles their summaries.
// The stages are independent; the context is checked between them so a deadline
// stops the work at the next stage boundary.
func BuildInsights(ctx context.Context, snap schema.Snapshot, opts Options) (schema.InsightReport, error) {
	opts = opts.withDefaults()
	var report schema.InsightReport

	stages := []func(){
		func() { report.Genres = AggregateGenres(snap.Games, opts) },
		func() { report.Sentiment = AggregateSentiment(snap.Games, snap.Sessions, opts) },
		func() { report.Lifecycle = AnalyzeLifecycle(snap.Games, opts) },
		func() { report.Engagement = BuildEngagement(snap.Games, snap.Sessions, opts) },
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return schema.InsightReport{}, err
		}
		stage()
	}
	return report, nil
}
