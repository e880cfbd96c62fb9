// Package core has the analytics over a game library: genre ranking, interest versus
// enjoyment, lifecycle durations and the engagement timeline.
package core

import (
	"context"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/outwriter"
	"github.com/huangsam/questlog/schema"
)

// ExecutorFunc defines the function signature for executing the analytics commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// GetGenreResults ranks the genres of the configured library without printing them.
func GetGenreResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.GenreSummary, time.Duration, error) {
	r, err := beginRun(ctx, cfg, mgr, "genres")
	if err != nil {
		return schema.GenreSummary{}, 0, err
	}
	summary := AggregateGenres(r.snap.Games, OptionsFromConfig(cfg))
	skipped := summary.DataQuality.Total()
	summary.DataQuality = r.withScreened(summary.DataQuality)
	summary.Genres = truncate(summary.Genres, cfg.ResultLimit)
	return summary, r.finish(skipped, nil), nil
}

// GetSentimentResults compares interest and enjoyment per genre without printing them.
func GetSentimentResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SentimentSummary, time.Duration, error) {
	r, err := beginRun(ctx, cfg, mgr, "sentiment")
	if err != nil {
		return schema.SentimentSummary{}, 0, err
	}
	summary := AggregateSentiment(r.snap.Games, r.snap.Sessions, OptionsFromConfig(cfg))
	skipped := summary.DataQuality.Total()
	summary.DataQuality = r.withScreened(summary.DataQuality)
	summary.Genres = truncate(summary.Genres, cfg.ResultLimit)
	return summary, r.finish(skipped, nil), nil
}

// GetLifecycleResults measures purchase, start and finish durations without printing them.
func GetLifecycleResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.LifecycleSummary, time.Duration, error) {
	r, err := beginRun(ctx, cfg, mgr, "lifecycle")
	if err != nil {
		return schema.LifecycleSummary{}, 0, err
	}
	summary := AnalyzeLifecycle(r.snap.Games, OptionsFromConfig(cfg))
	skipped := summary.DataQuality.Total()
	summary.DataQuality = r.withScreened(summary.DataQuality)
	return summary, r.finish(skipped, nil), nil
}

// GetEngagementResults builds the engagement timeline and its callouts without printing them.
func GetEngagementResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.EngagementSummary, time.Duration, error) {
	r, err := beginRun(ctx, cfg, mgr, "engagement")
	if err != nil {
		return schema.EngagementSummary{}, 0, err
	}
	summary := BuildEngagement(r.snap.Games, r.snap.Sessions, OptionsFromConfig(cfg))
	skipped := summary.DataQuality.Total()
	summary.DataQuality = r.withScreened(summary.DataQuality)
	return summary, r.finish(skipped, summary.Callouts), nil
}

// GetInsightResults runs every analysis over one snapshot without printing the report.
func GetInsightResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.InsightReport, time.Duration, error) {
	r, err := beginRun(ctx, cfg, mgr, "insights")
	if err != nil {
		return schema.InsightReport{}, 0, err
	}
	report, err := BuildInsights(r.ctx, r.snap, OptionsFromConfig(cfg))
	if err != nil {
		r.abort(err)
		return schema.InsightReport{}, 0, err
	}
	skipped := report.SkippedRecords()
	report.Genres.DataQuality = r.withScreened(report.Genres.DataQuality)
	report.Genres.Genres = truncate(report.Genres.Genres, cfg.ResultLimit)
	report.Sentiment.Genres = truncate(report.Sentiment.Genres, cfg.ResultLimit)
	return report, r.finish(skipped, report.Engagement.Callouts), nil
}

// ExecuteGenres ranks genres and prints the result.
// It serves as the main entry point for the 'genres' command.
func ExecuteGenres(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	summary, duration, err := GetGenreResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteGenres(summary, cfg, duration)
}

// ExecuteSentiment compares interest and enjoyment per genre and prints the result.
// It serves as the main entry point for the 'sentiment' command.
func ExecuteSentiment(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	summary, duration, err := GetSentimentResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSentiment(summary, cfg, duration)
}

// ExecuteLifecycle measures purchase, start and finish durations and prints the result.
// It serves as the main entry point for the 'lifecycle' command.
func ExecuteLifecycle(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	summary, duration, err := GetLifecycleResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLifecycle(summary, cfg, duration)
}

// ExecuteEngagement builds the engagement timeline with its callouts and prints the result.
// It serves as the main entry point for the 'engagement' command.
func ExecuteEngagement(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	summary, duration, err := GetEngagementResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteEngagement(summary, cfg, duration)
}

// ExecuteInsights runs every analysis over one snapshot and prints the combined report.
// It serves as the main entry point for the 'insights' command.
func ExecuteInsights(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, duration, err := GetInsightResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteInsights(report, cfg, duration)
}

// ExecuteThresholds prints the active thresholds, sentiment weights and status buckets.
// It does not need a library.
func ExecuteThresholds(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteThresholds(cfg)
}
