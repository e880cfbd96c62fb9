// Package outwriter renders analytics summaries as text tables, CSV, JSON or Parquet.
package outwriter

import (
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/palette"
	"github.com/huangsam/questlog/schema"
)

// OutWriter provides a unified interface for all output operations.
// It owns the palette used to color titles and genres, so colors stay stable
// across the sections of one run.
type OutWriter struct {
	palette *palette.Palette
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{palette: palette.New()}
}

// Palette returns the writer's color assignments.
func (ow *OutWriter) Palette() *palette.Palette {
	return ow.palette
}

// WriteGenres prints the genre ranking using the configured output format.
func (ow *OutWriter) WriteGenres(summary schema.GenreSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintGenreSummary(summary, cfg, duration)
}

// WriteSentiment prints the interest versus enjoyment comparison using the configured output format.
func (ow *OutWriter) WriteSentiment(summary schema.SentimentSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintSentimentSummary(summary, cfg, duration)
}

// WriteLifecycle prints the lifecycle report using the configured output format.
func (ow *OutWriter) WriteLifecycle(summary schema.LifecycleSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintLifecycleSummary(summary, cfg, duration)
}

// WriteEngagement prints the engagement timeline using the configured output format.
func (ow *OutWriter) WriteEngagement(summary schema.EngagementSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintEngagementSummary(summary, cfg, duration, ow.palette)
}

// WriteInsights prints the combined report using the configured output format.
func (ow *OutWriter) WriteInsights(report schema.InsightReport, cfg *contract.Config, duration time.Duration) error {
	return PrintInsightReport(report, cfg, duration, ow.palette)
}

// WriteThresholds prints the active thresholds using the configured output format.
func (ow *OutWriter) WriteThresholds(cfg *contract.Config) error {
	return PrintThresholds(cfg)
}
