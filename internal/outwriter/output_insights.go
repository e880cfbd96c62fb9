package outwriter

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/palette"
	"github.com/huangsam/questlog/schema"
)

// PrintInsightReport outputs all four summaries. CSV and Parquet output to a file
// is split into one sibling file per summary, e.g. report.genres.csv.
func PrintInsightReport(report schema.InsightReport, cfg *contract.Config, duration time.Duration, pal *palette.Palette) error {
	if cfg.OutputFile != "" && (cfg.Output == schema.CSVOut || cfg.Output == schema.ParquetOut) {
		return printInsightFiles(report, cfg, duration, pal)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteInsightReport(w, report, cfg, duration, pal)
	}, "Wrote insight report")
}

// printInsightFiles writes each summary to its own file.
func printInsightFiles(report schema.InsightReport, cfg *contract.Config, duration time.Duration, pal *palette.Palette) error {
	sectionCfg := func(suffix string) *contract.Config {
		c := cfg.Clone()
		c.OutputFile = suffixedPath(cfg.OutputFile, suffix)
		return c
	}
	if err := PrintGenreSummary(report.Genres, sectionCfg("genres"), duration); err != nil {
		return err
	}
	if err := PrintSentimentSummary(report.Sentiment, sectionCfg("sentiment"), duration); err != nil {
		return err
	}
	if err := PrintLifecycleSummary(report.Lifecycle, sectionCfg("lifecycle"), duration); err != nil {
		return err
	}
	return PrintEngagementSummary(report.Engagement, sectionCfg("engagement"), duration, pal)
}

// WriteInsightReport writes all four summaries to a single stream.
func WriteInsightReport(w io.Writer, report schema.InsightReport, cfg *contract.Config, duration time.Duration, pal *palette.Palette) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, report)
	case schema.ParquetOut:
		return errors.New("parquet insight reports need --output-file to write one file per summary")
	}

	sections := []struct {
		title string
		write func() error
	}{
		{"Genres", func() error { return WriteGenreSummary(w, report.Genres, cfg, duration) }},
		{"Sentiment", func() error { return WriteSentimentSummary(w, report.Sentiment, cfg, duration) }},
		{"Lifecycle", func() error { return WriteLifecycleSummary(w, report.Lifecycle, cfg, duration) }},
		{"Engagement", func() error { return WriteEngagementSummary(w, report.Engagement, cfg, duration, pal) }},
	}
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		heading := fmt.Sprintf("== %s ==", s.title)
		if cfg.Output == schema.CSVOut {
			heading = "# " + s.title
		}
		if _, err := fmt.Fprintln(w, heading); err != nil {
			return err
		}
		if err := s.write(); err != nil {
			return fmt.Errorf("error writing %s section: %w", s.title, err)
		}
	}
	return nil
}
