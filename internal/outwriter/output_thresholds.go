package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

// PrintThresholds displays the active thresholds, sentiment weights and status buckets.
// This is a static display that does not require a snapshot.
func PrintThresholds(cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteThresholds(w, cfg)
	}, "Wrote thresholds")
}

// WriteThresholds writes the threshold definitions in the configured format.
func WriteThresholds(w io.Writer, cfg *contract.Config) error {
	renderModel := buildThresholdsRenderModel(cfg.Thresholds, cfg.SentimentWeights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, renderModel)
	case schema.CSVOut:
		return writeThresholdsCSV(w, renderModel)
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for thresholds")
	default:
		return writeThresholdsText(w, renderModel)
	}
}

// buildThresholdsRenderModel constructs the complete render model with all processed data.
func buildThresholdsRenderModel(th schema.Thresholds, weights schema.SentimentWeights) *schema.ThresholdsRenderModel {
	if th == (schema.Thresholds{}) {
		th = schema.DefaultThresholds()
	}
	if weights == nil {
		weights = schema.DefaultSentimentWeights()
	}

	thresholds := []schema.ThresholdDefinition{
		{Key: "dominance", Purpose: "Bucket share of a genre's weight needed to call it dominant", Value: th.Dominance},
		{Key: "spike-percent", Purpose: "Fractional change in minutes for a spike or dip", Value: th.SpikePercent},
		{Key: "noise-floor", Purpose: "Minimum absolute change in minutes for a spike or dip", Value: th.NoiseFloor},
		{Key: "burnout-drop", Purpose: "Sentiment points lost while minutes hold steady or rise", Value: th.BurnoutDrop},
		{Key: "top-titles", Purpose: "Titles listed per period before the Other Titles rollup", Value: float64(th.TopTitles)},
		{Key: "longest-examples", Purpose: "Longest samples listed per lifecycle stage", Value: float64(th.LongestExamples)},
		{Key: "aging-limit", Purpose: "Aging backlog entries kept (0 keeps all)", Value: float64(th.AgingLimit)},
		{Key: "driver-limit", Purpose: "Titles and genres listed per callout", Value: float64(th.DriverLimit)},
	}

	var sentiment []schema.ThresholdDefinition
	for _, key := range weights.Keys() {
		sentiment = append(sentiment, schema.ThresholdDefinition{
			Key:     key,
			Purpose: "Score of a session rated " + key,
			Value:   weights[key],
		})
	}

	return &schema.ThresholdsRenderModel{
		Title:            "Questlog Thresholds",
		Description:      "Override any value under thresholds: or sentiment-weights: in .questlog.yaml",
		Thresholds:       thresholds,
		SentimentWeights: sentiment,
		Statuses:         schema.StatusDefinitions(),
	}
}

// writeThresholdsText displays thresholds in human-readable text format.
func writeThresholdsText(w io.Writer, m *schema.ThresholdsRenderModel) error {
	lines := []string{
		"🎮 " + m.Title,
		strings.Repeat("=", len(m.Title)+3),
		"",
		m.Description,
		"",
		"Thresholds:",
	}
	for _, d := range m.Thresholds {
		lines = append(lines, fmt.Sprintf("   %-17s %8g  %s", d.Key, d.Value, d.Purpose))
	}
	lines = append(lines, "", "Sentiment weights:")
	for _, d := range m.SentimentWeights {
		lines = append(lines, fmt.Sprintf("   %-17s %8g", d.Key, d.Value))
	}
	lines = append(lines, "", "Status buckets:")
	for _, s := range m.Statuses {
		owned := "wishlist"
		if s.RequiresPurchaseDate {
			owned = "owned"
		}
		lines = append(lines, fmt.Sprintf("   %-17s %-12s %s", s.Value, s.Label, owned))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeThresholdsCSV writes thresholds and sentiment weights as key/value rows.
func writeThresholdsCSV(w io.Writer, m *schema.ThresholdsRenderModel) error {
	return writeCSVWithHeader(w, []string{"section", "key", "value", "purpose"}, func(cw *csv.Writer) error {
		for _, d := range m.Thresholds {
			if err := cw.Write([]string{"threshold", d.Key, fmt.Sprintf("%g", d.Value), d.Purpose}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		for _, d := range m.SentimentWeights {
			if err := cw.Write([]string{"sentiment_weight", d.Key, fmt.Sprintf("%g", d.Value), d.Purpose}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
