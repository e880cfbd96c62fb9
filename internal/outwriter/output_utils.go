package outwriter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

// dominantLabel returns the display label of a genre's dominant bucket.
func dominantLabel(dominant string) string {
	if dominant == schema.BalancedDominance || dominant == "" {
		return "Balanced"
	}
	return schema.DefinitionOf(schema.Status(dominant)).Label
}

// formatPercent renders a fraction as a signed percentage, e.g. 0.5 -> +50%.
func formatPercent(fraction float64, precision int) string {
	return fmt.Sprintf("%+.*f%%", precision, fraction*100)
}

// formatShare renders a fraction as an unsigned percentage.
func formatShare(fraction float64, precision int) string {
	return fmt.Sprintf("%.*f%%", precision, fraction*100)
}

// formatDrivers lists the leading drivers of a callout, e.g. "Aurora Trails (+120)".
func formatDrivers(drivers []schema.Driver, limit int) string {
	if len(drivers) == 0 {
		return "-"
	}
	if limit <= 0 {
		limit = len(drivers)
	}
	parts := make([]string, 0, min(limit, len(drivers)))
	for i, d := range drivers {
		if i >= limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%+.0f)", d.Name, d.DeltaMinutes))
	}
	return strings.Join(parts, ", ")
}

// formatDataQuality renders skip counters in a stable order, e.g. "missing_date=2, no_genres=1".
func formatDataQuality(dq schema.DataQuality) string {
	if dq.Total() == 0 {
		return "none"
	}
	reasons := []schema.SkipReason{
		schema.SkipInvalidRecord, schema.SkipNoGenres, schema.SkipUnmatchedSession,
		schema.SkipNonPositiveTime, schema.SkipUnscoredSentiment, schema.SkipMissingDate,
		schema.SkipInvertedDates, schema.SkipOutOfRange,
	}
	var parts []string
	for _, r := range reasons {
		if n := dq[r]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", r, n))
		}
	}
	return strings.Join(parts, ", ")
}

// scoreLabel picks the colored or plain label of a 0-100 score.
func scoreLabel(score *float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(score)
	}
	return contract.GetPlainLabel(score)
}

// writeFooter prints the skipped-record summary and timing line under a table.
func writeFooter(w io.Writer, what string, dq schema.DataQuality, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Skipped records: %s\n", formatDataQuality(dq)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s completed in %v\n", what, duration)
	return err
}
