package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/palette"
	"github.com/huangsam/questlog/internal/parquet"
	"github.com/huangsam/questlog/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintEngagementSummary outputs the engagement timeline to the configured destination.
func PrintEngagementSummary(summary schema.EngagementSummary, cfg *contract.Config, duration time.Duration, pal *palette.Palette) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteEngagementSummary(w, summary, cfg, duration, pal)
	}, "Wrote engagement summary")
}

// WriteEngagementSummary writes the timeline and its callouts, dispatching based on the output format configured.
// The palette colors titles and genres in text output; nil disables coloring.
func WriteEngagementSummary(w io.Writer, summary schema.EngagementSummary, cfg *contract.Config, duration time.Duration, pal *palette.Palette) error {
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, summary)
	case schema.CSVOut:
		if err := writeEngagementCSV(w, summary, fmtFloat, fmtOptional); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	case schema.ParquetOut:
		return writeParquet(w, parquet.PeriodRows(summary))
	default:
		return writeEngagementTable(w, summary, cfg, fmtFloat, fmtOptional, duration, pal)
	}
}

// writeEngagementTable prints one row per period, then the callouts.
func writeEngagementTable(w io.Writer, summary schema.EngagementSummary, cfg *contract.Config, fmtFloat func(float64) string, fmtOptional func(*float64) string, duration time.Duration, pal *palette.Palette) error {
	colorize := func(key, text string) string {
		if pal == nil || !cfg.UseColors || key == schema.OtherTitlesLabel {
			return text
		}
		return pal.Sprint(key, text)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Period", "Hours", "Sessions", "Titles", "Sentiment", "Top Title", "Top Genre"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg, 90) / 2
	var data [][]string
	for _, p := range summary.Timeline {
		topTitle, topGenre := "-", "-"
		if len(p.TopTitles) > 0 {
			t := p.TopTitles[0]
			topTitle = colorize(t.Title, contract.TruncateLabel(t.Title, max(labelWidth, 8)))
		}
		if len(p.TopGenres) > 0 {
			g := p.TopGenres[0]
			topGenre = colorize(g.Genre, contract.TruncateLabel(g.Genre, max(labelWidth, 8)))
		}
		data = append(data, []string{
			p.Label,
			fmtFloat(p.TotalMinutes / 60),
			strconv.Itoa(p.SessionCount),
			strconv.Itoa(p.ActiveTitles),
			fmtOptional(p.AverageSentiment),
			topTitle,
			topGenre,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Range %s to %s by %s\n", summary.RangeStart, summary.RangeEnd, summary.Period); err != nil {
		return err
	}
	if len(summary.Callouts) == 0 {
		if _, err := fmt.Fprintln(w, "No spikes, dips or burnout detected."); err != nil {
			return err
		}
	}
	for _, c := range summary.Callouts {
		if err := writeCallout(w, c, cfg, colorize); err != nil {
			return err
		}
	}
	return writeFooter(w, "Engagement analysis", summary.DataQuality, duration)
}

// writeCallout prints one callout with its leading drivers.
func writeCallout(w io.Writer, c schema.Callout, cfg *contract.Config, colorize func(key, text string) string) error {
	name := calloutName(c.Type)
	if cfg.UseColors {
		name = contract.GetCalloutColor(c.Type).Sprint(name)
	}
	line := fmt.Sprintf("%s %s: %s (%+.0f min)", name, c.Label, formatPercent(c.PercentChange, 0), c.ChangeMinutes)
	if c.SentimentChange != nil {
		line += fmt.Sprintf(", sentiment %+.*f", cfg.Precision, *c.SentimentChange)
	}
	if !c.BaselineStart.IsZero() {
		line += " vs " + c.BaselineStart.String()
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	titles := make([]schema.Driver, len(c.Drivers.Titles))
	for i, d := range c.Drivers.Titles {
		d.Name = colorize(d.Name, d.Name)
		titles[i] = d
	}
	if _, err := fmt.Fprintf(w, "   Titles: %s\n", formatDrivers(titles, cfg.Thresholds.DriverLimit)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "   Genres: %s\n", formatDrivers(c.Drivers.Genres, cfg.Thresholds.DriverLimit))
	return err
}

func calloutName(t schema.CalloutType) string {
	switch t {
	case schema.SpikeCallout:
		return "▲ Spike"
	case schema.DipCallout:
		return "▼ Dip"
	default:
		return "⚠ Burnout"
	}
}

// writeEngagementCSV writes one row per period followed by one row per callout.
func writeEngagementCSV(w io.Writer, summary schema.EngagementSummary, fmtFloat func(float64) string, fmtOptional func(*float64) string) error {
	header := []string{"kind", "period_start", "label", "total_minutes", "session_count", "active_titles",
		"average_sentiment", "top_title", "top_genre", "callout_type", "percent_change", "change_minutes", "sentiment_change"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range summary.Timeline {
			topTitle, topGenre := "", ""
			if len(p.TopTitles) > 0 {
				topTitle = p.TopTitles[0].Title
			}
			if len(p.TopGenres) > 0 {
				topGenre = p.TopGenres[0].Genre
			}
			rec := []string{"period", p.PeriodStart.String(), p.Label, fmtFloat(p.TotalMinutes),
				strconv.Itoa(p.SessionCount), strconv.Itoa(p.ActiveTitles), fmtOptional(p.AverageSentiment),
				topTitle, topGenre, "", "", "", ""}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		for _, c := range summary.Callouts {
			rec := []string{"callout", c.PeriodStart.String(), c.Label, "", "", "", "", "", "",
				string(c.Type), fmtFloat(c.PercentChange), fmtFloat(c.ChangeMinutes), fmtOptional(c.SentimentChange)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
