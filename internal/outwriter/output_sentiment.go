package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/parquet"
	"github.com/huangsam/questlog/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSentimentSummary outputs the interest versus enjoyment comparison to the configured destination.
func PrintSentimentSummary(summary schema.SentimentSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSentimentSummary(w, summary, cfg, duration)
	}, "Wrote sentiment summary")
}

// WriteSentimentSummary writes the comparison, dispatching based on the output format configured.
func WriteSentimentSummary(w io.Writer, summary schema.SentimentSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeSentimentJSON(w, summary)
	case schema.CSVOut:
		if err := writeSentimentCSV(w, summary, fmtFloat, fmtOptional); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	case schema.ParquetOut:
		return writeParquet(w, parquet.SentimentRows(summary))
	default:
		return writeSentimentTable(w, summary, cfg, fmtFloat, fmtOptional, duration)
	}
}

// writeSentimentJSON adds the gap and the labels next to each genre.
func writeSentimentJSON(w io.Writer, summary schema.SentimentSummary) error {
	type jsonGenre struct {
		schema.GenreInterestSentiment
		Gap            *float64 `json:"gap"`
		InterestLabel  string   `json:"interest_label"`
		SentimentLabel string   `json:"sentiment_label"`
	}
	type jsonSummary struct {
		Genres      []jsonGenre        `json:"genres"`
		DataQuality schema.DataQuality `json:"data_quality"`
	}

	out := jsonSummary{Genres: make([]jsonGenre, len(summary.Genres)), DataQuality: summary.DataQuality}
	for i, g := range summary.Genres {
		out.Genres[i] = jsonGenre{
			GenreInterestSentiment: g,
			Gap:                    g.Gap(),
			InterestLabel:          contract.GetPlainLabel(g.Interest.InterestScore),
			SentimentLabel:         contract.GetPlainLabel(g.Sentiment.WeightedSentiment),
		}
	}
	return writeJSON(w, out)
}

// writeSentimentTable generates and writes the human-readable comparison table.
func writeSentimentTable(w io.Writer, summary schema.SentimentSummary, cfg *contract.Config, fmtFloat func(float64) string, fmtOptional func(*float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Genre", "Interest", "Enjoyment", "Label", "Gap", "Hours", "Sessions"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg, 70)
	var data [][]string
	for i, g := range summary.Genres {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateLabel(g.Genre, labelWidth),
			fmtOptional(g.Interest.InterestScore),
			fmtOptional(g.Sentiment.WeightedSentiment),
			scoreLabel(g.Sentiment.WeightedSentiment, cfg),
			fmtOptional(g.Gap()),
			fmtFloat(g.Sentiment.TotalPlaytimeMinutes / 60),
			strconv.Itoa(g.Sentiment.SessionCount),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d genres. Gap = interest - enjoyment (positive means the hype was not met)\n", len(summary.Genres)); err != nil {
		return err
	}
	return writeFooter(w, "Sentiment analysis", summary.DataQuality, duration)
}

// writeSentimentCSV writes one row per genre.
func writeSentimentCSV(w io.Writer, summary schema.SentimentSummary, fmtFloat func(float64) string, fmtOptional func(*float64) string) error {
	header := []string{"rank", "genre", "interest_score", "interest_count", "average_elo",
		"weighted_sentiment", "sentiment_label", "gap", "total_playtime_minutes", "session_count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, g := range summary.Genres {
			rec := []string{
				strconv.Itoa(i + 1),
				g.Genre,
				fmtOptional(g.Interest.InterestScore),
				strconv.Itoa(g.Interest.Count),
				fmtOptional(g.Interest.AverageElo),
				fmtOptional(g.Sentiment.WeightedSentiment),
				contract.GetPlainLabel(g.Sentiment.WeightedSentiment),
				fmtOptional(g.Gap()),
				fmtFloat(g.Sentiment.TotalPlaytimeMinutes),
				strconv.Itoa(g.Sentiment.SessionCount),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
