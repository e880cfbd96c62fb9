// Package parquet provides row types and writers for exporting questlog
// run history and summaries to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/questlog/schema"
	"github.com/parquet-go/parquet-go"
)

// InsightRun represents a single analytics run with metadata.
// This struct maps to the questlog_insight_runs database table.
type InsightRun struct {
	// RunID is the numeric identifier assigned by the run store
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID correlates the run with its log lines
	RunUUID string `parquet:"run_uuid,snappy"`

	// Command is the CLI or MCP entry point that started the run
	Command string `parquet:"command,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalGames     int32 `parquet:"total_games,snappy"`
	TotalSessions  int32 `parquet:"total_sessions,snappy"`
	SkippedRecords int32 `parquet:"skipped_records,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Callout represents one detected spike, dip or burnout of a run.
// This struct maps to the questlog_callouts database table.
type Callout struct {
	RunID           int64     `parquet:"run_id,snappy"`
	Position        int32     `parquet:"position,snappy"`
	CalloutType     string    `parquet:"callout_type,snappy"`
	PeriodStart     time.Time `parquet:"period_start,snappy"`
	Label           string    `parquet:"label,snappy"`
	PercentChange   float64   `parquet:"percent_change,snappy"`
	ChangeMinutes   float64   `parquet:"change_minutes,snappy"`
	SentimentChange *float64  `parquet:"sentiment_change,optional,snappy"`

	// Drivers is the JSON-encoded title and genre drivers
	Drivers string `parquet:"drivers,snappy"`
}

// GenreRow is one genre of a genre summary, flattened to its total scope.
type GenreRow struct {
	Genre      string   `parquet:"genre,snappy"`
	Weight     float64  `parquet:"weight,snappy"`
	Count      int32    `parquet:"count,snappy"`
	AverageElo *float64 `parquet:"average_elo,optional,snappy"`
	Share      float64  `parquet:"share,snappy"`
	Dominant   string   `parquet:"dominant,snappy"`
}

// SentimentRow is one genre of a sentiment summary.
type SentimentRow struct {
	Genre                string   `parquet:"genre,snappy"`
	InterestScore        *float64 `parquet:"interest_score,optional,snappy"`
	InterestCount        int32    `parquet:"interest_count,snappy"`
	WeightedSentiment    *float64 `parquet:"weighted_sentiment,optional,snappy"`
	TotalPlaytimeMinutes float64  `parquet:"total_playtime_minutes,snappy"`
	SessionCount         int32    `parquet:"session_count,snappy"`
	Gap                  *float64 `parquet:"gap,optional,snappy"`
}

// LifecycleRow is one stage of a lifecycle summary.
type LifecycleRow struct {
	Stage   string   `parquet:"stage,snappy"`
	Count   int32    `parquet:"count,snappy"`
	Mean    *float64 `parquet:"mean,optional,snappy"`
	Median  *float64 `parquet:"median,optional,snappy"`
	Min     *float64 `parquet:"min,optional,snappy"`
	Max     *float64 `parquet:"max,optional,snappy"`
	P10     *float64 `parquet:"p10,optional,snappy"`
	P25     *float64 `parquet:"p25,optional,snappy"`
	P75     *float64 `parquet:"p75,optional,snappy"`
	P90     *float64 `parquet:"p90,optional,snappy"`
	Skipped int32    `parquet:"skipped,snappy"`
}

// PeriodRow is one bucket of an engagement timeline.
type PeriodRow struct {
	PeriodStart      time.Time `parquet:"period_start,snappy"`
	Label            string    `parquet:"label,snappy"`
	TotalMinutes     float64   `parquet:"total_minutes,snappy"`
	AverageSentiment *float64  `parquet:"average_sentiment,optional,snappy"`
	ActiveTitles     int32     `parquet:"active_titles,snappy"`
	SessionCount     int32     `parquet:"session_count,snappy"`
	TopTitle         *string   `parquet:"top_title,optional,snappy"`
	TopGenre         *string   `parquet:"top_genre,optional,snappy"`
}

// WriteRows writes rows to w using the schema inferred from T's struct tags.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertInsightRunRecords converts store records to InsightRun rows.
func ConvertInsightRunRecords(records []schema.InsightRunRecord) []InsightRun {
	result := make([]InsightRun, len(records))
	for i, record := range records {
		result[i] = InsightRun{
			RunID:          record.RunID,
			RunUUID:        record.RunUUID,
			Command:        record.Command,
			StartTime:      record.StartTime,
			EndTime:        record.EndTime,
			RunDurationMs:  record.RunDurationMs,
			TotalGames:     record.TotalGames,
			TotalSessions:  record.TotalSessions,
			SkippedRecords: record.SkippedRecords,
			ConfigParams:   record.ConfigParams,
		}
	}
	return result
}

// ConvertCalloutRecords converts store records to Callout rows.
func ConvertCalloutRecords(records []schema.CalloutRecord) []Callout {
	result := make([]Callout, len(records))
	for i, record := range records {
		result[i] = Callout{
			RunID:           record.RunID,
			Position:        record.Position,
			CalloutType:     record.CalloutType,
			PeriodStart:     record.PeriodStart,
			Label:           record.Label,
			PercentChange:   record.PercentChange,
			ChangeMinutes:   record.ChangeMinutes,
			SentimentChange: record.SentimentChange,
			Drivers:         record.Drivers,
		}
	}
	return result
}

// GenreRows flattens a genre summary.
func GenreRows(summary schema.GenreSummary) []GenreRow {
	rows := make([]GenreRow, len(summary.Genres))
	for i, g := range summary.Genres {
		rows[i] = GenreRow{
			Genre:      g.Genre,
			Weight:     g.Total.Weight,
			Count:      int32(g.Total.Count),
			AverageElo: g.Total.AverageElo,
			Share:      g.Total.Share,
			Dominant:   g.Dominant,
		}
	}
	return rows
}

// SentimentRows flattens a sentiment summary.
func SentimentRows(summary schema.SentimentSummary) []SentimentRow {
	rows := make([]SentimentRow, len(summary.Genres))
	for i, g := range summary.Genres {
		rows[i] = SentimentRow{
			Genre:                g.Genre,
			InterestScore:        g.Interest.InterestScore,
			InterestCount:        int32(g.Interest.Count),
			WeightedSentiment:    g.Sentiment.WeightedSentiment,
			TotalPlaytimeMinutes: g.Sentiment.TotalPlaytimeMinutes,
			SessionCount:         int32(g.Sentiment.SessionCount),
			Gap:                  g.Gap(),
		}
	}
	return rows
}

// LifecycleRows flattens the three stages of a lifecycle summary.
func LifecycleRows(summary schema.LifecycleSummary) []LifecycleRow {
	stages := []struct {
		name  string
		stage schema.LifecycleStage
	}{
		{"purchase_to_start", summary.PurchaseToStart},
		{"start_to_finish", summary.StartToFinish},
		{"purchase_to_finish", summary.PurchaseToFinish},
	}
	rows := make([]LifecycleRow, len(stages))
	for i, s := range stages {
		st := s.stage.Statistics
		rows[i] = LifecycleRow{
			Stage:   s.name,
			Count:   int32(st.Count),
			Mean:    st.Mean,
			Median:  st.Median,
			Min:     st.Min,
			Max:     st.Max,
			P10:     st.Percentiles.P10,
			P25:     st.Percentiles.P25,
			P75:     st.Percentiles.P75,
			P90:     st.Percentiles.P90,
			Skipped: int32(s.stage.Skipped),
		}
	}
	return rows
}

// PeriodRows flattens an engagement timeline, keeping the leading title and genre per period.
func PeriodRows(summary schema.EngagementSummary) []PeriodRow {
	rows := make([]PeriodRow, len(summary.Timeline))
	for i, p := range summary.Timeline {
		row := PeriodRow{
			PeriodStart:      p.PeriodStart.Time,
			Label:            p.Label,
			TotalMinutes:     p.TotalMinutes,
			AverageSentiment: p.AverageSentiment,
			ActiveTitles:     int32(p.ActiveTitles),
			SessionCount:     int32(p.SessionCount),
		}
		if len(p.TopTitles) > 0 {
			title := p.TopTitles[0].Title
			row.TopTitle = &title
		}
		if len(p.TopGenres) > 0 {
			genre := p.TopGenres[0].Genre
			row.TopGenre = &genre
		}
		rows[i] = row
	}
	return rows
}
