package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/questlog/internal/palette"
	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteGenreSummary(t *testing.T) {
	summary := sampleGenreSummary()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteGenreSummary(&buf, summary, testConfig(schema.TextOut), time.Second))
		out := buf.String()
		assert.Contains(t, out, "RPG")
		assert.Contains(t, out, "60.0%")
		assert.Contains(t, out, "Playing")
		assert.Contains(t, out, "Balanced")
		assert.Contains(t, out, "Owned: 4 games, Wishlist: 1 games")
		assert.Contains(t, out, "Skipped records: no_genres=1")
	})

	t.Run("csv has total and bucket rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteGenreSummary(&buf, summary, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, buf.Bytes())
		require.Len(t, records, 4) // header, RPG total, RPG playing, Puzzle total
		assert.Equal(t, []string{"1", "RPG", "total", "3", "3.0", "0.6", "1510.0", "playing"}, records[1])
		assert.Equal(t, "playing", records[2][2])
		assert.Empty(t, records[3][6], "unrated genres leave the ELO blank")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteGenreSummary(&buf, summary, testConfig(schema.JSONOut), time.Second))
		var decoded schema.GenreSummary
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Genres, 2)
		assert.Equal(t, "RPG", decoded.Genres[0].Genre)
		assert.Nil(t, decoded.Genres[1].Total.AverageElo)
	})

	t.Run("parquet", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteGenreSummary(&buf, summary, testConfig(schema.ParquetOut), time.Second))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PAR1")))
	})
}

func TestWriteSentimentSummary(t *testing.T) {
	summary := sampleSentimentSummary()

	t.Run("text shows the gap", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSentimentSummary(&buf, summary, testConfig(schema.TextOut), time.Second))
		out := buf.String()
		assert.Contains(t, out, "Strategy")
		assert.Contains(t, out, "35.0")
		assert.Contains(t, out, "Mixed")
		assert.Contains(t, out, "No data")
	})

	t.Run("json adds gap and labels", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSentimentSummary(&buf, summary, testConfig(schema.JSONOut), time.Second))
		var decoded struct {
			Genres []struct {
				Genre          string   `json:"genre"`
				Gap            *float64 `json:"gap"`
				SentimentLabel string   `json:"sentiment_label"`
			} `json:"genres"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Genres, 2)
		require.NotNil(t, decoded.Genres[0].Gap)
		assert.InDelta(t, 35.0, *decoded.Genres[0].Gap, 1e-9)
		assert.Equal(t, "Mixed", decoded.Genres[0].SentimentLabel)
		assert.Nil(t, decoded.Genres[1].Gap)
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSentimentSummary(&buf, summary, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, buf.Bytes())
		require.Len(t, records, 3)
		assert.Equal(t, "35.0", records[1][7])
		assert.Equal(t, "No data", records[2][6])
	})
}

func TestWriteLifecycleSummary(t *testing.T) {
	summary := sampleLifecycleSummary()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteLifecycleSummary(&buf, summary, testConfig(schema.TextOut), time.Second))
		out := buf.String()
		assert.Contains(t, out, "Purchase → Start")
		assert.Contains(t, out, "Longest Purchase → Start:")
		assert.Contains(t, out, "Aurora Trails")
		assert.Contains(t, out, "Aging backlog as of 2024-03-27")
		assert.Contains(t, out, "Nebula Drift")
		assert.Contains(t, out, "inverted_dates=1")
	})

	t.Run("text with empty backlog", func(t *testing.T) {
		empty := summary
		empty.AgingBacklog = nil
		var buf bytes.Buffer
		require.NoError(t, WriteLifecycleSummary(&buf, empty, testConfig(schema.TextOut), time.Second))
		assert.Contains(t, buf.String(), "No games waiting in the backlog.")
	})

	t.Run("csv has stage and aging rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteLifecycleSummary(&buf, summary, testConfig(schema.CSVOut), time.Second))
		records := readCSV(t, buf.Bytes())
		require.Len(t, records, 5)
		assert.Equal(t, "purchase_to_start", records[1][1])
		assert.Equal(t, "1", records[2][11], "skipped count of start_to_finish")
		assert.Equal(t, []string{"aging", "Nebula Drift"}, records[4][:2])
		assert.Equal(t, "300", records[4][14])
	})
}

func TestWriteEngagementSummary(t *testing.T) {
	summary := sampleEngagementSummary()

	t.Run("text lists periods and callouts", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEngagementSummary(&buf, summary, testConfig(schema.TextOut), time.Second, palette.New()))
		out := buf.String()
		assert.Contains(t, out, "Jan 2024")
		assert.Contains(t, out, "Range 2024-01-01 to 2024-02-01 by month")
		assert.Contains(t, out, "▲ Spike Feb 2024: +200% (+240 min) vs 2024-01-01")
		assert.Contains(t, out, "Titles: Aurora Trails (+240)")
		assert.Contains(t, out, "⚠ Burnout Feb 2024")
		assert.Contains(t, out, "sentiment -30.0")
	})

	t.Run("text without callouts", func(t *testing.T) {
		quiet := summary
		quiet.Callouts = nil
		var buf bytes.Buffer
		require.NoError(t, WriteEngagementSummary(&buf, quiet, testConfig(schema.TextOut), time.Second, nil))
		assert.Contains(t, buf.String(), "No spikes, dips or burnout detected.")
	})

	t.Run("colored output assigns palette entries", func(t *testing.T) {
		cfg := testConfig(schema.TextOut)
		cfg.UseColors = true
		pal := palette.New()
		var buf bytes.Buffer
		require.NoError(t, WriteEngagementSummary(&buf, summary, cfg, time.Second, pal))
		assert.Equal(t, 2, pal.Len(), "one title and one genre")
	})

	t.Run("csv has period and callout rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEngagementSummary(&buf, summary, testConfig(schema.CSVOut), time.Second, nil))
		records := readCSV(t, buf.Bytes())
		require.Len(t, records, 5)
		assert.Equal(t, "period", records[1][0])
		assert.Equal(t, "callout", records[3][0])
		assert.Equal(t, "spike", records[3][9])
		assert.Equal(t, "-30.0", records[4][12])
	})

	t.Run("json keeps null sentiment change", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEngagementSummary(&buf, summary, testConfig(schema.JSONOut), time.Second, nil))
		assert.Contains(t, buf.String(), `"period_start": "2024-02-01"`)
		var decoded schema.EngagementSummary
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Callouts, 2)
		assert.Nil(t, decoded.Callouts[0].SentimentChange)
	})
}

func TestWriteInsightReport(t *testing.T) {
	report := sampleInsightReport()

	t.Run("text has every section", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteInsightReport(&buf, report, testConfig(schema.TextOut), time.Second, palette.New()))
		out := buf.String()
		for _, heading := range []string{"== Genres ==", "== Sentiment ==", "== Lifecycle ==", "== Engagement =="} {
			assert.Contains(t, out, heading)
		}
	})

	t.Run("csv sections are commented", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteInsightReport(&buf, report, testConfig(schema.CSVOut), time.Second, nil))
		assert.True(t, strings.HasPrefix(buf.String(), "# Genres\n"))
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteInsightReport(&buf, report, testConfig(schema.JSONOut), time.Second, nil))
		var decoded schema.InsightReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Len(t, decoded.Engagement.Timeline, 2)
	})

	t.Run("parquet needs a file", func(t *testing.T) {
		var buf bytes.Buffer
		err := WriteInsightReport(&buf, report, testConfig(schema.ParquetOut), time.Second, nil)
		require.Error(t, err)
	})
}

func TestPrintInsightReportSplitsFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(dir, "report.parquet")

	require.NoError(t, PrintInsightReport(sampleInsightReport(), cfg, time.Second, palette.New()))
	for _, name := range []string{"genres", "sentiment", "lifecycle", "engagement"} {
		info, err := os.Stat(filepath.Join(dir, "report."+name+".parquet"))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
	_, err := os.Stat(cfg.OutputFile)
	assert.True(t, os.IsNotExist(err), "the combined file is not written")
}

func TestWriteThresholds(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteThresholds(&buf, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Questlog Thresholds")
		assert.Contains(t, out, "spike-percent")
		assert.Contains(t, out, "good")
		assert.Contains(t, out, "Story clear")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(schema.CSVOut)
		cfg.SentimentWeights = schema.SentimentWeights{"meh": 40}
		var buf bytes.Buffer
		require.NoError(t, WriteThresholds(&buf, cfg))
		records := readCSV(t, buf.Bytes())
		require.Len(t, records, 1+8+1)
		assert.Equal(t, []string{"sentiment_weight", "meh", "40"}, records[9][:3])
	})

	t.Run("json uses active values", func(t *testing.T) {
		cfg := testConfig(schema.JSONOut)
		cfg.Thresholds.NoiseFloor = 90
		var buf bytes.Buffer
		require.NoError(t, WriteThresholds(&buf, cfg))
		var decoded schema.ThresholdsRenderModel
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Thresholds, 8)
		assert.InDelta(t, 90.0, decoded.Thresholds[2].Value, 1e-9)
		assert.Len(t, decoded.Statuses, 7)
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		require.Error(t, WriteThresholds(&buf, testConfig(schema.ParquetOut)))
	})
}

func TestOutWriterPaletteIsShared(t *testing.T) {
	ow := NewOutWriter()
	require.NotNil(t, ow.Palette())
	assert.Same(t, ow.Palette(), ow.Palette())
}
