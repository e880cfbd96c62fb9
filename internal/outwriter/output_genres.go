package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/parquet"
	"github.com/huangsam/questlog/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintGenreSummary outputs the genre ranking to the configured destination.
func PrintGenreSummary(summary schema.GenreSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteGenreSummary(w, summary, cfg, duration)
	}, "Wrote genre summary")
}

// WriteGenreSummary writes the genre ranking, dispatching based on the output format configured.
func WriteGenreSummary(w io.Writer, summary schema.GenreSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtOptional := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, summary)
	case schema.CSVOut:
		if err := writeGenreCSV(w, summary, fmtFloat, fmtOptional); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	case schema.ParquetOut:
		return writeParquet(w, parquet.GenreRows(summary))
	default:
		return writeGenreTable(w, summary, cfg, fmtFloat, fmtOptional, duration)
	}
}

// writeGenreTable generates and writes the human-readable genre table.
func writeGenreTable(w io.Writer, summary schema.GenreSummary, cfg *contract.Config, fmtFloat func(float64) string, fmtOptional func(*float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Genre", "Games", "Weight", "Share", "Avg ELO", "Dominant"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg, 60)
	var data [][]string
	for i, g := range summary.Genres {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateLabel(g.Genre, labelWidth),
			strconv.Itoa(g.Total.Count),
			fmtFloat(g.Total.Weight),
			formatShare(g.Total.Share, cfg.Precision),
			fmtOptional(g.Total.AverageElo),
			dominantLabel(g.Dominant),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	var buckets []string
	for _, status := range summary.BucketOrder {
		totals := summary.Buckets[status]
		buckets = append(buckets, fmt.Sprintf("%s %d", summary.BucketMetadata[status].Label, totals.TotalGames))
	}
	if _, err := fmt.Fprintf(w, "Showing %d genres. Buckets: %s\n", len(summary.Genres), strings.Join(buckets, ", ")); err != nil {
		return err
	}
	owned, wishlist := summary.Groups[schema.OwnedGroup], summary.Groups[schema.WishlistGroup]
	if _, err := fmt.Fprintf(w, "Owned: %d games, Wishlist: %d games\n", owned.TotalGames, wishlist.TotalGames); err != nil {
		return err
	}
	return writeFooter(w, "Genre analysis", summary.DataQuality, duration)
}

// writeGenreCSV writes one row per genre and status bucket, plus a total row per genre.
func writeGenreCSV(w io.Writer, summary schema.GenreSummary, fmtFloat func(float64) string, fmtOptional func(*float64) string) error {
	header := []string{"rank", "genre", "scope", "games", "weight", "share", "average_elo", "dominant"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, g := range summary.Genres {
			rank := strconv.Itoa(i + 1)
			rec := []string{rank, g.Genre, "total", strconv.Itoa(g.Total.Count), fmtFloat(g.Total.Weight),
				fmtFloat(g.Total.Share), fmtOptional(g.Total.AverageElo), g.Dominant}
			if err := cw.Write(rec); err != nil {
				return err
			}
			for _, status := range summary.BucketOrder {
				stats, ok := g.Buckets[status]
				if !ok || stats.Count == 0 {
					continue
				}
				rec := []string{rank, g.Genre, string(status), strconv.Itoa(stats.Count), fmtFloat(stats.Weight),
					fmtFloat(stats.Share), fmtOptional(stats.AverageElo), ""}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
