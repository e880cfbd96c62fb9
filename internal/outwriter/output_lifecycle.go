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

// lifecycleStage names a stage for display.
type lifecycleStage struct {
	key   string
	title string
	stage schema.LifecycleStage
}

func lifecycleStages(summary schema.LifecycleSummary) []lifecycleStage {
	return []lifecycleStage{
		{"purchase_to_start", "Purchase → Start", summary.PurchaseToStart},
		{"start_to_finish", "Start → Finish", summary.StartToFinish},
		{"purchase_to_finish", "Purchase → Finish", summary.PurchaseToFinish},
	}
}

// PrintLifecycleSummary outputs the lifecycle report to the configured destination.
func PrintLifecycleSummary(summary schema.LifecycleSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteLifecycleSummary(w, summary, cfg, duration)
	}, "Wrote lifecycle summary")
}

// WriteLifecycleSummary writes the lifecycle report, dispatching based on the output format configured.
func WriteLifecycleSummary(w io.Writer, summary schema.LifecycleSummary, cfg *contract.Config, duration time.Duration) error {
	_, fmtOptional := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, summary)
	case schema.CSVOut:
		if err := writeLifecycleCSV(w, summary, fmtOptional); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		return nil
	case schema.ParquetOut:
		return writeParquet(w, parquet.LifecycleRows(summary))
	default:
		return writeLifecycleTables(w, summary, cfg, fmtOptional, duration)
	}
}

// writeLifecycleTables prints the stage statistics, the longest samples and the aging backlog.
func writeLifecycleTables(w io.Writer, summary schema.LifecycleSummary, cfg *contract.Config, fmtOptional func(*float64) string, duration time.Duration) error {
	stages := lifecycleStages(summary)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Stage", "Games", "Mean", "Median", "Min", "P10", "P25", "P75", "P90", "Max", "Skipped"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, s := range stages {
		st := s.stage.Statistics
		data = append(data, []string{
			s.title,
			strconv.Itoa(st.Count),
			fmtOptional(st.Mean),
			fmtOptional(st.Median),
			fmtOptional(st.Min),
			fmtOptional(st.Percentiles.P10),
			fmtOptional(st.Percentiles.P25),
			fmtOptional(st.Percentiles.P75),
			fmtOptional(st.Percentiles.P90),
			fmtOptional(st.Max),
			strconv.Itoa(s.stage.Skipped),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	labelWidth := getMaxTableLabelWidth(cfg, 30)
	for _, s := range stages {
		if len(s.stage.LongestExamples) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\nLongest %s:\n", s.title); err != nil {
			return err
		}
		for _, ex := range s.stage.LongestExamples {
			if _, err := fmt.Fprintf(w, "  %-*s %5d days (%s to %s)\n", labelWidth,
				contract.TruncateLabel(ex.Title, labelWidth), ex.Days, ex.From, ex.To); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\nAging backlog as of %s:\n", summary.Today); err != nil {
		return err
	}
	if len(summary.AgingBacklog) == 0 {
		if _, err := fmt.Fprintln(w, "  "+schema.DefinitionOf(schema.BacklogStatus).EmptyCopy); err != nil {
			return err
		}
	} else {
		aging := tablewriter.NewWriter(w)
		aging.Header([]string{"Rank", "Title", "Status", "Waiting Since", "Days"})
		aging.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var rows [][]string
		for i, item := range summary.AgingBacklog {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				contract.TruncateLabel(item.Title, labelWidth),
				schema.DefinitionOf(item.Status).Label,
				item.Anchor.String(),
				strconv.Itoa(item.DaysWaiting),
			})
		}
		if err := aging.Bulk(rows); err != nil {
			return err
		}
		if err := aging.Render(); err != nil {
			return err
		}
	}
	return writeFooter(w, "Lifecycle analysis", summary.DataQuality, duration)
}

// writeLifecycleCSV writes stage rows followed by aging backlog rows.
func writeLifecycleCSV(w io.Writer, summary schema.LifecycleSummary, fmtOptional func(*float64) string) error {
	header := []string{"kind", "name", "count", "mean", "median", "min", "p10", "p25", "p75", "p90", "max",
		"skipped", "status", "anchor", "days_waiting"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range lifecycleStages(summary) {
			st := s.stage.Statistics
			rec := []string{"stage", s.key, strconv.Itoa(st.Count),
				fmtOptional(st.Mean), fmtOptional(st.Median), fmtOptional(st.Min),
				fmtOptional(st.Percentiles.P10), fmtOptional(st.Percentiles.P25),
				fmtOptional(st.Percentiles.P75), fmtOptional(st.Percentiles.P90), fmtOptional(st.Max),
				strconv.Itoa(s.stage.Skipped), "", "", ""}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		for _, item := range summary.AgingBacklog {
			rec := []string{"aging", item.Title, "", "", "", "", "", "", "", "", "", "",
				string(item.Status), item.Anchor.String(), strconv.Itoa(item.DaysWaiting)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
