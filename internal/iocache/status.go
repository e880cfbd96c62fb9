package iocache

import (
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/questlog/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintLibraryStatus prints library store status information.
func PrintLibraryStatus(w io.Writer, status schema.LibraryStatus) {
	_, _ = fmt.Fprintf(w, "Library Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Games: %d\n", status.TotalGames)
	_, _ = fmt.Fprintf(w, "Total Sessions: %d\n", status.TotalSessions)
	if status.TotalSessions > 0 {
		_, _ = fmt.Fprintf(w, "First Session: %s\n", status.FirstSession)
		_, _ = fmt.Fprintf(w, "Last Session: %s\n", status.LastSession)
	}
	_, _ = fmt.Fprintf(w, "Storage Size: %d bytes\n", status.SizeBytes)
	printTableSizes(w, status.TableSizes)
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Runs Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Total Callouts: %d\n", status.TotalCallouts)
	}
	_, _ = fmt.Fprintf(w, "Storage Size: %d bytes\n", status.SizeBytes)
	printTableSizes(w, status.TableSizes)
}

func printTableSizes(w io.Writer, sizes map[string]int64) {
	if len(sizes) == 0 {
		return
	}
	tables := make([]string, 0, len(sizes))
	for table := range sizes {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, sizes[table])
	}
}
