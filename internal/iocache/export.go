package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/parquet"
)

// ExecuteRunExport exports the run history to Parquet files next to outputFile.
func ExecuteRunExport(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is disabled; set --runs-backend to export run history")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total callouts: %d\n", status.TotalCallouts)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	callouts, err := store.GetAllCallouts()
	if err != nil {
		return fmt.Errorf("failed to retrieve callouts: %w", err)
	}

	runRows := parquet.ConvertInsightRunRecords(runs)
	runsFile := outputFile + ".insight_runs.parquet"
	if err := parquet.WriteFile(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runRows), runsFile)

	calloutRows := parquet.ConvertCalloutRecords(callouts)
	calloutsFile := outputFile + ".callouts.parquet"
	if err := parquet.WriteFile(calloutRows, calloutsFile); err != nil {
		return fmt.Errorf("failed to write callouts: %w", err)
	}
	fmt.Printf("Exported %d callouts to: %s\n", len(calloutRows), calloutsFile)

	return nil
}
