package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/questlog/core"
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/iocache"
	"github.com/huangsam/questlog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// librarySetup validates the configuration and opens both stores from their configured backends.
func librarySetup(_ *cobra.Command, _ []string) error {
	if err := resolveConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.LibraryBackend, cfg.LibraryDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	storeManager = iocache.Manager
	return nil
}

// sqlitePath returns the database file a SQLite store would use.
func sqlitePath(connStr, fallback string) string {
	if connStr != "" {
		return connStr
	}
	return fallback
}

// libraryCmd focused on library data management.
//
// Note: clear and migrate only validate the configuration and never open a store,
// so they work against missing or outdated databases.
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the stored game library and run history",
	Long: `Manage the games and sessions that analytics read when --input is not given,
plus the optional history of analytics runs and their callouts.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  import  - Validate a snapshot file and replace the stored library
  status  - Show library and run history statistics
  export  - Export run history to Parquet for analytics
  clear   - Remove the stored library (and run history with --runs)
  migrate - Run database schema migrations

Examples:
  # Import an exported library
  questlog library import library.json

  # Keep run history in PostgreSQL
  export QUESTLOG_RUNS_DB_CONNECT="host=localhost user=ql dbname=questlog"
  questlog genres --runs-backend postgresql`,
}

// libraryImportCmd loads a snapshot file into the library store.
var libraryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a snapshot file and replace the stored library with it",
	Long: `Read a JSON or YAML snapshot, drop records that fail validation and store
the remaining games and sessions. The previous library is replaced in one
transaction, so a failed import leaves it untouched.

Accepted extensions: .json, .yaml, .yml

Examples:
  questlog library import library.json
  questlog library import library.yaml --library-backend mysql`,
	Args:    cobra.ExactArgs(1),
	PreRunE: librarySetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteLibraryImport(rootCtx, cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Failed to import library", err)
		}
	},
}

// libraryStatusCmd shows store status.
var libraryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display library and run history statistics",
	Long: `Show connection details and row counts for the library store, and for the
run store when --runs-backend is set.

Examples:
  questlog library status
  questlog library status --runs-backend sqlite`,
	PreRunE: librarySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetLibraryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get library status", err)
		}
		iocache.PrintLibraryStatus(os.Stdout, status)

		runs := storeManager.GetRunStore()
		if runs == nil {
			return
		}
		runStatus, err := runs.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		fmt.Println()
		iocache.PrintRunStatus(os.Stdout, runStatus)
	},
}

// libraryExportCmd exports run history to Parquet files.
var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet files",
	Long: `Write the recorded runs and callouts to two Parquet files derived from
--output-file:
- <output-file>.insight_runs.parquet
- <output-file>.callouts.parquet

Examples:
  questlog library export --runs-backend sqlite --output-file history`,
	PreRunE: librarySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunExport(storeManager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// libraryClearCmd clears the stored library.
var libraryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored library",
	Long: `Delete all stored games and sessions. With --runs the run history is removed too.

For SQLite the database file is deleted; for MySQL and PostgreSQL the tables are dropped.

WARNING: This action cannot be undone. Consider exporting run history first.

Examples:
  questlog library clear
  questlog library clear --runs --runs-backend sqlite`,
	PreRunE: configOnlySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		libraryPath := sqlitePath(cfg.LibraryDBConnect, contract.GetLibraryDBFilePath())
		if err := iocache.ClearLibrary(cfg.LibraryBackend, libraryPath, cfg.LibraryDBConnect); err != nil {
			contract.LogFatal("Failed to clear library", err)
		}
		fmt.Println("Library cleared successfully.")

		withRuns, _ := cmd.Flags().GetBool("runs")
		if !withRuns || cfg.RunsBackend == "" {
			return
		}
		runsPath := sqlitePath(cfg.RunsDBConnect, contract.GetRunsDBFilePath())
		if err := iocache.ClearRuns(cfg.RunsBackend, runsPath, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// libraryMigrateCmd runs database migrations.
var libraryMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations",
	Long: `Apply or roll back schema migrations for the library store, or for the run
store with --runs.

By default, migrates to the latest version. Use --target-version to choose a
specific version (0 rolls back everything).

Examples:
  # Migrate the library to the latest version
  questlog library migrate

  # Roll the run store back to its initial state
  questlog library migrate --runs --runs-backend mysql --target-version 0`,
	PreRunE: configOnlySetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		set, backend, connStr := iocache.LibraryMigrations, cfg.LibraryBackend, cfg.LibraryDBConnect
		if withRuns, _ := cmd.Flags().GetBool("runs"); withRuns {
			if cfg.RunsBackend == "" {
				contract.LogFatal("Failed to run migrations", fmt.Errorf("--runs requires --runs-backend"))
			}
			set, backend, connStr = iocache.RunMigrations, cfg.RunsBackend, cfg.RunsDBConnect
		}
		if backend == schema.NoneBackend {
			contract.LogFatal("Failed to run migrations", fmt.Errorf("the %s store backend is 'none'", set))
		}
		if err := iocache.Migrate(set, backend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
