// Package cmd defines the command-line interface for questlog.
package cmd

import (
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/logging"
	"github.com/huangsam/questlog/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(sentimentCmd)
	rootCmd.AddCommand(lifecycleCmd)
	rootCmd.AddCommand(engagementCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(libraryCmd)

	// Add the library subcommands to the parent library command
	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryStatusCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	libraryCmd.AddCommand(libraryClearCmd)
	libraryCmd.AddCommand(libraryMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", "", "Snapshot file (.json, .yaml) to analyze instead of the stored library")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of genres to display")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("period", string(schema.MonthPeriod), "Engagement bucket size: day or week or month")
	rootCmd.PersistentFlags().String("start", "", "Earliest session date to include (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end", "", "Latest session date to include (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("today", "", "Reference date for the aging backlog (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().String("library-backend", string(schema.SQLiteBackend), "Library backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("library-db-connect", "", "Database connection string for the library (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none (empty disables tracking)")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: trace or debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", logging.ConsoleFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write run gauges in Prometheus textfile format to this path")
	rootCmd.PersistentFlags().Bool("notify", false, "Send a desktop notification when burnout is detected")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	libraryClearCmd.Flags().Bool("runs", false, "Also remove the run history")

	// Bind all flags of libraryMigrateCmd to Viper
	libraryMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	libraryMigrateCmd.Flags().Bool("runs", false, "Migrate the run store instead of the library store")
	if err := viper.BindPFlags(libraryMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding library migrate flags", err)
	}
}
