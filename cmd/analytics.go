package cmd

import (
	"github.com/huangsam/questlog/core"
	"github.com/huangsam/questlog/internal/contract"
	"github.com/spf13/cobra"
)

// analyticsCommand builds a command that runs one core executor after the shared setup.
func analyticsCommand(use, short, long, failure string, exec core.ExecutorFunc) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Args:    cobra.NoArgs,
		PreRunE: sharedSetupWrapper,
		Run: func(_ *cobra.Command, _ []string) {
			if err := exec(rootCtx, cfg, storeManager); err != nil {
				contract.LogFatal(failure, err)
			}
		},
	}
}

// genresCmd ranks genres by how much of the library they cover.
var genresCmd = analyticsCommand(
	"genres",
	"Rank genres and show which status bucket dominates each.",
	`Count every genre across the library and split it by status bucket.

For each genre this shows:
- How many games carry it and its share of all genre tags
- The average ELO rating of its rated games
- Whether backlog, in-progress, completed, dropped or wishlist games dominate

Examples:
  # Rank genres from an exported snapshot
  questlog genres --input library.json

  # Top 10 genres from the imported library as JSON
  questlog genres --limit 10 --output json`,
	"Cannot rank genres",
	core.ExecuteGenres,
)

// sentimentCmd compares interest and enjoyment per genre.
var sentimentCmd = analyticsCommand(
	"sentiment",
	"Compare how much you want a genre with how much you enjoy it.",
	`Contrast interest (ELO of wishlist and untouched games) with enjoyment
(playtime-weighted session sentiment) for every genre.

A positive gap means a genre excites you more than it delivers once played.

Examples:
  # Show the interest versus enjoyment table
  questlog sentiment --input library.yaml

  # Export for a spreadsheet
  questlog sentiment --output csv --output-file sentiment.csv`,
	"Cannot compute sentiment",
	core.ExecuteSentiment,
)

// lifecycleCmd measures purchase, start and finish durations.
var lifecycleCmd = analyticsCommand(
	"lifecycle",
	"Measure how long games wait before you start and finish them.",
	`Compute duration statistics for three stages:
- Purchase → Start
- Start → Finish
- Purchase → Finish

Also lists the longest examples per stage and the oldest unstarted purchases.

Examples:
  # Lifecycle statistics with the aging backlog measured from a fixed date
  questlog lifecycle --today 2024-06-30

  # Machine-readable output
  questlog lifecycle --output json`,
	"Cannot analyze lifecycle",
	core.ExecuteLifecycle,
)

// engagementCmd builds the engagement timeline and its callouts.
var engagementCmd = analyticsCommand(
	"engagement",
	"Show playtime per period with spikes, dips and burnout.",
	`Bucket logged sessions by day, week or month and flag notable changes:
- Spike: playtime jumped against the previous active period
- Dip: playtime fell against the previous active period
- Burnout: sentiment fell while playtime held steady or grew

Each callout names the titles and genres that drove it.

Examples:
  # Monthly timeline for 2024
  questlog engagement --start 2024-01-01 --end 2024-12-31

  # Weekly buckets with a desktop alert on burnout
  questlog engagement --period week --notify`,
	"Cannot build engagement timeline",
	core.ExecuteEngagement,
)

// insightsCmd runs every analysis at once.
var insightsCmd = analyticsCommand(
	"insights",
	"Run every analysis over the library and print one report.",
	`Combine genres, sentiment, lifecycle and engagement into a single report
computed from the same snapshot.

With --output csv or parquet and --output-file, each section is written to
its own file next to the requested path (report.genres.csv, report.sentiment.csv, ...).

Examples:
  # Full report on the terminal
  questlog insights --input library.json

  # Parquet files for DuckDB or pandas
  questlog insights --output parquet --output-file report.parquet`,
	"Cannot build insights",
	core.ExecuteInsights,
)

// thresholdsCmd prints the active thresholds.
var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Print the active thresholds, sentiment weights and status buckets.",
	Long: `Show the values that drive dominance, callout detection and list sizes,
after defaults, the config file and environment variables are merged.

Override them in .questlog.yaml:

  thresholds:
    spike-percent: 0.75
    burnout-drop: 20
  sentiment-weights:
    great: 90

Examples:
  questlog thresholds
  questlog thresholds --output json`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteThresholds(rootCtx, cfg, nil); err != nil {
			contract.LogFatal("Cannot print thresholds", err)
		}
	},
}
