package outwriter

import (
	"os"

	"github.com/huangsam/questlog/internal/contract"
	"golang.org/x/term"
)

// Bounds for the free-text column of a table.
const (
	minLabelWidth = 15
	maxLabelWidth = 48
)

// terminalWidth returns the --width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTableLabelWidth calculates how wide the title or genre column may grow
// once fixedWidth characters are reserved for the other columns.
func getMaxTableLabelWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve generous space for table borders, separators, and padding
	available := terminalWidth(cfg) - fixedWidth - 20
	if available < minLabelWidth {
		return minLabelWidth
	}
	if available > maxLabelWidth {
		return maxLabelWidth
	}
	return available
}
