package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/questlog/internal/logging"
	"github.com/huangsam/questlog/schema"
)

// Sentiment label constants.
const (
	LovedValue    = "Loved"    // Loved value
	LikedValue    = "Liked"    // Liked value
	MixedValue    = "Mixed"    // Mixed value
	DislikedValue = "Disliked" // Disliked value
	NoDataValue   = "No data"  // NoData value
)

// Color variables for console output.
var (
	LovedColor    = color.New(color.FgGreen, color.Bold) // strong enjoyment
	LikedColor    = color.New(color.FgCyan)              // positive
	MixedColor    = color.New(color.FgYellow)            // caution, not bold
	DislikedColor = color.New(color.FgRed, color.Bold)   // poor enjoyment
	SpikeColor    = color.New(color.FgGreen)
	DipColor      = color.New(color.FgYellow)
	BurnoutColor  = color.New(color.FgMagenta, color.Bold)
)

// GetPlainLabel returns a plain text label for a 0-100 sentiment or interest score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score *float64) string {
	if score == nil {
		return NoDataValue
	}
	switch {
	case *score >= 80:
		return LovedValue
	case *score >= 60:
		return LikedValue
	case *score >= 40:
		return MixedValue
	default:
		return DislikedValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(score *float64) string {
	text := GetPlainLabel(score)

	switch text {
	case LovedValue:
		return LovedColor.Sprint(text)
	case LikedValue:
		return LikedColor.Sprint(text)
	case MixedValue:
		return MixedColor.Sprint(text)
	case DislikedValue:
		return DislikedColor.Sprint(text)
	default:
		return text
	}
}

// GetCalloutColor returns the console color of a callout type.
func GetCalloutColor(t schema.CalloutType) *color.Color {
	switch t {
	case schema.SpikeCallout:
		return SpikeColor
	case schema.DipCallout:
		return DipColor
	default:
		return BurnoutColor
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logging.Error().Err(err).Msg(msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logging.Warn().Err(err).Msg(msg)
}

// GetLibraryDBFilePath returns the path to the SQLite DB file for library storage.
func GetLibraryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".questlog_library.db"
	}
	return filepath.Join(homeDir, ".questlog_library.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".questlog_runs.db"
	}
	return filepath.Join(homeDir, ".questlog_runs.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
