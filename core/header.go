package core

import (
	"fmt"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
)

// printRunHeader prints a concise, 2-line header for each run.
func printRunHeader(cfg *contract.Config, command, source string, snap schema.Snapshot) {
	// Line 1: The run summary (source and command)
	fmt.Printf("🎮 Library: %s (%s: %d games, %d sessions)\n", source, command, len(snap.Games), len(snap.Sessions))

	// Line 2: The window the timeline and backlog use
	switch command {
	case "engagement", "insights":
		fmt.Printf("📅 Range: %s → %s (by %s)\n", dateOrOpen(cfg.StartDate), dateOrOpen(cfg.EndDate), cfg.Period)
	case "lifecycle":
		fmt.Printf("📅 Today: %s\n", dateOrOpen(cfg.Today))
	}
}

func dateOrOpen(d schema.Date) string {
	if d.IsZero() {
		return "open"
	}
	return d.String()
}
