// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Questlog MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Questlog Insights Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_genre_summary ---
	s.AddTool(mcp.NewTool("get_genre_summary",
		mcp.WithDescription("Rank the genres of the game library and show which status bucket dominates each."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of genres returned.")),
	), h.handleGetGenreSummary)

	// --- 2. Tool: get_sentiment_summary ---
	s.AddTool(mcp.NewTool("get_sentiment_summary",
		mcp.WithDescription("Compare interest (ELO of wishlist and unstarted games) with playtime-weighted enjoyment per genre."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of genres returned.")),
	), h.handleGetSentimentSummary)

	// --- 3. Tool: get_lifecycle_summary ---
	s.AddTool(mcp.NewTool("get_lifecycle_summary",
		mcp.WithDescription("Measure purchase to start, start to finish and purchase to finish durations, plus the aging backlog."),
		mcp.WithString("today", mcp.Description("Reference date for the aging backlog (YYYY-MM-DD). Defaults to today.")),
	), h.handleGetLifecycleSummary)

	// --- 4. Tool: get_engagement_summary ---
	s.AddTool(mcp.NewTool("get_engagement_summary",
		mcp.WithDescription("Bucket play sessions over time and flag spikes, dips and burnout with their driving titles and genres."),
		mcp.WithString("period", mcp.Description("Bucket size. Defaults to 'month'."), mcp.Enum("day", "week", "month")),
		mcp.WithString("start", mcp.Description("Earliest session date to include (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Latest session date to include (YYYY-MM-DD).")),
	), h.handleGetEngagementSummary)

	return s
}

// StartMCPServer starts the Questlog MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
