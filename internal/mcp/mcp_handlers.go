package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/huangsam/questlog/core"
	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/internal/outwriter"
	"github.com/huangsam/questlog/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config for one call and applies the limit argument.
// Results are always rendered as JSON into the tool response.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = ""
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	return cfg
}

// jsonResult renders a summary with the CLI's JSON writer.
func jsonResult(write func(*bytes.Buffer) error) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleGetGenreSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	summary, duration, err := core.GetGenreResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("genre analysis failed: %v", err)), nil
	}
	return jsonResult(func(buf *bytes.Buffer) error {
		return outwriter.WriteGenreSummary(buf, summary, cfg, duration)
	})
}

func (h *toolHandler) handleGetSentimentSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	summary, duration, err := core.GetSentimentResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sentiment analysis failed: %v", err)), nil
	}
	return jsonResult(func(buf *bytes.Buffer) error {
		return outwriter.WriteSentimentSummary(buf, summary, cfg, duration)
	})
}

func (h *toolHandler) handleGetLifecycleSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	if today := request.GetString("today", ""); today != "" {
		d, err := schema.ParseDate(today)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid today date '%s'. expected YYYY-MM-DD", today)), nil
		}
		cfg.Today = d
	}
	summary, duration, err := core.GetLifecycleResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lifecycle analysis failed: %v", err)), nil
	}
	return jsonResult(func(buf *bytes.Buffer) error {
		return outwriter.WriteLifecycleSummary(buf, summary, cfg, duration)
	})
}

func (h *toolHandler) handleGetEngagementSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)
	period := request.GetString("period", "")
	start := request.GetString("start", "")
	end := request.GetString("end", "")

	if err := contract.RevalidateEngagement(cfg, period, start, end); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid engagement parameters: %v", err)), nil
	}

	summary, duration, err := core.GetEngagementResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("engagement analysis failed: %v", err)), nil
	}
	return jsonResult(func(buf *bytes.Buffer) error {
		return outwriter.WriteEngagementSummary(buf, summary, cfg, duration, nil)
	})
}
