package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/wingru/internal/compat"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Analyzer Analyzer
	Version  string
}

// NewMCPServer creates an MCP server with the compatibility tools registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"wingru",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("wingru scores compatibility between two people from their names, majors and personality answers."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("score_compatibility",
			mcp.WithDescription("Produce a full compatibility analysis for two people: overall, cognitive, social and values scores, an explanation and a trust-layer label."),
			mcp.WithString("name_a", mcp.Description("First person's name"), mcp.Required()),
			mcp.WithString("name_b", mcp.Description("Second person's name"), mcp.Required()),
			mcp.WithString("major_a", mcp.Description("First person's field of study")),
			mcp.WithString("major_b", mcp.Description("Second person's field of study")),
			mcp.WithString("personality_a", mcp.Description("First person's free-text personality answer")),
			mcp.WithString("personality_b", mcp.Description("Second person's free-text personality answer")),
		),
		mcpScoreCompatibility(deps),
	)

	s.AddTool(
		mcp.NewTool("quick_score",
			mcp.WithDescription("Return the deterministic overall compatibility score for two names. Never calls a model."),
			mcp.WithString("name_a", mcp.Description("First person's name"), mcp.Required()),
			mcp.WithString("name_b", mcp.Description("Second person's name"), mcp.Required()),
		),
		mcpQuickScore(),
	)

	s.AddTool(
		mcp.NewTool("rank_candidates",
			mcp.WithDescription("Order candidate names by quick score against one person, highest first."),
			mcp.WithString("name", mcp.Description("The person to rank candidates for"), mcp.Required()),
			mcp.WithArray("candidates", mcp.Description("Candidate names"), mcp.Required()),
		),
		mcpRankCandidates(),
	)

	return s
}

func mcpScoreCompatibility(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, b, msg := pairArgs(req)
		if msg != "" {
			return mcpError(msg), nil
		}
		a.Major = req.GetString("major_a", "")
		b.Major = req.GetString("major_b", "")
		a.PersonalityAnswer = req.GetString("personality_a", "")
		b.PersonalityAnswer = req.GetString("personality_b", "")

		resp := NewAnalysis(deps.Analyzer.Score(ctx, a, b))
		out, err := json.Marshal(resp)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal analysis: %v", err)), nil
		}
		return mcpText(string(out)), nil
	}
}

func mcpQuickScore() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, b, msg := pairArgs(req)
		if msg != "" {
			return mcpError(msg), nil
		}
		return mcpText(fmt.Sprintf(`{"overall":%d}`, compat.QuickScore(a, b))), nil
	}
}

func mcpRankCandidates() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil || strings.TrimSpace(name) == "" {
			return mcpError("name is required"), nil
		}
		names := req.GetStringSlice("candidates", nil)
		if len(names) == 0 {
			return mcpError("candidates is required and must not be empty"), nil
		}
		if len(names) > maxBatchCandidates {
			return mcpError(fmt.Sprintf("at most %d candidates, got %d", maxBatchCandidates, len(names))), nil
		}

		candidates := make([]compat.Profile, len(names))
		for i, n := range names {
			candidates[i] = compat.Profile{Name: n}
		}

		out, err := json.Marshal(compat.Rank(compat.Profile{Name: name}, candidates))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal ranking: %v", err)), nil
		}
		return mcpText(string(out)), nil
	}
}

// pairArgs extracts name_a and name_b. A non-empty msg is a user-facing error.
func pairArgs(req mcp.CallToolRequest) (a, b compat.Profile, msg string) {
	nameA, err := req.RequireString("name_a")
	if err != nil || strings.TrimSpace(nameA) == "" {
		return a, b, "name_a is required"
	}
	nameB, err := req.RequireString("name_b")
	if err != nil || strings.TrimSpace(nameB) == "" {
		return a, b, "name_b is required"
	}
	return compat.Profile{Name: nameA}, compat.Profile{Name: nameB}, ""
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
