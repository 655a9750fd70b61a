package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// registerTools registers all hwaudit MCP tools on the given server.
func registerTools(s *server.MCPServer, deps Deps) {
	// 1. hwaudit_run_audit
	s.AddTool(
		mcplib.NewTool("hwaudit_run_audit",
			mcplib.WithDescription("Audits this machine's hardware and returns per-component health scores, the global score and the verdict as JSON"),
			mcplib.WithBoolean("summary", mcplib.Description("Return only the one-line score and verdict")),
		),
		handleRunAudit(deps),
	)

	// 2. hwaudit_list_probes
	s.AddTool(
		mcplib.NewTool("hwaudit_list_probes",
			mcplib.WithDescription("Lists the component probes an audit runs on this platform, with their weight in the global score"),
		),
		handleListProbes(deps),
	)

	// 3. hwaudit_get_history
	s.AddTool(
		mcplib.NewTool("hwaudit_get_history",
			mcplib.WithDescription("Returns the summary of every past audit recorded on this machine"),
		),
		handleGetHistory(deps),
	)
}

func handleRunAudit(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		summary, _ := request.GetArguments()["summary"].(bool)

		result := deps.Auditor.RunAudit(ctx)
		persist(deps, result)

		if summary {
			return textResult(fmt.Sprintf("%d/100 %s", result.ScoreGlobal, result.Verdict)), nil
		}
		return jsonResult(result)
	}
}

// probeInfo is the JSON form of one applicable probe.
type probeInfo struct {
	Name      string               `json:"name"`
	Component domain.ComponentKind `json:"component"`
	Weight    float64              `json:"weight"`
}

func handleListProbes(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		probes := deps.Auditor.Probes()
		out := make([]probeInfo, 0, len(probes))
		for _, p := range probes {
			out = append(out, probeInfo{Name: p.Name(), Component: p.Kind(), Weight: deps.Weights[p.Kind()]})
		}
		return jsonResult(map[string]any{
			"platform": deps.Auditor.Platform(),
			"probes":   out,
		})
	}
}

func handleGetHistory(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if deps.History == nil {
			return jsonResult([]domain.AuditEntry{})
		}
		entries, err := deps.History.Load()
		if err != nil {
			return errorResult(fmt.Sprintf("loading history: %v", err)), nil
		}
		if entries == nil {
			entries = []domain.AuditEntry{}
		}
		return jsonResult(entries)
	}
}

// persist stores the audit as the last one and appends it to the history.
// Both are best-effort: a read-only state dir must not fail the tool.
func persist(deps Deps, result *domain.AuditResult) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Cache != nil {
		if err := deps.Cache.Save(result); err != nil {
			logger.Warn("saving last audit", "error", err)
		}
	}
	if deps.History != nil {
		if err := deps.History.Save(domain.NewAuditEntry(result)); err != nil {
			logger.Warn("saving history", "error", err)
		}
	}
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
