package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const lastAuditURI = "hwaudit://audit/last"

// registerResources registers all hwaudit MCP resources on the given server.
func registerResources(s *server.MCPServer, deps Deps) {
	// 1. hwaudit://audit/last - most recent audit report
	s.AddResource(
		mcplib.NewResource(
			lastAuditURI,
			"Last Audit",
			mcplib.WithResourceDescription("The most recent hardware audit recorded on this machine"),
			mcplib.WithMIMEType("application/json"),
		),
		handleLastAuditResource(deps),
	)
}

func handleLastAuditResource(deps Deps) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		if deps.Cache == nil {
			return nil, fmt.Errorf("no audit store configured")
		}
		result, err := deps.Cache.Load()
		if err != nil {
			return nil, fmt.Errorf("loading last audit: %w", err)
		}
		if result == nil {
			return nil, fmt.Errorf("no audit recorded yet; call hwaudit_run_audit first")
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling audit: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      lastAuditURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
