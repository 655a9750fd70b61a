package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Auditor runs audits for the MCP tools. *application.AuditService
// implements it.
type Auditor interface {
	Platform() domain.Platform
	Probes() []domain.Probe
	RunAudit(ctx context.Context) *domain.AuditResult
}

// Deps are the collaborators the server exposes. Cache and History may be
// nil, in which case audits are not persisted. A nil Logger means
// slog.Default().
type Deps struct {
	Auditor Auditor
	Cache   domain.AuditCache
	History domain.AuditHistory
	Weights domain.Weights
	Logger  *slog.Logger
}

// NewHwauditMCPServer creates a new MCP server with all hwaudit tools and
// resources registered.
func NewHwauditMCPServer(deps Deps, version string) *server.MCPServer {
	if deps.Weights == nil {
		deps.Weights = domain.DefaultWeights()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := server.NewMCPServer(
		"hwaudit",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, deps)
	registerResources(s, deps)

	return s
}
