package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/tabula/internal/domain/cell"
	"github.com/rpggio/tabula/internal/domain/view"
	"github.com/rpggio/tabula/internal/repository"
)

// Config contains server configuration.
type Config struct {
	Manager       *view.Manager
	Fields        repository.FieldRepository
	Registry      *cell.Registry
	DefaultViewID string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "tabula",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &handlers{
		manager:       cfg.Manager,
		fields:        cfg.Fields,
		registry:      cfg.Registry,
		defaultViewID: cfg.DefaultViewID,
		logger:        cfg.Logger,
	})

	return server
}
