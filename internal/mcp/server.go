package mcp

import (
	"context"
	"fmt"
	"io"
	"sync"

	"dssrules/internal/logging"
	"dssrules/internal/rules"

	"github.com/mark3labs/mcp-go/server"
)

// ServerName is the name advertised during MCP initialization.
const ServerName = "dss_rules_injector_server"

// Server exposes a rules.Service as MCP tools over stdio.
type Server struct {
	service   *rules.Service
	logger    *logging.AppLogger
	mcpServer *server.MCPServer

	// calls serializes tool handlers, including calls the stdio transport
	// runs inline when its queue is full.
	calls sync.Mutex
}

// NewServer creates the MCP server and registers its tools.
func NewServer(service *rules.Service, logger *logging.AppLogger, version string) *Server {
	s := &Server{
		service: service,
		logger:  logger,
	}

	s.mcpServer = server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()

	logger.Debug("MCP server created", "name", ServerName, "version", version, "rulesDir", service.Root())
	return s
}

// Serve reads JSON-RPC messages from in and writes responses to out
// until in reaches end of input, which returns nil, or ctx is cancelled.
// Tool calls are handled one at a time, in arrival order.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	server.WithWorkerPoolSize(1)(stdio)
	stdio.SetErrorLogger(s.logger.StandardLog())

	s.logger.Info("Starting DSS rules server on stdio", "rulesDir", s.service.Root())
	if err := stdio.Listen(ctx, in, out); err != nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// NotifyIdle tells connected clients that no retrieval happened yet.
func (s *Server) NotifyIdle() {
	s.mcpServer.SendNotificationToAllClients("notifications/message", map[string]any{
		"level":  "warning",
		"logger": ServerName,
		"data":   "No get_dss_rules call detected yet. Agents should invoke get_dss_rules() to load bootstrap rules.",
	})
}

const instructions = `Call get_dss_rules() with no arguments on your first turn to load the bootstrap rules. ` +
	`Use list_available_rules to discover further rule files and request them by path.`
