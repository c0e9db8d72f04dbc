package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	devlog "github.com/unowned-ai/devlog/pkg"
	"github.com/unowned-ai/devlog/pkg/logs"
	"github.com/unowned-ai/devlog/pkg/suggest"
)

type DevlogMCPServer struct {
	mcpServer *server.MCPServer
	store     *logs.Store
	service   *suggest.Service
}

// NewDevlogMCPServer builds an MCP server over an open store. The caller keeps
// ownership of the store and closes it after Start returns.
func NewDevlogMCPServer(store *logs.Store, service *suggest.Service) *DevlogMCPServer {
	s := server.NewMCPServer(
		"DevLog MCP Server",
		devlog.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	return &DevlogMCPServer{
		mcpServer: s,
		store:     store,
		service:   service,
	}
}

// RegisterTools adds every devlog tool to the server.
func (s *DevlogMCPServer) RegisterTools() {
	RegisterPingTool(s.mcpServer)
	RegisterCreateLogTool(s.mcpServer, s.store)
	RegisterListLogsTool(s.mcpServer, s.store)
	RegisterGetLogTool(s.mcpServer, s.store)
	RegisterDeleteLogTool(s.mcpServer, s.store)
	RegisterListTagsTool(s.mcpServer, s.store)
	RegisterGetStatsTool(s.mcpServer, s.store)
	RegisterGetSuggestionTool(s.mcpServer, s.service)
	RegisterGetMoodInsightTool(s.mcpServer, s.service)
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *DevlogMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPRawServer exposes the raw mcp-go server (useful for additional configuration).
func (s *DevlogMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}
