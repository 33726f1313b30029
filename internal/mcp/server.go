// Package mcp serves the state and the log of carbonwatch to MCP clients.
package mcp

import (
	"github.com/carbonwatch/carbonwatch/internal/meta"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server that has the read-only tools.
func NewServer(s Source) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "carbonwatch",
		Version: meta.Version,
		Title:   "carbonwatch (" + s.Target() + ")",
	}

	opts := &mcp.ServerOptions{
		Instructions: "carbonwatch watches the carbon intensity of the electricity grid of " + s.Target() + ". The log can be large, so it is recommended to aggregate it using jq queries instead of fetching all records at once.",
	}

	server := mcp.NewServer(impl, opts)
	AddTools(server, s)

	return server
}
