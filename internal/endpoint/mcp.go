package endpoint

import (
	"net/http"

	"github.com/carbonwatch/carbonwatch/internal/mcp"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpSource struct {
	Store

	cache  Cache
	target string
}

func (s mcpSource) Target() string {
	return s.target
}

func (s mcpSource) Reading() (api.Reading, bool) {
	snap, ok := s.cache.Get()
	if !ok {
		return api.Reading{}, false
	}
	return snap.Reading(), true
}

// MCPHandler creates an HTTP handler for MCP requests.
func MCPHandler(c Cache, s Store, target string) http.Handler {
	server := mcp.NewServer(mcpSource{Store: s, cache: c, target: target})

	return mcpsdk.NewStreamableHTTPHandler(func(req *http.Request) *mcpsdk.Server {
		return server
	}, &mcpsdk.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})
}
