package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LOG_QUERY_TIMEOUT limits how long query_logs can scan the log.
const LOG_QUERY_TIMEOUT = 10 * time.Second

// IntensityInput is the input for get_intensity tool.
type IntensityInput struct {
	JQ string `json:"jq,omitempty" jsonschema:"A jq query string to extract values. Query receives an object like '{\"target\": \"co2signal:DE\", \"carbon_intensity\": 312, \"alert_active\": false, \"updated_at\": \"{RFC 3339}\", \"last_refresh\": {\"time\": \"{RFC 3339}\", \"status\": \"...\", \"message\": \"...\", ...}}'. carbon_intensity is null until the first successful fetch."`
}

// FetchIntensityByJQ builds the current state from s and applies jq query.
func FetchIntensityByJQ(ctx context.Context, s Source, input IntensityInput) (Output, error) {
	jq, err := ParseJQ(input.JQ)
	if err != nil {
		return Output{}, fmt.Errorf("failed to parse jq query: %w", err)
	}

	target := s.Target()
	reading, ok := s.Reading()

	var last *api.Record
	if r, found := s.LastRecord(target); found {
		last = &r
	}

	return jq.Run(ctx, ReadingToMap(target, reading, ok, last))
}

// LogsInput is the input for query_logs tool.
type LogsInput struct {
	Since string `json:"since" jsonschema:"The start time for fetching logs, in RFC3339 format."`
	Until string `json:"until" jsonschema:"The end time for fetching logs, in RFC3339 format."`
	JQ    string `json:"jq,omitempty" jsonschema:"A jq query string to filter logs. Query receives an array of records. Each record has at least 'time', 'status', 'latency_ms', and 'target', and successful refreshes have 'carbon_intensity' and 'alert_active'. For example, 'map(select(.status == \"HEALTHY\") | .carbon_intensity) | add / length' to get the average carbon intensity."`
}

// FetchLogsByJQ reads the log in the period and applies jq query.
func FetchLogsByJQ(ctx context.Context, s Source, input LogsInput) (Output, error) {
	ctx, cancel := context.WithTimeout(ctx, LOG_QUERY_TIMEOUT)
	defer cancel()

	if input.Since == "" || input.Until == "" {
		return Output{}, errors.New("since and until parameters are required")
	}

	since, err := time.Parse(time.RFC3339, input.Since)
	if err != nil {
		return Output{}, fmt.Errorf("since time must be in RFC3339 format but got %q", input.Since)
	}
	until, err := time.Parse(time.RFC3339, input.Until)
	if err != nil {
		return Output{}, fmt.Errorf("until time must be in RFC3339 format but got %q", input.Until)
	}

	jq, err := ParseJQ(input.JQ)
	if err != nil {
		return Output{}, fmt.Errorf("failed to parse jq query: %w", err)
	}

	logs, err := s.OpenLog(since, until)
	if err != nil {
		s.ReportInternalError("mcp:query_logs", fmt.Sprintf("failed to open logs: %v", err))
		return Output{}, errors.New("log is not available")
	}
	defer logs.Close()

	records := []any{}
	for logs.Scan() {
		if ctx.Err() != nil {
			return Output{}, ctx.Err()
		}
		records = append(records, RecordToMap(logs.Record()))
	}

	return jq.Run(ctx, records)
}

// AddTools adds the read-only tools to the MCP server.
// These tools are: get_intensity, query_logs.
func AddTools(server *mcp.Server, s Source) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_intensity",
		Title:       "Get carbon intensity",
		Description: "Fetch the latest carbon intensity of the electricity grid, the alert state, and the result of the last refresh.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
			ReadOnlyHint:   true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input IntensityInput) (*mcp.CallToolResult, Output, error) {
		output, err := FetchIntensityByJQ(ctx, s, input)
		return nil, output, err
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_logs",
		Title:       "Query logs",
		Description: "Fetch the refresh history from the carbonwatch log file. The result can be large. Please use a short time range or aggregate in jq query.",
		Annotations: &mcp.ToolAnnotations{
			IdempotentHint: true,
			ReadOnlyHint:   true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input LogsInput) (*mcp.CallToolResult, Output, error) {
		output, err := FetchLogsByJQ(ctx, s, input)
		return nil, output, err
	})
}
