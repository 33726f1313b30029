package mcp

import (
	"context"

	"github.com/itchyny/gojq"
)

// JQQuery is a compiled jq query.
type JQQuery struct {
	Code *gojq.Code
}

// ParseJQ parses a jq query string. An empty query means ".".
func ParseJQ(query string) (JQQuery, error) {
	if query == "" {
		query = "."
	}

	q, err := gojq.Parse(query)
	if err != nil {
		return JQQuery{}, err
	}

	c, err := gojq.Compile(q)
	if err != nil {
		return JQQuery{}, err
	}

	return JQQuery{Code: c}, nil
}

// Output is the result of an MCP tool call.
type Output struct {
	Result any `json:"result" jsonschema:"The result of the query."`
}

// Run executes the query on the input.
//
// A single result is returned as is, and multiple results are wrapped in an array.
func (q JQQuery) Run(ctx context.Context, input any) (Output, error) {
	var outputs []any

	iter := q.Code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if halt, ok := v.(*gojq.HaltError); ok {
			if halt.ExitCode() == 0 {
				break
			}
			outputs = append(outputs, map[string]any{
				"status":    "halt_error",
				"exit_code": halt.ExitCode(),
				"value":     halt.Value(),
			})
			break
		} else if err, ok := v.(error); ok {
			return Output{}, err
		}
		outputs = append(outputs, v)
	}

	if len(outputs) == 1 {
		return Output{Result: outputs[0]}, nil
	}
	return Output{Result: outputs}, nil
}
