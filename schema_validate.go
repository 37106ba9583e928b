package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

// SchemaValidatingToolServer wraps a ToolServer so that CallTool arguments are validated
// against the tool's declared InputSchema before the wrapped implementation ever sees them.
// A tool call that fails validation yields a CallToolResult with IsError set, matching how a
// ToolServer implementation reports any other business-logic failure.
type SchemaValidatingToolServer struct {
	ToolServer

	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidatingToolServer wraps next, compiling the InputSchema of each tool returned
// by next.ListTools each time ListTools returns it. Tools with no InputSchema are passed
// through unvalidated.
func NewSchemaValidatingToolServer(next ToolServer) *SchemaValidatingToolServer {
	return &SchemaValidatingToolServer{
		ToolServer: next,
		schemas:    make(map[string]*jsonschema.Schema),
	}
}

// ListTools delegates to the wrapped ToolServer and caches each tool's compiled schema.
func (s *SchemaValidatingToolServer) ListTools(
	ctx context.Context,
	params ListToolsParams,
	progress ProgressReporter,
	reqClient RequestClientFunc,
) (ListToolsResult, error) {
	result, err := s.ToolServer.ListTools(ctx, params, progress, reqClient)
	if err != nil {
		return result, err
	}

	for _, tool := range result.Tools {
		s.cacheSchema(tool)
	}

	return result, nil
}

func (s *SchemaValidatingToolServer) cacheSchema(tool Tool) {
	if len(tool.InputSchema) == 0 {
		return
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(tool.InputSchema, rs); err != nil {
		return
	}

	s.mu.Lock()
	s.schemas[tool.Name] = rs
	s.mu.Unlock()
}

// CallTool validates params.Arguments against the tool's cached schema, if any, before
// delegating to the wrapped ToolServer.
func (s *SchemaValidatingToolServer) CallTool(
	ctx context.Context,
	params CallToolParams,
	progress ProgressReporter,
	reqClient RequestClientFunc,
) (CallToolResult, error) {
	s.mu.Lock()
	schema := s.schemas[params.Name]
	s.mu.Unlock()

	if schema != nil {
		var args interface{}
		if len(params.Arguments) > 0 {
			if err := json.Unmarshal(params.Arguments, &args); err != nil {
				return CallToolResult{
					Content: []Content{{
						Type: ContentTypeText,
						Text: fmt.Sprintf("invalid arguments for tool %q: %s", params.Name, err.Error()),
					}},
					IsError: true,
				}, nil
			}
		}

		state := schema.Validate(ctx, args)
		if state.Errs != nil && len(*state.Errs) > 0 {
			messages := make([]string, len(*state.Errs))
			for i, e := range *state.Errs {
				messages[i] = e.Error()
			}
			return CallToolResult{
				Content: []Content{{
					Type: ContentTypeText,
					Text: fmt.Sprintf("invalid arguments for tool %q: %s", params.Name, strings.Join(messages, "; ")),
				}},
				IsError: true,
			}, nil
		}
	}

	return s.ToolServer.CallTool(ctx, params, progress, reqClient)
}
