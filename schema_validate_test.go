package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modulecraft/go-mcp"
)

type stubToolServer struct {
	tools  []mcp.Tool
	called bool
}

func (s *stubToolServer) ListTools(
	context.Context, mcp.ListToolsParams, mcp.ProgressReporter, mcp.RequestClientFunc,
) (mcp.ListToolsResult, error) {
	return mcp.ListToolsResult{Tools: s.tools}, nil
}

func (s *stubToolServer) CallTool(
	context.Context, mcp.CallToolParams, mcp.ProgressReporter, mcp.RequestClientFunc,
) (mcp.CallToolResult, error) {
	s.called = true
	return mcp.CallToolResult{Content: []mcp.Content{{Type: mcp.ContentTypeText, Text: "ok"}}}, nil
}

func TestSchemaValidatingToolServerRejectsInvalidArguments(t *testing.T) {
	stub := &stubToolServer{
		tools: []mcp.Tool{
			{
				Name:        "greet",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`),
			},
		},
	}
	validating := mcp.NewSchemaValidatingToolServer(stub)

	ctx := context.Background()
	if _, err := validating.ListTools(ctx, mcp.ListToolsParams{}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := validating.CallTool(ctx, mcp.CallToolParams{
		Name:      "greet",
		Arguments: json.RawMessage(`{}`),
	}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError to be true for missing required argument")
	}
	if stub.called {
		t.Error("wrapped ToolServer.CallTool should not have been invoked")
	}
}

func TestSchemaValidatingToolServerPassesValidArguments(t *testing.T) {
	stub := &stubToolServer{
		tools: []mcp.Tool{
			{
				Name:        "greet",
				InputSchema: json.RawMessage(`{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`),
			},
		},
	}
	validating := mcp.NewSchemaValidatingToolServer(stub)

	ctx := context.Background()
	if _, err := validating.ListTools(ctx, mcp.ListToolsParams{}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := validating.CallTool(ctx, mcp.CallToolParams{
		Name:      "greet",
		Arguments: json.RawMessage(`{"name":"world"}`),
	}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Errorf("unexpected error result: %+v", result)
	}
	if !stub.called {
		t.Error("expected wrapped ToolServer.CallTool to be invoked")
	}
}
