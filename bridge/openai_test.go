package bridge_test

import (
	"encoding/json"
	"testing"

	"github.com/modulecraft/go-mcp"
	"github.com/modulecraft/go-mcp/bridge"
)

func TestToOpenAIFunctionsInjectsAdditionalProperties(t *testing.T) {
	tools := []mcp.Tool{
		{
			Name:        "test_tool",
			Description: "A test tool",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"arg1":{"type":"string"}},"required":["arg1"]}`),
		},
	}

	functions := bridge.ToOpenAIFunctions(tools)
	if len(functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(functions))
	}

	fn := functions[0]
	if fn.Type != "function" {
		t.Errorf("got type %q, want %q", fn.Type, "function")
	}
	if fn.Function.Name != "test_tool" {
		t.Errorf("got name %q, want %q", fn.Function.Name, "test_tool")
	}
	if !fn.Function.Strict {
		t.Error("expected Strict to be true")
	}

	var params map[string]any
	if err := json.Unmarshal(fn.Function.Parameters, &params); err != nil {
		t.Fatalf("failed to unmarshal parameters: %v", err)
	}
	if params["additionalProperties"] != false {
		t.Errorf("got additionalProperties=%v, want false", params["additionalProperties"])
	}
}

func TestToolRoundTripsThroughOpenAIFormat(t *testing.T) {
	original := mcp.Tool{
		Name:        "get_weather",
		Description: "Get the current weather for a location",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}},"required":["location"]}`),
	}

	functions := bridge.ToOpenAIFunctions([]mcp.Tool{original})
	if len(functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(functions))
	}

	roundTripped := bridge.OpenAIFunctionToTool(functions[0].Function)

	var wantSchema, gotSchema map[string]any
	if err := json.Unmarshal(original.InputSchema, &wantSchema); err != nil {
		t.Fatalf("failed to unmarshal original schema: %v", err)
	}
	if err := json.Unmarshal(roundTripped.InputSchema, &gotSchema); err != nil {
		t.Fatalf("failed to unmarshal round-tripped schema: %v", err)
	}

	if roundTripped.Name != original.Name {
		t.Errorf("got name %q, want %q", roundTripped.Name, original.Name)
	}
	if roundTripped.Description != original.Description {
		t.Errorf("got description %q, want %q", roundTripped.Description, original.Description)
	}
	if len(wantSchema) != len(gotSchema) {
		t.Fatalf("got schema %v, want %v", gotSchema, wantSchema)
	}
	for k, v := range wantSchema {
		gv, ok := gotSchema[k]
		if !ok {
			t.Errorf("round-tripped schema missing key %q", k)
			continue
		}
		wantJSON, _ := json.Marshal(v)
		gotJSON, _ := json.Marshal(gv)
		if string(wantJSON) != string(gotJSON) {
			t.Errorf("key %q: got %s, want %s", k, gotJSON, wantJSON)
		}
	}
	if _, ok := gotSchema["additionalProperties"]; ok {
		t.Error("round-tripped schema still has additionalProperties")
	}
}

func TestOpenAIFunctionToTool(t *testing.T) {
	fn := bridge.OpenAIFunctionDefinition{
		Name:        "test_tool",
		Description: "A test tool",
		Parameters:  json.RawMessage(`{"arg1":"test"}`),
	}

	tool := bridge.OpenAIFunctionToTool(fn)
	if tool.Name != "test_tool" || tool.Description != "A test tool" {
		t.Errorf("unexpected tool: %+v", tool)
	}
}

func TestToolCallToMCP(t *testing.T) {
	call := bridge.OpenAIToolCall{
		ID: "call_1",
		Function: bridge.OpenAIFunctionCall{
			Name:      "test_tool",
			Arguments: `{"arg1":"test"}`,
		},
	}

	name, args, err := bridge.ToolCallToMCP(call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "test_tool" {
		t.Errorf("got name %q, want %q", name, "test_tool")
	}
	if string(args) != `{"arg1":"test"}` {
		t.Errorf("got args %q", string(args))
	}
}

func TestCallToolResultToOpenAIMessage(t *testing.T) {
	result := mcp.CallToolResult{
		Content: []mcp.Content{{Type: mcp.ContentTypeText, Text: "42"}},
	}

	msg := bridge.CallToolResultToOpenAIMessage("call_1", result)
	if msg.Role != "tool" {
		t.Errorf("got role %q, want %q", msg.Role, "tool")
	}
	if msg.Content != "42" {
		t.Errorf("got content %q, want %q", msg.Content, "42")
	}

	errResult := mcp.CallToolResult{
		Content: []mcp.Content{{Type: mcp.ContentTypeText, Text: "boom"}},
		IsError: true,
	}
	errMsg := bridge.CallToolResultToOpenAIMessage("call_1", errResult)
	if errMsg.Content != "Error: boom" {
		t.Errorf("got content %q, want %q", errMsg.Content, "Error: boom")
	}
}
