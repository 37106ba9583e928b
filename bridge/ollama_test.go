package bridge_test

import (
	"encoding/json"
	"testing"

	"github.com/modulecraft/go-mcp"
	"github.com/modulecraft/go-mcp/bridge"
)

func TestToOllamaFunctions(t *testing.T) {
	tools := []mcp.Tool{
		{
			Name:        "test_tool",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"arg1":{"type":"string"}}}`),
		},
	}

	list := bridge.ToOllamaFunctions(tools)
	if list.FunctionCall != "auto" {
		t.Errorf("got function_call %q, want %q", list.FunctionCall, "auto")
	}
	if len(list.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(list.Functions))
	}
}

func TestParseOllamaResponseExtractsEmbeddedCall(t *testing.T) {
	response := `<function>test_tool</function><args>{"arg1": "test"}</args>`

	call, err := bridge.ParseOllamaResponse(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call == nil {
		t.Fatal("expected a function call, got nil")
	}
	if call.Name != "test_tool" {
		t.Errorf("got name %q, want %q", call.Name, "test_tool")
	}

	var args map[string]string
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		t.Fatalf("failed to unmarshal arguments: %v", err)
	}
	if args["arg1"] != "test" {
		t.Errorf("got arg1=%q, want %q", args["arg1"], "test")
	}
}

func TestParseOllamaResponseNoMatch(t *testing.T) {
	call, err := bridge.ParseOllamaResponse("just a plain response with no tool call")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call != nil {
		t.Errorf("expected nil call, got %+v", call)
	}
}

func TestParseOllamaMessagePrefersNativeToolCalls(t *testing.T) {
	msg := bridge.OllamaChatMessage{
		Content: "<function>wrong_tool</function><args>{}</args>",
		ToolCalls: []bridge.OllamaToolCall{
			{Function: bridge.OllamaFunctionCall{Name: "test_tool", Arguments: json.RawMessage(`{"arg1":"test"}`)}},
		},
	}

	call, err := bridge.ParseOllamaMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call == nil {
		t.Fatal("expected a function call, got nil")
	}
	if call.Name != "test_tool" {
		t.Errorf("got name %q, want %q", call.Name, "test_tool")
	}
}

func TestParseOllamaMessageFallsBackToEmbeddedMarkup(t *testing.T) {
	msg := bridge.OllamaChatMessage{
		Content: `<function>test_tool</function><args>{"arg1": "test"}</args>`,
	}

	call, err := bridge.ParseOllamaMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call == nil {
		t.Fatal("expected a function call, got nil")
	}
	if call.Name != "test_tool" {
		t.Errorf("got name %q, want %q", call.Name, "test_tool")
	}
}

func TestParseOllamaMessageNoCall(t *testing.T) {
	msg := bridge.OllamaChatMessage{Content: "no tool call here"}

	call, err := bridge.ParseOllamaMessage(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call != nil {
		t.Errorf("expected nil call, got %+v", call)
	}
}
