// Package bridge converts between MCP tool definitions/calls and the function-calling
// formats used by OpenAI-compatible chat completion APIs and by Ollama, so MCP tools can be
// offered to any model server that speaks one of those formats.
package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/modulecraft/go-mcp"
)

// OpenAIFunctionDefinition is the "function" member of an OpenAI tool definition.
type OpenAIFunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
	Strict      bool            `json:"strict"`
}

// OpenAIFunction is a single entry in an OpenAI "tools" array.
type OpenAIFunction struct {
	Type     string                   `json:"type"`
	Function OpenAIFunctionDefinition `json:"function"`
}

// OpenAIToolCall is the shape of a tool call inside an OpenAI chat completion response.
type OpenAIToolCall struct {
	ID       string             `json:"id"`
	Function OpenAIFunctionCall `json:"function"`
}

// OpenAIFunctionCall holds the model's chosen function name and its JSON-encoded arguments.
type OpenAIFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// OpenAIToolMessage is the "tool" role message sent back to the model with a tool's result.
type OpenAIToolMessage struct {
	Role       string `json:"role"`
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
}

// ToOpenAIFunctions converts a set of MCP tools into OpenAI's function-calling format,
// injecting "additionalProperties": false into each tool's parameter schema when absent so
// strict mode has a closed schema to validate against.
func ToOpenAIFunctions(tools []mcp.Tool) []OpenAIFunction {
	functions := make([]OpenAIFunction, 0, len(tools))
	for _, tool := range tools {
		functions = append(functions, OpenAIFunction{
			Type: "function",
			Function: OpenAIFunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  withAdditionalPropertiesFalse(tool.InputSchema),
				Strict:      true,
			},
		})
	}
	return functions
}

// OpenAIFunctionToTool converts a single OpenAI function definition back into an MCP Tool,
// stripping the "additionalProperties" key ToOpenAIFunctions injects so a tool round-tripped
// through OpenAI's format comes back structurally equal to the one that went in.
func OpenAIFunctionToTool(fn OpenAIFunctionDefinition) mcp.Tool {
	return mcp.Tool{
		Name:        fn.Name,
		Description: fn.Description,
		InputSchema: withoutAdditionalProperties(fn.Parameters),
	}
}

// ToolCallToMCP parses an OpenAI tool call's JSON-encoded argument string into the raw JSON
// mcp.CallToolParams.Arguments expects.
func ToolCallToMCP(call OpenAIToolCall) (name string, arguments json.RawMessage, err error) {
	if !json.Valid([]byte(call.Function.Arguments)) {
		return "", nil, fmt.Errorf("failed to parse function arguments: invalid JSON")
	}
	return call.Function.Name, json.RawMessage(call.Function.Arguments), nil
}

// CallToolResultToOpenAIMessage converts a tool's CallToolResult into the "tool" role message
// sent back to the model. A single text content block passes through verbatim; any other
// shape is JSON-serialized into content so nothing gets dropped. An IsError result is
// prefixed so the model sees it as an error, not a normal answer.
func CallToolResultToOpenAIMessage(toolCallID string, result mcp.CallToolResult) OpenAIToolMessage {
	content := contentToText(result)
	if result.IsError {
		content = "Error: " + content
	}

	return OpenAIToolMessage{
		Role:       "tool",
		ToolCallID: toolCallID,
		Content:    content,
	}
}

func contentToText(result mcp.CallToolResult) string {
	if len(result.Content) == 1 && result.Content[0].Type == mcp.ContentTypeText {
		return result.Content[0].Text
	}

	b, err := json.Marshal(result.Content)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func withoutAdditionalProperties(schema json.RawMessage) json.RawMessage {
	if len(schema) == 0 {
		return schema
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(schema, &obj); err != nil {
		return schema
	}

	if _, ok := obj["additionalProperties"]; !ok {
		return schema
	}
	delete(obj, "additionalProperties")

	b, err := json.Marshal(obj)
	if err != nil {
		return schema
	}
	return b
}

func withAdditionalPropertiesFalse(schema json.RawMessage) json.RawMessage {
	if len(schema) == 0 {
		schema = json.RawMessage(`{}`)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(schema, &obj); err != nil {
		return schema
	}

	if _, ok := obj["additionalProperties"]; ok {
		return schema
	}

	obj["additionalProperties"] = json.RawMessage(`false`)

	b, err := json.Marshal(obj)
	if err != nil {
		return schema
	}
	return b
}
