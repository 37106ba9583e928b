package bridge

import (
	"encoding/json"
	"regexp"

	"github.com/modulecraft/go-mcp"
)

// OllamaFunctionList is the body Ollama expects describing the set of callable functions.
type OllamaFunctionList struct {
	Functions    []OpenAIFunction `json:"functions"`
	FunctionCall string           `json:"function_call"`
}

// ToOllamaFunctions converts MCP tools into the format Ollama expects for function calling,
// which reuses OpenAI's function definition shape.
func ToOllamaFunctions(tools []mcp.Tool) OllamaFunctionList {
	return OllamaFunctionList{
		Functions:    ToOpenAIFunctions(tools),
		FunctionCall: "auto",
	}
}

// OllamaFunctionCall is a function call extracted from a model's response, whether parsed from
// the native tool_calls field or from embedded free-text markup.
type OllamaFunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ollamaFunctionCallPattern matches the embedded tool-call markup Ollama models emit in
// free text: <function>name</function><args>{...}</args>.
var ollamaFunctionCallPattern = regexp.MustCompile(`<function>([^<]+)</function>\s*<args>([^<]+)</args>`)

// ParseOllamaResponse extracts a function call embedded in a model's free-text response, if
// any. It returns (nil, nil) when no call is present.
func ParseOllamaResponse(response string) (*OllamaFunctionCall, error) {
	matches := ollamaFunctionCallPattern.FindStringSubmatch(response)
	if matches == nil {
		return nil, nil
	}

	args := matches[2]
	if !json.Valid([]byte(args)) {
		return nil, nil
	}

	return &OllamaFunctionCall{
		Name:      matches[1],
		Arguments: json.RawMessage(args),
	}, nil
}

// OllamaToolCall is a single entry in the "tool_calls" array Ollama's native chat API attaches
// to a message when the model decided to call a function itself, rather than describing the
// call in free text.
type OllamaToolCall struct {
	Function OllamaFunctionCall `json:"function"`
}

// OllamaChatMessage is the "message" member of an Ollama chat response. Content carries the
// model's free-text reply; ToolCalls is populated instead when the model used native function
// calling.
type OllamaChatMessage struct {
	Content   string           `json:"content"`
	ToolCalls []OllamaToolCall `json:"tool_calls,omitempty"`
}

// ParseOllamaMessage extracts a function call from an Ollama chat message, preferring the
// native tool_calls field and falling back to the embedded <function>/<args> markup in Content
// when tool_calls is empty. Returns (nil, nil) when neither path finds a call.
func ParseOllamaMessage(msg OllamaChatMessage) (*OllamaFunctionCall, error) {
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0].Function
		return &call, nil
	}
	return ParseOllamaResponse(msg.Content)
}
