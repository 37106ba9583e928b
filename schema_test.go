package mcp_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/modulecraft/go-mcp"
)

func TestMustString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    mcp.MustString
		wantErr bool
	}{
		{
			name:    "string input",
			input:   `"test123"`,
			want:    mcp.MustString("test123"),
			wantErr: false,
		},
		{
			name:    "integer input",
			input:   `42`,
			want:    mcp.MustString("42"),
			wantErr: false,
		},
		{
			name:    "float input",
			input:   `42.0`,
			want:    mcp.MustString("42"),
			wantErr: false,
		},
		{
			name:    "invalid type",
			input:   `{"key": "value"}`,
			want:    mcp.MustString(""),
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			input:   `invalid`,
			want:    mcp.MustString(""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got mcp.MustString
			err := json.Unmarshal([]byte(tt.input), &got)

			if (err != nil) != tt.wantErr {
				t.Errorf("MustString.UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && got != tt.want {
				t.Errorf("MustString.UnmarshalJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustString_MarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   mcp.MustString
		want    string
		wantErr bool
	}{
		{
			name:    "string value",
			input:   mcp.MustString("test123"),
			want:    `"test123"`,
			wantErr: false,
		},
		{
			name:    "numeric string",
			input:   mcp.MustString("42"),
			want:    `"42"`,
			wantErr: false,
		},
		{
			name:    "empty string",
			input:   mcp.MustString(""),
			want:    `""`,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("MustString.MarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("MustString.MarshalJSON() = %v, want %v", string(got), tt.want)
			}
		})
	}
}

func TestMustString_RoundTrip(t *testing.T) {
	original := mcp.MustString("test123")

	// Marshal
	marshaled, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Unmarshal
	var unmarshaled mcp.MustString
	err = json.Unmarshal(marshaled, &unmarshaled)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	// Compare
	if original != unmarshaled {
		t.Errorf("Round trip failed: got %v, want %v", unmarshaled, original)
	}
}

func TestJSONRPCMessageDecodeMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantCode int
	}{
		{
			name:  "valid request",
			input: `{"jsonrpc":"2.0","id":"1","method":"ping"}`,
		},
		{
			name:  "valid notification",
			input: `{"jsonrpc":"2.0","method":"notifications/ping"}`,
		},
		{
			name:  "valid response",
			input: `{"jsonrpc":"2.0","id":"1","result":{}}`,
		},
		{
			name:     "malformed json",
			input:    `{"jsonrpc":`,
			wantErr:  true,
			wantCode: -32700,
		},
		{
			name:     "wrong jsonrpc version",
			input:    `{"jsonrpc":"1.0","id":"1","method":"ping"}`,
			wantErr:  true,
			wantCode: -32600,
		},
		{
			name:     "neither method nor result nor error",
			input:    `{"jsonrpc":"2.0","id":"1"}`,
			wantErr:  true,
			wantCode: -32600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mcp.DecodeMessage([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var rpcErr *mcp.JSONRPCError
			if !errors.As(err, &rpcErr) {
				t.Fatalf("DecodeMessage() error is not *mcp.JSONRPCError: %T", err)
			}
			if rpcErr.Code != tt.wantCode {
				t.Errorf("got code %d, want %d", rpcErr.Code, tt.wantCode)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	page, next := mcp.Paginate(items, "", 3)
	if len(page) != 3 || page[0] != 0 || page[2] != 2 {
		t.Fatalf("first page = %v, want [0 1 2]", page)
	}
	if next == "" {
		t.Fatal("expected a next cursor for a partial page")
	}

	page, next = mcp.Paginate(items, next, 3)
	if len(page) != 3 || page[0] != 3 {
		t.Fatalf("second page = %v, want [3 4 5]", page)
	}

	page, next = mcp.Paginate(items, "garbage-cursor", 3)
	if len(page) != 3 || page[0] != 0 {
		t.Fatalf("invalid cursor should restart from the beginning, got %v", page)
	}

	page, next = mcp.Paginate(items, "", 100)
	if len(page) != len(items) {
		t.Fatalf("page size larger than input: got %d items, want %d", len(page), len(items))
	}
	if next != "" {
		t.Errorf("expected empty cursor when the page exhausts the items, got %q", next)
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		name     string
		level    mcp.LogLevel
		expected string
	}{
		{
			name:     "Debug level",
			level:    mcp.LogLevelDebug,
			expected: "debug",
		},
		{
			name:     "Info level",
			level:    mcp.LogLevelInfo,
			expected: "info",
		},
		{
			name:     "Notice level",
			level:    mcp.LogLevelNotice,
			expected: "notice",
		},
		{
			name:     "Warning level",
			level:    mcp.LogLevelWarning,
			expected: "warning",
		},
		{
			name:     "Error level",
			level:    mcp.LogLevelError,
			expected: "error",
		},
		{
			name:     "Critical level",
			level:    mcp.LogLevelCritical,
			expected: "critical",
		},
		{
			name:     "Alert level",
			level:    mcp.LogLevelAlert,
			expected: "alert",
		},
		{
			name:     "Emergency level",
			level:    mcp.LogLevelEmergency,
			expected: "emergency",
		},
		{
			name:     "Unknown level",
			level:    mcp.LogLevel(999),
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}
