package mcp_test

import (
	"context"
	"testing"

	"github.com/modulecraft/go-mcp"
)

func TestFixedCompletableFiltersCaseInsensitiveSubstring(t *testing.T) {
	c := mcp.NewFixedCompletable([]string{"Alpha", "beta", "gamma", "Deltabeta"})

	result, err := c.Complete(context.Background(), "beta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"beta", "Deltabeta"}
	if len(result.Completion.Values) != len(want) {
		t.Fatalf("got %v, want %v", result.Completion.Values, want)
	}
	for i, v := range want {
		if result.Completion.Values[i] != v {
			t.Errorf("index %d: got %q, want %q", i, result.Completion.Values[i], v)
		}
	}
	if result.Completion.HasMore {
		t.Error("expected HasMore to be false")
	}
}

func TestFixedCompletableCapsAtMax(t *testing.T) {
	values := make([]string, 150)
	for i := range values {
		values[i] = "item"
	}
	c := mcp.NewFixedCompletable(values)

	result, err := c.Complete(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Completion.Values) != 100 {
		t.Errorf("got %d values, want 100", len(result.Completion.Values))
	}
	if !result.Completion.HasMore {
		t.Error("expected HasMore to be true when truncated")
	}
	if result.Completion.Total != 150 {
		t.Errorf("got Total %d, want 150 (pre-truncation match count)", result.Completion.Total)
	}
}

func TestFuncCompletableDelegatesToFunction(t *testing.T) {
	c := mcp.NewFuncCompletable(func(_ context.Context, value string) ([]string, error) {
		return []string{value + "-suggestion"}, nil
	})

	result, err := c.Complete(context.Background(), "file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Completion.Values) != 1 || result.Completion.Values[0] != "file-suggestion" {
		t.Errorf("unexpected result: %+v", result)
	}
}
