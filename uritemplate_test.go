package mcp

import (
	"reflect"
	"testing"
)

func TestMatchResourceTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		uri      string
		wantVars map[string]string
		wantOK   bool
	}{
		{
			name:     "simple match",
			template: "file:///{path}",
			uri:      "file:///a.txt",
			wantVars: map[string]string{"path": "a.txt"},
			wantOK:   true,
		},
		{
			name:   "scheme mismatch",
			template: "file:///{path}",
			uri:      "http://x",
			wantOK: false,
		},
		{
			name:     "multiple variables",
			template: "db://{table}/{id}",
			uri:      "db://users/42",
			wantVars: map[string]string{"table": "users", "id": "42"},
			wantOK:   true,
		},
		{
			name:   "empty variable segment rejected",
			template: "db://{table}/{id}",
			uri:      "db:///42",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars, ok := matchResourceTemplate(tt.template, tt.uri)
			if ok != tt.wantOK {
				t.Fatalf("got ok=%v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(vars, tt.wantVars) {
				t.Errorf("got vars=%v, want %v", vars, tt.wantVars)
			}
		})
	}
}

func TestExpandResourceTemplate(t *testing.T) {
	got := expandResourceTemplate("db://{table}/{id}", map[string]string{"table": "users", "id": "42"})
	want := "db://users/42"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
