package mcpserver

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"azmcp/internal/toolkit"
)

func TestDecodeArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want toolkit.Args
	}{
		{"nil", nil, toolkit.Args{}},
		{"map", map[string]any{"account_name": "acct"}, toolkit.Args{"account_name": "acct"}},
		{"args", toolkit.Args{"query": "SELECT 1"}, toolkit.Args{"query": "SELECT 1"}},
		{"raw message", json.RawMessage(`{"item_id":"1"}`), toolkit.Args{"item_id": "1"}},
		{"bytes", []byte(`{"item_id":"1"}`), toolkit.Args{"item_id": "1"}},
		{"string", `{"item_id":"1"}`, toolkit.Args{"item_id": "1"}},
		{"empty raw", json.RawMessage(nil), toolkit.Args{}},
		{"json null", json.RawMessage(`null`), toolkit.Args{}},
		{"struct fallback", struct {
			Name string `json:"name"`
		}{Name: "docs"}, toolkit.Args{"name": "docs"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := decodeArgs(tc.in)
			if err != nil {
				t.Fatalf("decodeArgs: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("decodeArgs = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeArgs_MalformedJSON(t *testing.T) {
	t.Parallel()
	if _, err := decodeArgs(json.RawMessage(`{"broken`)); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestTextResult(t *testing.T) {
	t.Parallel()

	res := textResult(`{"error": "Store error: throttled"}`, true)
	if !res.IsError {
		t.Error("IsError not set")
	}
	if len(res.Content) != 1 {
		t.Fatalf("content blocks = %d, want 1", len(res.Content))
	}
}

func TestNew_RegistersCatalogAndExtras(t *testing.T) {
	t.Parallel()

	reg := toolkit.NewRegistry()
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_database_list",
		Description: "List all Cosmos DB databases in an account",
		Fields:      []toolkit.Field{{Name: "account_name", Type: "string", Required: true}},
		Handler: func(ctx context.Context, args toolkit.Args) (any, error) {
			return []string{}, nil
		},
	})

	s := New("cosmosdb_mcp", toolkit.NewDispatcher(reg, nil, nil), nil)
	if s.Handler() == nil {
		t.Fatal("Handler returned nil")
	}
}
