package cosmos

import (
	"context"
	"reflect"
	"testing"

	"azmcp/internal/toolkit"
)

// fakeStore records the last call made against it and returns canned values.
type fakeStore struct {
	lastMethod string
	lastArgs   []any

	result map[string]any
	list   []map[string]any
	err    error
}

func (f *fakeStore) record(method string, args ...any) {
	f.lastMethod = method
	f.lastArgs = args
}

func (f *fakeStore) ListDatabases(_ context.Context, account string) ([]map[string]any, error) {
	f.record("ListDatabases", account)
	return f.list, f.err
}

func (f *fakeStore) DescribeDatabase(_ context.Context, account, database string) (map[string]any, error) {
	f.record("DescribeDatabase", account, database)
	return f.result, f.err
}

func (f *fakeStore) CreateDatabase(_ context.Context, account, database string) (map[string]any, error) {
	f.record("CreateDatabase", account, database)
	return f.result, f.err
}

func (f *fakeStore) ListContainers(_ context.Context, account, database string) ([]map[string]any, error) {
	f.record("ListContainers", account, database)
	return f.list, f.err
}

func (f *fakeStore) CreateContainer(_ context.Context, account, database, container, partitionKey string) (map[string]any, error) {
	f.record("CreateContainer", account, database, container, partitionKey)
	return f.result, f.err
}

func (f *fakeStore) DescribeContainer(_ context.Context, account, database, container string) (map[string]any, error) {
	f.record("DescribeContainer", account, database, container)
	return f.result, f.err
}

func (f *fakeStore) DeleteContainer(_ context.Context, account, database, container string) (map[string]any, error) {
	f.record("DeleteContainer", account, database, container)
	return f.result, f.err
}

func (f *fakeStore) CreateItem(_ context.Context, account, database, container string, item map[string]any, partitionKey string) (map[string]any, error) {
	f.record("CreateItem", account, database, container, item, partitionKey)
	return f.result, f.err
}

func (f *fakeStore) ReadItem(_ context.Context, account, database, container, itemID, partitionKey string) (map[string]any, error) {
	f.record("ReadItem", account, database, container, itemID, partitionKey)
	return f.result, f.err
}

func (f *fakeStore) ReplaceItem(_ context.Context, account, database, container, itemID string, item map[string]any, partitionKey string) (map[string]any, error) {
	f.record("ReplaceItem", account, database, container, itemID, item, partitionKey)
	return f.result, f.err
}

func (f *fakeStore) DeleteItem(_ context.Context, account, database, container, itemID, partitionKey string) (map[string]any, error) {
	f.record("DeleteItem", account, database, container, itemID, partitionKey)
	return f.result, f.err
}

func (f *fakeStore) QueryItems(_ context.Context, account, database, container, query string, params []QueryParameter, partitionKey string) ([]map[string]any, error) {
	f.record("QueryItems", account, database, container, query, params, partitionKey)
	return f.list, f.err
}

func TestRegistry_Catalog(t *testing.T) {
	t.Parallel()
	reg := New(&fakeStore{}).Registry()

	wantTools := []struct {
		name     string
		required []string
	}{
		{"cosmosdb_database_list", []string{"account_name"}},
		{"cosmosdb_database_describe", []string{"account_name", "database_name"}},
		{"cosmosdb_database_create", []string{"account_name", "database_name"}},
		{"cosmosdb_container_list", []string{"account_name", "database_name"}},
		{"cosmosdb_container_create", []string{"account_name", "database_name", "container_name", "partition_key"}},
		{"cosmosdb_container_describe", []string{"account_name", "database_name", "container_name"}},
		{"cosmosdb_container_delete", []string{"account_name", "database_name", "container_name"}},
		{"cosmosdb_item_create", []string{"account_name", "database_name", "container_name", "item"}},
		{"cosmosdb_item_read", []string{"account_name", "database_name", "container_name", "item_id", "partition_key"}},
		{"cosmosdb_item_replace", []string{"account_name", "database_name", "container_name", "item_id", "item", "partition_key"}},
		{"cosmosdb_item_delete", []string{"account_name", "database_name", "container_name", "item_id", "partition_key"}},
		{"cosmosdb_item_query", []string{"account_name", "database_name", "container_name", "query"}},
	}

	if reg.Len() != len(wantTools) {
		t.Fatalf("registry has %d tools, want %d", reg.Len(), len(wantTools))
	}

	descs := reg.Descriptors()
	for i, want := range wantTools {
		if descs[i].Name != want.name {
			t.Errorf("tool[%d] = %q, want %q", i, descs[i].Name, want.name)
			continue
		}
		if got := descs[i].Required(); !reflect.DeepEqual(got, want.required) {
			t.Errorf("%s required = %v, want %v", want.name, got, want.required)
		}
	}
}

func TestRegistry_ItemQueryDoesNotRequirePartitionKey(t *testing.T) {
	t.Parallel()
	reg := New(&fakeStore{}).Registry()

	desc, ok := reg.Lookup("cosmosdb_item_query")
	if !ok {
		t.Fatal("cosmosdb_item_query not registered")
	}
	for _, name := range desc.Required() {
		if name == "partition_key" {
			t.Error("cosmosdb_item_query must not require partition_key")
		}
	}
}

func TestHandlers_ForwardArguments(t *testing.T) {
	t.Parallel()

	item := map[string]any{"id": "item-1"}
	tests := []struct {
		tool     string
		args     toolkit.Args
		wantCall string
		wantArgs []any
	}{
		{
			"cosmosdb_database_list",
			toolkit.Args{"account_name": "acct"},
			"ListDatabases", []any{"acct"},
		},
		{
			"cosmosdb_database_create",
			toolkit.Args{"account_name": "acct", "database_name": "db"},
			"CreateDatabase", []any{"acct", "db"},
		},
		{
			"cosmosdb_container_create",
			toolkit.Args{"account_name": "acct", "database_name": "db", "container_name": "items", "partition_key": "/id"},
			"CreateContainer", []any{"acct", "db", "items", "/id"},
		},
		{
			"cosmosdb_item_create",
			toolkit.Args{"account_name": "acct", "database_name": "db", "container_name": "items", "item": item, "partition_key": "pk"},
			"CreateItem", []any{"acct", "db", "items", item, "pk"},
		},
		{
			"cosmosdb_item_read",
			toolkit.Args{"account_name": "acct", "database_name": "db", "container_name": "items", "item_id": "item-1", "partition_key": "pk"},
			"ReadItem", []any{"acct", "db", "items", "item-1", "pk"},
		},
		{
			"cosmosdb_item_query",
			toolkit.Args{"account_name": "acct", "database_name": "db", "container_name": "items", "query": "SELECT * FROM c"},
			"QueryItems", []any{"acct", "db", "items", "SELECT * FROM c", []QueryParameter(nil), ""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.tool, func(t *testing.T) {
			t.Parallel()
			store := &fakeStore{}
			reg := New(store).Registry()

			desc, ok := reg.Lookup(tc.tool)
			if !ok {
				t.Fatalf("%s not registered", tc.tool)
			}
			if _, err := desc.Handler(context.Background(), tc.args); err != nil {
				t.Fatalf("handler: %v", err)
			}

			if store.lastMethod != tc.wantCall {
				t.Errorf("store call = %q, want %q", store.lastMethod, tc.wantCall)
			}
			if !reflect.DeepEqual(store.lastArgs, tc.wantArgs) {
				t.Errorf("store args = %v, want %v", store.lastArgs, tc.wantArgs)
			}
		})
	}
}

func TestQueryParameters(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"name": "@id", "value": "item-1"},
		map[string]any{"name": "", "value": "skipped"},
		"not a map",
		map[string]any{"value": "no name"},
		map[string]any{"name": "@count", "value": float64(3)},
	}

	got := queryParameters(raw)
	want := []QueryParameter{
		{Name: "@id", Value: "item-1"},
		{Name: "@count", Value: float64(3)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("queryParameters = %v, want %v", got, want)
	}
}
