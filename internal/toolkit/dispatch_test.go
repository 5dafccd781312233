package toolkit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func newTestDispatcher(t *testing.T, descs ...Descriptor) *Dispatcher {
	t.Helper()
	reg := NewRegistry()
	for _, d := range descs {
		reg.MustRegister(d)
	}
	return NewDispatcher(reg, nil, nil)
}

func TestDispatch_UnsupportedTool(t *testing.T) {
	t.Parallel()
	d := newTestDispatcher(t)

	env := d.Dispatch(context.Background(), "cosmosdb_database_drop", Args{})

	if env.OK() {
		t.Fatal("unknown tool dispatched successfully")
	}
	if env.Failure.Category != CategoryUnsupportedOperation {
		t.Errorf("category = %q, want %q", env.Failure.Category, CategoryUnsupportedOperation)
	}
	if want := "unsupported tool: cosmosdb_database_drop"; env.Failure.Message != want {
		t.Errorf("message = %q, want %q", env.Failure.Message, want)
	}
}

func TestDispatch_ValidationBeforeInvocation(t *testing.T) {
	t.Parallel()
	invoked := false
	d := newTestDispatcher(t, Descriptor{
		Name: "cosmosdb_item_read",
		Fields: []Field{
			{Name: "account_name", Required: true},
			{Name: "database_name", Required: true},
			{Name: "item_id", Required: true},
		},
		Handler: func(_ context.Context, _ Args) (any, error) {
			invoked = true
			return nil, nil
		},
	})

	env := d.Dispatch(context.Background(), "cosmosdb_item_read", Args{})

	if invoked {
		t.Error("handler invoked despite missing arguments")
	}
	if env.Failure == nil || env.Failure.Category != CategoryInvalidArgument {
		t.Fatalf("envelope = %+v, want invalid_argument failure", env)
	}
	// An empty bag must name every required field at once.
	if want := "invalid arguments: missing account_name, database_name, item_id"; env.Failure.Message != want {
		t.Errorf("message = %q, want %q", env.Failure.Message, want)
	}
}

func TestDispatch_EmptyStringIsMissing(t *testing.T) {
	t.Parallel()
	d := newTestDispatcher(t, Descriptor{
		Name:    "search_index_list",
		Fields:  []Field{{Name: "service_name", Required: true}},
		Handler: noopHandler,
	})

	env := d.Dispatch(context.Background(), "search_index_list", Args{"service_name": ""})

	if env.Failure == nil || env.Failure.Category != CategoryInvalidArgument {
		t.Fatalf("envelope = %+v, want invalid_argument failure", env)
	}
}

func TestDispatch_SuccessPassthrough(t *testing.T) {
	t.Parallel()
	result := map[string]any{"id": "item-1", "partitionKey": "pk"}
	d := newTestDispatcher(t, Descriptor{
		Name:   "cosmosdb_item_read",
		Fields: []Field{{Name: "item_id", Required: true}},
		Handler: func(_ context.Context, _ Args) (any, error) {
			return result, nil
		},
	})

	env := d.Dispatch(context.Background(), "cosmosdb_item_read", Args{"item_id": "item-1"})

	if !env.OK() {
		t.Fatalf("dispatch failed: %+v", env.Failure)
	}
	if !reflect.DeepEqual(env.Result, result) {
		t.Errorf("result = %v, want handler value unmodified", env.Result)
	}
}

func TestDispatch_HandlerErrorClassified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		err          error
		wantCategory Category
		wantMessage  string
	}{
		{
			"not found",
			fmt.Errorf("item gone: %w", ErrNotFound),
			CategoryResourceNotFound,
			"Resource not found: item gone: resource not found",
		},
		{
			"already exists",
			fmt.Errorf("db items: %w", ErrAlreadyExists),
			CategoryResourceAlreadyExists,
			"Resource already exists: db items: resource already exists",
		},
		{
			"store error",
			&StoreError{Err: errors.New("request rate too large")},
			CategoryStoreError,
			"Store error: request rate too large",
		},
		{
			"unexpected",
			errors.New("nil pointer somewhere"),
			CategoryUnexpectedError,
			"Unexpected error: nil pointer somewhere",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := newTestDispatcher(t, Descriptor{
				Name: "failing",
				Handler: func(_ context.Context, _ Args) (any, error) {
					return nil, tc.err
				},
			})

			env := d.Dispatch(context.Background(), "failing", Args{})

			if env.OK() {
				t.Fatal("failing handler produced a success envelope")
			}
			if env.Failure.Category != tc.wantCategory {
				t.Errorf("category = %q, want %q", env.Failure.Category, tc.wantCategory)
			}
			if env.Failure.Message != tc.wantMessage {
				t.Errorf("message = %q, want %q", env.Failure.Message, tc.wantMessage)
			}
		})
	}
}

func TestDispatch_PanicBecomesUnexpectedError(t *testing.T) {
	t.Parallel()
	d := newTestDispatcher(t, Descriptor{
		Name: "panicky",
		Handler: func(_ context.Context, _ Args) (any, error) {
			panic("index out of range")
		},
	})

	env := d.Dispatch(context.Background(), "panicky", Args{})

	if env.OK() {
		t.Fatal("panic escaped as success")
	}
	if env.Failure.Category != CategoryUnexpectedError {
		t.Errorf("category = %q, want %q", env.Failure.Category, CategoryUnexpectedError)
	}
}

func TestDispatch_Idempotent(t *testing.T) {
	t.Parallel()
	calls := 0
	d := newTestDispatcher(t, Descriptor{
		Name:   "counted",
		Fields: []Field{{Name: "name", Required: true}},
		Handler: func(_ context.Context, args Args) (any, error) {
			calls++
			return map[string]any{"name": args.String("name")}, nil
		},
	})

	args := Args{"name": "items"}
	first := d.Dispatch(context.Background(), "counted", args)
	second := d.Dispatch(context.Background(), "counted", args)

	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated dispatch differs: %+v vs %+v", first, second)
	}
}

func TestDispatch_DoesNotMutateArgs(t *testing.T) {
	t.Parallel()
	d := newTestDispatcher(t, Descriptor{
		Name:    "reader",
		Fields:  []Field{{Name: "account_name", Required: true}},
		Handler: noopHandler,
	})

	args := Args{"account_name": "acct", "extra": "untouched"}
	want := Args{"account_name": "acct", "extra": "untouched"}

	d.Dispatch(context.Background(), "reader", args)
	d.Dispatch(context.Background(), "unknown", args)

	if !reflect.DeepEqual(args, want) {
		t.Errorf("args mutated: %v, want %v", args, want)
	}
}

func TestDispatch_NilArgs(t *testing.T) {
	t.Parallel()
	d := newTestDispatcher(t, Descriptor{
		Name:    "search_index_list",
		Fields:  []Field{{Name: "service_name", Required: true}},
		Handler: noopHandler,
	})

	env := d.Dispatch(context.Background(), "search_index_list", nil)

	if env.Failure == nil || env.Failure.Category != CategoryInvalidArgument {
		t.Fatalf("envelope = %+v, want invalid_argument failure", env)
	}
}
