package search

import (
	"context"
	"fmt"

	"azmcp/internal/toolkit"
)

// ServiceName is the MCP implementation name the Search service announces.
const ServiceName = "search_mcp"

// Service wires the AI Search tool catalog onto a [Store].
type Service struct {
	store Store
}

// New returns a Service backed by store.
func New(store Store) *Service {
	return &Service{store: store}
}

// Registry builds the static tool table for the Search service.
func (s *Service) Registry() *toolkit.Registry {
	reg := toolkit.NewRegistry()

	service := toolkit.Field{Name: "service_name", Type: "string", Description: "Name of the search account", Required: true}
	index := toolkit.Field{Name: "index_name", Type: "string", Description: "Name of the search index", Required: true}

	reg.MustRegister(toolkit.Descriptor{
		Name:        "search_index_list",
		Description: "List all search indexes in the account",
		Fields:      []toolkit.Field{service},
		Handler:     s.listIndexes,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "search_index_describe",
		Description: "Describe a search index including its fields and configuration",
		Fields:      []toolkit.Field{service, index},
		Handler:     s.describeIndex,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "search_index_create",
		Description: "Create a search index with fields for id, content, and metadata",
		Fields:      []toolkit.Field{service, index},
		Handler:     s.createIndex,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "search_index_delete",
		Description: "Delete a search index",
		Fields:      []toolkit.Field{service, index},
		Handler:     s.deleteIndex,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "search_index_query",
		Description: "Query a search index using simple, full, or semantic syntax",
		Fields: []toolkit.Field{service, index,
			{Name: "query", Type: "string", Description: "The search query text", Required: true},
			{Name: "query_type", Type: "string", Description: "Query syntax: simple (default), full, or semantic"},
		},
		Handler: s.queryIndex,
	})

	return reg
}

func (s *Service) listIndexes(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.ListIndexes(ctx, args.String("service_name"))
}

func (s *Service) describeIndex(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.DescribeIndex(ctx, args.String("service_name"), args.String("index_name"))
}

func (s *Service) createIndex(ctx context.Context, args toolkit.Args) (any, error) {
	indexName := args.String("index_name")
	if err := s.store.CreateIndex(ctx, args.String("service_name"), indexName); err != nil {
		return nil, err
	}
	return map[string]any{"message": fmt.Sprintf("Index %s created successfully", indexName)}, nil
}

func (s *Service) deleteIndex(ctx context.Context, args toolkit.Args) (any, error) {
	indexName := args.String("index_name")
	if err := s.store.DeleteIndex(ctx, args.String("service_name"), indexName); err != nil {
		return nil, err
	}
	return map[string]any{"message": fmt.Sprintf("Index %s deleted successfully", indexName)}, nil
}

func (s *Service) queryIndex(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.QueryIndex(ctx,
		args.String("service_name"),
		args.String("index_name"),
		args.String("query"),
		ParseQueryType(args.String("query_type")),
	)
}
