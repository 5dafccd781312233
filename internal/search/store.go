// Package search exposes Azure AI Search account operations as tools. Index
// management and querying go through the service's REST API on an azcore
// pipeline with bearer-token auth; the tool layer is a thin forwarding shim
// over that client.
package search

import "context"

// QueryType selects the search syntax for index queries.
type QueryType string

const (
	QueryTypeSimple   QueryType = "simple"
	QueryTypeFull     QueryType = "full"
	QueryTypeSemantic QueryType = "semantic"
)

// ParseQueryType maps the caller-supplied query_type value onto a known
// [QueryType], defaulting to simple for the empty string and for unknown
// values.
func ParseQueryType(s string) QueryType {
	switch QueryType(s) {
	case QueryTypeFull:
		return QueryTypeFull
	case QueryTypeSemantic:
		return QueryTypeSemantic
	default:
		return QueryTypeSimple
	}
}

// Store is the backing AI Search operation set. The production
// implementation ([NewClients]) talks to the service's REST API; tests
// substitute a fake. Errors returned by implementations should already be
// normalized into the toolkit failure vocabulary.
type Store interface {
	ListIndexes(ctx context.Context, service string) ([]string, error)
	DescribeIndex(ctx context.Context, service, index string) (map[string]any, error)
	CreateIndex(ctx context.Context, service, index string) error
	DeleteIndex(ctx context.Context, service, index string) error
	QueryIndex(ctx context.Context, service, index, query string, queryType QueryType) ([]map[string]any, error)
}
