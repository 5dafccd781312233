// Package cosmos exposes Azure Cosmos DB account operations as tools. Each
// tool is a thin forwarding call: it reads its arguments, performs exactly
// one store operation, and reshapes the response into plain maps. All policy
// (validation, failure classification, envelopes) lives in the toolkit.
package cosmos

import "context"

// QueryParameter is one named parameter of a SQL item query.
type QueryParameter struct {
	Name  string
	Value any
}

// Store is the backing Cosmos DB operation set. The production
// implementation ([NewClients]) forwards to the azcosmos data-plane SDK;
// tests substitute a fake.
//
// All methods take the account name first because clients are constructed
// and cached per account. Errors returned by implementations should already
// be normalized into the toolkit failure vocabulary.
type Store interface {
	ListDatabases(ctx context.Context, account string) ([]map[string]any, error)
	DescribeDatabase(ctx context.Context, account, database string) (map[string]any, error)
	CreateDatabase(ctx context.Context, account, database string) (map[string]any, error)

	ListContainers(ctx context.Context, account, database string) ([]map[string]any, error)
	CreateContainer(ctx context.Context, account, database, container, partitionKey string) (map[string]any, error)
	DescribeContainer(ctx context.Context, account, database, container string) (map[string]any, error)
	DeleteContainer(ctx context.Context, account, database, container string) (map[string]any, error)

	CreateItem(ctx context.Context, account, database, container string, item map[string]any, partitionKey string) (map[string]any, error)
	ReadItem(ctx context.Context, account, database, container, itemID, partitionKey string) (map[string]any, error)
	ReplaceItem(ctx context.Context, account, database, container, itemID string, item map[string]any, partitionKey string) (map[string]any, error)
	DeleteItem(ctx context.Context, account, database, container, itemID, partitionKey string) (map[string]any, error)
	QueryItems(ctx context.Context, account, database, container, query string, params []QueryParameter, partitionKey string) ([]map[string]any, error)
}
