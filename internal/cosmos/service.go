package cosmos

import (
	"context"

	"azmcp/internal/toolkit"
)

// ServiceName is the MCP implementation name the Cosmos service announces.
const ServiceName = "cosmosdb_mcp"

// Service wires the Cosmos DB tool catalog onto a [Store].
type Service struct {
	store Store
}

// New returns a Service backed by store.
func New(store Store) *Service {
	return &Service{store: store}
}

// Registry builds the static tool table. Required argument sets follow the
// service's long-standing per-tool contract; note that cosmosdb_item_query
// deliberately does not require partition_key even though the other item
// operations do — callers rely on queries running cross-partition.
func (s *Service) Registry() *toolkit.Registry {
	reg := toolkit.NewRegistry()

	account := toolkit.Field{Name: "account_name", Type: "string", Description: "Name of the Cosmos DB account", Required: true}
	database := toolkit.Field{Name: "database_name", Type: "string", Description: "Name of the Cosmos DB database", Required: true}
	container := toolkit.Field{Name: "container_name", Type: "string", Description: "Name of the Cosmos DB container", Required: true}
	itemID := toolkit.Field{Name: "item_id", Type: "string", Description: "ID of the item", Required: true}
	partitionKey := toolkit.Field{Name: "partition_key", Type: "string", Description: "Partition key value for the item", Required: true}

	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_database_list",
		Description: "List all Cosmos DB databases in an account",
		Fields:      []toolkit.Field{account},
		Handler:     s.listDatabases,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_database_describe",
		Description: "Describe a Cosmos DB database",
		Fields:      []toolkit.Field{account, database},
		Handler:     s.describeDatabase,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_database_create",
		Description: "Create a new Cosmos DB database",
		Fields:      []toolkit.Field{account, database},
		Handler:     s.createDatabase,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_container_list",
		Description: "List all Cosmos DB containers in a database",
		Fields:      []toolkit.Field{account, database},
		Handler:     s.listContainers,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_container_create",
		Description: "Create a Cosmos DB container with the given partition key path",
		Fields: []toolkit.Field{account, database, container,
			{Name: "partition_key", Type: "string", Description: "Partition key path for the container (e.g. /tenantId)", Required: true},
		},
		Handler: s.createContainer,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_container_describe",
		Description: "Describe a Cosmos DB container",
		Fields:      []toolkit.Field{account, database, container},
		Handler:     s.describeContainer,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_container_delete",
		Description: "Delete a Cosmos DB container",
		Fields:      []toolkit.Field{account, database, container},
		Handler:     s.deleteContainer,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_item_create",
		Description: "Create an item in a Cosmos DB container",
		Fields: []toolkit.Field{account, database, container,
			{Name: "item", Type: "object", Description: "The item to create", Required: true},
			{Name: "partition_key", Type: "string", Description: "Partition key value for the item (defaults to the item's partitionKey field)"},
		},
		Handler: s.createItem,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_item_read",
		Description: "Read an item from a Cosmos DB container using its ID and partition key",
		Fields:      []toolkit.Field{account, database, container, itemID, partitionKey},
		Handler:     s.readItem,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_item_replace",
		Description: "Replace an item in a Cosmos DB container",
		Fields: []toolkit.Field{account, database, container, itemID,
			{Name: "item", Type: "object", Description: "The replacement item", Required: true},
			partitionKey,
		},
		Handler: s.replaceItem,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_item_delete",
		Description: "Delete an item from a Cosmos DB container",
		Fields:      []toolkit.Field{account, database, container, itemID, partitionKey},
		Handler:     s.deleteItem,
	})
	reg.MustRegister(toolkit.Descriptor{
		Name:        "cosmosdb_item_query",
		Description: "Query items in a Cosmos DB container using SQL",
		Fields: []toolkit.Field{account, database, container,
			{Name: "query", Type: "string", Description: "Cosmos DB SQL query string", Required: true},
			{Name: "parameters", Type: "array", Description: "Named parameters for the SQL query (optional)"},
			{Name: "partition_key", Type: "string", Description: "Partition key value to scope the query (optional; omit for cross-partition)"},
		},
		Handler: s.queryItems,
	})

	return reg
}

func (s *Service) listDatabases(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.ListDatabases(ctx, args.String("account_name"))
}

func (s *Service) describeDatabase(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.DescribeDatabase(ctx, args.String("account_name"), args.String("database_name"))
}

func (s *Service) createDatabase(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.CreateDatabase(ctx, args.String("account_name"), args.String("database_name"))
}

func (s *Service) listContainers(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.ListContainers(ctx, args.String("account_name"), args.String("database_name"))
}

func (s *Service) createContainer(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.CreateContainer(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
		args.String("partition_key"),
	)
}

func (s *Service) describeContainer(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.DescribeContainer(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
	)
}

func (s *Service) deleteContainer(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.DeleteContainer(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
	)
}

func (s *Service) createItem(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.CreateItem(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
		args.Map("item"),
		args.String("partition_key"),
	)
}

func (s *Service) readItem(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.ReadItem(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
		args.String("item_id"),
		args.String("partition_key"),
	)
}

func (s *Service) replaceItem(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.ReplaceItem(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
		args.String("item_id"),
		args.Map("item"),
		args.String("partition_key"),
	)
}

func (s *Service) deleteItem(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.DeleteItem(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
		args.String("item_id"),
		args.String("partition_key"),
	)
}

func (s *Service) queryItems(ctx context.Context, args toolkit.Args) (any, error) {
	return s.store.QueryItems(ctx,
		args.String("account_name"),
		args.String("database_name"),
		args.String("container_name"),
		args.String("query"),
		queryParameters(args.Slice("parameters")),
		args.String("partition_key"),
	)
}

// queryParameters converts the wire-shaped parameter list ([{name, value}])
// into store query parameters, skipping malformed entries.
func queryParameters(raw []any) []QueryParameter {
	var params []QueryParameter
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok || name == "" {
			continue
		}
		params = append(params, QueryParameter{Name: name, Value: m["value"]})
	}
	return params
}
