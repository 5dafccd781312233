package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"azmcp/internal/azure"
)

// TokenScope is the Entra ID scope the readiness probe acquires a token for.
// Data-plane requests themselves are scoped per account by the SDK.
const TokenScope = "https://cosmos.azure.com/.default"

// Clients is the azcosmos-backed [Store]. It memoizes one data-plane client
// per account name; the cache is append-only and never invalidated, matching
// the lifetime of the service process. Safe for concurrent use — the only
// contention point is first-time construction for the same account, which is
// serialized by the mutex.
type Clients struct {
	cred azcore.TokenCredential

	mu        sync.Mutex
	byAccount map[string]*azcosmos.Client
}

var _ Store = (*Clients)(nil)

// NewClients returns a Store that connects to Cosmos DB accounts with cred.
func NewClients(cred azcore.TokenCredential) *Clients {
	return &Clients{
		cred:      cred,
		byAccount: make(map[string]*azcosmos.Client),
	}
}

// client returns the cached client for account, constructing it on first use.
func (c *Clients) client(account string) (*azcosmos.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.byAccount[account]; ok {
		return client, nil
	}

	endpoint := fmt.Sprintf("https://%s.documents.azure.com:443/", account)
	client, err := azcosmos.NewClient(endpoint, c.cred, nil)
	if err != nil {
		return nil, fmt.Errorf("cosmos: create client for account %q: %w", account, err)
	}
	c.byAccount[account] = client
	return client, nil
}

// ListDatabases returns the database names in the account, one
// {"name": ...} entry per database.
func (c *Clients) ListDatabases(ctx context.Context, account string) ([]map[string]any, error) {
	client, err := c.client(account)
	if err != nil {
		return nil, err
	}

	databases := []map[string]any{}
	pager := client.NewQueryDatabasesPager("SELECT * FROM root", nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, azure.NormalizeError(err)
		}
		for _, db := range page.Databases {
			databases = append(databases, map[string]any{"name": db.ID})
		}
	}
	return databases, nil
}

// DescribeDatabase reads the database's stored properties.
func (c *Clients) DescribeDatabase(ctx context.Context, account, database string) (map[string]any, error) {
	client, err := c.client(account)
	if err != nil {
		return nil, err
	}
	db, err := client.NewDatabase(database)
	if err != nil {
		return nil, err
	}
	resp, err := db.Read(ctx, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return databaseProperties(resp.DatabaseProperties), nil
}

// CreateDatabase creates the database and returns its properties.
func (c *Clients) CreateDatabase(ctx context.Context, account, database string) (map[string]any, error) {
	client, err := c.client(account)
	if err != nil {
		return nil, err
	}
	resp, err := client.CreateDatabase(ctx, azcosmos.DatabaseProperties{ID: database}, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return databaseProperties(resp.DatabaseProperties), nil
}

// ListContainers returns the properties of every container in the database.
func (c *Clients) ListContainers(ctx context.Context, account, database string) ([]map[string]any, error) {
	client, err := c.client(account)
	if err != nil {
		return nil, err
	}
	db, err := client.NewDatabase(database)
	if err != nil {
		return nil, err
	}

	containers := []map[string]any{}
	pager := db.NewQueryContainersPager("SELECT * FROM root", nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, azure.NormalizeError(err)
		}
		for i := range page.Containers {
			containers = append(containers, containerProperties(&page.Containers[i]))
		}
	}
	return containers, nil
}

// CreateContainer creates a container with the given partition key path.
func (c *Clients) CreateContainer(ctx context.Context, account, database, container, partitionKey string) (map[string]any, error) {
	client, err := c.client(account)
	if err != nil {
		return nil, err
	}
	db, err := client.NewDatabase(database)
	if err != nil {
		return nil, err
	}

	props := azcosmos.ContainerProperties{
		ID: container,
		PartitionKeyDefinition: azcosmos.PartitionKeyDefinition{
			Paths: []string{partitionKeyPath(partitionKey)},
		},
	}
	resp, err := db.CreateContainer(ctx, props, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return containerProperties(resp.ContainerProperties), nil
}

// DescribeContainer reads the container's stored properties.
func (c *Clients) DescribeContainer(ctx context.Context, account, database, container string) (map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}
	resp, err := cc.Read(ctx, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return containerProperties(resp.ContainerProperties), nil
}

// DeleteContainer removes the container.
func (c *Clients) DeleteContainer(ctx context.Context, account, database, container string) (map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}
	if _, err := cc.Delete(ctx, nil); err != nil {
		return nil, azure.NormalizeError(err)
	}
	return map[string]any{"message": fmt.Sprintf("Container %s deleted successfully", container)}, nil
}

// CreateItem inserts item. When partitionKey is empty the value is taken
// from the item's "partitionKey" field, since the caller-facing contract has
// never required the argument for creates.
func (c *Clients) CreateItem(ctx context.Context, account, database, container string, item map[string]any, partitionKey string) (map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("cosmos: encode item: %w", err)
	}
	if partitionKey == "" {
		partitionKey, _ = item["partitionKey"].(string)
	}
	resp, err := cc.CreateItem(ctx, itemPartitionKey(partitionKey), body, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return itemValue(resp.Value, item)
}

// ReadItem fetches one item by ID and partition key.
func (c *Clients) ReadItem(ctx context.Context, account, database, container, itemID, partitionKey string) (map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}
	resp, err := cc.ReadItem(ctx, itemPartitionKey(partitionKey), itemID, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return itemValue(resp.Value, nil)
}

// ReplaceItem overwrites the item with the given ID.
func (c *Clients) ReplaceItem(ctx context.Context, account, database, container, itemID string, item map[string]any, partitionKey string) (map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("cosmos: encode item: %w", err)
	}
	resp, err := cc.ReplaceItem(ctx, itemPartitionKey(partitionKey), itemID, body, nil)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	return itemValue(resp.Value, item)
}

// DeleteItem removes one item by ID and partition key.
func (c *Clients) DeleteItem(ctx context.Context, account, database, container, itemID, partitionKey string) (map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}
	if _, err := cc.DeleteItem(ctx, itemPartitionKey(partitionKey), itemID, nil); err != nil {
		return nil, azure.NormalizeError(err)
	}
	return map[string]any{"message": fmt.Sprintf("Item %s deleted successfully", itemID)}, nil
}

// QueryItems runs a SQL query against the container. With an empty
// partitionKey the query runs cross-partition.
func (c *Clients) QueryItems(ctx context.Context, account, database, container, query string, params []QueryParameter, partitionKey string) ([]map[string]any, error) {
	cc, err := c.container(account, database, container)
	if err != nil {
		return nil, err
	}

	opts := &azcosmos.QueryOptions{}
	for _, p := range params {
		opts.QueryParameters = append(opts.QueryParameters, azcosmos.QueryParameter{
			Name:  p.Name,
			Value: p.Value,
		})
	}

	items := []map[string]any{}
	pager := cc.NewQueryItemsPager(query, itemPartitionKey(partitionKey), opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, azure.NormalizeError(err)
		}
		for _, raw := range page.Items {
			var item map[string]any
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("cosmos: decode query result: %w", err)
			}
			items = append(items, item)
		}
	}
	return items, nil
}

// container resolves the container client for the triple.
func (c *Clients) container(account, database, container string) (*azcosmos.ContainerClient, error) {
	client, err := c.client(account)
	if err != nil {
		return nil, err
	}
	cc, err := client.NewContainer(database, container)
	if err != nil {
		return nil, err
	}
	return cc, nil
}

// partitionKeyPath normalizes a partition key to the path form the service
// expects ("/tenantId"), accepting the bare field name callers often send.
func partitionKeyPath(key string) string {
	if strings.HasPrefix(key, "/") {
		return key
	}
	return "/" + key
}

// itemPartitionKey builds the SDK partition key value. The zero value stands
// for "no partition key", which the query pager treats as cross-partition.
func itemPartitionKey(value string) azcosmos.PartitionKey {
	if value == "" {
		return azcosmos.PartitionKey{}
	}
	return azcosmos.NewPartitionKeyString(value)
}

// itemValue decodes the service's item payload, falling back to the request
// body for operations where the service returns no content.
func itemValue(raw []byte, fallback map[string]any) (map[string]any, error) {
	if len(raw) == 0 {
		return fallback, nil
	}
	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("cosmos: decode item response: %w", err)
	}
	return item, nil
}

// databaseProperties reshapes SDK database properties into a plain map.
func databaseProperties(p *azcosmos.DatabaseProperties) map[string]any {
	if p == nil {
		return nil
	}
	out := map[string]any{"id": p.ID}
	if p.ETag != nil {
		out["etag"] = string(*p.ETag)
	}
	if !p.LastModified.IsZero() {
		out["last_modified"] = p.LastModified
	}
	return out
}

// containerProperties reshapes SDK container properties into a plain map.
func containerProperties(p *azcosmos.ContainerProperties) map[string]any {
	if p == nil {
		return nil
	}
	out := map[string]any{
		"id":            p.ID,
		"partition_key": map[string]any{"paths": p.PartitionKeyDefinition.Paths},
	}
	if p.ETag != nil {
		out["etag"] = string(*p.ETag)
	}
	if !p.LastModified.IsZero() {
		out["last_modified"] = p.LastModified
	}
	return out
}
