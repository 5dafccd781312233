package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"azmcp/internal/azure"
)

const (
	// apiVersion is the AI Search REST API version all requests pin.
	apiVersion = "2023-11-01"

	// TokenScope is the Entra ID scope for AI Search data and control plane.
	TokenScope = "https://search.azure.com/.default"
)

// Clients is the REST-backed [Store]. A single authenticated pipeline is
// shared across all service accounts — the per-request endpoint is derived
// from the service name, so unlike the Cosmos backend there is no per-account
// client to memoize.
type Clients struct {
	pl runtime.Pipeline
}

var _ Store = (*Clients)(nil)

// NewClients returns a Store that talks to AI Search services with cred.
func NewClients(cred azcore.TokenCredential) *Clients {
	pl := runtime.NewPipeline("azmcp", "1.0.0", runtime.PipelineOptions{
		PerRetry: []policy.Policy{
			runtime.NewBearerTokenPolicy(cred, []string{TokenScope}, nil),
		},
	}, &policy.ClientOptions{})
	return &Clients{pl: pl}
}

// ListIndexes returns the names of all indexes in the service.
func (c *Clients) ListIndexes(ctx context.Context, service string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, serviceURL(service, "indexes"), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Value []struct {
			Name string `json:"name"`
		} `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("search: decode index list: %w", err)
	}

	names := []string{}
	for _, idx := range payload.Value {
		names = append(names, idx.Name)
	}
	return names, nil
}

// DescribeIndex returns the full stored definition of the index.
func (c *Clients) DescribeIndex(ctx context.Context, service, index string) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, indexURL(service, index), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var definition map[string]any
	if err := json.Unmarshal(body, &definition); err != nil {
		return nil, fmt.Errorf("search: decode index definition: %w", err)
	}
	return definition, nil
}

// CreateIndex creates the index with the fixed document schema the service
// provisions: an id key plus content, metadata, title, and created_at
// fields.
func (c *Clients) CreateIndex(ctx context.Context, service, index string) error {
	_, err := c.do(ctx, http.MethodPost, serviceURL(service, "indexes"),
		indexDefinition(index), http.StatusCreated)
	return err
}

// DeleteIndex removes the index.
func (c *Clients) DeleteIndex(ctx context.Context, service, index string) error {
	_, err := c.do(ctx, http.MethodDelete, indexURL(service, index), nil, http.StatusNoContent)
	return err
}

// QueryIndex runs a full-text query against the index and returns the raw
// result documents, search annotations included.
func (c *Clients) QueryIndex(ctx context.Context, service, index, query string, queryType QueryType) ([]map[string]any, error) {
	reqBody := map[string]any{
		"search":    query,
		"queryType": string(queryType),
	}
	body, err := c.do(ctx, http.MethodPost, indexURL(service, index)+"/docs/search", reqBody, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Value []map[string]any `json:"value"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("search: decode query results: %w", err)
	}
	if payload.Value == nil {
		return []map[string]any{}, nil
	}
	return payload.Value, nil
}

// do runs one REST call through the pipeline. Any response outside okStatus
// is converted to an *azcore.ResponseError and normalized into the toolkit
// failure vocabulary.
func (c *Clients) do(ctx context.Context, method, endpoint string, reqBody any, okStatus int) ([]byte, error) {
	req, err := runtime.NewRequest(ctx, method, endpoint+"?api-version="+apiVersion)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	if reqBody != nil {
		if err := runtime.MarshalAsJSON(req, reqBody); err != nil {
			return nil, fmt.Errorf("search: encode request body: %w", err)
		}
	}

	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, azure.NormalizeError(err)
	}
	if !runtime.HasStatusCode(resp, okStatus) {
		return nil, azure.NormalizeError(runtime.NewResponseError(resp))
	}

	body, err := runtime.Payload(resp)
	if err != nil {
		return nil, fmt.Errorf("search: read response body: %w", err)
	}
	return body, nil
}

// serviceURL builds https://{service}.search.windows.net/{path}.
func serviceURL(service, path string) string {
	return fmt.Sprintf("https://%s.search.windows.net/%s", service, path)
}

// indexURL builds the URL of one index resource.
func indexURL(service, index string) string {
	return serviceURL(service, "indexes/"+url.PathEscape(index))
}

// indexDefinition is the fixed five-field schema every index provisioned by
// this service gets.
func indexDefinition(name string) map[string]any {
	return map[string]any{
		"name": name,
		"fields": []map[string]any{
			{"name": "id", "type": "Edm.String", "key": true, "searchable": false},
			{"name": "content", "type": "Edm.String", "searchable": true, "filterable": false, "sortable": false, "facetable": false},
			{"name": "metadata", "type": "Edm.String", "searchable": true, "filterable": true, "sortable": true, "facetable": true},
			{"name": "title", "type": "Edm.String", "searchable": true, "filterable": true, "sortable": true, "facetable": false},
			{"name": "created_at", "type": "Edm.DateTimeOffset", "filterable": true, "sortable": true, "facetable": false},
		},
	}
}
