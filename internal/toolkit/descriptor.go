// Package toolkit implements the tool-dispatch core shared by the Cosmos DB
// and AI Search MCP services: a static operation registry, required-argument
// validation, a lookup-validate-invoke dispatcher, and a failure boundary
// that converts every outcome into a uniform result envelope.
//
// The toolkit knows nothing about Azure or about the MCP wire protocol.
// Handlers are opaque callables provided by the store-specific packages, and
// the transport layer is expected to encode the returned [Envelope] however
// it sees fit.
package toolkit

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
)

// HandlerFunc performs the actual store call for one tool. It receives the
// whole argument bag (already validated for required fields) and returns an
// arbitrary JSON-encodable result value, or an error classified by
// [Classify]. Implementations must be safe for concurrent use and should
// respect context cancellation; the dispatcher itself imposes no timeout.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Field describes one named argument of a tool, used both for validation and
// for the self-describing catalog exposed to clients.
type Field struct {
	// Name is the argument's key in the bag (e.g. "account_name").
	Name string

	// Type is the JSON Schema primitive type: "string", "object", or "array".
	Type string

	// Description is the client-facing explanation of the argument.
	Description string

	// Required marks the field as mandatory. Required fields must be present
	// and non-empty for dispatch to proceed past validation.
	Required bool
}

// Descriptor binds a tool name to its argument contract and handler. A
// Descriptor is registered once at startup and never mutated afterwards.
type Descriptor struct {
	// Name is the unique, stable tool name (e.g. "cosmosdb_database_list").
	Name string

	// Description is the client-facing summary of what the tool does.
	Description string

	// Fields lists the tool's arguments in catalog order.
	Fields []Field

	// Handler is invoked with the validated argument bag.
	Handler HandlerFunc
}

// Required returns the names of all required fields in declaration order.
func (d *Descriptor) Required() []string {
	var names []string
	for _, f := range d.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// InputSchema builds the JSON Schema for the tool's arguments, suitable for
// the MCP tool catalog. The schema enumerates every field with its primitive
// type and lists the required field names.
func (d *Descriptor) InputSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(d.Fields))
	for _, f := range d.Fields {
		props[f.Name] = &jsonschema.Schema{
			Type:        f.Type,
			Description: f.Description,
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   d.Required(),
	}
}
