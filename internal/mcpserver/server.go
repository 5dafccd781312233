// Package mcpserver binds a tool registry and dispatcher to an MCP server
// from the official MCP Go SDK, served over the HTTP+SSE transport. The
// transport decodes each tool call into a (name, argument bag) pair, hands
// it to the dispatcher, and re-encodes the returned envelope; it never
// branches on failure modes itself.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"azmcp/internal/observe"
	"azmcp/internal/toolkit"
)

// Version is reported through the MCP implementation info and the
// config://version resource.
const Version = "1.0.0"

// Server wraps one MCP server instance exposing a service's tool catalog.
type Server struct {
	dispatcher *toolkit.Dispatcher
	metrics    *observe.Metrics
	mcp        *mcpsdk.Server
}

// New builds a Server named after the service (e.g. "cosmosdb_mcp"). Every
// descriptor in the dispatcher's registry becomes an MCP tool; the echo
// tool, the config://version and echo://{message} resources, and the prompt
// prompt are registered alongside. metrics may be nil.
func New(name string, dispatcher *toolkit.Dispatcher, metrics *observe.Metrics) *Server {
	s := &Server{
		dispatcher: dispatcher,
		metrics:    metrics,
		mcp: mcpsdk.NewServer(
			&mcpsdk.Implementation{Name: name, Version: Version},
			nil,
		),
	}
	s.registerTools()
	s.registerExtras()
	return s
}

// registerTools maps every registry descriptor onto an MCP tool whose
// handler funnels through the dispatcher.
func (s *Server) registerTools() {
	for _, desc := range s.dispatcher.Registry().Descriptors() {
		name := desc.Name
		s.mcp.AddTool(&mcpsdk.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema(),
		}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			args, err := decodeArgs(req.Params.Arguments)
			if err != nil {
				return textResult(fmt.Sprintf(`{"error": "malformed arguments: %s"}`, err), true), nil
			}
			env := s.dispatcher.Dispatch(ctx, name, args)
			payload, err := json.Marshal(env.Payload())
			if err != nil {
				return textResult(fmt.Sprintf(`{"error": "encode result: %s"}`, err), true), nil
			}
			return textResult(string(payload), !env.OK()), nil
		})
	}
}

// registerExtras adds the non-store surface both services have always
// exposed: a version resource, an echo resource template, an echo tool, and
// a trivial prompt.
func (s *Server) registerExtras() {
	s.mcp.AddResource(&mcpsdk.Resource{
		URI:      "config://version",
		Name:     "version",
		MIMEType: "text/plain",
	}, func(ctx context.Context, req *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
		return &mcpsdk.ReadResourceResult{
			Contents: []*mcpsdk.ResourceContents{
				{URI: req.Params.URI, MIMEType: "text/plain", Text: Version},
			},
		}, nil
	})

	s.mcp.AddResourceTemplate(&mcpsdk.ResourceTemplate{
		URITemplate: "echo://{message}",
		Name:        "echo",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcpsdk.ReadResourceRequest) (*mcpsdk.ReadResourceResult, error) {
		message := strings.TrimPrefix(req.Params.URI, "echo://")
		return &mcpsdk.ReadResourceResult{
			Contents: []*mcpsdk.ResourceContents{
				{URI: req.Params.URI, MIMEType: "text/plain", Text: "Resource echo: " + message},
			},
		}, nil
	})

	s.mcp.AddTool(&mcpsdk.Tool{
		Name:        "echo",
		Description: "Echo the message",
		InputSchema: (&toolkit.Descriptor{
			Fields: []toolkit.Field{
				{Name: "message", Type: "string", Description: "The message to echo", Required: true},
			},
		}).InputSchema(),
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		args, err := decodeArgs(req.Params.Arguments)
		if err != nil {
			return textResult(fmt.Sprintf(`{"error": "malformed arguments: %s"}`, err), true), nil
		}
		return textResult("Tool echo: "+args.String("message"), false), nil
	})

	s.mcp.AddPrompt(&mcpsdk.Prompt{
		Name:        "prompt",
		Description: "Prompt the message",
		Arguments: []*mcpsdk.PromptArgument{
			{Name: "message", Description: "The message to process", Required: true},
		},
	}, func(ctx context.Context, req *mcpsdk.GetPromptRequest) (*mcpsdk.GetPromptResult, error) {
		return &mcpsdk.GetPromptResult{
			Messages: []*mcpsdk.PromptMessage{
				{
					Role:    "user",
					Content: &mcpsdk.TextContent{Text: "Please process this message: " + req.Params.Arguments["message"]},
				},
			},
		}, nil
	})
}

// Handler returns the HTTP+SSE handler for the MCP endpoint. GET opens the
// event stream, POST delivers client messages; both are served by the SDK's
// SSE handler on the same route.
func (s *Server) Handler() http.Handler {
	sse := mcpsdk.NewSSEHandler(func(*http.Request) *mcpsdk.Server { return s.mcp }, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && s.metrics != nil {
			s.metrics.ActiveSessions.Add(r.Context(), 1)
			defer s.metrics.ActiveSessions.Add(context.WithoutCancel(r.Context()), -1)
		}
		sse.ServeHTTP(w, r)
	})
}

// textResult wraps a payload string as an MCP text result.
func textResult(text string, isError bool) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		IsError: isError,
	}
}

// decodeArgs coerces the SDK's argument payload into a toolkit bag. The
// wire delivers a raw JSON object; in-process callers may hand over a map
// directly.
func decodeArgs(v any) (toolkit.Args, error) {
	switch t := v.(type) {
	case nil:
		return toolkit.Args{}, nil
	case map[string]any:
		return toolkit.Args(t), nil
	case toolkit.Args:
		return t, nil
	case json.RawMessage:
		return unmarshalArgs(t)
	case []byte:
		return unmarshalArgs(t)
	case string:
		return unmarshalArgs([]byte(t))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return unmarshalArgs(data)
	}
}

func unmarshalArgs(data []byte) (toolkit.Args, error) {
	if len(data) == 0 {
		return toolkit.Args{}, nil
	}
	var args toolkit.Args
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	if args == nil {
		args = toolkit.Args{}
	}
	return args, nil
}
