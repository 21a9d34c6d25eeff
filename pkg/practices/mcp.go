package practices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"aigenio/pkg/config"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
)

// ToolName is the MCP tool queried for practices.
const ToolName = "get_best_practices"

// Remote fetches practices from a server.
type Remote interface {
	Fetch(ctx context.Context, q Query) ([]Practice, error)
}

// ToolCaller is the part of an MCP client used to query practices.
type ToolCaller interface {
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// MCPRemote queries an MCP server over streamable HTTP. The connection is
// opened on first use.
type MCPRemote struct {
	url string

	mu     sync.Mutex
	caller ToolCaller
	client *client.Client
}

// NewMCPRemote returns a remote for the server at url.
func NewMCPRemote(url string) *MCPRemote {
	return &MCPRemote{url: url}
}

// NewMCPRemoteWithCaller wraps an already connected client.
func NewMCPRemoteWithCaller(caller ToolCaller) *MCPRemote {
	return &MCPRemote{caller: caller}
}

func (r *MCPRemote) connect(ctx context.Context) (ToolCaller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.caller != nil {
		return r.caller, nil
	}

	httpTransport, err := transport.NewStreamableHTTP(r.url)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport for %s: %w", r.url, err)
	}

	mcpClient := client.NewClient(httpTransport)
	if err := mcpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "aigenio",
		Version: config.Version,
	}

	initResult, err := mcpClient.Initialize(ctx, initRequest)
	if err != nil {
		_ = mcpClient.Close()
		return nil, fmt.Errorf("failed to initialize MCP client: %w", err)
	}
	log.Printf("Initialized MCP client for server %s (%s)", initResult.ServerInfo.Name, initResult.ServerInfo.Version)

	r.client = mcpClient
	r.caller = mcpClient
	return mcpClient, nil
}

// Fetch calls the practices tool with q.
func (r *MCPRemote) Fetch(ctx context.Context, q Query) ([]Practice, error) {
	caller, err := r.connect(ctx)
	if err != nil {
		return nil, err
	}

	n := q.normalized()
	request := mcp.CallToolRequest{}
	request.Params.Name = ToolName
	request.Params.Arguments = map[string]any{
		"query":        q.Text(),
		"language":     n.Language,
		"framework":    n.Framework,
		"project_type": n.ProjectType,
		"categories":   n.Categories,
	}

	result, err := caller.CallTool(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("%s call failed: %w", ToolName, err)
	}

	text := resultText(result)
	if result.IsError {
		return nil, fmt.Errorf("%s returned an error: %s", ToolName, text)
	}
	return parsePractices(text)
}

// Close releases the connection, if any.
func (r *MCPRemote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	r.caller = nil
	return err
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// parsePractices accepts either a bare JSON array or an object holding a
// "practices" array.
func parsePractices(text string) ([]Practice, error) {
	text = strings.TrimSpace(text)
	if !gjson.Valid(text) {
		return nil, errors.New("practices response is not valid JSON")
	}

	doc := gjson.Parse(text)
	list := doc
	if doc.IsObject() {
		list = doc.Get("practices")
	}
	if !list.IsArray() {
		return nil, errors.New("practices response has no practices array")
	}

	var out []Practice
	if err := json.Unmarshal([]byte(list.Raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode practices: %w", err)
	}
	return out, nil
}
