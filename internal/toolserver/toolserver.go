// Package toolserver speaks the MCP tool protocol to out-of-process model
// servers. The image generation stage uses it to reach the diffusion
// backend without linking any inference code into this binary.
package toolserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// Client is the interface for interacting with a tool server
type Client interface {
	// Connect establishes the connection
	Connect(ctx context.Context) error

	// Initialize performs the protocol initialization handshake
	Initialize(ctx context.Context) error

	// ListTools retrieves available tools from the server
	ListTools(ctx context.Context) ([]types.Tool, error)

	// CallTool invokes a tool with given arguments
	CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*types.ToolCallResult, error)

	// Close terminates the connection
	Close() error

	// ServerInfo returns server name and version
	ServerInfo() (name, version string)
}

// Transport defines the wire layer beneath a Client
type Transport interface {
	// Start initializes the transport
	Start(ctx context.Context) error

	// SendRequest sends a JSON-RPC request and waits for the response
	SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error)

	// SendNotification sends a JSON-RPC notification (no response expected)
	SendNotification(ctx context.Context, method string, params interface{}) error

	// Close shuts down the transport
	Close() error
}

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// InitializeRequest represents initialize request parameters
type InitializeRequest struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      ClientInfo             `json:"clientInfo"`
}

// ClientInfo identifies this client to the server
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResponse represents the initialize response
type InitializeResponse struct {
	ProtocolVersion string     `json:"protocolVersion"`
	ServerInfo      ServerInfo `json:"serverInfo"`
}

// ServerInfo identifies the server
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsListResponse represents the response from tools/list
type ToolsListResponse struct {
	Tools      []types.Tool `json:"tools"`
	NextCursor *string      `json:"nextCursor,omitempty"`
}

// CallToolRequest represents parameters for tools/call
type CallToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// conn implements Client over a Transport
type conn struct {
	transport  Transport
	serverName string
	serverVer  string
}

// NewClient creates a tool server client with the given transport
func NewClient(transport Transport) Client {
	return &conn{transport: transport}
}

func (c *conn) Connect(ctx context.Context) error {
	return c.transport.Start(ctx)
}

func (c *conn) Initialize(ctx context.Context) error {
	initReq := InitializeRequest{
		ProtocolVersion: "2025-03-26",
		Capabilities: map[string]interface{}{
			"roots": map[string]interface{}{
				"listChanged": false,
			},
		},
		ClientInfo: ClientInfo{
			Name:    "auto-gen",
			Version: "1.0.0",
		},
	}

	resultBytes, err := c.transport.SendRequest(ctx, "initialize", initReq)
	if err != nil {
		return fmt.Errorf("initialize request failed: %w", err)
	}

	var initResp InitializeResponse
	if err := json.Unmarshal(resultBytes, &initResp); err != nil {
		return fmt.Errorf("failed to parse initialize response: %w", err)
	}

	c.serverName = initResp.ServerInfo.Name
	c.serverVer = initResp.ServerInfo.Version

	if err := c.transport.SendNotification(ctx, "notifications/initialized", nil); err != nil {
		return fmt.Errorf("initialized notification failed: %w", err)
	}

	return nil
}

func (c *conn) ListTools(ctx context.Context) ([]types.Tool, error) {
	resultBytes, err := c.transport.SendRequest(ctx, "tools/list", map[string]interface{}{})
	if err != nil {
		return nil, fmt.Errorf("tools/list request failed: %w", err)
	}

	var listResp ToolsListResponse
	if err := json.Unmarshal(resultBytes, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse tools/list response: %w", err)
	}

	return listResp.Tools, nil
}

func (c *conn) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*types.ToolCallResult, error) {
	req := CallToolRequest{
		Name:      name,
		Arguments: arguments,
	}

	resultBytes, err := c.transport.SendRequest(ctx, "tools/call", req)
	if err != nil {
		return nil, fmt.Errorf("tools/call request failed: %w", err)
	}

	var result types.ToolCallResult
	if err := json.Unmarshal(resultBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to parse tools/call response: %w", err)
	}

	if result.IsError {
		msg := "unknown tool error"
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return &result, fmt.Errorf("tool execution failed: %s", msg)
	}

	return &result, nil
}

func (c *conn) Close() error {
	return c.transport.Close()
}

func (c *conn) ServerInfo() (name, version string) {
	return c.serverName, c.serverVer
}
