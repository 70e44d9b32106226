package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// MockTransport is a configurable Transport for testing
type MockTransport struct {
	StartErr         error
	RequestErr       error
	NotificationErr  error
	ResponseDelay    time.Duration
	RequestResponses map[string]interface{} // method -> response

	Started       bool
	Closed        bool
	SentRequests  []MockRequest
	Notifications []string
}

// MockRequest records a request sent through the transport
type MockRequest struct {
	Method string
	Params interface{}
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{
		RequestResponses: make(map[string]interface{}),
	}
}

// Start initializes the mock transport
func (m *MockTransport) Start(ctx context.Context) error {
	if m.StartErr != nil {
		return m.StartErr
	}
	m.Started = true
	return nil
}

// SendRequest records the request and returns the configured response
func (m *MockTransport) SendRequest(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	m.SentRequests = append(m.SentRequests, MockRequest{Method: method, Params: params})

	if m.ResponseDelay > 0 {
		select {
		case <-time.After(m.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.RequestErr != nil {
		return nil, m.RequestErr
	}

	if resp, ok := m.RequestResponses[method]; ok {
		data, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal mock response: %w", err)
		}
		return data, nil
	}

	return json.RawMessage(`{}`), nil
}

// SendNotification records the notification
func (m *MockTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	m.Notifications = append(m.Notifications, method)
	return m.NotificationErr
}

// Close shuts down the mock transport
func (m *MockTransport) Close() error {
	m.Closed = true
	return nil
}

// SetResponse configures a response for a specific method
func (m *MockTransport) SetResponse(method string, response interface{}) {
	m.RequestResponses[method] = response
}

// SetInitializeResponse configures a standard initialize handshake
func (m *MockTransport) SetInitializeResponse(serverName string) {
	m.SetResponse("initialize", map[string]interface{}{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]interface{}{},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": "1.0.0",
		},
	})
}

// LastRequest returns the most recent request, or nil
func (m *MockTransport) LastRequest() *MockRequest {
	if len(m.SentRequests) == 0 {
		return nil
	}
	return &m.SentRequests[len(m.SentRequests)-1]
}
