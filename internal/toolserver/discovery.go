package toolserver

import (
	"fmt"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// New creates a tool server client from configuration
func New(config types.ServerConfig) (Client, error) {
	var t Transport

	switch config.Transport {
	case "stdio":
		if len(config.Command) == 0 {
			return nil, fmt.Errorf("command required for stdio transport")
		}
		t = NewStdioTransport(config.Command, config.Timeout)

	case "http":
		if config.URL == "" {
			return nil, fmt.Errorf("url required for http transport")
		}
		t = NewHTTPTransport(config.URL, config.Timeout, config.Headers)

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", config.Transport)
	}

	return NewClient(t), nil
}

// ValidateTools checks that every required tool is offered by the server
func ValidateTools(available []types.Tool, required []string) error {
	toolMap := make(map[string]bool)
	for _, tool := range available {
		toolMap[tool.Name] = true
	}

	var missing []string
	for _, req := range required {
		if !toolMap[req] {
			missing = append(missing, req)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required tools: %v", missing)
	}

	return nil
}
