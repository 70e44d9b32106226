package caption

import "context"

// Provider abstracts remote chat-completion backends (OpenAI, Claude,
// Gemini). A provider constructed without credentials reports
// IsEnabled()=false instead of erroring; missing credentials are a valid
// configuration state.
type Provider interface {
	// Name returns the provider name
	Name() string

	// IsEnabled returns whether the provider is configured with valid credentials
	IsEnabled() bool

	// Complete issues one chat-completion request and returns the text of
	// the first choice. An empty string with a nil error means the model
	// returned no usable content.
	Complete(ctx context.Context, prompt string) (string, error)
}
