// Package caption derives a social-media caption from a topic, falling
// back to a fixed template whenever the completion backend is missing or
// failing.
package caption

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

const (
	promptTemplate   = "Create a catchy social media post idea about %s"
	fallbackTemplate = "Share an engaging social media post inspired by %s."
)

// Captioner is the caption stage.
type Captioner struct {
	provider Provider
}

// New creates the stage; a nil provider means no completion backend is
// configured and every call returns the fallback caption.
func New(provider Provider) *Captioner {
	return &Captioner{provider: provider}
}

// Make returns a caption for topic along with whether the fallback was
// used. It errors only for empty input; once validation passes it always
// returns non-empty text.
func (c *Captioner) Make(ctx context.Context, topic string) (string, bool, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", false, fmt.Errorf("%w: topic cannot be empty", types.ErrInvalidInput)
	}

	fallback := fmt.Sprintf(fallbackTemplate, topic)

	if c.provider == nil || !c.provider.IsEnabled() {
		log.Printf("[caption] no completion provider configured, using fallback caption")
		return fallback, true, nil
	}

	text, err := c.provider.Complete(ctx, fmt.Sprintf(promptTemplate, topic))
	if err != nil {
		log.Printf("[caption] %s completion failed: %v", c.provider.Name(), err)
		return fallback, true, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		log.Printf("[caption] %s returned no content, using fallback caption", c.provider.Name())
		return fallback, true, nil
	}

	return text, false, nil
}

// Fallback returns the caption used when no provider can serve the topic.
func Fallback(topic string) string {
	return fmt.Sprintf(fallbackTemplate, strings.TrimSpace(topic))
}
