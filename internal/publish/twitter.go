package publish

import (
	"context"
	"log"

	"github.com/joelirwin87-tech/auto-gen/internal/placeholder"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// Twitter is a stub publisher that demonstrates the multi-platform shape.
// It never performs network I/O.
type Twitter struct {
	token string
}

// NewTwitter creates the stub from configuration.
func NewTwitter(config types.PublishConfig) *Twitter {
	return &Twitter{token: config.TwitterToken}
}

// Post reports a simulated result without contacting the platform.
func (t *Twitter) Post(ctx context.Context, caption string) *types.PublishResult {
	if t.token == "" {
		return placeholder.SimulatedPost("twitter", caption, "")
	}

	log.Printf("[publish] twitter posting is not implemented, skipping upload of %q", caption)
	return &types.PublishResult{
		Success:  true,
		Platform: "twitter",
		Message:  "twitter posting is not yet implemented",
	}
}
