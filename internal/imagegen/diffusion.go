package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/joelirwin87-tech/auto-gen/internal/toolserver"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

const (
	generateImageTool = "generate_image"

	// Fixed inference parameters, matched to the model server defaults.
	numInferenceSteps = 25
	guidanceScale     = 7.5
)

// DiffusionBackend generates images through an out-of-process diffusion
// model server speaking the tool protocol.
type DiffusionBackend struct {
	client toolserver.Client
}

var (
	sharedOnce    sync.Once
	sharedBackend *DiffusionBackend
	sharedErr     error
)

// SharedDiffusion constructs the process-wide diffusion backend on first
// call and returns the same instance afterwards. Construction failure is
// memoized too; callers treat it as "no backend" and degrade.
func SharedDiffusion(ctx context.Context, config types.ServerConfig) (*DiffusionBackend, error) {
	sharedOnce.Do(func() {
		sharedBackend, sharedErr = newDiffusion(ctx, config)
	})
	return sharedBackend, sharedErr
}

func newDiffusion(ctx context.Context, config types.ServerConfig) (*DiffusionBackend, error) {
	c, err := toolserver.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool server client: %w", err)
	}

	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	if err := c.Initialize(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("initialization failed: %w", err)
	}

	tools, err := c.ListTools(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	required := config.Capabilities.Tools
	if len(required) == 0 {
		required = []string{generateImageTool}
	}
	if err := toolserver.ValidateTools(tools, required); err != nil {
		c.Close()
		return nil, err
	}

	return &DiffusionBackend{client: c}, nil
}

// NewDiffusionBackend wraps an already connected tool server client.
func NewDiffusionBackend(client toolserver.Client) *DiffusionBackend {
	return &DiffusionBackend{client: client}
}

// Generate invokes the diffusion model once and decodes every returned
// image content block.
func (b *DiffusionBackend) Generate(ctx context.Context, prompt, device string) ([]image.Image, error) {
	args := map[string]interface{}{
		"prompt":              prompt,
		"device":              device,
		"num_inference_steps": numInferenceSteps,
		"guidance_scale":      guidanceScale,
	}

	result, err := b.client.CallTool(ctx, generateImageTool, args)
	if err != nil {
		return nil, fmt.Errorf("%s tool failed: %w", generateImageTool, err)
	}

	var images []image.Image
	for _, block := range result.Content {
		if block.Type != "image" || block.Data == "" {
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(block.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}

		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image bytes: %w", err)
		}

		images = append(images, img)
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("%s returned no image content", generateImageTool)
	}

	return images, nil
}

// Close shuts down the underlying tool server connection.
func (b *DiffusionBackend) Close() error {
	return b.client.Close()
}
