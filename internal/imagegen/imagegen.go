// Package imagegen renders a caption into a PNG image, degrading to a
// synthetic placeholder whenever the real backend cannot produce one.
package imagegen

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joelirwin87-tech/auto-gen/internal/placeholder"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// Backend produces raster images for a prompt. Implementations carry their
// own inference parameters; the stage consumes only the first image.
type Backend interface {
	Generate(ctx context.Context, prompt, device string) ([]image.Image, error)
}

// Generator is the image generation stage. A nil backend is the explicit
// "no diffusion model configured" state and always yields placeholders.
type Generator struct {
	backend Backend
	device  string
}

// NewGenerator creates the stage with an optional backend and a resolved
// device identifier.
func NewGenerator(backend Backend, device string) *Generator {
	return &Generator{backend: backend, device: device}
}

// Generate renders caption to a PNG at outputPath. It returns the path,
// whether the result is a placeholder, and an error only for invalid
// input. Backend failures of any kind degrade to the placeholder.
func (g *Generator) Generate(ctx context.Context, caption, outputPath string) (string, bool, error) {
	if strings.TrimSpace(caption) == "" {
		return "", false, fmt.Errorf("%w: caption must be a non-empty string", types.ErrInvalidInput)
	}
	if strings.TrimSpace(outputPath) == "" {
		return "", false, fmt.Errorf("%w: output path must be a non-empty string", types.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create output directory: %w", err)
	}

	if g.backend != nil {
		if path, ok := g.generateWithBackend(ctx, caption, outputPath); ok {
			return path, false, nil
		}
	}

	log.Printf("[imagegen] using placeholder image generator, backend unavailable")
	path, err := placeholder.Image(caption, outputPath)
	if err != nil {
		// Canvas rendering hit an I/O problem; the byte-literal write is
		// the last resort before giving up.
		path, err = placeholder.MinimalImage(outputPath)
		if err != nil {
			return "", false, fmt.Errorf("failed to write placeholder image: %w", err)
		}
	}

	return path, true, nil
}

func (g *Generator) generateWithBackend(ctx context.Context, caption, outputPath string) (string, bool) {
	images, err := g.backend.Generate(ctx, caption, g.device)
	if err != nil {
		log.Printf("[imagegen] backend failed: %v", err)
		return "", false
	}
	if len(images) == 0 {
		log.Printf("[imagegen] backend did not return any images")
		return "", false
	}

	if err := savePNG(images[0], outputPath); err != nil {
		log.Printf("[imagegen] failed to save generated image: %v", err)
		return "", false
	}

	return outputPath, true
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
