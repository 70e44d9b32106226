package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// fakeBackend is a configurable Backend for testing
type fakeBackend struct {
	images []image.Image
	err    error
	calls  int
}

func (b *fakeBackend) Generate(ctx context.Context, prompt, device string) ([]image.Image, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	return b.images, nil
}

func solidImage(c color.Color, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestGenerateInvalidInput(t *testing.T) {
	g := NewGenerator(nil, "cpu")
	ctx := context.Background()

	tests := []struct {
		name    string
		caption string
		output  string
	}{
		{name: "empty caption", caption: "", output: "out.png"},
		{name: "whitespace caption", caption: "   ", output: "out.png"},
		{name: "empty output path", caption: "a cat", output: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := g.Generate(ctx, tt.caption, tt.output)
			if !errors.Is(err, types.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGenerateNoBackend(t *testing.T) {
	g := NewGenerator(nil, "cpu")
	path := filepath.Join(t.TempDir(), "out.png")

	got, degraded, err := g.Generate(context.Background(), "a red fox", path)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !degraded {
		t.Error("expected degraded result without a backend")
	}
	if got != path {
		t.Errorf("Generate returned %q, want %q", got, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output file is empty")
	}
}

func TestGenerateBackendSuccess(t *testing.T) {
	backend := &fakeBackend{images: []image.Image{solidImage(color.White, 8)}}
	g := NewGenerator(backend, "cuda:0")
	path := filepath.Join(t.TempDir(), "out.png")

	got, degraded, err := g.Generate(context.Background(), "a red fox", path)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if degraded {
		t.Error("expected real backend output, got degraded")
	}
	if got != path {
		t.Errorf("Generate returned %q, want %q", got, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("unexpected output dimensions: %v", img.Bounds())
	}
}

func TestGenerateBackendFailureDegrades(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
	}{
		{name: "backend error", backend: &fakeBackend{err: fmt.Errorf("model server crashed")}},
		{name: "backend returns no images", backend: &fakeBackend{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.backend, "cpu")
			path := filepath.Join(t.TempDir(), "out.png")

			_, degraded, err := g.Generate(context.Background(), "a red fox", path)
			if err != nil {
				t.Fatalf("Generate must not fail on backend errors: %v", err)
			}
			if !degraded {
				t.Error("expected degraded result")
			}
			if tt.backend.calls != 1 {
				t.Errorf("backend called %d times, want 1", tt.backend.calls)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("placeholder file missing: %v", err)
			}
		})
	}
}

func TestGeneratePlaceholderIdempotent(t *testing.T) {
	g := NewGenerator(nil, "cpu")
	path := filepath.Join(t.TempDir(), "out.png")
	ctx := context.Background()

	if _, _, err := g.Generate(ctx, "same caption", path); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := g.Generate(ctx, "same caption", path); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("placeholder output differs between identical runs")
	}
}

// fakeToolClient implements toolserver.Client for DiffusionBackend tests
type fakeToolClient struct {
	result *types.ToolCallResult
	err    error
	closed bool
}

func (c *fakeToolClient) Connect(ctx context.Context) error    { return nil }
func (c *fakeToolClient) Initialize(ctx context.Context) error { return nil }
func (c *fakeToolClient) ListTools(ctx context.Context) ([]types.Tool, error) {
	return []types.Tool{{Name: "generate_image"}}, nil
}
func (c *fakeToolClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*types.ToolCallResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}
func (c *fakeToolClient) Close() error {
	c.closed = true
	return nil
}
func (c *fakeToolClient) ServerInfo() (string, string) { return "fake", "1.0.0" }

func TestDiffusionBackendDecodesImages(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(color.Black, 4)); err != nil {
		t.Fatal(err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	client := &fakeToolClient{
		result: &types.ToolCallResult{
			Content: []types.ContentBlock{
				{Type: "text", Text: "generated 1 image"},
				{Type: "image", Data: encoded},
			},
		},
	}

	backend := NewDiffusionBackend(client)
	images, err := backend.Generate(context.Background(), "a cat", "cpu")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	if images[0].Bounds().Dx() != 4 {
		t.Errorf("unexpected image dimensions: %v", images[0].Bounds())
	}
}

func TestDiffusionBackendNoImageContent(t *testing.T) {
	client := &fakeToolClient{
		result: &types.ToolCallResult{
			Content: []types.ContentBlock{{Type: "text", Text: "nothing to see"}},
		},
	}

	backend := NewDiffusionBackend(client)
	_, err := backend.Generate(context.Background(), "a cat", "cpu")
	if err == nil {
		t.Fatal("expected error for missing image content")
	}
}
