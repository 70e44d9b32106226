package caption

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// fakeProvider is a configurable Provider for testing
type fakeProvider struct {
	enabled bool
	text    string
	err     error
	calls   int
	prompt  string
}

func (p *fakeProvider) Name() string    { return "fake" }
func (p *fakeProvider) IsEnabled() bool { return p.enabled }
func (p *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.calls++
	p.prompt = prompt
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

func TestMakeInvalidInput(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	for _, topic := range []string{"", "   ", "\t\n"} {
		_, _, err := c.Make(ctx, topic)
		if !errors.Is(err, types.ErrInvalidInput) {
			t.Errorf("Make(%q): expected ErrInvalidInput, got %v", topic, err)
		}
	}
}

func TestMakeNoProvider(t *testing.T) {
	c := New(nil)

	got, degraded, err := c.Make(context.Background(), "  shoes  ")
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if !degraded {
		t.Error("expected degraded caption without a provider")
	}
	want := "Share an engaging social media post inspired by shoes."
	if got != want {
		t.Errorf("Make = %q, want %q", got, want)
	}
}

func TestMakeDisabledProvider(t *testing.T) {
	provider := &fakeProvider{enabled: false, text: "should not be used"}
	c := New(provider)

	got, degraded, err := c.Make(context.Background(), "shoes")
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if !degraded {
		t.Error("expected degraded caption for disabled provider")
	}
	if provider.calls != 0 {
		t.Errorf("disabled provider was called %d times", provider.calls)
	}
	if got != Fallback("shoes") {
		t.Errorf("Make = %q, want fallback", got)
	}
}

func TestMakeProviderSuccess(t *testing.T) {
	provider := &fakeProvider{enabled: true, text: "  Step into comfort! #shoes  "}
	c := New(provider)

	got, degraded, err := c.Make(context.Background(), "shoes")
	if err != nil {
		t.Fatalf("Make failed: %v", err)
	}
	if degraded {
		t.Error("expected real caption, got degraded")
	}
	if got != "Step into comfort! #shoes" {
		t.Errorf("Make = %q, want trimmed provider text", got)
	}
	if provider.prompt != "Create a catchy social media post idea about shoes" {
		t.Errorf("unexpected prompt: %q", provider.prompt)
	}
}

func TestMakeProviderFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{name: "provider error", provider: &fakeProvider{enabled: true, err: fmt.Errorf("api unreachable")}},
		{name: "empty content", provider: &fakeProvider{enabled: true, text: ""}},
		{name: "whitespace content", provider: &fakeProvider{enabled: true, text: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.provider)
			got, degraded, err := c.Make(context.Background(), "shoes")
			if err != nil {
				t.Fatalf("Make must not fail after validation: %v", err)
			}
			if !degraded {
				t.Error("expected degraded caption")
			}
			if got != Fallback("shoes") {
				t.Errorf("Make = %q, want fallback", got)
			}
			if tt.provider.calls != 1 {
				t.Errorf("provider called %d times, want 1", tt.provider.calls)
			}
		})
	}
}
