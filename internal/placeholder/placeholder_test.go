package placeholder

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "static", "out.png")

	got, err := Image("daily productivity tips", path)
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if got != path {
		t.Errorf("Image returned %q, want %q", got, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading placeholder: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("placeholder file is empty")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not a valid PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 1024 || bounds.Dy() != 1024 {
		t.Errorf("canvas is %dx%d, want 1024x1024", bounds.Dx(), bounds.Dy())
	}
}

func TestImageIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	if _, err := Image("same caption", path); err != nil {
		t.Fatalf("first Image failed: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Image("same caption", path); err != nil {
		t.Fatalf("second Image failed: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("placeholder output is not byte-identical across runs")
	}
}

func TestMinimalImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "min.png")

	if _, err := MinimalImage(path); err != nil {
		t.Fatalf("MinimalImage failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("minimal placeholder is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("minimal placeholder is %v, want 1x1", img.Bounds())
	}
}

func TestSimulatedClip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clips", "out.mp4")

	got, err := SimulatedClip(path, "/tmp/source.png")
	if err != nil {
		t.Fatalf("SimulatedClip failed: %v", err)
	}
	if got != path {
		t.Errorf("SimulatedClip returned %q, want %q", got, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, ClipSentinel) {
		t.Errorf("clip does not start with sentinel: %q", content)
	}
	if !strings.Contains(content, "/tmp/source.png") {
		t.Errorf("clip does not record the source image: %q", content)
	}
}

func TestSimulatedPost(t *testing.T) {
	result := SimulatedPost("facebook", "hello world", "/tmp/out.png")

	if !result.Success || !result.Simulated {
		t.Errorf("expected simulated success, got %+v", result)
	}
	if result.Platform != "facebook" || result.Text != "hello world" || result.ImagePath != "/tmp/out.png" {
		t.Errorf("payload does not echo the inputs: %+v", result)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "empty text yields one empty line",
			text:  "",
			width: 10,
			want:  []string{""},
		},
		{
			name:  "short text fits on one line",
			text:  "hello world",
			width: 40,
			want:  []string{"hello world"},
		},
		{
			name:  "long text breaks on spaces",
			text:  "one two three four",
			width: 9,
			want:  []string{"one two", "three", "four"},
		},
		{
			name:  "oversized word gets its own line",
			text:  "a reallyreallylongword b",
			width: 10,
			want:  []string{"a", "reallyreallylongword", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap(tt.text, tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wrap(%q, %d) = %v, want %v", tt.text, tt.width, got, tt.want)
			}
		})
	}
}
