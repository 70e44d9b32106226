// Package placeholder produces synthetic but well-formed artifacts that
// substitute for real backend output when a backend is unavailable.
package placeholder

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

const (
	canvasSize = 1024
	wrapWidth  = 40
	titleText  = "Image placeholder"
	lineGap    = 4
)

// ClipSentinel is the first line of a simulated video file. Tests and the
// video stage use it to recognize stub clips.
const ClipSentinel = "Simulated video output. Install ffmpeg to generate real footage from the source image."

// minimalPNG is a 1x1 black PNG, used when canvas encoding is impossible.
const minimalPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAIAAACQd1PeAAAAEElEQVR4nGJiYGAABAAA//8ADAADcZGLFwAAAABJRU5ErkJggg=="

var (
	background = color.RGBA{R: 0x1f, G: 0x29, B: 0x33, A: 0xff}
	foreground = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
)

// Image renders a square canvas with the caption wrapped and centered, and
// saves it as PNG at path. Output is deterministic for a given caption.
func Image(caption, path string) (string, error) {
	if err := ensureDir(path); err != nil {
		return "", err
	}

	img := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	lines := append([]string{titleText, ""}, wrap(caption, wrapWidth)...)

	face := basicfont.Face7x13
	lineHeight := face.Height + lineGap
	startY := (canvasSize-len(lines)*lineHeight)/2 + face.Ascent

	fg := image.NewUniform(foreground)
	for i, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		drawer := &font.Drawer{
			Dst:  img,
			Src:  fg,
			Face: face,
			Dot:  fixed.P((canvasSize-width)/2, startY+i*lineHeight),
		}
		drawer.DrawString(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create placeholder image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		// Encoding failed mid-write; fall back to the byte-literal PNG so
		// the path still holds a valid image.
		return MinimalImage(path)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close placeholder image: %w", err)
	}

	return path, nil
}

// MinimalImage writes the embedded 1x1 PNG to path.
func MinimalImage(path string) (string, error) {
	if err := ensureDir(path); err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(minimalPNG)
	if err != nil {
		return "", fmt.Errorf("failed to decode embedded placeholder: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write placeholder image: %w", err)
	}

	return path, nil
}

// SimulatedClip writes a text stub in place of an encoded video, recording
// the first source image so the provenance stays inspectable.
func SimulatedClip(path, sourceImage string) (string, error) {
	if err := ensureDir(path); err != nil {
		return "", err
	}

	content := fmt.Sprintf("%s\nSource image: %s\n", ClipSentinel, sourceImage)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write simulated clip: %w", err)
	}

	return path, nil
}

// SimulatedPost builds the publish payload used when no real upload is
// possible. It reports success so the pipeline keeps completing.
func SimulatedPost(platform, caption, imagePath string) *types.PublishResult {
	return &types.PublishResult{
		Success:   true,
		Simulated: true,
		Platform:  platform,
		Text:      caption,
		ImagePath: imagePath,
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// wrap splits text into lines of at most width characters, breaking on
// spaces. Words longer than width get a line of their own.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)

	return lines
}
