// Package videogen concatenates still images into a timed video clip via
// an external ffmpeg process, degrading to a simulated text stub when the
// encoder is absent.
package videogen

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joelirwin87-tech/auto-gen/internal/placeholder"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// Stitcher is the video stitching stage.
type Stitcher struct {
	ffmpegPath   string
	frameSeconds int
	timeout      time.Duration

	// degradeOnError controls what happens when ffmpeg exits non-zero:
	// true writes a simulated clip, false surfaces the error. Encoder
	// absence always degrades.
	degradeOnError bool
}

// NewStitcher creates the stage from configuration.
func NewStitcher(config types.VideoConfig) *Stitcher {
	s := &Stitcher{
		ffmpegPath:     config.FFmpegPath,
		frameSeconds:   config.FrameSeconds,
		timeout:        config.Timeout,
		degradeOnError: config.DegradeOnError,
	}
	if s.ffmpegPath == "" {
		s.ffmpegPath = "ffmpeg"
	}
	if s.frameSeconds <= 0 {
		s.frameSeconds = 3
	}
	if s.timeout <= 0 {
		s.timeout = 2 * time.Minute
	}
	return s
}

// Stitch encodes images into a single clip at output, each image shown for
// the configured duration. It returns the path, whether the clip is
// simulated, and an error for invalid input or (in strict mode) encoder
// failure.
func (s *Stitcher) Stitch(ctx context.Context, images []string, output string) (string, bool, error) {
	if len(images) == 0 {
		return "", false, fmt.Errorf("%w: images must contain at least one file path", types.ErrInvalidInput)
	}

	for _, img := range images {
		info, err := os.Stat(img)
		if err != nil || info.IsDir() {
			return "", false, fmt.Errorf("%w: image file not found: %s", types.ErrInvalidInput, img)
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create output directory: %w", err)
	}

	binary, err := exec.LookPath(s.ffmpegPath)
	if err != nil {
		log.Printf("[videogen] %s not found, writing simulated clip", s.ffmpegPath)
		path, err := placeholder.SimulatedClip(output, images[0])
		if err != nil {
			return "", false, err
		}
		return path, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, s.buildArgs(images, output)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("[videogen] ffmpeg failed: %v, stderr: %s", err, stderr.String())
		if !s.degradeOnError {
			return "", false, fmt.Errorf("ffmpeg failed: %w", err)
		}

		path, werr := placeholder.SimulatedClip(output, images[0])
		if werr != nil {
			return "", false, werr
		}
		return path, true, nil
	}

	return output, false, nil
}

// buildArgs assembles the ffmpeg invocation: each input looped for the
// frame duration, concatenated into one H.264/yuv420p stream.
func (s *Stitcher) buildArgs(images []string, output string) []string {
	args := []string{"-y"}

	duration := strconv.Itoa(s.frameSeconds)
	for _, img := range images {
		args = append(args, "-loop", "1", "-t", duration, "-i", img)
	}

	var refs strings.Builder
	for i := range images {
		fmt.Fprintf(&refs, "[%d:v]", i)
	}
	filter := fmt.Sprintf("%sconcat=n=%d:v=1:a=0[v]", refs.String(), len(images))

	args = append(args,
		"-filter_complex", filter,
		"-map", "[v]",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		output,
	)

	return args
}
