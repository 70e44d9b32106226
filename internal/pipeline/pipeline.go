// Package pipeline sequences the caption, image, video, and publish stages
// and guarantees a well-formed result record even under total backend
// failure.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joelirwin87-tech/auto-gen/internal/placeholder"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

// sentinelCaption replaces the caption when even the caption stage errors.
const sentinelCaption = "Test caption"

// Captioner derives a caption from a topic
type Captioner interface {
	Make(ctx context.Context, topic string) (caption string, degraded bool, err error)
}

// ImageGenerator renders a caption to a PNG file
type ImageGenerator interface {
	Generate(ctx context.Context, caption, outputPath string) (path string, degraded bool, err error)
}

// VideoStitcher concatenates images into a clip
type VideoStitcher interface {
	Stitch(ctx context.Context, images []string, outputPath string) (path string, degraded bool, err error)
}

// Publisher uploads the caption and image to a platform
type Publisher interface {
	Post(ctx context.Context, caption, imagePath string) *types.PublishResult
}

// Pipeline orchestrates the four stages in fixed order
type Pipeline struct {
	captioner Captioner
	images    ImageGenerator
	video     VideoStitcher
	publisher Publisher

	imagePath    string
	videoPath    string
	manifestPath string
}

// New creates a pipeline with injected stages and artifact paths resolved
// against outputDir.
func New(
	captioner Captioner,
	images ImageGenerator,
	video VideoStitcher,
	publisher Publisher,
	config types.PipelineConfig,
) *Pipeline {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}

	join := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(outputDir, p)
	}

	return &Pipeline{
		captioner:    captioner,
		images:       images,
		video:        video,
		publisher:    publisher,
		imagePath:    join(config.ImagePath, "static/out.png"),
		videoPath:    join(config.VideoPath, "output.mp4"),
		manifestPath: join(config.ManifestPath, "manifest.json"),
	}
}

// Run executes the full workflow for topic. It never panics and never
// returns nil: any defect that escapes a stage's own absorption contract
// is converted into a failed result.
func (p *Pipeline) Run(ctx context.Context, topic string) (result *types.PipelineResult) {
	runID := uuid.New().String()
	result = &types.PipelineResult{RunID: runID, Topic: topic}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[pipeline] unexpected defect: %v", r)
			result.Success = false
			result.Error = fmt.Sprintf("unexpected pipeline defect: %v", r)
		}
	}()

	manifest := NewManifest(runID, topic)
	log.Printf("[pipeline] run %s started for topic %q", runID, topic)

	// Caption stage. An invalid topic is the one validation error that can
	// surface here; the run still continues with the sentinel caption so
	// the result record stays complete.
	manifest.StartStage(types.StageCaption)
	captionText, degraded, err := p.captioner.Make(ctx, topic)
	if err != nil {
		log.Printf("[pipeline] caption stage failed: %v", err)
		manifest.FailStage(types.StageCaption, err)
		captionText = sentinelCaption
	} else {
		manifest.CompleteStage(types.StageCaption, degraded, map[string]string{"caption": captionText})
	}
	result.Caption = captionText
	p.saveManifest(manifest)

	// Image stage.
	manifest.StartStage(types.StageImage)
	imagePath, degraded, err := p.images.Generate(ctx, captionText, p.imagePath)
	if err != nil {
		log.Printf("[pipeline] image stage failed: %v", err)
		manifest.FailStage(types.StageImage, err)
		imagePath = p.synthesizeImage(captionText)
	} else {
		manifest.CompleteStage(types.StageImage, degraded, map[string]string{"image_path": imagePath})
	}
	result.ImagePath = imagePath
	p.saveManifest(manifest)

	// Video stage.
	manifest.StartStage(types.StageVideo)
	videoPath, degraded, err := p.video.Stitch(ctx, []string{imagePath}, p.videoPath)
	if err != nil {
		log.Printf("[pipeline] video stage failed: %v", err)
		manifest.FailStage(types.StageVideo, err)
		videoPath = p.synthesizeClip(imagePath)
	} else {
		manifest.CompleteStage(types.StageVideo, degraded, map[string]string{"video_path": videoPath})
	}
	result.VideoPath = videoPath
	p.saveManifest(manifest)

	// Publish stage. Non-throwing by contract.
	manifest.StartStage(types.StagePublish)
	publishResult := p.publisher.Post(ctx, captionText, imagePath)
	if publishResult == nil {
		publishResult = &types.PublishResult{Success: false, Error: "publisher returned no result"}
	}
	manifest.CompleteStage(types.StagePublish, publishResult.Simulated, publishResult)
	result.Publish = publishResult

	result.Success = publishResult.Success
	if !result.Success {
		result.Error = publishResult.Error
		if result.Error == "" {
			result.Error = "unknown error"
		}
	}

	manifest.CurrentStage = types.StageComplete
	manifest.Result = result
	p.saveManifest(manifest)

	log.Printf("[pipeline] run %s completed, success=%v", runID, result.Success)
	return result
}

// synthesizeImage writes a local placeholder when the image stage itself
// errored instead of degrading.
func (p *Pipeline) synthesizeImage(captionText string) string {
	path, err := placeholder.Image(captionText, p.imagePath)
	if err != nil {
		if path, err = placeholder.MinimalImage(p.imagePath); err != nil {
			log.Printf("[pipeline] failed to synthesize image artifact: %v", err)
			return p.imagePath
		}
	}
	return path
}

// synthesizeClip writes the sentinel clip when the video stage errored.
func (p *Pipeline) synthesizeClip(imagePath string) string {
	path, err := placeholder.SimulatedClip(p.videoPath, imagePath)
	if err != nil {
		log.Printf("[pipeline] failed to synthesize clip artifact: %v", err)
		return p.videoPath
	}
	return path
}

func (p *Pipeline) saveManifest(m *Manifest) {
	if err := m.Save(p.manifestPath); err != nil {
		log.Printf("[pipeline] warning: failed to save manifest: %v", err)
	}
}
