package types

import (
	"errors"
	"os"
	"time"
)

// ErrInvalidInput marks errors caused by bad caller-supplied arguments.
// Stage packages wrap it with fmt.Errorf("%w: ...") so callers can test
// with errors.Is. Backend unavailability is never reported through it.
var ErrInvalidInput = errors.New("invalid input")

// Config represents the application configuration
type Config struct {
	Caption  CaptionConfig  `yaml:"caption"`
	Image    ImageConfig    `yaml:"image"`
	Video    VideoConfig    `yaml:"video"`
	Publish  PublishConfig  `yaml:"publish"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// CaptionConfig selects and configures the chat-completion provider
type CaptionConfig struct {
	Provider string `yaml:"provider"` // "openai", "anthropic", "google"

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Google    GoogleConfig    `yaml:"google"`
}

// OpenAIConfig for GPT models
type OpenAIConfig struct {
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"` // e.g., "gpt-4o-mini"
	Organization string        `yaml:"organization"`
	Timeout      time.Duration `yaml:"timeout"`
}

// AnthropicConfig for Claude
type AnthropicConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"` // e.g., "claude-3-5-haiku-latest"
	Timeout time.Duration `yaml:"timeout"`
}

// GoogleConfig for Gemini
type GoogleConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"` // e.g., "gemini-2.0-flash"
	Timeout time.Duration `yaml:"timeout"`
}

// ImageConfig configures the image generation stage
type ImageConfig struct {
	Device string `yaml:"device"` // "auto", "cpu", or an accelerator id

	// Server points at the diffusion tool server. A nil server means no
	// image backend is configured and every render uses the placeholder.
	Server *ServerConfig `yaml:"server"`
}

// ServerConfig defines tool server connection parameters
type ServerConfig struct {
	Name         string            `yaml:"name"`
	Command      []string          `yaml:"command"`           // For stdio transport
	URL          string            `yaml:"url"`               // For HTTP transport
	Transport    string            `yaml:"transport"`         // "stdio" or "http"
	Timeout      time.Duration     `yaml:"timeout"`
	Headers      map[string]string `yaml:"headers,omitempty"` // HTTP headers (e.g., Authorization)
	Capabilities struct {
		Tools []string `yaml:"tools"`
	} `yaml:"capabilities"`
}

// VideoConfig configures the video stitching stage
type VideoConfig struct {
	FFmpegPath     string        `yaml:"ffmpeg_path"`
	FrameSeconds   int           `yaml:"frame_seconds"` // display time per input image
	Timeout        time.Duration `yaml:"timeout"`
	DegradeOnError bool          `yaml:"degrade_on_error"` // write a simulated clip when ffmpeg exits non-zero
}

// PublishConfig configures the publishing stage
type PublishConfig struct {
	FacebookToken  string        `yaml:"facebook_token"`
	TwitterToken   string        `yaml:"twitter_token"`
	APIURL         string        `yaml:"api_url"`
	Timeout        time.Duration `yaml:"timeout"`
	DegradeOnError bool          `yaml:"degrade_on_error"` // simulate success on transport/API errors
}

// PipelineConfig defines orchestrator paths
type PipelineConfig struct {
	OutputDir    string `yaml:"output_dir"`
	ImagePath    string `yaml:"image_path"`    // relative to OutputDir
	VideoPath    string `yaml:"video_path"`    // relative to OutputDir
	ManifestPath string `yaml:"manifest_path"` // relative to OutputDir
}

// DefaultConfig returns the configuration used when no config file is
// provided. Credentials are read from the environment; their absence is a
// valid state that every stage handles by degrading.
func DefaultConfig() *Config {
	return &Config{
		Caption: CaptionConfig{
			Provider: "openai",
			OpenAI: OpenAIConfig{
				APIKey:  os.Getenv("OPENAI_API_KEY"),
				Model:   "gpt-4o-mini",
				Timeout: 60 * time.Second,
			},
			Anthropic: AnthropicConfig{
				APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
				Model:   "claude-3-5-haiku-latest",
				Timeout: 60 * time.Second,
			},
			Google: GoogleConfig{
				APIKey:  os.Getenv("GEMINI_API_KEY"),
				Model:   "gemini-2.0-flash",
				Timeout: 60 * time.Second,
			},
		},
		Image: ImageConfig{
			Device: "auto",
		},
		Video: VideoConfig{
			FFmpegPath:     "ffmpeg",
			FrameSeconds:   3,
			Timeout:        2 * time.Minute,
			DegradeOnError: true,
		},
		Publish: PublishConfig{
			FacebookToken:  os.Getenv("FB_PAGE_TOKEN"),
			TwitterToken:   os.Getenv("TWITTER_BEARER_TOKEN"),
			Timeout:        30 * time.Second,
			DegradeOnError: true,
		},
		Pipeline: PipelineConfig{
			OutputDir:    "output",
			ImagePath:    "static/out.png",
			VideoPath:    "output.mp4",
			ManifestPath: "manifest.json",
		},
	}
}

// PublishResult is the outcome of a publishing attempt. Simulated results
// report Success=true so the pipeline keeps completing without credentials.
type PublishResult struct {
	Success   bool                   `json:"success"`
	Simulated bool                   `json:"simulated,omitempty"`
	Platform  string                 `json:"platform,omitempty"`
	Text      string                 `json:"text,omitempty"`
	ImagePath string                 `json:"image_path,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"` // remote platform response fields
}

// PipelineResult aggregates the artifacts of one pipeline run
type PipelineResult struct {
	RunID     string         `json:"run_id"`
	Topic     string         `json:"topic"`
	Caption   string         `json:"caption"`
	ImagePath string         `json:"image_path"`
	VideoPath string         `json:"video_path"`
	Publish   *PublishResult `json:"publish_result"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
}

// Tool represents a tool server tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolCallResult represents the result of a tool invocation
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// ContentBlock represents a content item in tool result
type ContentBlock struct {
	Type string `json:"type"` // "text", "image", "resource"
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// Stage identifies one pipeline stage
type Stage string

const (
	StageInit     Stage = "init"
	StageCaption  Stage = "caption"
	StageImage    Stage = "generate_image"
	StageVideo    Stage = "stitch_video"
	StagePublish  Stage = "publish"
	StageComplete Stage = "complete"
)

// StageStatus represents the execution status of a stage
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusDegraded  StageStatus = "degraded"
	StatusFailed    StageStatus = "failed"
)
