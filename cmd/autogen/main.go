package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joelirwin87-tech/auto-gen/internal/caption"
	"github.com/joelirwin87-tech/auto-gen/internal/caption/providers/claude"
	"github.com/joelirwin87-tech/auto-gen/internal/caption/providers/gemini"
	"github.com/joelirwin87-tech/auto-gen/internal/caption/providers/openai"
	"github.com/joelirwin87-tech/auto-gen/internal/device"
	"github.com/joelirwin87-tech/auto-gen/internal/imagegen"
	"github.com/joelirwin87-tech/auto-gen/internal/pipeline"
	"github.com/joelirwin87-tech/auto-gen/internal/publish"
	"github.com/joelirwin87-tech/auto-gen/internal/videogen"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

const defaultTopic = "daily productivity tips"

// createProvider creates the chat-completion provider selected in config
func createProvider(config types.CaptionConfig) (caption.Provider, error) {
	switch config.Provider {
	case "anthropic", "claude":
		return claude.NewProvider(config.Anthropic)

	case "google", "gemini":
		return gemini.NewProvider(config.Google)

	case "openai", "":
		return openai.NewProvider(config.OpenAI)

	default:
		return nil, fmt.Errorf("unsupported caption provider: %s (supported: anthropic, google, openai)", config.Provider)
	}
}

func main() {
	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		configPath = flag.String("config", "", "Path to configuration file (optional)")
		deviceFlag = flag.String("device", "", "Compute device: auto, cpu, or an accelerator id (default: from config)")
		outputDir  = flag.String("output", "", "Output directory for generated files (default: from config)")
	)
	flag.Parse()

	topic := defaultTopic
	if flag.NArg() > 0 {
		topic = flag.Arg(0)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *deviceFlag != "" {
		config.Image.Device = *deviceFlag
	}
	if *outputDir != "" {
		config.Pipeline.OutputDir = *outputDir
	}

	log.Printf("Starting auto-gen")
	log.Printf("Topic: %s", topic)
	log.Printf("Output Directory: %s", config.Pipeline.OutputDir)

	if err := os.MkdirAll(config.Pipeline.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Caption provider. A missing API key yields a disabled provider, not
	// an error; the captioner falls back to the template.
	provider, err := createProvider(config.Caption)
	if err != nil {
		log.Fatalf("Failed to create caption provider: %v", err)
	}
	if provider.IsEnabled() {
		log.Printf("[Caption] %s enabled", provider.Name())
	} else {
		log.Printf("[Caption] %s disabled (no API key), using fallback captions", provider.Name())
	}

	resolvedDevice := device.Resolve(config.Image.Device, device.CUDAProbe{})
	log.Printf("[Image] device: %s", resolvedDevice)

	// Diffusion backend. Connection failure is not fatal: the generator
	// degrades to placeholder images.
	var backend imagegen.Backend
	if config.Image.Server != nil {
		diffusion, err := imagegen.SharedDiffusion(ctx, *config.Image.Server)
		if err != nil {
			log.Printf("[Image] diffusion server unavailable, using placeholders: %v", err)
		} else {
			defer diffusion.Close()
			backend = diffusion
		}
	} else {
		log.Println("[Image] no diffusion server configured, using placeholders")
	}

	pipe := pipeline.New(
		caption.New(provider),
		imagegen.NewGenerator(backend, resolvedDevice),
		videogen.NewStitcher(config.Video),
		publish.NewFacebook(config.Publish),
		config.Pipeline,
	)

	result := pipe.Run(ctx, topic)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(output))

	if !result.Success {
		os.Exit(1)
	}
}

// loadConfig reads and parses the YAML configuration file, layering it
// over the defaults. An empty path returns the defaults unchanged.
func loadConfig(path string) (*types.Config, error) {
	config := types.DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config file
	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}
