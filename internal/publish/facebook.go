// Package publish uploads the generated caption and image to a social
// platform, simulating success locally when credentials or the network
// are unavailable.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joelirwin87-tech/auto-gen/internal/placeholder"
	"github.com/joelirwin87-tech/auto-gen/pkg/types"
)

const defaultAPIURL = "https://graph.facebook.com/me/photos"

// Facebook is the publishing stage for the Facebook Graph API.
type Facebook struct {
	token  string
	apiURL string
	client *http.Client

	// degradeOnError controls whether transport errors and HTTP error
	// statuses become simulated successes (lenient) or failures (strict).
	degradeOnError bool
}

// NewFacebook creates the stage from configuration.
func NewFacebook(config types.PublishConfig) *Facebook {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Facebook{
		token:          config.FacebookToken,
		apiURL:         apiURL,
		client:         &http.Client{Timeout: timeout},
		degradeOnError: config.DegradeOnError,
	}
}

// Post uploads the image with the caption. It never returns an error:
// every outcome, including total backend failure, is a PublishResult.
func (f *Facebook) Post(ctx context.Context, caption, imagePath string) *types.PublishResult {
	info, err := os.Stat(imagePath)
	if err != nil || info.IsDir() {
		return &types.PublishResult{
			Success: false,
			Error:   fmt.Sprintf("image file not found at %q", imagePath),
		}
	}

	if f.token == "" {
		log.Printf("[publish] no facebook token configured, simulating post")
		return placeholder.SimulatedPost("facebook", caption, imagePath)
	}

	body, contentType, err := f.buildUpload(caption, imagePath)
	if err != nil {
		log.Printf("[publish] failed to read image for upload: %v", err)
		return f.degrade(caption, imagePath, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.apiURL, body)
	if err != nil {
		return f.degrade(caption, imagePath, err.Error())
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[publish] facebook post failed: %v", err)
		return f.degrade(caption, imagePath, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[publish] failed to read facebook response: %v", err)
		return f.degrade(caption, imagePath, err.Error())
	}

	var payload map[string]interface{}
	decodable := json.Unmarshal(raw, &payload) == nil

	if resp.StatusCode >= 400 {
		log.Printf("[publish] facebook api returned status %d", resp.StatusCode)
		if f.degradeOnError {
			return placeholder.SimulatedPost("facebook", caption, imagePath)
		}
		result := &types.PublishResult{
			Success: false,
			Error:   fmt.Sprintf("facebook api returned status %d: %s", resp.StatusCode, string(raw)),
		}
		if decodable {
			result.Details = payload
		}
		return result
	}

	if !decodable {
		return &types.PublishResult{
			Success: false,
			Error:   "unexpected response format from facebook api",
		}
	}

	// The API does not normally report success explicitly; when the body
	// carries its own success flag, keep it instead of assuming.
	success := true
	if v, ok := payload["success"].(bool); ok {
		success = v
	}

	return &types.PublishResult{
		Success:  success,
		Platform: "facebook",
		Details:  payload,
	}
}

// degrade applies the configured policy to a local or transport error.
func (f *Facebook) degrade(caption, imagePath, cause string) *types.PublishResult {
	if f.degradeOnError {
		log.Printf("[publish] returning simulated result instead")
		return placeholder.SimulatedPost("facebook", caption, imagePath)
	}
	return &types.PublishResult{
		Success: false,
		Error:   cause,
	}
}

// buildUpload assembles the multipart body: caption, token, binary image.
func (f *Facebook) buildUpload(caption, imagePath string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("caption", caption); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("access_token", f.token); err != nil {
		return nil, "", err
	}

	part, err := writer.CreateFormFile("source", filepath.Base(imagePath))
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}
