package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/windoze95/ingredai-api/internal/logger"
	"go.uber.org/zap"
)

// DALLEProvider implements ImageProvider using OpenAI DALL-E 3.
type DALLEProvider struct {
	client *openai.Client
}

// NewDALLEProvider creates a new DALL-E image generation provider.
func NewDALLEProvider(apiKey string) *DALLEProvider {
	return &DALLEProvider{client: openai.NewClient(apiKey)}
}

// GenerateImage generates one image and returns the raw bytes. DALL-E 3
// only offers square, landscape and portrait sizes, so aspectRatio picks
// the closest of the three.
func (p *DALLEProvider) GenerateImage(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
	if prompt == "" {
		return nil, errors.New("image prompt is empty")
	}

	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
			Model:          openai.CreateImageModelDallE3,
			Prompt:         prompt,
			Size:           dalleSize(aspectRatio),
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
			N:              1,
		})
		if err == nil {
			if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
				return nil, errors.New("DALL-E API returned an empty image")
			}
			imgBytes, decErr := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
			if decErr != nil {
				return nil, fmt.Errorf("base64 decode error: %w", decErr)
			}
			return imgBytes, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyOpenAIError(err)
		if !shouldRetry {
			return nil, fmt.Errorf("DALL-E API error: %w", err)
		}

		logger.Get().Warn("DALL-E API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(waitTime * time.Duration(i+1)):
			}
		}
	}

	return nil, fmt.Errorf("DALL-E API: exhausted %d retries: %w", maxRetries, lastErr)
}

// dalleSize maps a "W:H" aspect ratio to a DALL-E 3 size.
func dalleSize(aspectRatio string) string {
	w, h, ok := parseAspectRatio(aspectRatio)
	switch {
	case !ok || w == h:
		return openai.CreateImageSize1024x1024
	case w > h:
		return openai.CreateImageSize1792x1024
	default:
		return openai.CreateImageSize1024x1792
	}
}

func parseAspectRatio(s string) (w, h float64, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// classifyOpenAIError determines whether an OpenAI API error is retryable.
func classifyOpenAIError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return true, 2 * time.Second
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return true, 2 * time.Second
		default:
			return false, 0
		}
	}
	return false, 0
}
