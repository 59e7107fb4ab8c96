package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/windoze95/ingredai-api/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider implements TextProvider and VisionProvider using Gemini
// structured output.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider creates a Gemini client for the given model.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Close closes the underlying Gemini client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// model returns a fresh model handle configured for JSON output. Handles
// carry their generation config, so one is built per call.
func (p *GeminiProvider) model(schema *Schema) *genai.GenerativeModel {
	m := p.client.GenerativeModel(p.modelName)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = schema.toGenai()
	return m
}

// GenerateJSON sends a text prompt and returns JSON conforming to schema.
func (p *GeminiProvider) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	return p.generateWithRetry(ctx, p.model(schema), genai.Text(prompt))
}

// GenerateJSONFromImage sends an image with a prompt and returns JSON
// conforming to schema.
func (p *GeminiProvider) GenerateJSONFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, schema *Schema) (string, error) {
	if len(imageData) == 0 {
		return "", errors.New("image data is empty")
	}
	if mimeType == "" {
		mimeType = DetectImageMediaType(imageData)
	}
	return p.generateWithRetry(ctx, p.model(schema),
		genai.Blob{MIMEType: mimeType, Data: imageData},
		genai.Text(prompt),
	)
}

func (p *GeminiProvider) generateWithRetry(ctx context.Context, m *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err == nil {
			return responseText(resp)
		}

		lastErr = err
		shouldRetry, waitTime := classifyGeminiError(err)
		if !shouldRetry {
			return "", fmt.Errorf("Gemini API error: %w", err)
		}

		logger.Get().Warn("Gemini API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(waitTime * time.Duration(i+1)):
			}
		}
	}

	return "", fmt.Errorf("Gemini API: exhausted %d retries: %w", maxRetries, lastErr)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content generated")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("generated content is not text")
	}
	return sb.String(), nil
}

// classifyGeminiError determines whether a Gemini API error is retryable.
func classifyGeminiError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
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
