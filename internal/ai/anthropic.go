package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/windoze95/ingredai-api/internal/logger"
	"go.uber.org/zap"
)

const anthropicSystemPrompt = "You are a helpful culinary assistant. Always answer by calling the provided tool with arguments that match its schema exactly."

// AnthropicProvider implements TextProvider and VisionProvider using Claude.
// Structured output is obtained by forcing a single tool call whose input
// schema is the requested schema.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider creates a new AnthropicProvider with the given API key.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.ModelClaude3_5Sonnet20241022,
	}
}

// schemaTool builds the Claude tool definition for schema.
func schemaTool(schema *Schema) anthropic.ToolUnionParam {
	name := schema.Name
	if name == "" {
		name = "respond"
	}
	props, _ := schema.toJSONSchema()["properties"].(map[string]interface{})
	input := anthropic.ToolInputSchemaParam{
		Type:       "object",
		Properties: props,
	}
	if len(schema.Required) > 0 {
		input.ExtraFields = map[string]interface{}{"required": schema.Required}
	}
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String("Return the structured result."),
			InputSchema: input,
		},
	}
}

// newUserMessage creates a user message param with the given content blocks.
func newUserMessage(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role:    anthropic.MessageParamRoleUser,
		Content: blocks,
	}
}

func (p *AnthropicProvider) toolParams(schema *Schema, blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageNewParams {
	tool := schemaTool(schema)
	return anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: anthropicSystemPrompt},
		},
		Messages: []anthropic.MessageParam{newUserMessage(blocks...)},
		Tools:    []anthropic.ToolUnionParam{tool},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfToolChoiceTool: &anthropic.ToolChoiceToolParam{
				Name: tool.OfTool.Name,
			},
		},
	}
}

// GenerateJSON sends a text prompt and returns the forced tool call's input.
func (p *AnthropicProvider) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	resp, err := p.createMessageWithRetry(ctx, p.toolParams(schema, anthropic.NewTextBlock(prompt)))
	if err != nil {
		return "", err
	}
	return extractToolInput(resp)
}

// GenerateJSONFromImage sends an image with a prompt and returns the forced
// tool call's input.
func (p *AnthropicProvider) GenerateJSONFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, schema *Schema) (string, error) {
	if len(imageData) == 0 {
		return "", errors.New("image data is empty")
	}
	if mimeType == "" {
		mimeType = DetectImageMediaType(imageData)
	}

	image := anthropic.ContentBlockParamUnion{
		OfRequestImageBlock: &anthropic.ImageBlockParam{
			Source: anthropic.ImageBlockParamSourceUnion{
				OfBase64ImageSource: &anthropic.Base64ImageSourceParam{
					MediaType: anthropic.Base64ImageSourceMediaType(mimeType),
					Data:      base64.StdEncoding.EncodeToString(imageData),
				},
			},
		},
	}

	resp, err := p.createMessageWithRetry(ctx, p.toolParams(schema, image, anthropic.NewTextBlock(prompt)))
	if err != nil {
		return "", err
	}
	return extractToolInput(resp)
}

// createMessageWithRetry wraps the Claude API call with linear backoff.
func (p *AnthropicProvider) createMessageWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	const maxRetries = 5
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.Messages.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyAnthropicError(err)
		if !shouldRetry {
			return nil, fmt.Errorf("claude API error: %w", err)
		}

		logger.Get().Warn("claude API error, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime * time.Duration(i+1)):
		}
	}

	return nil, fmt.Errorf("claude API: exhausted %d retries: %w", maxRetries, lastErr)
}

// classifyAnthropicError determines whether to retry and the base wait duration.
func classifyAnthropicError(err error) (shouldRetry bool, waitTime time.Duration) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
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

// extractToolInput returns the JSON input of the first tool_use block.
func extractToolInput(msg *anthropic.Message) (string, error) {
	for _, block := range msg.Content {
		if block.Type == "tool_use" {
			raw, err := json.Marshal(block.Input)
			if err != nil {
				return "", fmt.Errorf("failed to marshal tool input: %w", err)
			}
			return string(raw), nil
		}
	}
	return "", errors.New("no tool_use block found in Claude response")
}
