package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/windoze95/ingredai-api/internal/logger"
	"go.uber.org/zap"
)

// commandHint primes recognition with the phrases voice commands use.
const commandHint = "Add tomatoes and basil. Remove onion. Clear ingredients. Generate recipe. Dark mode. Light mode. Save recipe. Log out."

// WhisperProvider implements SpeechProvider using OpenAI Whisper.
type WhisperProvider struct {
	client   *openai.Client
	language string
}

// NewWhisperProvider creates a new Whisper speech-to-text provider. language
// is an ISO-639-1 hint and may be empty.
func NewWhisperProvider(apiKey, language string) *WhisperProvider {
	return &WhisperProvider{client: openai.NewClient(apiKey), language: language}
}

// TranscribeAudio transcribes a complete recording to text.
func (p *WhisperProvider) TranscribeAudio(ctx context.Context, audioData []byte) (string, error) {
	if len(audioData) == 0 {
		return "", errors.New("audio data is empty")
	}

	const maxRetries = 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			Reader:   bytes.NewReader(audioData),
			FilePath: audioFileName(audioData),
			Language: p.language,
			Prompt:   commandHint,
		})
		if err == nil {
			return strings.TrimSpace(resp.Text), nil
		}

		lastErr = err
		shouldRetry, waitTime := classifyOpenAIError(err)
		if !shouldRetry {
			return "", fmt.Errorf("Whisper API error: %w", err)
		}

		logger.Get().Warn("Whisper API error, retrying",
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

	return "", fmt.Errorf("Whisper API: exhausted %d retries: %w", maxRetries, lastErr)
}
