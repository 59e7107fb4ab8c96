package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/windoze95/ingredai-api/internal/ai"
	"github.com/windoze95/ingredai-api/internal/kv"
)

// --- MockTextProvider ---

// MockTextProvider is a mock implementation of ai.TextProvider. Every call is
// recorded in Prompts and Schemas.
type MockTextProvider struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, schema *ai.Schema) (string, error)

	mu      sync.Mutex
	Prompts []string
	Schemas []string
}

func (m *MockTextProvider) GenerateJSON(ctx context.Context, prompt string, schema *ai.Schema) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	if schema != nil {
		m.Schemas = append(m.Schemas, schema.Name)
	}
	m.mu.Unlock()

	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, schema)
	}
	return "", fmt.Errorf("GenerateJSON not configured")
}

// Calls returns the number of GenerateJSON calls.
func (m *MockTextProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// --- MockVisionProvider ---

// MockVisionProvider is a mock implementation of ai.VisionProvider.
type MockVisionProvider struct {
	GenerateJSONFromImageFunc func(ctx context.Context, imageData []byte, mimeType string, prompt string, schema *ai.Schema) (string, error)
}

func (m *MockVisionProvider) GenerateJSONFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, schema *ai.Schema) (string, error) {
	if m.GenerateJSONFromImageFunc != nil {
		return m.GenerateJSONFromImageFunc(ctx, imageData, mimeType, prompt, schema)
	}
	return "", fmt.Errorf("GenerateJSONFromImage not configured")
}

// --- MockImageProvider ---

// MockImageProvider is a mock implementation of ai.ImageProvider.
type MockImageProvider struct {
	GenerateImageFunc func(ctx context.Context, prompt string, aspectRatio string) ([]byte, error)
}

func (m *MockImageProvider) GenerateImage(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, aspectRatio)
	}
	return nil, fmt.Errorf("GenerateImage not configured")
}

// --- MockSpeechProvider ---

// MockSpeechProvider is a mock implementation of ai.SpeechProvider.
type MockSpeechProvider struct {
	TranscribeAudioFunc func(ctx context.Context, audioData []byte) (string, error)
}

func (m *MockSpeechProvider) TranscribeAudio(ctx context.Context, audioData []byte) (string, error) {
	if m.TranscribeAudioFunc != nil {
		return m.TranscribeAudioFunc(ctx, audioData)
	}
	return "", fmt.Errorf("TranscribeAudio not configured")
}

// --- MockKV ---

// MockKV is a kv.Store backed by kv.Memory whose operations can be made to
// fail.
type MockKV struct {
	*kv.Memory
	GetErr    error
	SetErr    error
	RemoveErr error
}

// NewMockKV returns an empty MockKV that never fails.
func NewMockKV() *MockKV {
	return &MockKV{Memory: kv.NewMemory()}
}

func (m *MockKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	return m.Memory.Get(ctx, key)
}

func (m *MockKV) Set(ctx context.Context, key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	return m.Memory.Set(ctx, key, value)
}

func (m *MockKV) Remove(ctx context.Context, key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	return m.Memory.Remove(ctx, key)
}
