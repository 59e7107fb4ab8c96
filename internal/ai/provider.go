package ai

import "context"

// TextProvider produces structured JSON from a text prompt (Gemini or Claude).
type TextProvider interface {
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// VisionProvider produces structured JSON from an image and a prompt.
type VisionProvider interface {
	GenerateJSONFromImage(ctx context.Context, imageData []byte, mimeType string, prompt string, schema *Schema) (string, error)
}

// ImageProvider handles image generation (DALL-E 3).
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) ([]byte, error)
}

// SpeechProvider handles speech-to-text (Whisper).
type SpeechProvider interface {
	TranscribeAudio(ctx context.Context, audioData []byte) (string, error)
}
