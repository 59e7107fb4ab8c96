package ai

import "bytes"

// DetectImageMediaType returns the MIME type based on magic bytes, falling
// back to image/jpeg.
func DetectImageMediaType(data []byte) string {
	if len(data) < 4 {
		return "image/jpeg"
	}
	// PNG magic bytes
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	// GIF
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return "image/gif"
	}
	// WebP
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return "image/jpeg"
}

// audioFileName picks a file name whose extension tells Whisper the
// container format. Browsers record webm by default.
func audioFileName(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return "audio.wav"
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte("OggS")):
		return "audio.ogg"
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return "audio.mp3"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "audio.mp3"
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return "audio.m4a"
	default:
		return "audio.webm"
	}
}
