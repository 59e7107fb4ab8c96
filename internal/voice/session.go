package voice

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/windoze95/ingredai-api/internal/logger"
	"go.uber.org/zap"
)

// State is the recognizer state of a Session.
type State string

// Session states.
const (
	StateIdle      State = "idle"
	StateListening State = "listening"
)

// Error codes reported through OnError.
const (
	ErrCodeNoSpeech     = "no-speech"
	ErrCodeNetwork      = "network"
	ErrCodeNotListening = "not-listening"
	ErrCodeAudioCapture = "audio-capture"
)

// MaxAudioBytes caps the audio buffered by one listening session.
const MaxAudioBytes = 10 << 20

// Write errors.
var (
	ErrNotListening = errors.New("voice session is not listening")
	ErrAudioTooLong = errors.New("voice session audio limit exceeded")
)

// Transcriber converts recorded audio to text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audioData []byte) (string, error)
}

// Session is a single speech recognition session. Only one recording is
// active at a time; Start while listening and Stop while idle are ignored.
// Only final transcripts are delivered.
type Session struct {
	speech Transcriber

	mu           sync.Mutex
	state        State
	audio        bytes.Buffer
	onTranscript []func(string)
	onError      []func(string)
	onState      []func(State)
}

// NewSession returns an idle session. speech may be nil when clients only
// submit text transcripts.
func NewSession(speech Transcriber) *Session {
	return &Session{speech: speech, state: StateIdle}
}

// OnTranscript registers a callback for final transcripts.
func (s *Session) OnTranscript(fn func(transcript string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTranscript = append(s.onTranscript, fn)
}

// OnError registers a callback for recognition error codes.
func (s *Session) OnError(fn func(code string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

// OnStateChange registers a callback for state transitions.
func (s *Session) OnStateChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = append(s.onState, fn)
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins listening. It reports false if a session was already active.
func (s *Session) Start() bool {
	s.mu.Lock()
	if s.state == StateListening {
		s.mu.Unlock()
		return false
	}
	s.state = StateListening
	s.audio.Reset()
	listeners := s.onState
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(StateListening)
	}
	return true
}

// Write buffers an audio chunk for the active session.
func (s *Session) Write(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateListening {
		return ErrNotListening
	}
	if s.audio.Len()+len(chunk) > MaxAudioBytes {
		return ErrAudioTooLong
	}
	s.audio.Write(chunk)
	return nil
}

// Stop ends the active session. Buffered audio is transcribed and delivered
// to OnTranscript, or an error code to OnError. Stop while idle is a no-op
// and reports false.
func (s *Session) Stop(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != StateListening {
		s.mu.Unlock()
		return false
	}
	s.state = StateIdle
	audio := append([]byte(nil), s.audio.Bytes()...)
	s.audio.Reset()
	stateListeners := s.onState
	s.mu.Unlock()

	for _, fn := range stateListeners {
		fn(StateIdle)
	}

	if len(audio) == 0 {
		return true
	}
	if s.speech == nil {
		s.emitError(ErrCodeNetwork)
		return true
	}

	text, err := s.speech.TranscribeAudio(ctx, audio)
	if err != nil {
		logger.Get().Warn("speech transcription failed", zap.Error(err), zap.Int("audio_bytes", len(audio)))
		s.emitError(ErrCodeNetwork)
		return true
	}
	s.Submit(text)
	return true
}

// Abort ends the active session and discards its audio without
// transcribing it. It reports false while idle.
func (s *Session) Abort() bool {
	s.mu.Lock()
	if s.state != StateListening {
		s.mu.Unlock()
		return false
	}
	s.state = StateIdle
	s.audio.Reset()
	listeners := s.onState
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(StateIdle)
	}
	return true
}

// Submit delivers a transcript recognized elsewhere, such as by the client.
// Blank transcripts are reported as no-speech.
func (s *Session) Submit(transcript string) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		s.emitError(ErrCodeNoSpeech)
		return
	}

	s.mu.Lock()
	listeners := s.onTranscript
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(transcript)
	}
}

func (s *Session) emitError(code string) {
	s.mu.Lock()
	listeners := s.onError
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(code)
	}
}

// ErrorCode maps a Write error to the code reported to clients.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotListening):
		return ErrCodeNotListening
	case errors.Is(err, ErrAudioTooLong):
		return ErrCodeAudioCapture
	default:
		return ErrCodeNetwork
	}
}
