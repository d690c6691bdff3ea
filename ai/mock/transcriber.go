package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/lectern/core"
)

// MockTranscriber is a test double for ai.Transcriber.
// It allows custom behavior injection via function fields.
type MockTranscriber struct {
	// TranscribeAudioFunc is called by TranscribeAudio if set.
	// If nil, uses default deterministic behavior.
	TranscribeAudioFunc func(ctx context.Context, audio []byte, mediaType string) (string, error)

	callCount int
}

// NewMockTranscriber creates a mock transcriber with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// TranscribeAudio returns a deterministic transcription derived from the
// audio fingerprint, so different payloads produce different text.
func (m *MockTranscriber) TranscribeAudio(ctx context.Context, audio []byte, mediaType string) (string, error) {
	m.callCount++

	if m.TranscribeAudioFunc != nil {
		return m.TranscribeAudioFunc(ctx, audio, mediaType)
	}

	return fmt.Sprintf("transcription of %s audio %d", mediaType, core.Fingerprint(audio)), nil
}

// CallCount returns the number of times TranscribeAudio was called.
func (m *MockTranscriber) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTranscriber) Reset() {
	m.callCount = 0
	m.TranscribeAudioFunc = nil
}
