// Package mock provides a mock face encoder for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/attendance-kiosk/internal/encoder"
)

// MockEncoder is a mock implementation of encoder.FaceEncoder. Responses are
// keyed by the raw image bytes so tests can script per-frame results.
type MockEncoder struct {
	mu        sync.Mutex
	responses map[string][]encoder.Face
	calls     int

	// DefaultFaces is returned for payloads with no scripted response.
	// Kiosk tests use this because frames are re-encoded before detection.
	DefaultFaces []encoder.Face

	// Error injection
	DetectError error
}

// NewMockEncoder creates a new mock encoder with no scripted responses.
func NewMockEncoder() *MockEncoder {
	return &MockEncoder{
		responses: make(map[string][]encoder.Face),
	}
}

// AddResponse scripts the faces returned for a given image payload.
func (m *MockEncoder) AddResponse(imageData []byte, faces []encoder.Face) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[string(imageData)] = faces
}

// DetectFaces returns the scripted faces for the payload, or none.
func (m *MockEncoder) DetectFaces(ctx context.Context, imageData []byte) ([]encoder.Face, error) {
	if m.DetectError != nil {
		return nil, m.DetectError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if faces, ok := m.responses[string(imageData)]; ok {
		return faces, nil
	}
	return m.DefaultFaces, nil
}

// Calls returns how many times DetectFaces has been invoked.
func (m *MockEncoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
