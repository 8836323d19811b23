package capture

import (
	"context"
	"sync"

	"fluxpense-backend/domain"
)

const (
	FacingEnvironment = "environment"
	FacingUser        = "user"
)

type (
	// Track is a single media track of an open camera stream.
	Track interface {
		Stop()
	}

	// Stream is a live camera stream. ReadFrame returns the current frame
	// as encoded image bytes.
	Stream interface {
		GetTracks() []Track
		ReadFrame() ([]byte, error)
	}

	// Camera opens a device stream with the requested facing mode. A denied
	// permission prompt surfaces as an error from Open.
	Camera interface {
		Open(ctx context.Context, facingMode string) (Stream, error)
	}
)

// SessionManager owns the camera stream lifecycle. At most one stream is
// active at a time, and release is guaranteed on every exit path: explicit
// cancel, successful capture, and close all go through Stop.
type SessionManager struct {
	camera Camera

	mu     sync.Mutex
	stream Stream
}

func NewSessionManager(camera Camera) *SessionManager {
	return &SessionManager{camera: camera}
}

// Start opens a camera session, preferring the rear-facing camera. Starting
// while a session is active stops the old stream first so only one stream
// holds the hardware afterwards.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()

	stream, err := m.camera.Open(ctx, FacingEnvironment)
	if err != nil {
		return domain.ErrCameraAccessDenied
	}

	m.stream = stream
	return nil
}

// Capture grabs the current frame, releases the camera, and returns the frame
// as a normalized image payload.
func (m *SessionManager) Capture() (Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return Payload{}, domain.ErrNoActiveSession
	}

	frame, err := m.stream.ReadFrame()
	if err != nil {
		m.stopLocked()
		return Payload{}, domain.ErrFileReadError
	}

	m.stopLocked()
	return FromFrame(frame, "image/jpeg")
}

// Stop stops every active track and clears the held stream. Safe to call any
// number of times, with or without an active session.
func (m *SessionManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *SessionManager) stopLocked() {
	if m.stream == nil {
		return
	}
	for _, track := range m.stream.GetTracks() {
		track.Stop()
	}
	m.stream = nil
}

// Active reports whether a stream is currently held.
func (m *SessionManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream != nil
}
