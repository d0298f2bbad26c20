package audio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// BackendType selects the audio output used by NewTrack.
type BackendType string

const (
	// BackendSpeaker plays through the system audio device.
	BackendSpeaker BackendType = "speaker"

	// BackendSilent keeps play/pause state without producing sound.
	BackendSilent BackendType = "silent"
)

// ParseBackend maps a configuration value to a BackendType.
//
// Parameters:
//   - s: "speaker" or "silent", case-insensitive
//
// Returns:
//   - BackendType: the backend
//   - error: error for any other value
func ParseBackend(s string) (BackendType, error) {
	switch b := BackendType(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendSpeaker, BackendSilent:
		return b, nil
	default:
		return "", fmt.Errorf("unknown audio backend %q", s)
	}
}

// Track is a soundtrack that can be started and paused. It starts paused.
type Track interface {
	// Play starts or resumes playback from the current position.
	//
	// Returns:
	//   - error: error if the output device rejects playback
	Play() error

	// Pause stops playback and keeps the current position.
	Pause()

	// Paused reports whether the track is paused.
	Paused() bool

	// Close releases the underlying stream.
	Close() error
}

// silentTrack is the implementation of Track for BackendSilent.
type silentTrack struct {
	mu     sync.Mutex
	paused bool
	logger zerolog.Logger
}

var _ Track = &silentTrack{}

// NewSilentTrack creates a Track that only records its play/pause state.
//
// Parameters:
//   - options: a variadic list of TrackBuilderOption functions
//
// Returns:
//   - Track: the silent track
func NewSilentTrack(options ...TrackBuilderOption) Track {
	o := newTrackOptions(options)
	return &silentTrack{paused: true, logger: o.logger}
}

func (t *silentTrack) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
	t.logger.Debug().Msg("silent track playing")
	return nil
}

func (t *silentTrack) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

func (t *silentTrack) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

func (t *silentTrack) Close() error {
	return nil
}

// NewTrack opens path with the given backend.
//
// Parameters:
//   - backend: the output backend
//   - path: the WAV file; ignored by BackendSilent
//   - options: a variadic list of TrackBuilderOption functions
//
// Returns:
//   - Track: the opened track
//   - error: error if the file cannot be opened or decoded
func NewTrack(backend BackendType, path string, options ...TrackBuilderOption) (Track, error) {
	switch backend {
	case BackendSilent:
		return NewSilentTrack(options...), nil
	case BackendSpeaker:
		return NewSpeakerTrack(path, options...)
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}
