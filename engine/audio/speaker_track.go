package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"
)

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// initSpeaker opens the output device once, at the rate of the first track.
func initSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	speakerOnce.Do(func() {
		speakerRate = sr
		speakerErr = speaker.Init(sr, sr.N(time.Millisecond*100))
	})
	return speakerRate, speakerErr
}

// speakerTrack is the implementation of Track for BackendSpeaker.
type speakerTrack struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	logger   zerolog.Logger
}

var _ Track = &speakerTrack{}

// NewSpeakerTrack decodes a WAV file and queues it, paused, on the system speaker.
//
// Parameters:
//   - path: the WAV file
//   - options: a variadic list of TrackBuilderOption functions
//
// Returns:
//   - Track: the speaker track
//   - error: error if the file cannot be opened, decoded, or the device cannot be opened
func NewSpeakerTrack(path string, options ...TrackBuilderOption) (Track, error) {
	o := newTrackOptions(options)

	if _, err := Probe(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode audio %s: %w", path, err)
	}

	rate, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return nil, fmt.Errorf("failed to open speaker: %w", err)
	}

	var s beep.Streamer = streamer
	if o.loop {
		s = beep.Loop(-1, streamer)
	}
	if rate != format.SampleRate {
		s = beep.Resample(4, format.SampleRate, rate, s)
	}

	t := &speakerTrack{
		file:     f,
		streamer: streamer,
		ctrl:     &beep.Ctrl{Streamer: s, Paused: true},
		logger:   o.logger,
	}
	speaker.Play(t.ctrl)

	t.logger.Info().
		Str("path", path).
		Int("sample_rate", int(format.SampleRate)).
		Dur("length", format.SampleRate.D(streamer.Len())).
		Bool("loop", o.loop).
		Msg("audio track ready")
	return t, nil
}

func (t *speakerTrack) Play() error {
	speaker.Lock()
	t.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (t *speakerTrack) Pause() {
	speaker.Lock()
	t.ctrl.Paused = true
	speaker.Unlock()
}

func (t *speakerTrack) Paused() bool {
	speaker.Lock()
	defer speaker.Unlock()
	return t.ctrl.Paused
}

func (t *speakerTrack) Close() error {
	speaker.Lock()
	t.ctrl.Streamer = nil
	speaker.Unlock()
	return t.streamer.Close()
}
