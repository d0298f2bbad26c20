package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	gowav "github.com/go-audio/wav"
)

// ErrNotWAV is returned by Probe for files without a valid RIFF/WAVE header.
var ErrNotWAV = errors.New("not a WAV file")

// Info describes a WAV file without decoding its samples.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Probe reads the header of a WAV file.
//
// Parameters:
//   - path: the WAV file
//
// Returns:
//   - Info: the stream format and length
//   - error: ErrNotWAV for invalid files, or the open error
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open audio %s: %w", path, err)
	}
	defer f.Close()

	dec := gowav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %s", ErrNotWAV, path)
	}

	d, err := dec.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("failed to read duration of %s: %w", path, err)
	}

	return Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Duration:   d,
	}, nil
}
