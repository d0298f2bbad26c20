package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeWAV writes one second of 16-bit mono silence at 8 kHz.
func writeWAV(t *testing.T) string {
	t.Helper()
	const (
		rate     = 8000
		channels = 1
		bits     = 16
	)
	data := make([]byte, rate*channels*bits/8)

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(data)))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*channels*bits/8))
	binary.Write(&b, binary.LittleEndian, uint16(channels*bits/8))
	binary.Write(&b, binary.LittleEndian, uint16(bits))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(data)))
	b.Write(data)

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbe(t *testing.T) {
	info, err := Probe(writeWAV(t))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.SampleRate != 8000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("Probe = %+v, want 8000 Hz mono 16-bit", info)
	}
	if info.Duration < 900*time.Millisecond || info.Duration > 1100*time.Millisecond {
		t.Errorf("Duration = %v, want about 1s", info.Duration)
	}
}

func TestProbeRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("definitely not riff data, just some text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Probe(path); !errors.Is(err, ErrNotWAV) {
		t.Errorf("Probe error = %v, want ErrNotWAV", err)
	}
}

func TestSilentTrack(t *testing.T) {
	tr := NewSilentTrack()
	if !tr.Paused() {
		t.Fatal("new track is not paused")
	}
	if err := tr.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if tr.Paused() {
		t.Error("Paused() = true after Play")
	}
	tr.Pause()
	if !tr.Paused() {
		t.Error("Paused() = false after Pause")
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    BackendType
		wantErr bool
	}{
		{"speaker", BackendSpeaker, false},
		{" Silent ", BackendSilent, false},
		{"alsa", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, %v; want %q, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNewTrackSilentIgnoresPath(t *testing.T) {
	tr, err := NewTrack(BackendSilent, "does-not-exist.wav", WithLoop(true))
	if err != nil {
		t.Fatalf("NewTrack: %v", err)
	}
	if !tr.Paused() {
		t.Error("silent track did not start paused")
	}
}
