package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

type scriptReader struct {
	mu      sync.Mutex
	lines   []string
	prompts []string
	closed  chan struct{}
	once    sync.Once
	block   bool
}

func newScriptReader(block bool, lines ...string) *scriptReader {
	return &scriptReader{lines: lines, closed: make(chan struct{}), block: block}
}

func (r *scriptReader) Readline() (string, error) {
	r.mu.Lock()
	if len(r.lines) > 0 {
		line := r.lines[0]
		r.lines = r.lines[1:]
		r.mu.Unlock()
		return line, nil
	}
	r.mu.Unlock()

	if r.block {
		<-r.closed
	}
	return "", io.EOF
}

func (r *scriptReader) SetPrompt(p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, p)
}

func (r *scriptReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

type fakeHandler struct {
	playing bool
	toggles int
}

func (h *fakeHandler) Toggle() string {
	h.toggles++
	h.playing = !h.playing
	return h.Label()
}

func (h *fakeHandler) Label() string {
	if h.playing {
		return "Pause"
	}
	return "Play"
}

func (h *fakeHandler) Status() string { return "state=test" }

func TestRunDispatchesCommands(t *testing.T) {
	h := &fakeHandler{}
	r := newScriptReader(false, "", "status", "TOGGLE", "bogus", "quit", "toggle")
	var out bytes.Buffer

	c, err := NewConsole(h, WithReader(r), WithOutput(&out))
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if h.toggles != 2 {
		t.Errorf("toggles = %d, want 2 (commands after quit must not run)", h.toggles)
	}
	if !strings.Contains(out.String(), "state=test") {
		t.Errorf("output %q missing status line", out.String())
	}
	if !strings.Contains(out.String(), `unknown command "bogus"`) {
		t.Errorf("output %q missing unknown command notice", out.String())
	}

	want := []string{"[Play] >> ", "[Pause] >> ", "[Pause] >> ", "[Play] >> ", "[Play] >> "}
	if len(r.prompts) != len(want) {
		t.Fatalf("prompts = %q, want %q", r.prompts, want)
	}
	for i := range want {
		if r.prompts[i] != want[i] {
			t.Errorf("prompt[%d] = %q, want %q", i, r.prompts[i], want[i])
		}
	}
}

func TestRunEndsOnEOF(t *testing.T) {
	c, err := NewConsole(&fakeHandler{}, WithReader(newScriptReader(false)))
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	if err := c.Run(context.Background()); err != nil {
		t.Errorf("Run at EOF = %v, want nil", err)
	}
}

func TestRunEndsOnCancel(t *testing.T) {
	r := newScriptReader(true)
	c, err := NewConsole(&fakeHandler{}, WithReader(r))
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after cancel = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingReader struct{ *scriptReader }

func (r *failingReader) Readline() (string, error) { return "", errors.New("tty gone") }

func TestRunReportsReadErrors(t *testing.T) {
	r := &failingReader{scriptReader: newScriptReader(false)}
	c, err := NewConsole(&fakeHandler{}, WithReader(r))
	if err != nil {
		t.Fatalf("NewConsole: %v", err)
	}
	if err := c.Run(context.Background()); err == nil {
		t.Error("Run with a failing reader returned nil")
	}
}
