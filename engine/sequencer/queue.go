package sequencer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-stage/engine/model"
)

// ClipRef is a configured clip name and, once resolved, the clip it names.
type ClipRef struct {
	// Name is the configured clip name.
	Name string

	// Clip is bound by the resolver and stays nil when the name is missing.
	Clip *model.AnimationClip
}

// Batch is one step of a sequence: clips started together, followed by a delay.
// A batch without resolved clips is a rest step that only waits out its delay.
type Batch struct {
	// Refs are the clip references in configuration order.
	Refs []ClipRef

	// Delay is waited after every clip of the batch has finished.
	Delay time.Duration

	resolved bool
}

// NewBatch creates an unresolved batch from clip names.
//
// Parameters:
//   - delay: the wait after the batch completes
//   - names: the configured clip names
//
// Returns:
//   - *Batch: the new batch
func NewBatch(delay time.Duration, names ...string) *Batch {
	refs := make([]ClipRef, len(names))
	for i, n := range names {
		refs[i] = ClipRef{Name: n}
	}
	return &Batch{Refs: refs, Delay: delay}
}

// Names returns the configured clip names of the batch.
func (b *Batch) Names() []string {
	names := make([]string, len(b.Refs))
	for i, r := range b.Refs {
		names[i] = r.Name
	}
	return names
}

// Resolved returns the bound clips in configuration order, skipping missing names.
// The same clip appears once per reference that names it.
func (b *Batch) Resolved() []*model.AnimationClip {
	clips := make([]*model.AnimationClip, 0, len(b.Refs))
	for _, r := range b.Refs {
		if r.Clip != nil {
			clips = append(clips, r.Clip)
		}
	}
	return clips
}

// IsResolved reports whether the resolver has already visited the batch.
func (b *Batch) IsResolved() bool {
	return b.resolved
}

// Queue is an ordered list of batches. The configured queue is never consumed;
// each pass of a sequence works on a Copy.
type Queue []*Batch

// Copy returns a shallow copy that can be consumed without touching q.
func (q Queue) Copy() Queue {
	out := make(Queue, len(q))
	copy(out, q)
	return out
}

// Len returns the number of batches.
func (q Queue) Len() int {
	return len(q)
}
