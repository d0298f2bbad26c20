package sequencer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrUnresolvedClip marks a configured clip name that is not in the clip library.
var ErrUnresolvedClip = errors.New("unresolved clip")

// Report summarizes one Resolve call.
type Report struct {
	// Resolved counts references bound to a clip.
	Resolved int

	// Missing lists unresolved names in queue order, one entry per reference.
	Missing []string

	// Skipped counts batches that were already resolved.
	Skipped int
}

// Err returns nil when every name resolved, or an error wrapping ErrUnresolvedClip.
func (r Report) Err() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnresolvedClip, strings.Join(r.Missing, ", "))
}

// resolver is the implementation of the Resolver interface.
type resolver struct {
	logger   zerolog.Logger
	observer Observer
}

// Resolver binds configured clip names to clips.
type Resolver interface {
	// Resolve binds every reference of every not yet resolved batch by exact
	// name lookup. Missing names are logged and left unbound; they never fail the call.
	// Batches already resolved are skipped, so calling Resolve twice is harmless.
	//
	// Parameters:
	//   - queue: the configured queue; batches are updated in place
	//   - library: the loaded clip library
	//
	// Returns:
	//   - Report: counts and missing names
	Resolve(queue Queue, library ClipLibrary) Report
}

var _ Resolver = &resolver{}

// NewResolver creates a new Resolver with the given options applied.
//
// Parameters:
//   - options: a variadic list of ResolverBuilderOption functions to configure the Resolver
//
// Returns:
//   - Resolver: the new resolver
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolver{
		logger:   zerolog.Nop(),
		observer: NopObserver{},
	}

	for _, option := range options {
		option(r)
	}
	return r
}

func (r *resolver) Resolve(queue Queue, library ClipLibrary) Report {
	var report Report

	for i, b := range queue {
		if b.resolved {
			report.Skipped++
			continue
		}

		for j := range b.Refs {
			ref := &b.Refs[j]
			clip, ok := library.FindAnimation(ref.Name)
			if !ok {
				ref.Clip = nil
				report.Missing = append(report.Missing, ref.Name)
				r.observer.ClipUnresolved(ref.Name)
				r.logger.Warn().
					Err(ErrUnresolvedClip).
					Str("clip", ref.Name).
					Int("batch", i).
					Msgf("Animation clip %s not found", ref.Name)
				continue
			}
			ref.Clip = clip
			report.Resolved++
		}
		b.resolved = true
	}

	return report
}
