package navigation

import (
	"fmt"
	"sync"
	"time"
)

// DefaultDisplayDelay gives the reader a moment with the reply before the
// view changes.
const DefaultDisplayDelay = 500 * time.Millisecond

// Transition describes a completed section change. Tag is empty when the
// visitor selected the section directly.
type Transition struct {
	From Section
	To   Section
	Tag  string
}

// ChangeFunc observes a completed transition.
type ChangeFunc func(Transition)

// Router is the section state machine. It starts on Welcome and has no
// terminal state.
type Router struct {
	mu       sync.Mutex
	active   Section
	vocab    Vocabulary
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	onChange ChangeFunc
}

// NewRouter creates a router over vocab. A zero delay applies tag-driven
// transitions synchronously.
func NewRouter(vocab Vocabulary, delay time.Duration) *Router {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if delay < 0 {
		delay = 0
	}
	return &Router{
		active: Welcome,
		vocab:  vocab.Clone(),
		delay:  delay,
	}
}

// OnChange registers the transition observer. It runs outside the router's
// lock, once per transition.
func (r *Router) OnChange(fn ChangeFunc) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Active returns the current section.
func (r *Router) Active() Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Pending reports whether a tag-driven transition is waiting on its delay.
func (r *Router) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

// SetVocabulary swaps the recognized tags, e.g. after a config reload.
func (r *Router) SetVocabulary(vocab Vocabulary) {
	r.mu.Lock()
	r.vocab = vocab.Clone()
	r.mu.Unlock()
}

// Select moves to section immediately and drops any pending tag transition.
func (r *Router) Select(section Section) error {
	if !section.Valid() {
		return fmt.Errorf("unknown section %q", section)
	}

	r.mu.Lock()
	r.cancelLocked()
	from := r.active
	r.active = section
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(Transition{From: from, To: section})
	}
	return nil
}

// Apply interprets an action tag. Recognized tags schedule a transition after
// the display delay and report the target; a newer tag replaces one still
// waiting. Unrecognized tags change nothing.
func (r *Router) Apply(tag string) (Section, bool) {
	r.mu.Lock()
	target, ok := r.vocab.Lookup(tag)
	if !ok {
		r.mu.Unlock()
		return "", false
	}

	r.cancelLocked()
	r.seq++
	seq := r.seq

	tag = normalizeTag(tag)
	if r.delay == 0 {
		r.mu.Unlock()
		r.fire(seq, target, tag)
		return target, true
	}

	r.timer = time.AfterFunc(r.delay, func() {
		r.fire(seq, target, tag)
	})
	r.mu.Unlock()
	return target, true
}

// Stop cancels a pending transition.
func (r *Router) Stop() {
	r.mu.Lock()
	r.cancelLocked()
	r.mu.Unlock()
}

func (r *Router) fire(seq uint64, target Section, tag string) {
	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	from := r.active
	r.active = target
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(Transition{From: from, To: target, Tag: tag})
	}
}

func (r *Router) cancelLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.seq++
}
