// Package norepeat picks random items from a collection without repeating
// an item until every item has been returned.
//
// Once the pool is exhausted (or a reset threshold is reached) the pool is
// rebuilt, keeping the item just returned out of the next draw so that the
// same item is never returned twice in a row.
//
//	intros, _ := norepeat.New(data.Intros)
//	names, _ := norepeat.New(data.Names)
//	intro, _ := intros.Draw()
//	name, _ := names.Draw()
package norepeat

import (
	"math/rand/v2"
	"slices"
	"time"
)

// Source is a uniform integer generator. *rand.Rand satisfies it.
type Source interface {
	// IntN returns a value in [0, n). It is only called with n > 0.
	IntN(n int) int
}

// Picker draws items without repetition.
//
// A Picker is not safe for concurrent use; callers sharing one across
// goroutines must serialize access.
type Picker[T any] struct {
	available []T
	chosen    []T

	resetThreshold  int
	hasThreshold    bool
	drawnSinceReset int

	lastResetWasAutomatic bool
	resetCount            int

	rng Source
}

// Stats is a point-in-time view of a Picker's counters.
type Stats struct {
	Available             int  `json:"available"`
	Chosen                int  `json:"chosen"`
	ResetThreshold        *int `json:"reset_threshold,omitempty"`
	ResetCount            int  `json:"reset_count"`
	LastResetWasAutomatic bool `json:"last_reset_was_automatic"`
}

// New creates a Picker over a copy of items.
func New[T any](items []T, opts ...Option) (*Picker[T], error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	p := &Picker[T]{
		available:             slices.Clone(items),
		resetThreshold:        o.resetThreshold,
		hasThreshold:          o.hasThreshold,
		lastResetWasAutomatic: true,
		rng:                   o.source,
	}
	if p.available == nil {
		p.available = []T{}
	}

	if o.chosen != nil {
		chosen, err := sliceOf[T]("chosen", o.chosen)
		if err != nil {
			return nil, err
		}
		p.chosen = chosen
	}
	if p.chosen == nil {
		p.chosen = []T{}
	}
	p.drawnSinceReset = len(p.chosen)

	if p.rng == nil {
		now := uint64(time.Now().UnixNano())
		p.rng = rand.New(rand.NewPCG(now, now>>32))
	}

	return p, nil
}

// NewFromValues creates a Picker from a dynamically typed slice, such as a
// decoded YAML or JSON document. items must be a slice or array whose
// elements are all of type T.
func NewFromValues[T any](items any, opts ...Option) (*Picker[T], error) {
	typed, err := sliceOf[T]("items", items)
	if err != nil {
		return nil, err
	}
	return New(typed, opts...)
}

// Draw returns a random item that has not been returned since the last
// reset.
func (p *Picker[T]) Draw() (T, error) {
	if len(p.available) == 0 {
		if len(p.chosen) == 0 {
			var zero T
			return zero, ErrEmptyPool
		}
		// Only pre-chosen items were supplied.
		p.reset(true)
	}

	i := p.rng.IntN(len(p.available))
	item := p.available[i]
	p.available = slices.Delete(p.available, i, i+1)
	p.drawnSinceReset++

	if len(p.available) == 0 || (p.hasThreshold && p.drawnSinceReset >= p.resetThreshold) {
		p.reset(true)
		if len(p.available) == 0 {
			// Single-item pool.
			p.available = append(p.available, item)
			return item, nil
		}
	}
	p.chosen = append(p.chosen, item)

	return item, nil
}

// Reset returns every chosen item to the pool.
func (p *Picker[T]) Reset() {
	p.reset(false)
}

func (p *Picker[T]) reset(auto bool) {
	p.available = append(p.available, p.chosen...)
	p.chosen = p.chosen[:0]
	p.drawnSinceReset = 0
	p.lastResetWasAutomatic = auto
	p.resetCount++
}

// Available returns a copy of the items eligible for the next draw.
func (p *Picker[T]) Available() []T {
	return slices.Clone(p.available)
}

// Chosen returns a copy of the items drawn since the last reset.
func (p *Picker[T]) Chosen() []T {
	return slices.Clone(p.chosen)
}

// Len returns the total number of items in the pool.
func (p *Picker[T]) Len() int {
	return len(p.available) + len(p.chosen)
}

// ResetThreshold returns the configured threshold and whether one is set.
func (p *Picker[T]) ResetThreshold() (int, bool) {
	return p.resetThreshold, p.hasThreshold
}

// ResetCount returns the number of resets, automatic or manual.
func (p *Picker[T]) ResetCount() int {
	return p.resetCount
}

// LastResetWasAutomatic reports whether the most recent reset was caused by
// exhaustion or the threshold rather than a call to Reset.
func (p *Picker[T]) LastResetWasAutomatic() bool {
	return p.lastResetWasAutomatic
}

// Stats returns the picker's current counters.
func (p *Picker[T]) Stats() Stats {
	s := Stats{
		Available:             len(p.available),
		Chosen:                len(p.chosen),
		ResetCount:            p.resetCount,
		LastResetWasAutomatic: p.lastResetWasAutomatic,
	}
	if p.hasThreshold {
		n := p.resetThreshold
		s.ResetThreshold = &n
	}
	return s
}
