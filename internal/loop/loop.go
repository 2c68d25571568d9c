// Package loop implements the main loop that generates excuses.
package loop

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/randomizedcoder/norepeat"
	"github.com/randomizedcoder/norepeat/internal/config"
	"github.com/randomizedcoder/norepeat/internal/wordlist"
)

// Excuse is one generated excuse.
type Excuse struct {
	ID     uuid.UUID
	Intro  string
	Name   string
	Reason string
}

// String renders the excuse as a sentence.
func (e Excuse) String() string {
	return fmt.Sprintf("%s %s %s!", e.Intro, e.Name, e.Reason)
}

// Stats holds the counters of each picker.
type Stats struct {
	Count   uint64         `json:"count"`
	Intros  norepeat.Stats `json:"intros"`
	Names   norepeat.Stats `json:"names"`
	Excuses norepeat.Stats `json:"excuses"`
}

// Looper handles the main excuse loop.
type Looper struct {
	cfg    *config.Config
	logger *zap.Logger

	mu      sync.Mutex
	intros  *norepeat.Picker[string]
	names   *norepeat.Picker[string]
	excuses *norepeat.Picker[string]
	count   uint64
}

// New creates a new Looper instance. A zero cfg.Seed seeds from the clock.
func New(cfg *config.Config, words *wordlist.List, logger *zap.Logger) (*Looper, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewWithSource(cfg, words, logger, rand.New(rand.NewPCG(seed, seed>>32)))
}

// NewWithSource creates a new Looper with a custom random source (for testing).
func NewWithSource(cfg *config.Config, words *wordlist.List, logger *zap.Logger, src norepeat.Source) (*Looper, error) {
	if err := words.Validate(); err != nil {
		return nil, fmt.Errorf("invalid word list: %w", err)
	}

	opts := []norepeat.Option{norepeat.WithSource(src)}
	if cfg.ResetThreshold > 0 {
		opts = append(opts, norepeat.WithResetThreshold(cfg.ResetThreshold))
	}

	l := &Looper{cfg: cfg, logger: logger}
	var err error
	if l.intros, err = norepeat.New(words.Intros, opts...); err != nil {
		return nil, fmt.Errorf("intros: %w", err)
	}
	if l.names, err = norepeat.New(words.Names, opts...); err != nil {
		return nil, fmt.Errorf("names: %w", err)
	}
	if l.excuses, err = norepeat.New(words.Excuses, opts...); err != nil {
		return nil, fmt.Errorf("excuses: %w", err)
	}
	return l, nil
}

// Run starts the excuse loop, blocking until context is cancelled.
func (l *Looper) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.SleepDuration)
	defer ticker.Stop()

	l.mu.Lock()
	sizes := []zap.Field{
		zap.Int("intros", l.intros.Len()),
		zap.Int("names", l.names.Len()),
		zap.Int("excuses", l.excuses.Len()),
	}
	l.mu.Unlock()

	l.logger.Info("loop started", append([]zap.Field{
		zap.Duration("interval", l.cfg.SleepDuration),
		zap.Int("reset_threshold", l.cfg.ResetThreshold),
	}, sizes...)...)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped", zap.Uint64("total_ticks", l.Count()))
			return
		case <-ticker.C:
			if _, err := l.Next(); err != nil {
				l.logger.Error("generate excuse", zap.Error(err))
			}
		}
	}
}

// Next draws one excuse and logs it.
func (l *Looper) Next() (Excuse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	intro, err := l.draw("intros", l.intros)
	if err != nil {
		return Excuse{}, err
	}
	name, err := l.draw("names", l.names)
	if err != nil {
		return Excuse{}, err
	}
	reason, err := l.draw("excuses", l.excuses)
	if err != nil {
		return Excuse{}, err
	}

	l.count++
	e := Excuse{ID: uuid.New(), Intro: intro, Name: name, Reason: reason}

	l.logger.Info("excuse",
		zap.Uint64("count", l.count),
		zap.Stringer("id", e.ID),
		zap.String("excuse", e.String()),
		zap.Int("intros_resets", l.intros.ResetCount()),
		zap.Int("names_resets", l.names.ResetCount()),
		zap.Int("excuses_resets", l.excuses.ResetCount()),
	)
	return e, nil
}

func (l *Looper) draw(list string, p *norepeat.Picker[string]) (string, error) {
	before := p.ResetCount()
	v, err := p.Draw()
	if err != nil {
		return "", fmt.Errorf("draw %s: %w", list, err)
	}
	if p.ResetCount() != before {
		l.logger.Debug("pool reset",
			zap.String("list", list),
			zap.Int("reset_count", p.ResetCount()),
			zap.Bool("automatic", p.LastResetWasAutomatic()),
		)
	}
	return v, nil
}

// Reset returns every chosen phrase to its pool.
func (l *Looper) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.intros.Reset()
	l.names.Reset()
	l.excuses.Reset()
	l.logger.Info("pools reset", zap.Uint64("count", l.count))
}

// Stats returns the current picker counters.
func (l *Looper) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		Count:   l.count,
		Intros:  l.intros.Stats(),
		Names:   l.names.Stats(),
		Excuses: l.excuses.Stats(),
	}
}

// Count returns the number of excuses generated.
func (l *Looper) Count() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
