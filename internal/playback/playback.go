// Package playback animates a chart by stepping a time offset from a base
// instant and wrapping it inside a configured window.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInvalidWindow is returned when the playback window is empty or the
// step cannot move through it.
var ErrInvalidWindow = errors.New("playback: invalid window")

// Settings configure a Player.
type Settings struct {
	Step     time.Duration // chart time added per tick; negative plays backwards
	Min      time.Duration // lowest offset from the base instant
	Max      time.Duration // highest offset from the base instant
	Interval time.Duration // wall-clock time between ticks
}

// DefaultSettings steps one hour per tick across ±15 days, four ticks per second.
func DefaultSettings() Settings {
	return Settings{
		Step:     time.Hour,
		Min:      -15 * 24 * time.Hour,
		Max:      15 * 24 * time.Hour,
		Interval: 250 * time.Millisecond,
	}
}

// Validate checks that the window is non-empty and the step is non-zero.
func (s Settings) Validate() error {
	if s.Max <= s.Min {
		return ErrInvalidWindow
	}
	if s.Step == 0 {
		return errors.New("playback: step must be non-zero")
	}
	if s.Interval <= 0 {
		return errors.New("playback: interval must be positive")
	}
	return nil
}

// Player holds the playback state. It is safe for concurrent use.
type Player struct {
	mu       sync.RWMutex
	base     time.Time
	settings Settings
	offset   time.Duration
	paused   bool
}

// New returns a player positioned at offset 0, clamped into the window.
func New(base time.Time, s Settings) (*Player, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	p := &Player{base: base, settings: s}
	p.offset = clampOffset(0, s)
	return p, nil
}

// Now returns the instant currently shown.
func (p *Player) Now() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.base.Add(p.offset)
}

// Offset returns the current offset from the base instant.
func (p *Player) Offset() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.offset
}

// Settings returns the current settings.
func (p *Player) Settings() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Advance moves one step and returns the new instant. Passing Max wraps to
// Min and passing Min wraps to Max.
func (p *Player) Advance() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.offset + p.settings.Step
	switch {
	case next > p.settings.Max:
		next = p.settings.Min
	case next < p.settings.Min:
		next = p.settings.Max
	}
	p.offset = next
	return p.base.Add(next)
}

// Seek sets the offset, clamped into the window.
func (p *Player) Seek(offset time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.offset = clampOffset(offset, p.settings)
}

// SetStep changes the step size. A zero step is ignored.
func (p *Player) SetStep(step time.Duration) {
	if step == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Step = step
}

// Reverse flips the playback direction.
func (p *Player) Reverse() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Step = -p.settings.Step
}

// TogglePause pauses or resumes Run and reports whether playback is now
// paused.
func (p *Player) TogglePause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = !p.paused
	return p.paused
}

// Paused reports whether Run is skipping ticks.
func (p *Player) Paused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused
}

// Run advances on every Interval tick and hands the new instant to fn until
// ctx is cancelled. Ticks are skipped while paused.
func (p *Player) Run(ctx context.Context, fn func(time.Time)) error {
	ticker := time.NewTicker(p.Settings().Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			if p.Paused() {
				continue
			}
			now := p.Advance()
			if fn != nil {
				fn(now)
			}
		}
	}
}

func clampOffset(d time.Duration, s Settings) time.Duration {
	if d < s.Min {
		return s.Min
	}
	if d > s.Max {
		return s.Max
	}
	return d
}
