package infra

import (
	"errors"
	"sync"
	"time"
)

// ErrBreakerOpen is returned by Breaker.Do while calls are being short-circuited.
var ErrBreakerOpen = errors.New("breaker open")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerProbing
)

func (s breakerState) String() string {
	switch s {
	case breakerClosed:
		return "closed"
	case breakerOpen:
		return "open"
	case breakerProbing:
		return "probing"
	}
	return "unknown"
}

// Breaker stops calling a failing dependency after Threshold consecutive
// failures and lets a single probe through once Cooldown has passed.
// RedisTermsCache runs every Redis call through one.
type Breaker struct {
	Threshold int
	Cooldown  time.Duration

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
	now      func() time.Time
}

func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{Threshold: threshold, Cooldown: cooldown, now: time.Now}
}

// State reports "closed", "open" or "probing".
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current().String()
}

// Do runs fn unless the breaker is open. Only one probe runs at a time.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	switch b.current() {
	case breakerOpen:
		b.mu.Unlock()
		return ErrBreakerOpen
	case breakerProbing:
		// claim the probe; concurrent callers see the breaker open again
		b.state = breakerOpen
		b.openedAt = b.now()
		b.mu.Unlock()
		return b.settle(fn(), true)
	}
	b.mu.Unlock()
	return b.settle(fn(), false)
}

func (b *Breaker) settle(err error, probe bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.state = breakerClosed
		b.failures = 0
		return nil
	}
	b.failures++
	if probe || b.failures >= b.Threshold {
		b.state = breakerOpen
		b.openedAt = b.now()
	}
	return err
}

// current must be called with mu held.
func (b *Breaker) current() breakerState {
	if b.state == breakerOpen && b.now().Sub(b.openedAt) >= b.Cooldown {
		b.state = breakerProbing
	}
	return b.state
}
