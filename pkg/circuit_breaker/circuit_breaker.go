package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

var ErrOpenCB = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(fn func() error) error
	State() Status
	Reset()
}

type circuitBreaker struct {
	mu    sync.Mutex
	state Status

	// ring of the last window call results, true means failed
	window []bool
	pos    int

	// failure ratio over the window that opens the breaker
	threshold float64
	// how long an open breaker rejects calls before probing
	cooldown time.Duration
	openedAt time.Time

	// consecutive half-open successes required to close
	recoveryCalls int
	successCount  int

	now func() time.Time
}

func New(window int, cooldown time.Duration, threshold float64, recoveryCalls int) CircuitBreaker {
	if window <= 0 {
		window = 1
	}
	return &circuitBreaker{
		state:         Closed,
		window:        make([]bool, window),
		cooldown:      cooldown,
		threshold:     threshold,
		recoveryCalls: recoveryCalls,
		now:           time.Now,
	}
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = HalfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.window[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % len(cb.window)

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.successCount++
		if cb.successCount >= cb.recoveryCalls {
			cb.reset()
		}
		return err
	}

	fails := 0
	for _, failed := range cb.window {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.window)) >= cb.threshold {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.successCount = 0
	cb.openedAt = cb.now()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
