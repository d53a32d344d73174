// Package cache provides an in-memory cache whose entries expire a fixed time after insertion.
package cache

import (
	"sync"
	"time"
)

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock; it is both a Clock and a Scheduler.
var SystemClock = systemClock{}

type entry[V any] struct {
	value     V
	expiresAt time.Time
	timer     Timer
}

// TTLCache maps keys to values until their TTL elapses.
// Entries are replaced whole, never mutated in place.
type TTLCache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	clock     Clock
	scheduler Scheduler
}

type Option func(*settings)

type settings struct {
	clock     Clock
	scheduler Scheduler
}

func WithClock(c Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithScheduler sets the scheduler used for eviction timers. A nil scheduler
// disables timers; expired entries are then dropped lazily or by EvictExpired.
func WithScheduler(sch Scheduler) Option {
	return func(s *settings) { s.scheduler = sch }
}

func New[K comparable, V any](opts ...Option) *TTLCache[K, V] {
	s := settings{clock: SystemClock, scheduler: SystemClock}
	for _, opt := range opts {
		opt(&s)
	}
	return &TTLCache[K, V]{
		entries:   make(map[K]*entry[V]),
		clock:     s.clock,
		scheduler: s.scheduler,
	}
}

// Get returns the value for key if present and unexpired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.remove(key, e)
		return zero, false
	}
	return e.value, true
}

// Put stores value under key for ttl and schedules its eviction.
// A non-positive ttl is a no-op.
func (c *TTLCache[K, V]) Put(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(key, old)
	}

	e := &entry[V]{value: value, expiresAt: c.clock.Now().Add(ttl)}
	if c.scheduler != nil {
		e.timer = c.scheduler.AfterFunc(ttl, func() { c.evict(key, e) })
	}
	c.entries[key] = e
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.remove(key, e)
	}
}

// EvictExpired drops every expired entry and returns how many were removed.
func (c *TTLCache[K, V]) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	n := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			c.remove(key, e)
			n++
		}
	}
	return n
}

func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		c.remove(key, e)
	}
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict is the timer callback; it only removes the exact entry it was scheduled for.
func (c *TTLCache[K, V]) evict(key K, e *entry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries[key]; ok && current == e {
		delete(c.entries, key)
	}
}

func (c *TTLCache[K, V]) remove(key K, e *entry[V]) {
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(c.entries, key)
}
