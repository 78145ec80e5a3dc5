package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry struct {
	value   any
	expires time.Time
}

// Memory is an in-process Cache. Values are handed out as stored, without a
// copy, so callers must treat slices and maps they get back as read-only.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   clockwork.Clock
}

func NewMemory(clock clockwork.Clock) *Memory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Memory{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("cache destination must be a non-nil pointer, got %T", dest)
	}

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return ErrCacheMiss
	}
	if !m.clock.Now().Before(e.expires) {
		m.mu.Lock()
		// re-check, a concurrent Set may have refreshed the entry
		if cur, ok := m.entries[key]; ok && !m.clock.Now().Before(cur.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return ErrCacheMiss
	}

	v := reflect.ValueOf(e.value)
	if !v.IsValid() {
		dv.Elem().SetZero()
		return nil
	}
	if !v.Type().AssignableTo(dv.Elem().Type()) {
		return fmt.Errorf("cached %q holds %s, not %s", key, v.Type(), dv.Elem().Type())
	}
	dv.Elem().Set(v)
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry{value: value, expires: m.clock.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Sweep evicts every expired entry and returns how many were removed.
func (m *Memory) Sweep() int {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len counts stored entries, expired ones included until they are swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Memory) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.Sweep()
		}
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	clear(m.entries)
	m.mu.Unlock()
	return nil
}
