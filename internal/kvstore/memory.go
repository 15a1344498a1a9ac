package kvstore

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Store used in tests and as a throwaway store when
// no durable location is available. It supports fault and latency injection
// so callers can exercise their timeout and fallback paths.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	loadErr   error
	saveErr   error
	removeErr error

	loadDelay time.Duration
	saveDelay time.Duration

	loadCalls int
	saveCalls int
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string][]byte),
	}
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	m.loadCalls++
	delay, failure := m.loadDelay, m.loadErr
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return nil, false, err
	}
	if failure != nil {
		return nil, false, failure
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	// Copy so callers cannot mutate stored bytes
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *Memory) Save(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.saveCalls++
	delay, failure := m.saveDelay, m.saveErr
	m.mu.Unlock()

	if err := wait(ctx, delay); err != nil {
		return err
	}
	if failure != nil {
		return failure
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = stored
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removeErr != nil {
		return m.removeErr
	}

	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Len returns the number of stored entries
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// LoadCalls returns how many loads were attempted
func (m *Memory) LoadCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadCalls
}

// SaveCalls returns how many saves were attempted
func (m *Memory) SaveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveCalls
}

// FailLoads makes subsequent loads return err (nil restores normal behavior)
func (m *Memory) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSaves makes subsequent saves return err
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// FailRemoves makes subsequent removes return err
func (m *Memory) FailRemoves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr = err
}

// SlowLoads delays subsequent loads by d
func (m *Memory) SlowLoads(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDelay = d
}

// SlowSaves delays subsequent saves by d
func (m *Memory) SlowSaves(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDelay = d
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Store = (*Memory)(nil)
