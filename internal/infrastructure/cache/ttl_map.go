package cache

import (
	"sync"
	"time"
)

type ttlEntry struct {
	value     string
	expiresAt time.Time
}

// ttlMap is a mutex-guarded map whose entries expire.
// A background goroutine sweeps expired entries until close.
type ttlMap struct {
	mu        sync.RWMutex
	entries   map[string]ttlEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newTTLMap(sweepEvery time.Duration) *ttlMap {
	m := &ttlMap{
		entries:  make(map[string]ttlEntry),
		stopChan: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.sweepLoop(sweepEvery)
	return m
}

func (m *ttlMap) get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || !time.Now().Before(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (m *ttlMap) set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = ttlEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

// setIfAbsent stores value unless a live entry exists; reports whether it stored
func (m *ttlMap) setIfAbsent(key, value string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok && time.Now().Before(e.expiresAt) {
		return false
	}
	m.entries[key] = ttlEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return true
}

func (m *ttlMap) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *ttlMap) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *ttlMap) sweepLoop(every time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *ttlMap) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

func (m *ttlMap) close() {
	m.closeOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
	})
}
