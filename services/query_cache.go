package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

// StatusError carries an HTTP-class code through the cache retry predicate.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string { return e.Err.Error() }
func (e *StatusError) Unwrap() error { return e.Err }

// QueryCacheConfig is set once at startup; there is no implicit global
// lookup, the configured cache is handed to every controller that reads
// through it.
type QueryCacheConfig struct {
	StaleAfter    time.Duration // result age before a re-fetch is forced
	EvictAfter    time.Duration // entry age before the sweeper drops it
	SweepInterval time.Duration
	MaxRetries    int // extra attempts after the first failure
	SkipRetry     func(error) bool
}

// DefaultQueryCacheConfig: 30s staleness, 5min eviction, two retries that
// skip auth/permission/not-found failures.
func DefaultQueryCacheConfig() QueryCacheConfig {
	return QueryCacheConfig{
		StaleAfter:    30 * time.Second,
		EvictAfter:    5 * time.Minute,
		SweepInterval: time.Minute,
		MaxRetries:    2,
		SkipRetry:     SkipAuthAndNotFound,
	}
}

// SkipAuthAndNotFound reports failures that retrying cannot fix.
func SkipAuthAndNotFound(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case 401, 403, 404:
			return true
		}
	}
	return false
}

type cacheEntry struct {
	data      interface{}
	fetchedAt time.Time
}

// QueryCache is the process-wide cache of query results, keyed by the
// request parameters that produced them (resource:businessID:params).
type QueryCache struct {
	config   QueryCacheConfig
	mu       sync.Mutex
	entries  map[string]*cacheEntry
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewQueryCache(config QueryCacheConfig) *QueryCache {
	if config.SkipRetry == nil {
		config.SkipRetry = SkipAuthAndNotFound
	}
	return &QueryCache{
		config:   config,
		entries:  make(map[string]*cacheEntry),
		stopChan: make(chan struct{}),
	}
}

// Fetch returns the cached result for key while it is fresh, otherwise runs
// loader (with retries per the configured predicate) and caches the result.
// A failed load leaves the cache untouched.
func (qc *QueryCache) Fetch(key string, loader func() (interface{}, error)) (interface{}, error) {
	qc.mu.Lock()
	if entry, ok := qc.entries[key]; ok && time.Since(entry.fetchedAt) < qc.config.StaleAfter {
		data := entry.data
		qc.mu.Unlock()
		return data, nil
	}
	qc.mu.Unlock()

	data, err := qc.load(loader)
	if err != nil {
		return nil, err
	}

	qc.mu.Lock()
	qc.entries[key] = &cacheEntry{data: data, fetchedAt: time.Now()}
	qc.mu.Unlock()
	return data, nil
}

func (qc *QueryCache) load(loader func() (interface{}, error)) (interface{}, error) {
	var lastErr error
	for attempt := 0; attempt <= qc.config.MaxRetries; attempt++ {
		data, err := loader()
		if err == nil {
			return data, nil
		}
		lastErr = err
		if qc.config.SkipRetry(err) {
			break
		}
	}
	return nil, lastErr
}

// Invalidate drops the exact key.
func (qc *QueryCache) Invalidate(key string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	delete(qc.entries, key)
}

// InvalidatePrefix drops every key under prefix. Mutation handlers call this
// before responding, so the next list read goes back to the store.
func (qc *QueryCache) InvalidatePrefix(prefix string) {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	for key := range qc.entries {
		if strings.HasPrefix(key, prefix) {
			delete(qc.entries, key)
		}
	}
}

// Len returns the number of live entries.
func (qc *QueryCache) Len() int {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return len(qc.entries)
}

// StartSweeper evicts entries older than EvictAfter until Stop is called.
func (qc *QueryCache) StartSweeper() {
	go func() {
		ticker := time.NewTicker(qc.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				qc.sweep()
			case <-qc.stopChan:
				return
			}
		}
	}()
}

func (qc *QueryCache) Stop() {
	qc.stopOnce.Do(func() {
		close(qc.stopChan)
	})
}

func (qc *QueryCache) sweep() {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	cutoff := time.Now().Add(-qc.config.EvictAfter)
	for key, entry := range qc.entries {
		if entry.fetchedAt.Before(cutoff) {
			delete(qc.entries, key)
		}
	}
}
