package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func testCacheConfig() QueryCacheConfig {
	return QueryCacheConfig{
		StaleAfter:    30 * time.Second,
		EvictAfter:    5 * time.Minute,
		SweepInterval: time.Minute,
		MaxRetries:    2,
		SkipRetry:     SkipAuthAndNotFound,
	}
}

func TestFetchCachesWhileFresh(t *testing.T) {
	cache := NewQueryCache(testCacheConfig())

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return "result", nil
	}

	data, err := cache.Fetch("orders:1:all", loader)
	assert.NoError(t, err)
	assert.Equal(t, "result", data)

	data, err = cache.Fetch("orders:1:all", loader)
	assert.NoError(t, err)
	assert.Equal(t, "result", data)
	assert.Equal(t, 1, calls, "second read within the staleness window must hit the cache")
}

func TestFetchRefetchesWhenStale(t *testing.T) {
	config := testCacheConfig()
	config.StaleAfter = 10 * time.Millisecond
	cache := NewQueryCache(config)

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	data, _ := cache.Fetch("k", loader)
	assert.Equal(t, 1, data)

	time.Sleep(20 * time.Millisecond)

	data, _ = cache.Fetch("k", loader)
	assert.Equal(t, 2, data)
	assert.Equal(t, 2, calls)
}

func TestInvalidateForcesReload(t *testing.T) {
	cache := NewQueryCache(testCacheConfig())

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	cache.Fetch("orders:1:all", loader)
	cache.Invalidate("orders:1:all")

	data, _ := cache.Fetch("orders:1:all", loader)
	assert.Equal(t, 2, data, "a read after invalidation must go back to the loader")
}

func TestInvalidatePrefix(t *testing.T) {
	cache := NewQueryCache(testCacheConfig())
	loader := func() (interface{}, error) { return "x", nil }

	cache.Fetch("orders:1:all", loader)
	cache.Fetch("orders:1:pending", loader)
	cache.Fetch("orders:2:all", loader)
	cache.Fetch("reservations:1:all", loader)
	assert.Equal(t, 4, cache.Len())

	cache.InvalidatePrefix("orders:1")
	assert.Equal(t, 2, cache.Len())

	// Untouched tenants and resources stay cached.
	calls := 0
	counting := func() (interface{}, error) { calls++; return "x", nil }
	cache.Fetch("orders:2:all", counting)
	cache.Fetch("reservations:1:all", counting)
	assert.Equal(t, 0, calls)
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	cache := NewQueryCache(testCacheConfig())

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		return "ok", nil
	}

	data, err := cache.Fetch("k", loader)
	assert.NoError(t, err)
	assert.Equal(t, "ok", data)
	assert.Equal(t, 3, calls, "two retries after the first failure")
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	cache := NewQueryCache(testCacheConfig())

	calls := 0
	loader := func() (interface{}, error) {
		calls++
		return nil, errors.New("connection reset")
	}

	_, err := cache.Fetch("k", loader)
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, cache.Len(), "a failed load must not populate the cache")
}

func TestFetchDoesNotRetryAuthOrNotFound(t *testing.T) {
	cache := NewQueryCache(testCacheConfig())

	for _, failure := range []error{
		&StatusError{Code: 401, Err: errors.New("unauthorized")},
		&StatusError{Code: 403, Err: errors.New("forbidden")},
		&StatusError{Code: 404, Err: errors.New("not found")},
		gorm.ErrRecordNotFound,
	} {
		calls := 0
		loader := func() (interface{}, error) {
			calls++
			return nil, failure
		}

		_, err := cache.Fetch("k", loader)
		assert.Error(t, err)
		assert.Equal(t, 1, calls, "%v must not be retried", failure)
	}
}

func TestSweeperEvictsOldEntries(t *testing.T) {
	config := testCacheConfig()
	config.EvictAfter = 10 * time.Millisecond
	config.SweepInterval = 5 * time.Millisecond
	cache := NewQueryCache(config)
	cache.StartSweeper()
	defer cache.Stop()

	cache.Fetch("k", func() (interface{}, error) { return "x", nil })
	assert.Equal(t, 1, cache.Len())

	assert.Eventually(t, func() bool {
		return cache.Len() == 0
	}, time.Second, 5*time.Millisecond)
}
