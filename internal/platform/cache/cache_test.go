// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kanshi/internal/platform/cache"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// memoryRemote is an in-memory [cache.Remote].
type memoryRemote struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRemote) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	return raw, ok, nil
}

func (m *memoryRemote) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

/*
TestCache_RoundTrip verifies that a value is readable until its TTL has elapsed.
*/
func TestCache_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.New(time.Hour, cache.WithClock(clock.Now))

	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	clock.Advance(59 * time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)

	// Expired entries are removed lazily on read.
	assert.Equal(t, 0, c.Len())
}

/*
TestCache_DefaultTTL applies the default lifetime when ttl is not positive.
*/
func TestCache_DefaultTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.New(10*time.Minute, cache.WithClock(clock.Now))

	c.Set("k", 42, 0)

	clock.Advance(9 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

/*
TestCache_Overwrite replaces both value and expiry.
*/
func TestCache_Overwrite(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.New(time.Hour, cache.WithClock(clock.Now))

	c.Set("k", "old", time.Second)
	c.Set("k", "new", time.Hour)
	clock.Advance(time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

/*
TestFetch_LoadsOnceAndCaches ensures the loader is skipped on a hit.
*/
func TestFetch_LoadsOnceAndCaches(t *testing.T) {
	c := cache.New(time.Hour)
	var calls int32

	load := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"Netflix"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := cache.Fetch(context.Background(), c, "providers", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"Netflix"}, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

/*
TestFetch_DoesNotCacheErrors retries the loader after a failure.
*/
func TestFetch_DoesNotCacheErrors(t *testing.T) {
	c := cache.New(time.Hour)
	var calls int32

	load := func(context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 0, errors.New("upstream down")
		}
		return 7, nil
	}

	_, err := cache.Fetch(context.Background(), c, "k", 0, load)
	require.Error(t, err)

	got, err := cache.Fetch(context.Background(), c, "k", 0, load)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

/*
TestFetch_CollapsesConcurrentMisses checks that parallel misses share one load.
*/
func TestFetch_CollapsesConcurrentMisses(t *testing.T) {
	c := cache.New(time.Hour)
	var calls int32
	release := make(chan struct{})

	load := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "done", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.Fetch(context.Background(), c, "same", time.Hour, load)
		}(i)
	}

	// Give the goroutines time to join the flight before releasing the loader.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "done", r)
	}
}

/*
TestFetch_RemoteTier stores loads remotely and serves later misses from it.
*/
func TestFetch_RemoteTier(t *testing.T) {
	remote := newMemoryRemote()

	first := cache.New(time.Hour, cache.WithRemote(remote))
	_, err := cache.Fetch(context.Background(), first, "k", 5*time.Minute, func(context.Context) ([]int, error) {
		return []int{1, 2}, nil
	})
	require.NoError(t, err)

	var stored []int
	require.NoError(t, json.Unmarshal(remote.data["k"], &stored))
	assert.Equal(t, []int{1, 2}, stored)
	assert.Equal(t, 5*time.Minute, remote.ttls["k"])

	// A second replica with an empty memory tier reads the shared value.
	second := cache.New(time.Hour, cache.WithRemote(remote))
	got, err := cache.Fetch(context.Background(), second, "k", 5*time.Minute, func(context.Context) ([]int, error) {
		t.Fatal("loader must not run on a remote hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}
