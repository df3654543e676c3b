package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int32
	err   error
	block chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, limit int) (*FetchResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &FetchResult{Fetched: time.Now()}, nil
}

func (f *countingFetcher) count() int32 { return atomic.LoadInt32(&f.calls) }

func TestCacheTTL(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, 50, time.Minute)
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	first, err := c.Draws(context.Background())
	require.NoError(t, err)
	second, err := c.Draws(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), f.count())

	now = now.Add(2 * time.Minute)
	_, err = c.Draws(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.count())
}

func TestCacheInvalidate(t *testing.T) {
	f := &countingFetcher{}
	c := NewCache(f, 50, time.Hour)

	_, err := c.Draws(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Draws(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.count())
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	f := &countingFetcher{err: errors.New("boom")}
	c := NewCache(f, 50, time.Hour)

	_, err := c.Draws(context.Background())
	require.Error(t, err)

	f.err = nil
	res, err := c.Draws(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, int32(2), f.count())
}

func TestCacheCollapsesConcurrentMisses(t *testing.T) {
	f := &countingFetcher{block: make(chan struct{})}
	c := NewCache(f, 50, time.Hour)

	var wg sync.WaitGroup
	results := make([]*FetchResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Draws(context.Background())
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	// Ждём, пока первый запрос дойдёт до источника, и даём остальным встать в очередь.
	require.Eventually(t, func() bool { return f.count() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.block)
	wg.Wait()

	assert.Equal(t, int32(1), f.count())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
