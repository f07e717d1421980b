package fetcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// FetchMultiple fetches urls with at most the configured number of requests
// in flight, pausing after each fetch. Results are in input order.
func (f *Fetcher) FetchMultiple(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	sem := semaphore.NewWeighted(int64(f.maxConcurrent))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = newErrorResult(url, ErrorKindUnexpected, 0, err)
				return
			}
			defer sem.Release(1)

			results[i] = f.Fetch(ctx, url)
			f.pause(ctx)
		}(i, url)
	}
	wg.Wait()

	return results
}

func (f *Fetcher) pause(ctx context.Context) {
	if f.batchPacing <= 0 {
		return
	}
	timer := time.NewTimer(f.batchPacing)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
