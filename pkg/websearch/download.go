package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// MaxDownloadWorkers bounds the concurrent thumbnail fetches per request.
const MaxDownloadWorkers = 10

// Downloader fetches result images concurrently. A failed download yields a
// nil slot instead of failing the batch.
type Downloader struct {
	client  *http.Client
	workers int
}

func NewDownloader(workers int) *Downloader {
	if workers < 1 || workers > MaxDownloadWorkers {
		workers = MaxDownloadWorkers
	}
	return &Downloader{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		workers: workers,
	}
}

// FetchAll downloads every URL on a bounded pool and returns a slice aligned
// with the input: result[i] holds the bytes for urls[i], or nil when the
// download failed or the URL was empty.
func (d *Downloader) FetchAll(ctx context.Context, urls []string) [][]byte {
	results := make([][]byte, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, u := range urls {
		if u == "" {
			continue
		}
		g.Go(func() error {
			data, err := d.fetch(gctx, u)
			if err != nil {
				// Per-item failures never abort the batch.
				return nil
			}
			results[i] = data
			return nil
		})
	}

	// Workers only return nil; Wait is for draining.
	_ = g.Wait()

	return results
}

func (d *Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// Some image hosts reject requests without a browser user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
