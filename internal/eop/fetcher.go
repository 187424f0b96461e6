package eop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSourceURLs are the IERS mirrors tried in order during a refresh.
var DefaultSourceURLs = []string{
	"https://datacenter.iers.org/data/csv/finals2000A.daily.csv",
	"https://maia.usno.navy.mil/ser7/finals2000A.daily",
}

// maxBodyBytes caps an EOP response body. The daily IERS CSV is under 2 MB;
// anything beyond the cap is a misbehaving source.
const maxBodyBytes = 16 * 1024 * 1024

// Fetcher retrieves raw EOP payloads from remote sources.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch performs an HTTP GET against a single source URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching EOP data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response from %s exceeds %d byte limit", url, maxBodyBytes)
	}

	return body, nil
}
