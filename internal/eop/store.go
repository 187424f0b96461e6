// Package eop holds Earth-orientation parameter data and answers "what is
// DUT1 near date X, and how stale is that answer". The store never fails:
// the data source degrades from a fetched dataset through the persisted
// cache down to the compiled-in baseline, and callers observe the
// degradation only through Snapshot.Freshness and Snapshot.Source.
package eop

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sky/skyplan/internal/kvstore"
)

const (
	cacheKey = "eop_dataset"

	freshMaxDays = 30
	staleMaxDays = 90
)

// Store provides thread-safe access to the current EOP dataset. The dataset
// is replaced as a whole on refresh, so concurrent readers always see either
// the old or the new complete payload.
type Store struct {
	dataset  atomic.Pointer[Dataset]
	loadOnce sync.Once
	mu       sync.Mutex // serializes refresh operations

	cache      kvstore.Store // may be nil
	fetcher    *Fetcher
	logger     *slog.Logger
	refreshing atomic.Bool
}

// NewStore creates a Store backed by the given persistent cache (nil for
// none). The dataset is loaded lazily on first use.
func NewStore(cache kvstore.Store, logger *slog.Logger) *Store {
	return &Store{
		cache:   cache,
		fetcher: NewFetcher(),
		logger:  logger,
	}
}

// load populates the dataset exactly once per process lifetime: a previously
// persisted payload if it validates, else the compiled-in baseline.
func (s *Store) load() {
	s.loadOnce.Do(func() {
		if s.cache != nil {
			if raw, ok := s.cache.Get(cacheKey); ok {
				var ds Dataset
				if err := json.Unmarshal([]byte(raw), &ds); err == nil && validate(ds.Samples) == nil {
					s.dataset.Store(&ds)
					s.logger.Info("loaded EOP dataset from cache",
						"component", "eop",
						"version", ds.Version,
						"samples", len(ds.Samples),
					)
					return
				}
				s.logger.Warn("cached EOP dataset invalid, using baseline", "component", "eop")
			}
		}
		s.dataset.Store(baselineDataset())
		s.logger.Info("loaded baseline EOP dataset",
			"component", "eop",
			"version", baselineVersion,
			"samples", len(baselineSamples),
		)
	})
}

// Dataset returns the currently loaded dataset.
func (s *Store) Dataset() *Dataset {
	s.load()
	return s.dataset.Load()
}

// Snapshot selects the sample whose MJD is closest to date and classifies
// its freshness. With no usable sample it returns the hard fallback
// (dut1=0, freshness=fallback) rather than failing.
func (s *Store) Snapshot(date time.Time) Snapshot {
	return s.SnapshotAtMJD(MJDFromTime(date))
}

// SnapshotAtMJD is Snapshot keyed directly by Modified Julian Date.
func (s *Store) SnapshotAtMJD(mjd float64) Snapshot {
	s.load()

	ds := s.dataset.Load()
	if ds == nil || len(ds.Samples) == 0 || !finite(mjd) {
		return Snapshot{Freshness: FreshnessFallback, Source: SourceFallback}
	}

	best := ds.Samples[0]
	bestDelta := math.Abs(mjd - best.MJD)
	for _, sample := range ds.Samples[1:] {
		if d := math.Abs(mjd - sample.MJD); d < bestDelta {
			best, bestDelta = sample, d
		}
	}

	freshness := FreshnessFallback
	switch {
	case bestDelta <= freshMaxDays:
		freshness = FreshnessFresh
	case bestDelta <= staleMaxDays:
		freshness = FreshnessStale
	}

	return Snapshot{
		DUT1:      best.DUT1,
		Xp:        best.Xp,
		Yp:        best.Yp,
		Freshness: freshness,
		Source:    ds.Source,
		SampleMJD: best.MJD,
		Version:   ds.Version,
		UpdatedAt: ds.UpdatedAt,
	}
}

// Refresh tries the candidate source URLs in order and installs the first
// parseable, non-empty payload. Per-URL failures are swallowed and logged;
// only complete exhaustion of the list is reported, and even then the
// previously loaded dataset stays in place.
func (s *Store) Refresh(ctx context.Context, urls []string) error {
	s.load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(urls) == 0 {
		urls = DefaultSourceURLs
	}

	var lastErr error
	for _, url := range urls {
		body, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			s.logger.Warn("EOP source failed", "component", "eop", "url", url, "error", err)
			lastErr = err
			continue
		}
		samples, version, err := Parse(body)
		if err != nil {
			s.logger.Warn("EOP payload unparseable", "component", "eop", "url", url, "error", err)
			lastErr = err
			continue
		}

		ds := &Dataset{
			Source:    SourceRemote,
			Version:   version,
			UpdatedAt: time.Now().UTC(),
			Samples:   samples,
		}
		s.dataset.Store(ds)
		s.persist(ds)
		s.logger.Info("EOP dataset refreshed",
			"component", "eop",
			"url", url,
			"version", version,
			"samples", len(samples),
		)
		return nil
	}

	return &RefreshError{Tried: len(urls), Last: lastErr}
}

// persist writes the dataset to the cache. Failures are logged and dropped;
// the in-memory dataset is already installed.
func (s *Store) persist(ds *Dataset) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(ds)
	if err != nil {
		s.logger.Warn("EOP dataset marshal failed", "component", "eop", "error", err)
		return
	}
	if err := s.cache.Set(cacheKey, string(raw)); err != nil {
		s.logger.Warn("EOP dataset persist failed", "component", "eop", "error", err)
	}
}

// TriggerBackgroundRefresh fires an asynchronous refresh when the snapshot
// for "now" is not fresh. The outcome is only logged; a refresh already in
// flight suppresses a second one. The fetch attempt doubles as the
// connectivity check: offline it fails quietly and the store keeps serving
// the dataset it has.
func (s *Store) TriggerBackgroundRefresh(urls []string) {
	if s.Snapshot(time.Now()).Freshness == FreshnessFresh {
		return
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.refreshing.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.Refresh(ctx, urls); err != nil {
			s.logger.Warn("background EOP refresh failed", "component", "eop", "error", err)
		}
	}()
}

// RefreshError reports that every candidate EOP source failed.
type RefreshError struct {
	Tried int
	Last  error
}

func (e *RefreshError) Error() string {
	if e.Last != nil {
		return "all EOP sources failed, last error: " + e.Last.Error()
	}
	return "all EOP sources failed"
}

func (e *RefreshError) Unwrap() error { return e.Last }
