package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/motoki/aniterm/internal/domain"
)

const defaultRefreshTimeout = 30 * time.Second

// CatalogService binds the resource repositories to the synchronization
// cache. Reads are stale-while-revalidate with retry and in-flight
// deduplication; mutations follow the snapshot / optimistic-write /
// rollback / invalidate protocol (see anime.go, season.go, episode.go).
type CatalogService struct {
	animes   domain.AnimeRepository
	seasons  domain.SeasonRepository
	episodes domain.EpisodeRepository
	cache    *Cache
	logger   *slog.Logger

	group singleflight.Group

	inflightMu sync.Mutex
	inflight   map[string]context.CancelFunc

	// retryDelay is swappable so tests do not sit through real backoff.
	retryDelay     func(retry int) time.Duration
	refreshTimeout time.Duration
}

// NewCatalogService creates the catalog service on top of cache.
func NewCatalogService(
	animes domain.AnimeRepository,
	seasons domain.SeasonRepository,
	episodes domain.EpisodeRepository,
	cache *Cache,
	logger *slog.Logger,
) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		animes:         animes,
		seasons:        seasons,
		episodes:       episodes,
		cache:          cache,
		logger:         logger,
		inflight:       make(map[string]context.CancelFunc),
		retryDelay:     backoffDelay,
		refreshTimeout: defaultRefreshTimeout,
	}
}

// Cache exposes the underlying cache for subscription by the presentation
// layer.
func (s *CatalogService) Cache() *Cache { return s.cache }

// fetchFn loads one cache slot's worth of data from the remote API.
type fetchFn func(ctx context.Context) (any, error)

// read is the shared read path: serve a cached value immediately (kicking
// off a background refresh when stale), otherwise block on a deduplicated
// fetch with retry.
func (s *CatalogService) read(ctx context.Context, key string, fn fetchFn) (any, error) {
	if entry, ok := s.cache.Get(key); ok {
		if entry.Stale {
			s.logger.Debug("cache stale, refreshing in background", "key", key)
			s.refresh(key, fn)
		} else {
			s.logger.Debug("cache hit", "key", key)
		}
		return entry.Data, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		seq := s.cache.Seq(key)
		data, err := s.fetchWithRetry(ctx, key, fn)
		if err != nil {
			return nil, err
		}
		if !s.cache.CompareAndSet(key, data, seq) {
			// Something wrote the slot while we were on the wire; the newer
			// value wins.
			if cur, ok := s.cache.Peek(key); ok {
				return cur, nil
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("fetch deduplicated", "key", key)
	}
	return v, nil
}

// fetchWithRetry runs fn with up to maxReadRetries retries and capped
// exponential backoff between attempts.
func (s *CatalogService) fetchWithRetry(ctx context.Context, key string, fn fetchFn) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= maxReadRetries; attempt++ {
		if attempt > 0 {
			delay := s.retryDelay(attempt - 1)
			s.logger.Warn("fetch failed, retrying", "key", key, "attempt", attempt, "delay", delay, "error", lastErr)
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, lastErr
			}
		}
		data, err := fn(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	s.logger.Error("fetch failed permanently", "key", key, "error", lastErr)
	return nil, lastErr
}

// refresh starts (at most) one background refetch for key. The completion
// is discarded if any other write lands on the slot first.
func (s *CatalogService) refresh(key string, fn fetchFn) {
	s.inflightMu.Lock()
	if _, running := s.inflight[key]; running {
		s.inflightMu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
	s.inflight[key] = cancel
	s.inflightMu.Unlock()

	seq := s.cache.Seq(key)

	go func() {
		defer func() {
			cancel()
			s.inflightMu.Lock()
			delete(s.inflight, key)
			s.inflightMu.Unlock()
		}()

		data, err := fn(ctx)
		if err != nil {
			s.logger.Warn("background refresh failed", "key", key, "error", err)
			return
		}
		if !s.cache.CompareAndSet(key, data, seq) {
			s.logger.Debug("background refresh superseded", "key", key)
		}
	}()
}

// cancelRefetch signals any in-flight background refetch for key to stop.
// Best effort: a response already in flight is instead discarded by the
// write-stamp check in CompareAndSet.
func (s *CatalogService) cancelRefetch(key string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if cancel, ok := s.inflight[key]; ok {
		cancel()
		delete(s.inflight, key)
	}
}
