package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"alcyxob/vidfeed/internal/client"
	"alcyxob/vidfeed/internal/domain"
)

// DirectoryStore is a reactive cache over the server-side video list: the
// fetched items, a loading flag and the last error. It is refreshed on
// demand (view mount, explicit refresh, after a delete) and owns its state
// exclusively.
type DirectoryStore struct {
	videos client.VideoService
	logger zerolog.Logger

	mu      sync.Mutex
	items   []domain.VideoRecord
	loading bool
	lastErr *domain.APIError

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewDirectoryStore creates an empty directory cache.
func NewDirectoryStore(videos client.VideoService, logger zerolog.Logger) *DirectoryStore {
	return &DirectoryStore{
		videos: videos,
		logger: logger.With().Str("component", "directory_store").Logger(),
		subs:   make(map[int]func()),
	}
}

// FetchList refreshes the cached list. On failure the items are cleared and
// the error retained (synthesizing UNKNOWN when the failure is not a
// well-formed APIError). Overlapping calls are not deduplicated: the last
// resolution wins, which is acceptable for mount/refresh triggers.
func (s *DirectoryStore) FetchList(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
	s.notify()

	items, err := s.videos.List(ctx)

	s.mu.Lock()
	if err != nil {
		apiErr, ok := domain.AsAPIError(err)
		if !ok {
			apiErr = &domain.APIError{Code: domain.ErrCodeUnknown, Message: "load failed"}
		}
		s.items = nil
		s.lastErr = apiErr
		s.logger.Error().Err(err).Msg("video list fetch failed")
	} else {
		s.items = items
		s.logger.Debug().Int("count", len(items)).Msg("video list refreshed")
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Items returns a copy of the cached list.
func (s *DirectoryStore) Items() []domain.VideoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.VideoRecord, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *DirectoryStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error from the last fetch, nil after a successful one.
func (s *DirectoryStore) Err() *domain.APIError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (s *DirectoryStore) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *DirectoryStore) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
