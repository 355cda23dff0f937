package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alcyxob/vidfeed/internal/client"
	"alcyxob/vidfeed/internal/domain"
)

// UploadManager owns the collection of in-flight and failed upload attempts.
// Attempts are keyed by a locally generated uuid, kept in insertion order,
// and mutated only through the manager's own methods.
//
// A successful attempt is removed from the collection: its terminal state is
// absence, not an observable success status. A failed attempt is retained
// until RemoveUploadItem dismisses it; it is never retried automatically.
type UploadManager struct {
	uploads client.UploadService
	logger  zerolog.Logger

	mu       sync.Mutex
	attempts map[string]*domain.UploadAttempt
	order    []string
	quiet    *sync.Cond

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewUploadManager creates an empty upload manager.
func NewUploadManager(uploads client.UploadService, logger zerolog.Logger) *UploadManager {
	m := &UploadManager{
		uploads:  uploads,
		logger:   logger.With().Str("component", "upload_manager").Logger(),
		attempts: make(map[string]*domain.UploadAttempt),
		subs:     make(map[int]func()),
	}
	m.quiet = sync.NewCond(&m.mu)
	return m
}

// StartUpload registers a new attempt and fires the transfer in the
// background, returning the attempt id immediately. The attempt is visible
// through Uploads before the transfer resolves; progress events mutate it
// incrementally. Multiple in-flight uploads are independent: each keyed by
// its own id, none touching another's state.
//
// Validation is deliberately absent here; callers apply the guards from
// domain.ValidateUpload before starting an upload.
func (m *UploadManager) StartUpload(file client.UploadFile, title string) string {
	id := uuid.NewString()

	m.mu.Lock()
	m.attempts[id] = &domain.UploadAttempt{
		ID:     id,
		Title:  title,
		Status: domain.UploadStatusUploading,
	}
	m.order = append(m.order, id)
	m.mu.Unlock()
	m.notify()

	m.logger.Info().Str("attemptId", id).Str("title", title).Msg("upload started")
	go m.run(id, file, title)
	return id
}

func (m *UploadManager) run(id string, file client.UploadFile, title string) {
	// Background context by contract: there is no cancellation or timeout
	// for an in-flight upload, so a hung transfer leaves its attempt in
	// uploading indefinitely.
	video, err := m.uploads.Upload(context.Background(), file, title, func(pct int) {
		m.setProgress(id, pct)
	})
	if err != nil {
		m.fail(id, err)
		return
	}
	m.complete(id, video)
}

// setProgress applies a progress event to the originating attempt. An event
// for an id no longer in the collection is a no-op and never resurrects it.
func (m *UploadManager) setProgress(id string, pct int) {
	m.mu.Lock()
	a, ok := m.attempts[id]
	if ok {
		a.Progress = pct
	}
	m.mu.Unlock()
	if ok {
		m.notify()
	}
}

func (m *UploadManager) complete(id string, video *domain.VideoRecord) {
	m.mu.Lock()
	m.removeLocked(id)
	m.quiet.Broadcast()
	m.mu.Unlock()

	m.logger.Info().Str("attemptId", id).Int64("videoId", video.ID).Msg("upload finished")
	m.notify()
}

func (m *UploadManager) fail(id string, err error) {
	msg := domain.ErrorMessage(err, "upload failed")

	m.mu.Lock()
	if a, ok := m.attempts[id]; ok {
		a.Status = domain.UploadStatusFailed
		a.Error = msg
	}
	m.quiet.Broadcast()
	m.mu.Unlock()

	m.logger.Error().Err(err).Str("attemptId", id).Msg("upload failed")
	m.notify()
}

// RemoveUploadItem dismisses an attempt unconditionally. No-op when the id
// is absent.
func (m *UploadManager) RemoveUploadItem(id string) {
	m.mu.Lock()
	_, ok := m.attempts[id]
	if ok {
		m.removeLocked(id)
	}
	m.mu.Unlock()
	if ok {
		m.notify()
	}
}

func (m *UploadManager) removeLocked(id string) {
	delete(m.attempts, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Uploads returns a snapshot of all tracked attempts in insertion order.
func (m *UploadManager) Uploads() []domain.UploadAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UploadAttempt, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.attempts[id])
	}
	return out
}

// ActiveUploads returns the subsequence of attempts still uploading, in
// collection order. Recomputed on every call, never cached.
func (m *UploadManager) ActiveUploads() []domain.UploadAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.UploadAttempt
	for _, id := range m.order {
		if a := m.attempts[id]; a.Status == domain.UploadStatusUploading {
			out = append(out, *a)
		}
	}
	return out
}

// Subscribe registers fn to run after every collection mutation. The
// returned function unsubscribes. Callbacks run outside the collection lock.
func (m *UploadManager) Subscribe(fn func()) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *UploadManager) notify() {
	m.subMu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Wait blocks until no attempt is in the uploading state. Failed attempts
// do not block it; a hung transfer does, matching the no-timeout contract.
func (m *UploadManager) Wait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.uploadingLocked() > 0 {
		m.quiet.Wait()
	}
}

func (m *UploadManager) uploadingLocked() int {
	n := 0
	for _, a := range m.attempts {
		if a.Status == domain.UploadStatusUploading {
			n++
		}
	}
	return n
}
