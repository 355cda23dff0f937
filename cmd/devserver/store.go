package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/vidfeed/internal/domain"
)

// memoryStore holds the stub server's videos. Everything lives in memory;
// this binary is a development fixture, not a product backend.
type memoryStore struct {
	publicURL       string
	processingDelay time.Duration

	mu     sync.Mutex
	nextID int64
	videos map[int64]*storedVideo
	order  []int64
}

type storedVideo struct {
	detail   domain.VideoDetail
	mediaKey string // opaque key under /media/, not the numeric id
}

func newMemoryStore(publicURL string, processingDelay time.Duration) *memoryStore {
	return &memoryStore{
		publicURL:       publicURL,
		processingDelay: processingDelay,
		nextID:          1,
		videos:          make(map[int64]*storedVideo),
	}
}

// add registers an uploaded video. It starts in UPLOADING and flips to
// READY after the processing delay (immediately when the delay is zero),
// simulating server-side transcoding.
func (s *memoryStore) add(title string, sizeBytes int64) domain.VideoRecord {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	v := &storedVideo{
		detail: domain.VideoDetail{
			VideoRecord: domain.VideoRecord{
				ID:        id,
				Title:     title,
				Status:    domain.VideoUploading,
				SizeBytes: sizeBytes,
				CreatedAt: time.Now().Unix(),
			},
		},
		mediaKey: uuid.NewString(),
	}
	s.videos[id] = v
	s.order = append(s.order, id)
	record := v.detail.VideoRecord
	s.mu.Unlock()

	if s.processingDelay <= 0 {
		s.markReady(id)
	} else {
		time.AfterFunc(s.processingDelay, func() { s.markReady(id) })
	}
	// the record as created: callers see UPLOADING even when the flip to
	// READY was immediate
	return record
}

func (s *memoryStore) markReady(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return // deleted while processing
	}
	v.detail.Status = domain.VideoReady
	v.detail.ManifestURL = s.publicURL + "/media/" + v.mediaKey + "/index.m3u8"
}

func (s *memoryStore) list() []domain.VideoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.VideoRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.videos[id].detail.VideoRecord)
	}
	return out
}

func (s *memoryStore) get(id int64) (domain.VideoDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return domain.VideoDetail{}, false
	}
	return v.detail, true
}

func (s *memoryStore) delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return false
	}
	delete(s.videos, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// manifestReady reports whether mediaKey belongs to a READY video.
func (s *memoryStore) manifestReady(mediaKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.videos {
		if v.mediaKey == mediaKey {
			return v.detail.Status == domain.VideoReady
		}
	}
	return false
}
