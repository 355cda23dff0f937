package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"alcyxob/vidfeed/internal/client"
	"alcyxob/vidfeed/internal/domain"
	"alcyxob/vidfeed/internal/player"
)

// PlaybackState is the lifecycle state of a playback session.
type PlaybackState string

const (
	StateIdle     PlaybackState = "idle"
	StateLoading  PlaybackState = "loading"
	StateReady    PlaybackState = "ready"
	StateNotReady PlaybackState = "not-ready"
	StateError    PlaybackState = "error"
)

// DeleteConfirmPrompt is shown before a video is deleted.
const DeleteConfirmPrompt = "Delete this video? This cannot be undone."

// NotReadyMessage is shown while a video is still processing.
const NotReadyMessage = "video is processing, not yet playable"

// PlaybackSession binds one video's manifest to a streaming engine and
// guarantees teardown. A record whose status is not READY is never handed
// to the engine; Close destroys an instantiated engine exactly once, even
// when playback never reached ready.
type PlaybackSession struct {
	videos    client.VideoService
	directory *DirectoryStore
	engines   player.EngineFactory
	sink      player.MediaSink
	logger    zerolog.Logger

	mu      sync.Mutex
	state   PlaybackState
	detail  *domain.VideoDetail
	errText string
	engine  player.Engine
	closed  bool
}

// NewPlaybackSession creates an idle session. The directory store is
// refreshed after a successful delete; it may be nil when no list view
// needs refreshing.
func NewPlaybackSession(videos client.VideoService, directory *DirectoryStore, engines player.EngineFactory, sink player.MediaSink, logger zerolog.Logger) *PlaybackSession {
	return &PlaybackSession{
		videos:    videos,
		directory: directory,
		engines:   engines,
		sink:      sink,
		logger:    logger.With().Str("component", "playback").Logger(),
		state:     StateIdle,
	}
}

// Load fetches the video detail and, when the video is READY, attaches the
// streaming engine (or hands the manifest straight to the sink when it
// plays HLS natively). A non-READY record ends in not-ready without the
// engine ever being touched; a fetch failure ends in error.
func (s *PlaybackSession) Load(ctx context.Context, id int64) {
	s.setState(StateLoading)

	detail, err := s.videos.Detail(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("videoId", id).Msg("detail fetch failed")
		s.enterError(domain.ErrorMessage(err, "request failed"))
		return
	}

	s.mu.Lock()
	s.detail = detail
	s.mu.Unlock()

	if !detail.Playable() {
		s.logger.Info().Int64("videoId", id).Str("status", string(detail.Status)).Msg("video not playable yet")
		s.setState(StateNotReady)
		return
	}

	if s.engines.NativeHLS() {
		if err := s.sink.Play(detail.ManifestURL); err != nil {
			s.enterError(err.Error())
			return
		}
		s.setState(StateReady)
		return
	}

	eng := s.engines.New()
	s.mu.Lock()
	if s.closed {
		// Navigated away while the detail fetch was in flight.
		s.mu.Unlock()
		eng.Destroy()
		return
	}
	s.engine = eng
	s.mu.Unlock()

	eng.OnError(s.handleEngineError)
	if err := eng.Load(detail.ManifestURL); err != nil {
		s.enterError(err.Error())
		return
	}
	if err := eng.Attach(s.sink); err != nil {
		s.enterError(err.Error())
		return
	}
	s.setState(StateReady)
}

// handleEngineError surfaces fatal network/media errors as a visible error
// state. Non-fatal errors are the engine's business to recover from.
func (s *PlaybackSession) handleEngineError(e player.EngineError) {
	if !e.Fatal {
		s.logger.Debug().Str("type", string(e.Type)).Err(e.Cause).Msg("recoverable engine error")
		return
	}
	s.logger.Error().Str("type", string(e.Type)).Err(e.Cause).Msg("fatal engine error")
	s.enterError(e.Error())
}

// Delete removes the loaded video after the caller confirms the prompt.
// Declining is a no-op. On success the directory is refreshed; on failure
// the error is surfaced in the session without leaving the view. Returns
// whether the video was deleted.
func (s *PlaybackSession) Delete(ctx context.Context, confirm func(prompt string) bool) bool {
	s.mu.Lock()
	detail := s.detail
	s.mu.Unlock()
	if detail == nil {
		return false
	}

	if confirm == nil || !confirm(DeleteConfirmPrompt) {
		return false
	}

	if err := s.videos.Delete(ctx, detail.ID); err != nil {
		s.logger.Error().Err(err).Int64("videoId", detail.ID).Msg("delete failed")
		s.setErrorText(domain.ErrorMessage(err, "request failed"))
		return false
	}

	s.logger.Info().Int64("videoId", detail.ID).Msg("video deleted")
	if s.directory != nil {
		s.directory.FetchList(ctx)
	}
	return true
}

// Close tears the session down. Safe to call at any time and more than
// once; the engine, when one was instantiated, is destroyed exactly once.
func (s *PlaybackSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	eng := s.engine
	s.engine = nil
	s.mu.Unlock()

	if eng != nil {
		eng.Destroy()
	}
}

// State returns the current session state.
func (s *PlaybackSession) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Detail returns a copy of the fetched detail, nil before Load resolves.
func (s *PlaybackSession) Detail() *domain.VideoDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return nil
	}
	d := *s.detail
	return &d
}

// ErrorText returns the "Error: "-prefixed message of the last failure,
// empty when none occurred. A delete failure sets it without changing the
// playback state.
func (s *PlaybackSession) ErrorText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errText
}

func (s *PlaybackSession) setState(state PlaybackState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *PlaybackSession) enterError(msg string) {
	s.mu.Lock()
	s.state = StateError
	s.errText = "Error: " + msg
	s.mu.Unlock()
}

func (s *PlaybackSession) setErrorText(msg string) {
	s.mu.Lock()
	s.errText = "Error: " + msg
	s.mu.Unlock()
}
