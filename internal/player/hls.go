package player

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// manifest bodies larger than this are not plausible playlists
const maxManifestBytes = 1 << 20

// HLSEngine is a minimal HLS engine: it fetches and validates the playlist,
// then hands the manifest URL to the sink. Failures are classified the way
// streaming players classify them — transport problems are network errors,
// malformed playlists are media errors.
type HLSEngine struct {
	httpClient *http.Client
	logger     zerolog.Logger

	mu          sync.Mutex
	manifestURL string
	onError     func(EngineError)
	destroyed   bool
}

// NewHLSEngine creates an engine ready for a single Load/Attach cycle.
func NewHLSEngine(logger zerolog.Logger) *HLSEngine {
	return &HLSEngine{
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "hls_engine").Logger(),
	}
}

// Load fetches the manifest and validates that it is an HLS playlist.
func (e *HLSEngine) Load(manifestURL string) error {
	resp, err := e.httpClient.Get(manifestURL)
	if err != nil {
		return EngineError{Type: ErrorTypeNetwork, Fatal: true, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return EngineError{
			Type:  ErrorTypeNetwork,
			Fatal: true,
			Cause: fmt.Errorf("manifest request returned status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return EngineError{Type: ErrorTypeNetwork, Fatal: true, Cause: err}
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "#EXTM3U") {
		return EngineError{
			Type:  ErrorTypeMedia,
			Fatal: true,
			Cause: fmt.Errorf("response is not an HLS playlist"),
		}
	}

	e.mu.Lock()
	e.manifestURL = manifestURL
	e.mu.Unlock()
	e.logger.Debug().Str("manifest", manifestURL).Msg("manifest loaded")
	return nil
}

// Attach hands the loaded manifest to the sink. Sink failures after this
// point are reported through the OnError handler as fatal media errors.
func (e *HLSEngine) Attach(sink MediaSink) error {
	e.mu.Lock()
	url := e.manifestURL
	e.mu.Unlock()
	if url == "" {
		return EngineError{
			Type:  ErrorTypeMedia,
			Fatal: true,
			Cause: fmt.Errorf("no manifest loaded"),
		}
	}
	if err := sink.Play(url); err != nil {
		e.emit(EngineError{Type: ErrorTypeMedia, Fatal: true, Cause: err})
		return err
	}
	return nil
}

// OnError registers the handler for asynchronous engine errors.
func (e *HLSEngine) OnError(fn func(EngineError)) {
	e.mu.Lock()
	e.onError = fn
	e.mu.Unlock()
}

func (e *HLSEngine) emit(err EngineError) {
	e.mu.Lock()
	fn := e.onError
	destroyed := e.destroyed
	e.mu.Unlock()
	if fn != nil && !destroyed {
		fn(err)
	}
}

// Destroy releases the engine. Idempotent.
func (e *HLSEngine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.onError = nil
	e.mu.Unlock()

	e.httpClient.CloseIdleConnections()
	e.logger.Debug().Msg("engine destroyed")
}

type hlsFactory struct {
	logger zerolog.Logger
}

// NewHLSFactory returns a factory producing HLSEngines. It reports no
// native HLS support, so the controller always goes through the engine.
func NewHLSFactory(logger zerolog.Logger) EngineFactory {
	return &hlsFactory{logger: logger}
}

func (f *hlsFactory) NativeHLS() bool { return false }

func (f *hlsFactory) New() Engine { return NewHLSEngine(f.logger) }
