// Package player abstracts the adaptive-streaming engine the playback
// controller drives. The engine itself is a black box: it consumes a
// manifest URL and reports classified errors.
package player

import "fmt"

// ErrorType classifies engine failures.
type ErrorType string

const (
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeMedia   ErrorType = "media"
)

// EngineError is an error reported by a streaming engine. Only fatal
// errors abort playback; non-fatal ones are recoverable by the engine.
type EngineError struct {
	Type  ErrorType
	Fatal bool
	Cause error
}

func (e EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("%s error", e.Type)
}

func (e EngineError) Unwrap() error { return e.Cause }

// MediaSink receives the playable source, standing in for the media element.
type MediaSink interface {
	Play(url string) error
}

// Engine is the streaming-engine contract. Load fetches the manifest,
// Attach binds the engine to a sink, OnError registers the handler for
// asynchronous playback errors, and Destroy releases the engine. Destroy
// must be safe to call more than once.
type Engine interface {
	Load(manifestURL string) error
	Attach(sink MediaSink) error
	OnError(fn func(EngineError))
	Destroy()
}

// EngineFactory creates engines on demand.
type EngineFactory interface {
	// NativeHLS reports whether the sink consumes HLS manifests directly,
	// in which case no engine is instantiated at all.
	NativeHLS() bool
	New() Engine
}
