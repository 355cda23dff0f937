package player

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManifest = "#EXTM3U\n#EXT-X-VERSION:3\n#EXTINF:4.0,\nsegment0.ts\n#EXT-X-ENDLIST\n"

type recordingSink struct {
	played  []string
	playErr error
}

func (s *recordingSink) Play(url string) error {
	s.played = append(s.played, url)
	return s.playErr
}

func engineErrorFrom(t *testing.T, err error) EngineError {
	t.Helper()
	require.Error(t, err)
	var engErr EngineError
	require.True(t, errors.As(err, &engErr), "expected an EngineError, got %v", err)
	return engErr
}

func TestLoadAndAttach(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.apple.mpegurl")
		w.Write([]byte(validManifest))
	}))
	defer srv.Close()

	e := NewHLSEngine(zerolog.Nop())
	defer e.Destroy()

	manifestURL := srv.URL + "/media/key/index.m3u8"
	require.NoError(t, e.Load(manifestURL))

	sink := &recordingSink{}
	require.NoError(t, e.Attach(sink))
	assert.Equal(t, []string{manifestURL}, sink.played)
}

func TestLoadClassifiesHTTPFailureAsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewHLSEngine(zerolog.Nop())
	defer e.Destroy()

	err := e.Load(srv.URL + "/media/key/index.m3u8")
	engErr := engineErrorFrom(t, err)
	assert.Equal(t, ErrorTypeNetwork, engErr.Type)
	assert.True(t, engErr.Fatal)
}

func TestLoadClassifiesConnectionFailureAsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	e := NewHLSEngine(zerolog.Nop())
	defer e.Destroy()

	engErr := engineErrorFrom(t, e.Load(srv.URL+"/index.m3u8"))
	assert.Equal(t, ErrorTypeNetwork, engErr.Type)
	assert.True(t, engErr.Fatal)
}

func TestLoadClassifiesGarbageAsMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not a playlist</html>"))
	}))
	defer srv.Close()

	e := NewHLSEngine(zerolog.Nop())
	defer e.Destroy()

	engErr := engineErrorFrom(t, e.Load(srv.URL+"/index.m3u8"))
	assert.Equal(t, ErrorTypeMedia, engErr.Type)
	assert.True(t, engErr.Fatal)
}

func TestAttachWithoutLoad(t *testing.T) {
	e := NewHLSEngine(zerolog.Nop())
	defer e.Destroy()

	engErr := engineErrorFrom(t, e.Attach(&recordingSink{}))
	assert.Equal(t, ErrorTypeMedia, engErr.Type)
}

func TestAttachSinkFailureEmitsFatalMediaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validManifest))
	}))
	defer srv.Close()

	e := NewHLSEngine(zerolog.Nop())
	defer e.Destroy()
	require.NoError(t, e.Load(srv.URL+"/index.m3u8"))

	var emitted []EngineError
	e.OnError(func(err EngineError) { emitted = append(emitted, err) })

	sink := &recordingSink{playErr: errors.New("cannot play")}
	require.Error(t, e.Attach(sink))
	require.Len(t, emitted, 1)
	assert.Equal(t, ErrorTypeMedia, emitted[0].Type)
	assert.True(t, emitted[0].Fatal)
}

func TestDestroyIsIdempotent(t *testing.T) {
	e := NewHLSEngine(zerolog.Nop())
	e.Destroy()
	e.Destroy() // second call must be a no-op
}
