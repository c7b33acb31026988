package upstream

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/nikhilbhutani/localmeetbridge/internal/config"
)

// fakeProvider records each call and answers with the handler given for its path.
type fakeProvider struct {
	calls  atomic.Int32
	routes map[string]http.HandlerFunc
}

func newFakeProvider(t *testing.T, routes map[string]http.HandlerFunc) (*fakeProvider, *httptest.Server) {
	t.Helper()
	fp := &fakeProvider{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.calls.Add(1)
		h, ok := fp.routes[r.URL.Path]
		if !ok {
			t.Errorf("unexpected upstream call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return fp, srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Upstream: config.UpstreamConfig{
			BaseURL:         baseURL,
			APIKey:          "sk-test",
			TranscribeModel: "whisper-1",
			TextModel:       "gpt-4o-mini",
		},
		TTS: config.TTSConfig{
			Enabled: true,
			Model:   "gpt-4o-mini-tts",
			Voice:   "onyx",
			Format:  "mp3",
			Speed:   1.0,
		},
	}
}

func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Errorf("read: %v", err)
	}
	return b
}
