package api

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/localmeetbridge/internal/config"
	"github.com/nikhilbhutani/localmeetbridge/internal/upstream"
)

// provider is a stand-in for the speech and text API that counts calls per path.
type provider struct {
	mu    sync.Mutex
	calls map[string]int
	reply map[string]string
}

func (p *provider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.calls[r.URL.Path]++
	body, ok := p.reply[r.URL.Path]
	p.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer sk-e2e" || !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Write([]byte(body))
}

func (p *provider) count(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[path]
}

func (p *provider) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

type bridge struct {
	url      string
	provider *provider
}

func startBridge(t *testing.T, ttsEnabled bool, reply map[string]string) *bridge {
	t.Helper()
	p := &provider{calls: map[string]int{}, reply: reply}
	upstreamSrv := httptest.NewServer(p)
	t.Cleanup(upstreamSrv.Close)

	cfg := &config.Config{
		Auth: config.AuthConfig{Token: testToken},
		Upstream: config.UpstreamConfig{
			BaseURL:         upstreamSrv.URL,
			APIKey:          "sk-e2e",
			TranscribeModel: config.DefaultTranscribeModel,
			TextModel:       config.DefaultTextModel,
		},
		TTS: config.TTSConfig{
			Enabled: ttsEnabled,
			Model:   config.DefaultTTSModel,
			Voice:   config.DefaultTTSVoice,
			Format:  config.DefaultTTSFormat,
			Speed:   config.DefaultTTSSpeed,
		},
	}

	ln, err := ListenLoopback(cfg.Addr())
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(NewRouter(cfg.Auth.Token, upstream.New(cfg)).Setup())
	srv.Listener.Close()
	srv.Listener = ln
	srv.Start()
	t.Cleanup(srv.Close)

	return &bridge{url: srv.URL, provider: p}
}

func (b *bridge) do(t *testing.T, method, path, body string, headers map[string]string) (int, http.Header, string) {
	t.Helper()
	req, err := http.NewRequest(method, b.url+path, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header, string(data)
}

var authed = map[string]string{"X-Auth-Token": testToken, "Content-Type": "application/json"}

func TestEndToEndTranslate(t *testing.T) {
	b := startBridge(t, false, map[string]string{
		"/v1/responses": `{"output":[{"content":[{"type":"output_text","text":"Привет, мир."}]}]}`,
	})

	status, header, body := b.do(t, http.MethodPost, "/translate-text",
		`{"sourceLang":"en","targetLang":"ru","text":"Hello, world."}`, authed)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json; charset=utf-8", header.Get("Content-Type"))
	assert.Equal(t, `{"sourceLang":"en","targetLang":"ru","translation":"Привет, мир."}`, body)
	assert.Equal(t, 1, b.provider.count("/v1/responses"))
}

func TestEndToEndSilentChunk(t *testing.T) {
	b := startBridge(t, false, map[string]string{
		"/v1/audio/transcriptions": `{"text":""}`,
		"/v1/responses":            `{"output":[{"content":[{"type":"output_text","text":"never"}]}]}`,
	})

	req := `{"audioBase64":"` + base64.StdEncoding.EncodeToString([]byte("quiet")) + `","audioMime":"audio/webm"}`
	status, _, body := b.do(t, http.MethodPost, "/transcribe-and-translate", req, authed)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t,
		`{"audioMime":"audio/webm","sourceLang":"auto","targetLang":"ru","transcript":"","translation":""}`, body)
	assert.Equal(t, 1, b.provider.count("/v1/audio/transcriptions"))
	assert.Equal(t, 0, b.provider.count("/v1/responses"))
}

func TestEndToEndTranscribeThenTranslate(t *testing.T) {
	b := startBridge(t, false, map[string]string{
		"/v1/audio/transcriptions": `{"text":"Good morning"}`,
		"/v1/responses":            `{"output":[{"content":[{"type":"output_text","text":"Доброе утро"}]}]}`,
	})

	req := `{"audioBase64":"` + base64.StdEncoding.EncodeToString([]byte("speech")) + `","sourceLang":"en"}`
	status, _, body := b.do(t, http.MethodPost, "/transcribe-and-translate", req, authed)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t,
		`{"audioMime":"audio/webm","sourceLang":"en","targetLang":"ru","transcript":"Good morning","translation":"Доброе утро"}`, body)
	assert.Equal(t, 2, b.provider.total())
}

func TestEndToEndBadBase64(t *testing.T) {
	b := startBridge(t, false, nil)

	status, _, body := b.do(t, http.MethodPost, "/transcribe-and-translate", `{"audioBase64":"@@@not-base64@@@"}`, authed)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"ok":false,"error":"audioBase64 is not valid base64"}`, body)
	assert.Zero(t, b.provider.total())
}

func TestEndToEndTTSDisabled(t *testing.T) {
	b := startBridge(t, false, nil)

	status, _, body := b.do(t, http.MethodPost, "/tts", `{"text":"Hi"}`, authed)

	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"ok":false,"error":"TTS is disabled. Set ENABLE_TTS=true and restart."}`, body)
	assert.Zero(t, b.provider.total())
}

func TestEndToEndTTS(t *testing.T) {
	b := startBridge(t, true, map[string]string{"/v1/audio/speech": "ID3-audio"})

	status, _, body := b.do(t, http.MethodPost, "/tts", `{"text":"Hi"}`, authed)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"audioMime":"audio/mpeg","audioBase64":"`+base64.StdEncoding.EncodeToString([]byte("ID3-audio"))+`"}`, body)
}

func TestEndToEndMissingAuth(t *testing.T) {
	b := startBridge(t, false, map[string]string{
		"/v1/responses": `{"output":[{"content":[{"type":"output_text","text":"x"}]}]}`,
	})

	status, _, body := b.do(t, http.MethodPost, "/translate-text", `{"text":"x"}`,
		map[string]string{"Content-Type": "application/json"})

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"ok":false,"error":"Missing or invalid X-Auth-Token"}`, body)
	assert.Zero(t, b.provider.total())
}

func TestEndToEndPreflight(t *testing.T) {
	b := startBridge(t, true, nil)

	status, header, body := b.do(t, http.MethodOptions, "/tts", "", map[string]string{
		"Origin":                         "chrome-extension://abcdef",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "content-type,x-auth-token",
	})

	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, body)
	assertCORS(t, header)
	assert.Zero(t, b.provider.total())
}

func TestEndToEndUpstreamError(t *testing.T) {
	b := startBridge(t, false, nil)

	status, _, body := b.do(t, http.MethodPost, "/translate-text", `{"text":"hello"}`, authed)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "HTTP 401")
	assert.NotContains(t, body, "sk-e2e")
	assert.NotContains(t, body, testToken)
}
