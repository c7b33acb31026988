// Package upstream talks to the speech and text provider on behalf of the bridge.
// It is the only place that sees the provider API key.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nikhilbhutani/localmeetbridge/internal/config"
)

const (
	transcriptionsPath = "/v1/audio/transcriptions"
	responsesPath      = "/v1/responses"
	speechPath         = "/v1/audio/speech"

	connectTimeout    = 20 * time.Second
	transcribeTimeout = 120 * time.Second
	translateTimeout  = 60 * time.Second
	speechTimeout     = 60 * time.Second

	// Upper bound on what is buffered from a single upstream reply.
	maxResponseBytes = 64 << 20
)

// Client is safe for concurrent use. It holds one pooled HTTP client for the
// lifetime of the process and makes exactly one attempt per call.
type Client struct {
	baseURL         string
	apiKey          string
	transcribeModel string
	textModel       string
	tts             config.TTSConfig
	httpClient      *http.Client
}

func New(cfg *config.Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext

	return &Client{
		baseURL:         strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		apiKey:          cfg.Upstream.APIKey,
		transcribeModel: cfg.Upstream.TranscribeModel,
		textModel:       cfg.Upstream.TextModel,
		tts:             cfg.TTS,
		httpClient:      &http.Client{Transport: transport},
	}
}

// TTSEnabled reports whether speech synthesis was switched on at startup.
func (c *Client) TTSEnabled() bool { return c.tts.Enabled }

// post sends body to path and returns the reply body for any 2xx status.
// Non-2xx replies come back as *StatusError.
func (c *Client) post(ctx context.Context, op, path, contentType string, timeout time.Duration, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
