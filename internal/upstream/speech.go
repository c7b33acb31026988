package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SpeechOptions overrides the configured speech defaults. Blank strings and a
// nil Speed fall back to the defaults.
type SpeechOptions struct {
	Voice        string
	Model        string
	Format       string
	Instructions string
	Speed        *float64
}

// SpeechResult is synthesized audio plus the MIME type implied by its format.
type SpeechResult struct {
	Audio       []byte
	ContentType string
}

type speechRequest struct {
	Model          string  `json:"model"`
	Voice          string  `json:"voice"`
	Input          string  `json:"input"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
	Instructions   string  `json:"instructions,omitempty"`
}

// Speech synthesizes text. Callers are expected to check TTSEnabled first.
func (c *Client) Speech(ctx context.Context, text string, opts SpeechOptions) (*SpeechResult, error) {
	req := c.speechRequest(text, opts)
	result := &SpeechResult{ContentType: MIMEForFormat(req.ResponseFormat)}

	if strings.TrimSpace(text) == "" {
		result.Audio = []byte{}
		return result, nil
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("tts: marshal request: %w", err)
	}

	audio, err := c.post(ctx, "tts", speechPath, "application/json", speechTimeout, data)
	if err != nil {
		return nil, err
	}
	result.Audio = audio
	return result, nil
}

func (c *Client) speechRequest(text string, opts SpeechOptions) speechRequest {
	req := speechRequest{
		Model:          orDefault(opts.Model, c.tts.Model),
		Voice:          orDefault(opts.Voice, c.tts.Voice),
		Input:          text,
		ResponseFormat: orDefault(opts.Format, c.tts.Format),
		Speed:          c.tts.Speed,
	}
	if opts.Speed != nil {
		req.Speed = *opts.Speed
	}

	instructions := c.tts.Instructions
	if strings.TrimSpace(opts.Instructions) != "" {
		instructions = opts.Instructions
	}
	// tts-1 and tts-1-hd reject the instructions field.
	if strings.TrimSpace(instructions) != "" && !strings.HasPrefix(req.Model, "tts-1") {
		req.Instructions = instructions
	}
	return req
}

func orDefault(override, def string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return def
}
