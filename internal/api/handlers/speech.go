package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/nikhilbhutani/localmeetbridge/internal/upstream"
)

const ttsDisabledMsg = "TTS is disabled. Set ENABLE_TTS=true and restart."

// Speaker synthesizes speech when enabled.
type Speaker interface {
	TTSEnabled() bool
	Speech(ctx context.Context, text string, opts upstream.SpeechOptions) (*upstream.SpeechResult, error)
}

type SpeechHandler struct {
	speaker Speaker
}

func NewSpeechHandler(s Speaker) *SpeechHandler {
	return &SpeechHandler{speaker: s}
}

// Speak handles POST /tts and returns base64 audio.
func (h *SpeechHandler) Speak(w http.ResponseWriter, r *http.Request) {
	if !h.speaker.TTSEnabled() {
		writeError(w, http.StatusForbidden, ttsDisabledMsg)
		return
	}

	body, err := readBody(w, r, SpeechBodyLimit)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	text := stringField(body, "text", "")
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text is empty")
		return
	}

	opts := upstream.SpeechOptions{
		Voice:        stringField(body, "voice", ""),
		Model:        stringField(body, "model", ""),
		Format:       stringField(body, "response_format", ""),
		Instructions: stringField(body, "instructions", ""),
	}
	// A non-numeric speed is ignored rather than rejected.
	if speed := gjson.GetBytes(body, "speed"); speed.Type == gjson.Number {
		v := speed.Float()
		opts.Speed = &v
	}

	result, err := h.speaker.Speech(r.Context(), text, opts)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SpeechResponse{
		AudioMIME:   result.ContentType,
		AudioBase64: base64.StdEncoding.EncodeToString(result.Audio),
	})
}
