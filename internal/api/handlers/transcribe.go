package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
)

const defaultAudioMIME = "audio/webm"

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, audioMIME string) (string, error)
}

type TranscribeHandler struct {
	transcriber Transcriber
	translator  Translator
}

func NewTranscribeHandler(s Transcriber, t Translator) *TranscribeHandler {
	return &TranscribeHandler{transcriber: s, translator: t}
}

// TranscribeAndTranslate handles POST /transcribe-and-translate. The translate
// call only runs once the transcript is known, and is skipped for silence.
func (h *TranscribeHandler) TranscribeAndTranslate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, TranscribeBodyLimit)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	audioB64 := stringField(body, "audioBase64", "")
	audioMIME := stringField(body, "audioMime", defaultAudioMIME)
	sourceLang := stringField(body, "sourceLang", defaultSourceLang)
	targetLang := stringField(body, "targetLang", defaultTargetLang)

	if strings.TrimSpace(audioB64) == "" {
		writeError(w, http.StatusBadRequest, "audioBase64 is empty")
		return
	}

	audio, err := decodeBase64(audioB64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audioBase64 is not valid base64")
		return
	}

	resp := TranscribeResponse{
		AudioMIME:  audioMIME,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}

	transcript, err := h.transcriber.Transcribe(r.Context(), audio, audioMIME)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if strings.TrimSpace(transcript) == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	translation, err := h.translator.TranslateText(r.Context(), sourceLang, targetLang, transcript)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	resp.Transcript = transcript
	resp.Translation = translation
	writeJSON(w, http.StatusOK, resp)
}

// decodeBase64 accepts standard-alphabet input with or without padding.
func decodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
