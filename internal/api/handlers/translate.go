package handlers

import (
	"context"
	"net/http"
	"strings"
)

const (
	defaultSourceLang = "auto"
	defaultTargetLang = "ru"
)

// Translator turns text in one language into another.
type Translator interface {
	TranslateText(ctx context.Context, sourceLang, targetLang, text string) (string, error)
}

type TranslateHandler struct {
	translator Translator
}

func NewTranslateHandler(t Translator) *TranslateHandler {
	return &TranslateHandler{translator: t}
}

// Translate handles POST /translate-text.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, TranslateBodyLimit)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	sourceLang := stringField(body, "sourceLang", defaultSourceLang)
	targetLang := stringField(body, "targetLang", defaultTargetLang)
	text := stringField(body, "text", "")

	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text is empty")
		return
	}

	translation, err := h.translator.TranslateText(r.Context(), sourceLang, targetLang, text)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TranslateResponse{
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
		Translation: translation,
	})
}
