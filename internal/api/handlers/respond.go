package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
)

// Body ceilings per endpoint.
const (
	TranslateBodyLimit  = 1_000_000
	TranscribeBodyLimit = 12_000_000
	SpeechBodyLimit     = 1_500_000
)

// apiError is a failure the caller caused. It is reported with its own status
// and message and is not logged.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &apiError{status: http.StatusBadRequest, msg: msg}
}

// readBody reads at most limit bytes and requires the result to be valid JSON.
// The body is closed on every path.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &apiError{
				status: http.StatusRequestEntityTooLarge,
				msg:    fmt.Sprintf("Request body too large (limit %d bytes)", limit),
			}
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, badRequest("invalid JSON body")
	}
	return data, nil
}

// stringField returns the textual form of a scalar field, "" for objects and
// arrays, and def when the field is missing or null.
func stringField(body []byte, name, def string) string {
	v := gjson.GetBytes(body, name)
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	case gjson.JSON:
		return ""
	default:
		return def
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"ok":false,"error":"Internal error: response encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{OK: false, Error: msg})
}

// writeFailure classifies err. Client errors keep their status; anything else
// is a 500 and is logged with its type.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.status, apiErr.msg)
		return
	}

	slog.Error("request failed",
		"path", r.URL.Path,
		"type", fmt.Sprintf("%T", err),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "Internal error: "+err.Error())
}

// NotFound answers unknown paths with the JSON error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}
