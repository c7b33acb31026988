package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingText means a transcription reply had no "text" field.
	ErrMissingText = errors.New("transcription response has no 'text'")
	// ErrNoOutputText means a responses reply carried no non-blank output_text.
	ErrNoOutputText = errors.New("responses reply has no output_text")
	// ErrMalformedResponse means a 2xx reply was not valid JSON.
	ErrMalformedResponse = errors.New("upstream response is not valid JSON")
)

// StatusError is a non-2xx reply from the provider.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s failed: HTTP %d %s", e.Op, e.StatusCode, e.Body)
}
