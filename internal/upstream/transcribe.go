package upstream

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"github.com/tidwall/gjson"

	"github.com/nikhilbhutani/localmeetbridge/internal/auth"
)

const boundaryPrefix = "----LocalMeetTranslatorBoundary"

// Transcribe uploads audio and returns the transcript. An empty transcript is
// a valid result for silent audio.
func (c *Client) Transcribe(ctx context.Context, audio []byte, audioMIME string) (string, error) {
	suffix, err := auth.MintToken(12)
	if err != nil {
		return "", fmt.Errorf("transcribe: boundary: %w", err)
	}

	body, contentType, err := buildTranscriptionForm(boundaryPrefix+suffix, c.transcribeModel, audio, NormalizeMIME(audioMIME))
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	respBody, err := c.post(ctx, "transcribe", transcriptionsPath, contentType, transcribeTimeout, body)
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(respBody) {
		return "", fmt.Errorf("transcribe: %w: %s", ErrMalformedResponse, respBody)
	}
	text := gjson.GetBytes(respBody, "text")
	if !text.Exists() || text.Type == gjson.Null {
		return "", fmt.Errorf("transcribe: %w: %s", ErrMissingText, respBody)
	}
	return text.String(), nil
}

// buildTranscriptionForm writes the model field followed by the file part.
// The order matters to some compatible servers.
func buildTranscriptionForm(boundary, model string, audio []byte, mime string) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.SetBoundary(boundary); err != nil {
		return nil, "", fmt.Errorf("set boundary: %w", err)
	}

	if err := mw.WriteField("model", model); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="audio%s"`, ExtForMIME(mime)))
	h.Set("Content-Type", mime)
	fw, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return nil, "", fmt.Errorf("write audio: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
