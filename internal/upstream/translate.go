package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	defaultSourceLang = "auto"
	defaultTargetLang = "ru"
)

type responsesRequest struct {
	Model       string  `json:"model"`
	Input       string  `json:"input"`
	Temperature float64 `json:"temperature"`
}

// TranslateText returns text translated into targetLang. Blank text short-circuits
// to "" without contacting the provider.
func (c *Client) TranslateText(ctx context.Context, sourceLang, targetLang, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	data, err := json.Marshal(responsesRequest{
		Model:       c.textModel,
		Input:       BuildTranslatePrompt(sourceLang, targetLang, text),
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("translate: marshal request: %w", err)
	}

	respBody, err := c.post(ctx, "translate", responsesPath, "application/json", translateTimeout, data)
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(respBody) {
		return "", fmt.Errorf("translate: %w: %s", ErrMalformedResponse, respBody)
	}
	out := ExtractOutputText(respBody)
	if out == "" {
		return "", fmt.Errorf("translate: %w: %s", ErrNoOutputText, respBody)
	}
	return out, nil
}

func BuildTranslatePrompt(sourceLang, targetLang, text string) string {
	src := strings.TrimSpace(sourceLang)
	if src == "" {
		src = defaultSourceLang
	}
	tgt := strings.TrimSpace(targetLang)
	if tgt == "" {
		tgt = defaultTargetLang
	}

	var sb strings.Builder
	sb.WriteString("Task: Translate.\n")
	sb.WriteString("Source language: " + src + "\n")
	sb.WriteString("Target language: " + tgt + "\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1) Return ONLY the translation.\n")
	sb.WriteString("2) Preserve meaning, numbers, names, and formatting.\n")
	sb.WriteString("3) If the source is already in target language, return it unchanged.\n")
	sb.WriteString("\n")
	sb.WriteString("Text:\n")
	sb.WriteString(text)
	return sb.String()
}

// ExtractOutputText walks the "output" tree in document order and joins every
// non-blank text whose sibling type is "output_text". Other content kinds are skipped,
// however deeply they are nested.
func ExtractOutputText(body []byte) string {
	var parts []string

	var walk func(v gjson.Result)
	walk = func(v gjson.Result) {
		if !v.IsObject() && !v.IsArray() {
			return
		}
		if v.IsObject() && v.Get("type").String() == "output_text" {
			if t := v.Get("text"); t.Exists() && strings.TrimSpace(t.String()) != "" {
				parts = append(parts, t.String())
			}
		}
		v.ForEach(func(_, child gjson.Result) bool {
			walk(child)
			return true
		})
	}
	walk(gjson.GetBytes(body, "output"))

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
