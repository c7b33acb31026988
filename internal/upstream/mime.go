package upstream

import "strings"

const octetStream = "application/octet-stream"

var mimeAliases = map[string]string{
	"video/webm":  "audio/webm", // MediaRecorder labels audio-only webm as video
	"audio/x-wav": "audio/wav",
	"audio/mp3":   "audio/mpeg",
	"audio/x-m4a": "audio/mp4",
	"audio/m4a":   "audio/mp4",
}

// NormalizeMIME canonicalizes a browser-reported audio type for the
// transcription upload. It is idempotent.
func NormalizeMIME(mime string) string {
	m := mime
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return octetStream
	}
	if alias, ok := mimeAliases[m]; ok {
		return alias
	}
	return m
}

// ExtForMIME picks the upload filename extension for a normalized MIME type.
func ExtForMIME(mime string) string {
	m := strings.ToLower(mime)
	switch {
	case strings.Contains(m, "webm"):
		return ".webm"
	case strings.Contains(m, "wav"):
		return ".wav"
	case strings.Contains(m, "mpeg"), strings.Contains(m, "mp3"):
		return ".mp3"
	case strings.Contains(m, "mp4"), strings.Contains(m, "m4a"):
		return ".m4a"
	case strings.Contains(m, "ogg"):
		return ".ogg"
	default:
		return ".bin"
	}
}

// MIMEForFormat maps a speech response_format to the MIME type returned to the caller.
func MIMEForFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "flac":
		return "audio/flac"
	case "aac":
		return "audio/aac"
	case "opus":
		return "audio/opus"
	case "pcm":
		return "audio/pcm"
	default:
		return octetStream
	}
}
