package handlers

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

type TranslateResponse struct {
	SourceLang  string `json:"sourceLang"`
	TargetLang  string `json:"targetLang"`
	Translation string `json:"translation"`
}

type TranscribeResponse struct {
	AudioMIME   string `json:"audioMime"`
	SourceLang  string `json:"sourceLang"`
	TargetLang  string `json:"targetLang"`
	Transcript  string `json:"transcript"`
	Translation string `json:"translation"`
}

type SpeechResponse struct {
	AudioMIME   string `json:"audioMime"`
	AudioBase64 string `json:"audioBase64"`
}
