package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/nikhilbhutani/localmeetbridge/internal/auth"
)

// LoopbackHost is the only interface the bridge ever listens on.
const LoopbackHost = "127.0.0.1"

const (
	DefaultBaseURL         = "https://api.openai.com"
	DefaultPort            = 8799
	DefaultTranscribeModel = "whisper-1"
	DefaultTextModel       = "gpt-4o-mini"
	DefaultTTSModel        = "gpt-4o-mini-tts"
	DefaultTTSVoice        = "onyx"
	DefaultTTSFormat       = "mp3"
	DefaultTTSSpeed        = 1.0

	mintedTokenLength = 40
)

// ErrMissingAPIKey is returned when OPENAI_API_KEY is not set.
var ErrMissingAPIKey = errors.New("missing required environment variable: OPENAI_API_KEY")

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Upstream UpstreamConfig
	TTS      TTSConfig
}

type ServerConfig struct {
	Port int
}

type AuthConfig struct {
	Token string
	// Minted is true when Token was generated at startup rather than configured.
	Minted bool
}

type UpstreamConfig struct {
	BaseURL         string // never ends with "/"
	APIKey          string
	TranscribeModel string
	TextModel       string
}

type TTSConfig struct {
	Enabled      bool
	Model        string
	Voice        string
	Format       string
	Instructions string
	Speed        float64
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment take precedence over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	port, err := getEnvInt("LOCAL_MEET_TRANSLATOR_PORT", DefaultPort)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCAL_MEET_TRANSLATOR_PORT: %w", err)
	}

	speed, err := getEnvFloat("OPENAI_TTS_SPEED", DefaultTTSSpeed)
	if err != nil {
		return nil, fmt.Errorf("invalid OPENAI_TTS_SPEED: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: port,
		},
		Auth: AuthConfig{
			Token: getEnv("LOCAL_MEET_TRANSLATOR_TOKEN", ""),
		},
		Upstream: UpstreamConfig{
			BaseURL:         strings.TrimRight(getEnv("OPENAI_BASE_URL", DefaultBaseURL), "/"),
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			TranscribeModel: getEnv("OPENAI_TRANSCRIBE_MODEL", DefaultTranscribeModel),
			TextModel:       getEnv("OPENAI_TEXT_MODEL", DefaultTextModel),
		},
		TTS: TTSConfig{
			Enabled:      cast.ToBool(getEnv("ENABLE_TTS", "false")),
			Model:        getEnv("OPENAI_TTS_MODEL", DefaultTTSModel),
			Voice:        getEnv("OPENAI_TTS_VOICE", DefaultTTSVoice),
			Format:       getEnv("OPENAI_TTS_FORMAT", DefaultTTSFormat),
			Instructions: getEnv("OPENAI_TTS_INSTRUCTIONS", ""),
			Speed:        speed,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Auth.Token == "" {
		token, err := auth.MintToken(mintedTokenLength)
		if err != nil {
			return nil, fmt.Errorf("mint auth token: %w", err)
		}
		cfg.Auth.Token = token
		cfg.Auth.Minted = true
	}

	return cfg, nil
}

// Addr is the listen address. The host part is always the loopback interface.
func (c *Config) Addr() string {
	return net.JoinHostPort(LoopbackHost, strconv.Itoa(c.Server.Port))
}

// URL is the base URL the extension should be pointed at.
func (c *Config) URL() string {
	return "http://" + c.Addr()
}

func (c *Config) Validate() error {
	if c.Upstream.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid LOCAL_MEET_TRANSLATOR_PORT: %d out of range", c.Server.Port)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	return cast.ToFloat64E(v)
}
