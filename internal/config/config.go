package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full configuration surface, read once from the environment.
// Provider credentials are optional at startup; a request that needs a
// missing one fails at request time instead.
type Config struct {
	Server ServerConfig
	Upload UploadConfig
	STT    STTConfig
	LLM    LLMConfig
}

type ServerConfig struct {
	Host        string `env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port        int    `env:"SERVER_PORT" env-default:"8080"`
	PingMessage string `env:"PING_MESSAGE" env-default:"ping"`
}

type UploadConfig struct {
	// MaxBytes caps the raw audio body; default 50 MB.
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES" env-default:"52428800"`
}

type STTConfig struct {
	APIKey   string `env:"ELEVENLABS_API_KEY"`
	BaseURL  string `env:"ELEVENLABS_BASE_URL" env-default:"https://api.elevenlabs.io"`
	Model    string `env:"ELEVENLABS_MODEL" env-default:"scribe_v1"`
	Language string `env:"ELEVENLABS_LANGUAGE" env-default:"en"`
}

type LLMConfig struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	Referer string `env:"OPENROUTER_REFERER" env-default:"https://icas.edu"`
	Title   string `env:"OPENROUTER_TITLE" env-default:"ICAS Delegate Sessions Summary"`

	// Models optionally overrides the summarization fallback roster,
	// comma separated, tried in order.
	Models         []string      `env:"SUMMARY_MODELS"`
	Temperature    float64       `env:"SUMMARY_TEMPERATURE" env-default:"0.2"`
	MaxTokens      int           `env:"SUMMARY_MAX_TOKENS" env-default:"1200"`
	AttemptTimeout time.Duration `env:"SUMMARY_ATTEMPT_TIMEOUT" env-default:"45s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
