package palace

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds configuration for a memory palace instance.
type Config struct {
	// OpenAI API key for the text-completion service.
	OpenAIKey string `env:"MEMPALACE_OPENAI_KEY"`

	// Completion model (default: "gpt-4o-mini").
	Model string `env:"MEMPALACE_MODEL"`

	// Sampling temperature for insight-extraction prompts (default:
	// 0.3). Connection verdicts are a classification task and always
	// run at a fixed 0.2 regardless of this setting.
	Temperature float64 `env:"MEMPALACE_TEMPERATURE"`

	// Maximum conversation characters per extraction prompt (default: 2000).
	MaxPromptChars int `env:"MEMPALACE_MAX_PROMPT_CHARS"`

	// Maximum existing nodes compared per ingested node (default: 50).
	MaxComparisons int `env:"MEMPALACE_MAX_COMPARISONS"`

	// Path to the SQLite snapshot database (default: "mempalace.db").
	DBPath string `env:"MEMPALACE_DB_PATH"`

	// Per-completion-call timeout (default: 60s). A timeout is treated
	// like any other failed call: zero insights or no connection.
	CallTimeout time.Duration `env:"MEMPALACE_CALL_TIMEOUT"`

	// Maximum results returned by recall; 0 means unlimited.
	RecallLimit int `env:"MEMPALACE_RECALL_LIMIT"`
}

// ConfigFromEnv builds a Config from MEMPALACE_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxPromptChars == 0 {
		cfg.MaxPromptChars = 2000
	}
	if cfg.MaxComparisons == 0 {
		cfg.MaxComparisons = 50
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "mempalace.db"
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 60 * time.Second
	}
}
