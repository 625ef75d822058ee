package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode       string `yaml:"mode"`        // DRY_RUN or LIVE
	DataSource string `yaml:"data_source"` // STATIC or LIVE market data
	Exchange   string `yaml:"exchange"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or empty for noop
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`

	Agent struct {
		MaxTurns int `yaml:"max_turns"`
	} `yaml:"agent"`

	Platform struct {
		BaseURL     string `yaml:"base_url"`
		TokenEnv    string `yaml:"token_env"`
		TimeoutSecs int    `yaml:"timeout_secs"`
	} `yaml:"platform"`

	EconData struct {
		BaseURL       string  `yaml:"base_url"`
		APIKeyEnv     string  `yaml:"api_key_env"`
		CacheDir      string  `yaml:"cache_dir"`
		CacheTTLHours int     `yaml:"cache_ttl_hours"`
		RateLimit     float64 `yaml:"rate_limit_per_sec"`
	} `yaml:"econdata"`

	MarketData struct {
		InstrumentTokens map[string]uint32 `yaml:"instrument_tokens"`
	} `yaml:"market_data"`

	News struct {
		Enabled       bool `yaml:"enabled"`
		MaxArticles   int  `yaml:"max_articles"`
		CacheTTLHours int  `yaml:"cache_ttl_hours"`
		TimeoutSecs   int  `yaml:"timeout_secs"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.DataSource != "STATIC" && c.DataSource != "LIVE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'LIVE'", c.DataSource)
	}
	switch c.LLM.Provider {
	case "", "OPENAI", "CLAUDE":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI', 'CLAUDE' or empty", c.LLM.Provider)
	}
	if c.Agent.MaxTurns <= 0 || c.Agent.MaxTurns > 50 {
		return fmt.Errorf("agent.max_turns must be between 1-50, got %d", c.Agent.MaxTurns)
	}
	if c.Platform.BaseURL == "" {
		return errors.New("platform.base_url cannot be empty")
	}
	return nil
}

// PlatformTimeout returns the configured platform HTTP timeout.
func (c *Config) PlatformTimeout() time.Duration {
	return time.Duration(c.Platform.TimeoutSecs) * time.Second
}

// EconCacheTTL returns the configured economic data cache TTL.
func (c *Config) EconCacheTTL() time.Duration {
	return time.Duration(c.EconData.CacheTTLHours) * time.Hour
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.Agent.MaxTurns == 0 {
		c.Agent.MaxTurns = 8
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.Platform.TimeoutSecs == 0 {
		c.Platform.TimeoutSecs = 30
	}
	if c.Platform.TokenEnv == "" {
		c.Platform.TokenEnv = "PLATFORM_API_TOKEN"
	}
	if c.EconData.BaseURL == "" {
		c.EconData.BaseURL = "https://api.stlouisfed.org/fred"
	}
	if c.EconData.APIKeyEnv == "" {
		c.EconData.APIKeyEnv = "ECONDATA_API_KEY"
	}
	if c.EconData.CacheTTLHours == 0 {
		c.EconData.CacheTTLHours = 12
	}
	if c.EconData.RateLimit == 0 {
		c.EconData.RateLimit = 2
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.CacheTTLHours == 0 {
		c.News.CacheTTLHours = 1
	}
	if c.News.TimeoutSecs == 0 {
		c.News.TimeoutSecs = 15
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
