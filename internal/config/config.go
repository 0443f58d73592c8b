package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/netlayer/pkg/decoder"
)

const envPrefix = "NETLAYER"

// Config holds the settings for the default network session, loaded from the
// environment and an optional .env file.
type Config struct {
	LogLevel           string        `mapstructure:"log_level"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	UserAgent          string        `mapstructure:"user_agent"`
	HTTPDebug          bool          `mapstructure:"http_debug"`
	DefaultDecoder     string        `mapstructure:"default_decoder"`
}

// Load reads configuration from NETLAYER_* environment variables. envFiles are
// loaded first, in order; missing files are skipped. Variables already set are
// never overridden.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	v.SetDefault("log_level", "info")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("user_agent", "netlayer")
	v.SetDefault("http_debug", false)
	v.SetDefault("default_decoder", "json")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	cfg.DefaultDecoder = strings.ToLower(strings.TrimSpace(cfg.DefaultDecoder))
	if _, err := decoder.DefaultRegistry().DecoderFor(cfg.DefaultDecoder); err != nil {
		return nil, fmt.Errorf("invalid default_decoder: %w", err)
	}

	return &cfg, nil
}
