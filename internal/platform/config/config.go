package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

var (
	errInvalidPort           = errors.New("config: invalid PORT number")
	errConcurrencyOutOfRange = errors.New("config: LINK_CHECK_CONCURRENCY must be 1-100")
	errLinkLimitOutOfRange   = errors.New("config: LINK_CHECK_LIMIT must be 1-1000")
	errCrawlTimeoutTooSmall  = errors.New("config: CRAWL_TIMEOUT must be at least 1 second")
	errBatchMaxOutOfRange    = errors.New("config: BATCH_MAX_URLS must be 1-50")
)

// Config holds all application configuration.
type Config struct {
	Port                 string `mapstructure:"PORT"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
	CrawlTimeout         int    `mapstructure:"CRAWL_TIMEOUT"`
	LinkCheckConcurrency int    `mapstructure:"LINK_CHECK_CONCURRENCY"`
	LinkCheckLimit       int    `mapstructure:"LINK_CHECK_LIMIT"`
	BatchMaxURLs         int    `mapstructure:"BATCH_MAX_URLS"`
	PageSpeedURL         string `mapstructure:"PAGESPEED_URL"`
	GoogleAPIKey         string `mapstructure:"GOOGLE_API_KEY"`
	LLMModel             string `mapstructure:"LLM_MODEL"`
}

// Load reads configuration from a .env file and the environment, with
// sensible defaults. Environment variables win over the file, which
// allows configuration purely through the environment in production.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// The .env file is optional.
	_ = v.ReadInConfig()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "ERROR")
	v.SetDefault("CRAWL_TIMEOUT", 30) // seconds
	v.SetDefault("LINK_CHECK_CONCURRENCY", 10)
	v.SetDefault("LINK_CHECK_LIMIT", 20)
	v.SetDefault("BATCH_MAX_URLS", 10)
	v.SetDefault("PAGESPEED_URL", "https://www.googleapis.com/pagespeedonline/v5/runPagespeed")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("LLM_MODEL", "gemini-1.5-flash")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.LinkCheckConcurrency < 1 || c.LinkCheckConcurrency > 100 {
		return fmt.Errorf("%w: got %d", errConcurrencyOutOfRange, c.LinkCheckConcurrency)
	}

	if c.LinkCheckLimit < 1 || c.LinkCheckLimit > 1000 {
		return fmt.Errorf("%w: got %d", errLinkLimitOutOfRange, c.LinkCheckLimit)
	}

	if c.CrawlTimeout < 1 {
		return fmt.Errorf("%w: got %d", errCrawlTimeoutTooSmall, c.CrawlTimeout)
	}

	if c.BatchMaxURLs < 1 || c.BatchMaxURLs > 50 {
		return fmt.Errorf("%w: got %d", errBatchMaxOutOfRange, c.BatchMaxURLs)
	}

	return nil
}
