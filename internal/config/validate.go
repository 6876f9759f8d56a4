package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateBackoff(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProvider() error {
	if c.Provider.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/pressmark/config.toml"
		}
		return fmt.Errorf("provider.token is required. Set DISCOGS_TOKEN env var or edit %s (create with 'pressmark config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Provider.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("provider.base_url %q is not an absolute URL", c.Provider.BaseURL)
	}
	if strings.TrimSpace(c.Provider.UserAgent) == "" {
		return errors.New("provider.user_agent must be set")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if err := ensurePositiveMap(map[string]int{
		"resolver.batch_size":             c.Resolver.BatchSize,
		"resolver.poll_interval_seconds":  c.Resolver.PollIntervalSeconds,
		"resolver.ocr_timeout_seconds":    c.Resolver.OCRTimeoutSeconds,
		"resolver.lookup_timeout_seconds": c.Resolver.LookupTimeoutSeconds,
		"resolver.stale_claim_seconds":    c.Resolver.StaleClaimSeconds,
	}); err != nil {
		return err
	}
	if c.Resolver.CommitThreshold < 1 || c.Resolver.CommitThreshold > 100 {
		return errors.New("resolver.commit_threshold must be between 1 and 100")
	}
	if c.Resolver.RunnerUpGap < 0 || c.Resolver.RunnerUpGap > 100 {
		return errors.New("resolver.runner_up_gap must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateBackoff() error {
	if err := ensurePositiveMap(map[string]int{
		"backoff.api_error_seconds":  c.Backoff.APIErrorSeconds,
		"backoff.offline_seconds":    c.Backoff.OfflineSeconds,
		"backoff.rate_limit_seconds": c.Backoff.RateLimitSeconds,
		"backoff.max_delay_seconds":  c.Backoff.MaxDelaySeconds,
	}); err != nil {
		return err
	}
	if c.Backoff.MaxDelaySeconds < c.Backoff.RateLimitSeconds {
		return errors.New("backoff.max_delay_seconds must be at least backoff.rate_limit_seconds")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
