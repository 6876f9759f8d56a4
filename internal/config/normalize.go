package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProvider()
	c.normalizeResolver()
	c.normalizeBackoff()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProvider() {
	c.Provider.Token = strings.TrimSpace(c.Provider.Token)
	if c.Provider.Token == "" {
		if value, ok := os.LookupEnv("DISCOGS_TOKEN"); ok {
			c.Provider.Token = strings.TrimSpace(value)
		}
	}
	c.Provider.BaseURL = strings.TrimSpace(c.Provider.BaseURL)
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = defaultProviderBaseURL
	}
	c.Provider.UserAgent = strings.TrimSpace(c.Provider.UserAgent)
	if c.Provider.UserAgent == "" {
		c.Provider.UserAgent = defaultProviderUserAgent
	}
	if c.Provider.RequestsPerMinute <= 0 {
		c.Provider.RequestsPerMinute = defaultRequestsPerMinute
	}
}

func (c *Config) normalizeResolver() {
	if c.Resolver.BatchSize <= 0 {
		c.Resolver.BatchSize = defaultBatchSize
	}
	if c.Resolver.PollIntervalSeconds <= 0 {
		c.Resolver.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Resolver.OCRTimeoutSeconds <= 0 {
		c.Resolver.OCRTimeoutSeconds = defaultOCRTimeoutSeconds
	}
	if c.Resolver.LookupTimeoutSeconds <= 0 {
		c.Resolver.LookupTimeoutSeconds = defaultLookupTimeoutSeconds
	}
	if c.Resolver.StaleClaimSeconds <= 0 {
		c.Resolver.StaleClaimSeconds = defaultStaleClaimSeconds
	}
	if c.Resolver.CommitThreshold <= 0 {
		c.Resolver.CommitThreshold = defaultCommitThreshold
	}
	if c.Resolver.RunnerUpGap <= 0 {
		c.Resolver.RunnerUpGap = defaultRunnerUpGap
	}
}

func (c *Config) normalizeBackoff() {
	if c.Backoff.APIErrorSeconds <= 0 {
		c.Backoff.APIErrorSeconds = defaultAPIErrorSeconds
	}
	if c.Backoff.OfflineSeconds <= 0 {
		c.Backoff.OfflineSeconds = defaultOfflineSeconds
	}
	if c.Backoff.RateLimitSeconds <= 0 {
		c.Backoff.RateLimitSeconds = defaultRateLimitSeconds
	}
	if c.Backoff.MaxDelaySeconds <= 0 {
		c.Backoff.MaxDelaySeconds = defaultMaxDelaySeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "text":
		c.Logging.Format = "text"
	case "json":
	default:
		c.Logging.Format = "text"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
