package config

const (
	defaultDataDir              = "~/.local/share/pressmark"
	defaultLogDir               = "~/.local/share/pressmark/logs"
	defaultProviderBaseURL      = "https://api.discogs.com"
	defaultProviderUserAgent    = "pressmark/1.0"
	defaultRequestsPerMinute    = 60
	defaultBatchSize            = 25
	defaultPollIntervalSeconds  = 30
	defaultOCRTimeoutSeconds    = 45
	defaultLookupTimeoutSeconds = 20
	defaultStaleClaimSeconds    = 600
	defaultCommitThreshold      = 95
	defaultRunnerUpGap          = 15
	defaultAPIErrorSeconds      = 30
	defaultOfflineSeconds       = 120
	defaultRateLimitSeconds     = 300
	defaultMaxDelaySeconds      = 21600
	defaultLogFormat            = "text"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Provider: Provider{
			BaseURL:           defaultProviderBaseURL,
			UserAgent:         defaultProviderUserAgent,
			RequestsPerMinute: defaultRequestsPerMinute,
		},
		Resolver: Resolver{
			BatchSize:            defaultBatchSize,
			PollIntervalSeconds:  defaultPollIntervalSeconds,
			OCRTimeoutSeconds:    defaultOCRTimeoutSeconds,
			LookupTimeoutSeconds: defaultLookupTimeoutSeconds,
			StaleClaimSeconds:    defaultStaleClaimSeconds,
			CommitThreshold:      defaultCommitThreshold,
			RunnerUpGap:          defaultRunnerUpGap,
		},
		Backoff: Backoff{
			APIErrorSeconds:  defaultAPIErrorSeconds,
			OfflineSeconds:   defaultOfflineSeconds,
			RateLimitSeconds: defaultRateLimitSeconds,
			MaxDelaySeconds:  defaultMaxDelaySeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
