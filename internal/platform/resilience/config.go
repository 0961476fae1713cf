package resilience

import "time"

// Feed names an upstream the service guards with its own breaker.
type Feed string

const (
	FeedESPN Feed = "espn"
	FeedOdds Feed = "odds"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// DefaultCircuitBreakerConfig is the fallback for any field left unset.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// DefaultFeedCircuitConfig returns the breaker settings for a feed. The odds
// feed is metered per request and trips sooner than ESPN.
func DefaultFeedCircuitConfig(feed Feed) CircuitBreakerConfig {
	cfg := DefaultCircuitBreakerConfig()
	switch feed {
	case FeedESPN:
		cfg.FailureThreshold = 4
		cfg.OpenTimeout = 30 * time.Second
		cfg.HalfOpenMaxReq = 1
	case FeedOdds:
		cfg.FailureThreshold = 2
		cfg.OpenTimeout = time.Minute
		cfg.HalfOpenMaxReq = 1
	}
	return cfg
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}
