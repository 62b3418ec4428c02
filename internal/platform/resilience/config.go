package resilience

import "time"

const (
	defaultBreakerName      = "default"
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenMaxReq   = 1
)

// CircuitBreakerConfig describes the breaker in front of one remote
// dependency. Enabled=false means callers skip the breaker entirely.
type CircuitBreakerConfig struct {
	Name             string
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// LanguageModelBreaker is the normalized breaker guarding the hosted model
// behind the question pipeline.
func LanguageModelBreaker(enabled bool, failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) CircuitBreakerConfig {
	return NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		Name:             "vertexai",
		Enabled:          enabled,
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	})
}

// NormalizeCircuitBreakerConfig fills unset or out-of-range fields.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	if cfg.Name == "" {
		cfg.Name = defaultBreakerName
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return cfg
}

// LogArgs renders the config as logger key/value pairs.
func (c CircuitBreakerConfig) LogArgs() []any {
	return []any{
		"breaker", c.Name,
		"enabled", c.Enabled,
		"failure_threshold", c.FailureThreshold,
		"open_timeout", c.OpenTimeout.String(),
		"half_open_max_req", c.HalfOpenMaxReq,
	}
}
