package phaselight

import (
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/phaselight/pkg/queue"
)

// Default timing of the phase cycle
const (
	DefaultMinCycleSeconds = 4
	DefaultMaxCycleSeconds = 6
	DefaultSendLatencyMs   = 100
	DefaultPollIntervalMs  = 1
)

// MaxCycleSecondsLimit is the longest phase a time.Duration can hold
const MaxCycleSecondsLimit int64 = math.MaxInt64 / int64(time.Second)

// Config holds the timing parameters of a traffic light
type Config struct {
	// MinCycleSeconds and MaxCycleSeconds bound the inclusive range each
	// phase duration is drawn from.
	MinCycleSeconds int `yaml:"min_cycle_seconds"`
	MaxCycleSeconds int `yaml:"max_cycle_seconds"`
	// SendLatencyMs is the simulated producer delay paid before each publish.
	SendLatencyMs int `yaml:"send_latency_ms"`
	// PollIntervalMs is how long the cycle loop sleeps between elapsed-time checks.
	PollIntervalMs int         `yaml:"poll_interval_ms"`
	QueueOrder     queue.Order `yaml:"queue_order"`
}

// DefaultConfig returns the reference timing: 4-6s phases, 100ms send latency, 1ms polling
func DefaultConfig() Config {
	return Config{
		MinCycleSeconds: DefaultMinCycleSeconds,
		MaxCycleSeconds: DefaultMaxCycleSeconds,
		SendLatencyMs:   DefaultSendLatencyMs,
		PollIntervalMs:  DefaultPollIntervalMs,
		QueueOrder:      queue.FIFO,
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, NewConfigurationError("Config", fmt.Sprintf("decode: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency
func (c Config) Validate() error {
	if c.MinCycleSeconds <= 0 {
		return NewConfigurationError("Config", fmt.Sprintf("min cycle must be positive, got %d", c.MinCycleSeconds))
	}
	if c.MaxCycleSeconds < c.MinCycleSeconds {
		return NewConfigurationError("Config", fmt.Sprintf("max cycle %d is below min cycle %d", c.MaxCycleSeconds, c.MinCycleSeconds))
	}
	if int64(c.MaxCycleSeconds) > MaxCycleSecondsLimit {
		return NewConfigurationError("Config", fmt.Sprintf("max cycle %d exceeds %d seconds", c.MaxCycleSeconds, MaxCycleSecondsLimit))
	}
	if c.SendLatencyMs < 0 {
		return NewConfigurationError("Config", fmt.Sprintf("send latency cannot be negative, got %d", c.SendLatencyMs))
	}
	if c.PollIntervalMs <= 0 {
		return NewConfigurationError("Config", fmt.Sprintf("poll interval must be positive, got %d", c.PollIntervalMs))
	}
	if c.QueueOrder != queue.FIFO && c.QueueOrder != queue.LIFO {
		return NewConfigurationError("Config", fmt.Sprintf("unknown queue order %d", int(c.QueueOrder)))
	}
	return nil
}

// CycleBounds returns the phase duration range as durations
func (c Config) CycleBounds() (time.Duration, time.Duration) {
	return time.Duration(c.MinCycleSeconds) * time.Second, time.Duration(c.MaxCycleSeconds) * time.Second
}

// SendLatency returns the simulated publish delay
func (c Config) SendLatency() time.Duration {
	return time.Duration(c.SendLatencyMs) * time.Millisecond
}

// PollInterval returns the cycle loop quantum
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
