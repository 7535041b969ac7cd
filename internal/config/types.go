package config

import "time"

// Config is the full CLI configuration: YAML file first, then STRATO_*
// environment overrides, then validation.
type Config struct {
	API      APIConfig      `yaml:"api" envPrefix:"STRATO_API_"`
	Defaults DefaultsConfig `yaml:"defaults" envPrefix:"STRATO_"`
	Poll     PollConfig     `yaml:"poll" envPrefix:"STRATO_POLL_"`
	Quota    QuotaConfig    `yaml:"quota" envPrefix:"STRATO_QUOTA_"`
	Logging  LogConfig      `yaml:"logging" envPrefix:"STRATO_LOG_"`
}

// APIConfig locates and authenticates the platform API.
type APIConfig struct {
	BaseURL        string `yaml:"base_url" env:"URL" validate:"required,url"`
	Tenant         string `yaml:"tenant" env:"TENANT" validate:"required"`
	Token          string `yaml:"token" env:"TOKEN" validate:"required"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS" validate:"gte=0"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// DefaultsConfig holds per-tenant defaults applied when flags are omitted.
type DefaultsConfig struct {
	Region string `yaml:"region" env:"REGION"`
}

// PollConfig tunes the provisioning confirmation loop.
type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds" env:"INTERVAL_SECONDS" validate:"gte=1"`
	MaxAttempts     int `yaml:"max_attempts" env:"MAX_ATTEMPTS" validate:"gte=1"`
}

// Interval returns the poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// QuotaConfig holds creation ceilings for limited resource classes.
type QuotaConfig struct {
	CredentialCeiling int `yaml:"credential_ceiling" env:"CREDENTIAL_CEILING" validate:"gte=1"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
}

// applyDefaults fills unset fields before validation.
func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.Poll.IntervalSeconds == 0 {
		c.Poll.IntervalSeconds = 15
	}
	if c.Poll.MaxAttempts == 0 {
		c.Poll.MaxAttempts = 10
	}
	if c.Quota.CredentialCeiling == 0 {
		c.Quota.CredentialCeiling = 7
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
