package gateway

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultURL      = "https://credomatic.compassmerchantsolutions.com/api/transact.php"
	defaultCurrency = "HNL"
)

// Metadata of the processor this package talks to.
var (
	DisplayName        = "BAC Gateway"
	HomepageURL        = "http://www.example.net/"
	SupportedCountries = []string{"HN"}
	SupportedCardTypes = []string{"visa", "master", "american_express", "discover"}
)

// Config is the construction-time configuration of a Gateway.
type Config struct {
	// KeyID identifies the merchant to the processor. Required.
	KeyID string
	// HashKey is the shared signing secret. Required, never sent on the wire.
	HashKey string
	// Test selects TestURL over LiveURL and marks results as test results.
	Test    bool
	TestURL string
	LiveURL string
	// DefaultCurrency is used when the caller does not pass one.
	DefaultCurrency string
	// Timeout bounds one HTTP round trip of the default transport.
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		TestURL:         defaultURL,
		LiveURL:         defaultURL,
		DefaultCurrency: defaultCurrency,
		Timeout:         30 * time.Second,
	}
}

// Validate fails when a required credential is missing. Whitespace-only
// credentials count as missing; they would be dropped from the wire.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.KeyID) == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfig)
	}
	if strings.TrimSpace(c.HashKey) == "" {
		return fmt.Errorf("%w: hash_key is required", ErrConfig)
	}
	if c.TestURL == "" || c.LiveURL == "" {
		return fmt.Errorf("%w: test and live urls are required", ErrConfig)
	}
	return nil
}

func (c *Config) url() string {
	if c.Test {
		return c.TestURL
	}
	return c.LiveURL
}

// withDefaults fills zero values from DefaultConfig without touching credentials.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TestURL == "" {
		c.TestURL = def.TestURL
	}
	if c.LiveURL == "" {
		c.LiveURL = def.LiveURL
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = def.DefaultCurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
