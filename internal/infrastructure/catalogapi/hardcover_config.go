package catalogapi

import (
	"errors"
	"time"
)

// Hardcover configuration errors
var (
	ErrHardcoverMissingAPIKey = errors.New("hardcover: API key is required")
)

// Default Hardcover API settings
const (
	defaultHardcoverBaseURL = "https://api.hardcover.app/v1/graphql"
	defaultHardcoverTimeout = 10 * time.Second
)

// HardcoverConfig holds the settings for the Hardcover GraphQL adapter
type HardcoverConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Validate checks required fields and fills in defaults
func (c *HardcoverConfig) Validate() error {
	if c.APIKey == "" {
		return ErrHardcoverMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultHardcoverBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultHardcoverTimeout
	}
	return nil
}
