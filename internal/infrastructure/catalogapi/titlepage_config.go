package catalogapi

import (
	"errors"
	"time"
)

// Titlepage configuration errors
var (
	ErrTitlepageMissingToken = errors.New("titlepage: API token is required")
)

// Default Titlepage API settings
const (
	defaultTitlepageBaseURL = "https://report.titlepage.com/ReST/v1/onix-full"
	defaultTitlepageTimeout = 15 * time.Second
	defaultTitlepageCountry = "NZ"
)

// TitlepageConfig holds the settings for the Titlepage ONIX adapter
type TitlepageConfig struct {
	APIToken string
	BaseURL  string
	Timeout  time.Duration
	// CountryCode selects the ProductSupply market whose commercial terms
	// (list price, supplier) apply to this shop
	CountryCode string
}

// Validate checks required fields and fills in defaults
func (c *TitlepageConfig) Validate() error {
	if c.APIToken == "" {
		return ErrTitlepageMissingToken
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultTitlepageBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTitlepageTimeout
	}
	if c.CountryCode == "" {
		c.CountryCode = defaultTitlepageCountry
	}
	return nil
}
