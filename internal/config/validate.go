package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTrace(); err != nil {
		return err
	}
	if err := c.validateAniList(); err != nil {
		return err
	}
	if err := c.validateLeveling(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTrace() error {
	if c.Trace.BaseURL == "" {
		return errors.New("trace.base_url must be set")
	}
	if err := validateHTTPURL(c.Trace.BaseURL); err != nil {
		return fmt.Errorf("trace.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateAniList() error {
	if c.AniList.BaseURL == "" {
		return errors.New("anilist.base_url must be set")
	}
	if err := validateHTTPURL(c.AniList.BaseURL); err != nil {
		return fmt.Errorf("anilist.base_url: %w", err)
	}
	return nil
}

func (c *Config) validateLeveling() error {
	if c.Leveling.XPPerScan < 0 {
		return errors.New("leveling.xp_per_scan must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return errors.New("missing host")
	}
	return nil
}
