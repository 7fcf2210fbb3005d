package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config is the resolved runtime configuration.
type Config struct {
	Endpoint    string
	HTTPTimeout time.Duration
}

// fileConfig mirrors the optional JSON config file.
type fileConfig struct {
	Endpoint    string `json:"endpoint"`
	HTTPTimeout string `json:"http_timeout"`
}

// loadConfig reads path on top of the defaults. A missing file leaves the
// defaults untouched.
func loadConfig(path string) (Config, error) {
	cfg := Config{Endpoint: defaultEndpoint, HTTPTimeout: defaultHTTPTimeout}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config file %s", path)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %s", path)
	}

	if fc.Endpoint != "" {
		cfg.Endpoint = fc.Endpoint
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid http_timeout in %s", path)
		}
		cfg.HTTPTimeout = d
	}
	return cfg, nil
}

// override applies values given explicitly on the command line or in the
// environment. Empty strings mean "not set".
func (c Config) override(endpoint, timeout string) (Config, error) {
	if endpoint != "" {
		c.Endpoint = endpoint
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return c, errors.Wrapf(err, "invalid http timeout %q", timeout)
		}
		c.HTTPTimeout = d
	}
	return c, nil
}
