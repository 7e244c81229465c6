// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the settings shared by the bridge's commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/DataDog/viper"

	"github.com/DataDog/dd-otel-bridge/pkg/trace/otel/encoder"
	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

// ErrMissingService is returned when the config could not be validated due to missing service.
var ErrMissingService = errors.New("you must specify a service, either via a configuration file or the DD_SERVICE env var")

// Config handles the interpretation of the configuration (with default
// behaviors) in one place. Use New() to create an instance.
type Config struct {
	// ConfigPath is the file this config was read from, if any.
	ConfigPath string

	// Service, Env and Version are given to spans whose resource does not
	// carry them.
	Service string
	Env     string
	Version string

	LogLevel string

	// StatsdAddr is the DogStatsD address the encoder reports to. Reporting
	// is disabled when empty.
	StatsdAddr string

	// SpanTypes maps instrumentation scope name tokens to span types. They
	// take precedence over the built-in rules.
	SpanTypes map[string]string
}

// New returns a configuration with the default values.
func New() *Config {
	return &Config{
		Service:  "otel-service",
		LogLevel: "info",
	}
}

// env vars read on top of the configuration file, by config key
var envBindings = map[string]string{
	"service":        "DD_SERVICE",
	"env":            "DD_ENV",
	"version":        "DD_VERSION",
	"log_level":      "DD_LOG_LEVEL",
	"dogstatsd_addr": "DD_DOGSTATSD_ADDR",
}

// Load reads the YAML file at path, if it exists, applies the DD_ env
// overrides and validates the result. An empty path only reads the
// environment.
func Load(path string) (*Config, error) {
	c := New()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("service", c.Service)
	v.SetDefault("log_level", c.LogLevel)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			c.ConfigPath = path
		case errors.Is(err, fs.ErrNotExist), errors.As(err, &notFound):
			log.Infof("No configuration file at %s, using defaults and environment", path)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("cannot access the config file (%w); check its permissions", err)
		default:
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	}

	c.Service = strings.TrimSpace(v.GetString("service"))
	c.Env = v.GetString("env")
	c.Version = v.GetString("version")
	c.LogLevel = v.GetString("log_level")
	c.StatsdAddr = v.GetString("dogstatsd_addr")
	if types := v.GetStringMapString("span_types"); len(types) > 0 {
		c.SpanTypes = types
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Service == "" {
		return ErrMissingService
	}
	return nil
}

// SpanTypeRules returns the configured span types as registry rules. Longer
// tokens come first so that the most specific one matches.
func (c *Config) SpanTypeRules() []encoder.SpanTypeRule {
	rules := make([]encoder.SpanTypeRule, 0, len(c.SpanTypes))
	for token, typ := range c.SpanTypes {
		rules = append(rules, encoder.SpanTypeRule{Token: token, Type: typ})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].Token) != len(rules[j].Token) {
			return len(rules[i].Token) > len(rules[j].Token)
		}
		return rules[i].Token < rules[j].Token
	})
	return rules
}

// NewStatsdClient returns a client for StatsdAddr, or a no-op client when it
// is empty.
func (c *Config) NewStatsdClient() (statsd.ClientInterface, error) {
	if c.StatsdAddr == "" {
		return &statsd.NoOpClient{}, nil
	}
	client, err := statsd.New(c.StatsdAddr)
	if err != nil {
		return nil, fmt.Errorf("creating statsd client for %s: %w", c.StatsdAddr, err)
	}
	return client, nil
}

// EncoderOptions returns the encoder options matching c.
func (c *Config) EncoderOptions() []encoder.Option {
	return []encoder.Option{
		encoder.WithEnv(c.Env),
		encoder.WithVersion(c.Version),
		encoder.WithSpanTypes(encoder.NewSpanTypeRegistry(c.SpanTypeRules()...)),
	}
}
