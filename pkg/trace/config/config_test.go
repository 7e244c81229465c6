// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/instrumentation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/DataDog/dd-otel-bridge/pkg/trace/otel/encoder"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "otel2dd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, New(), c)
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "otel-service", c.Service)
	assert.Empty(t, c.ConfigPath)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
service: example_service
env: example_env
version: fallback_version
log_level: debug
dogstatsd_addr: 127.0.0.1:8125
span_types:
  billing: worker
  billing-queue: queue
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		ConfigPath: path,
		Service:    "example_service",
		Env:        "example_env",
		Version:    "fallback_version",
		LogLevel:   "debug",
		StatsdAddr: "127.0.0.1:8125",
		SpanTypes:  map[string]string{"billing": "worker", "billing-queue": "queue"},
	}, c)
	assert.Equal(t, []encoder.SpanTypeRule{
		{Token: "billing-queue", Type: "queue"},
		{Token: "billing", Type: "worker"},
	}, c.SpanTypeRules())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "service: from_file\nenv: from_file\n")
	t.Setenv("DD_SERVICE", "from_env")
	t.Setenv("DD_VERSION", "v2")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_env", c.Service)
	assert.Equal(t, "from_file", c.Env)
	assert.Equal(t, "v2", c.Version)
}

func TestLoadMissingService(t *testing.T) {
	t.Setenv("DD_SERVICE", " ")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingService)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "service: [unterminated\n"))
	assert.Error(t, err)
}

func TestEncoderOptions(t *testing.T) {
	c := New()
	c.Env = "prod"
	c.SpanTypes = map[string]string{"billing": "worker"}

	span := tracetest.SpanStub{
		Name: "charge",
		SpanContext: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{15: 1},
			SpanID:  trace.SpanID{7: 1},
		}),
		InstrumentationLibrary: instrumentation.Scope{Name: "my-company/Billing"},
	}.Snapshot()

	out := encoder.New(c.Service, c.EncoderOptions()...).Translate([]sdktrace.ReadOnlySpan{span})
	require.Len(t, out, 1)
	assert.Equal(t, "otel-service", out[0].Service)
	assert.Equal(t, "worker", out[0].Type)
	assert.Equal(t, map[string]string{"env": "prod"}, out[0].Meta)
}

func TestNewStatsdClient(t *testing.T) {
	c := New()
	client, err := c.NewStatsdClient()
	require.NoError(t, err)
	assert.IsType(t, &statsd.NoOpClient{}, client)

	c.StatsdAddr = "127.0.0.1:8125"
	client, err = c.NewStatsdClient()
	require.NoError(t, err)
	assert.IsType(t, &statsd.Client{}, client)
	assert.NoError(t, client.Close())
}
