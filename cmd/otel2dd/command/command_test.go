// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cihub/seelog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

func TestMakeCommand(t *testing.T) {
	var got *GlobalParams
	factory := func(p *GlobalParams) []*cobra.Command {
		return []*cobra.Command{{
			Use: "noop",
			RunE: func(*cobra.Command, []string) error {
				got = p
				return nil
			},
		}}
	}

	cmd := MakeCommand([]SubcommandFactory{factory})
	cmd.SetArgs([]string{"noop", "-c", "/etc/otel2dd.yaml", "--log-level", "debug"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, got)
	assert.Equal(t, GlobalParams{ConfFilePath: "/etc/otel2dd.yaml", LogLevel: "debug"}, *got)
}

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otel2dd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: from_file\nlog_level: warn\n"), 0o600))
	t.Setenv("DD_SERVICE", "")

	var logs bytes.Buffer
	cfg, err := (&GlobalParams{ConfFilePath: path, LogLevel: "debug"}).Setup(&logs)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.Service)
	assert.Equal(t, "debug", cfg.LogLevel)

	lvl, err := log.GetLogLevel()
	require.NoError(t, err)
	assert.Equal(t, seelog.LogLevel(seelog.DebugLvl), lvl)
	assert.Contains(t, logs.String(), "Logging at")
}

func TestSetupInvalidLogLevel(t *testing.T) {
	t.Setenv("DD_SERVICE", "svc")

	var logs bytes.Buffer
	_, err := (&GlobalParams{LogLevel: "verbose"}).Setup(&logs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}
