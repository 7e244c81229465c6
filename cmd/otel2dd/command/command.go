// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package command implements the top-level `otel2dd` binary, including its
// global flags.
package command

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/DataDog/dd-otel-bridge/pkg/trace/config"
	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

// GlobalParams contains the values of otel2dd-global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the configuration file.
	ConfFilePath string

	// LogLevel overrides the configured log level when set.
	LogLevel string
}

// SubcommandFactory returns a sub-command factory
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this app.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	globalParams := GlobalParams{}

	cmd := &cobra.Command{
		Use:   "otel2dd [command]",
		Short: "Bridge OpenTelemetry traces and Datadog.",
		Long: `
otel2dd converts OpenTelemetry spans into Datadog spans and translates trace
context between W3C trace context and Datadog propagation headers.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to the otel2dd.yaml configuration file")
	cmd.PersistentFlags().StringVar(&globalParams.LogLevel, "log-level", "", "log level, overriding the configured one")

	for _, sf := range subcommandFactories {
		for _, sc := range sf(&globalParams) {
			cmd.AddCommand(sc)
		}
	}

	return cmd
}

// Setup loads the configuration and sends the logs to w.
func (p *GlobalParams) Setup(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load(p.ConfFilePath)
	if err != nil {
		return nil, err
	}
	logger, err := log.NewLogger(w)
	if err != nil {
		return nil, err
	}
	log.SetupLogger(logger, cfg.LogLevel)
	if p.LogLevel != "" {
		if err := log.ChangeLogLevel(p.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", p.LogLevel, err)
		}
		cfg.LogLevel = p.LogLevel
	}
	if lvl, err := log.GetLogLevel(); err == nil {
		log.Debugf("Logging at %s level", lvl)
	}
	return cfg, nil
}
