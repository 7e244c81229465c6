// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package version implements 'otel2dd version'.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/command"
	"github.com/DataDog/dd-otel-bridge/pkg/version"
)

// Commands returns a slice of subcommands for the 'otel2dd' command.
func Commands(_ *command.GlobalParams) []*cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "otel2dd %s\n", version.String())
			return err
		},
	}
	return []*cobra.Command{versionCmd}
}
