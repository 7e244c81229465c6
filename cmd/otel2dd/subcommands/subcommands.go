// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package subcommands is used to list the subcommands of otel2dd.
package subcommands

import (
	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/command"
	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/subcommands/propagate"
	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/subcommands/translate"
	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/subcommands/version"
)

// BridgeSubcommands returns SubcommandFactories for the subcommands supported
// with the current build flags.
func BridgeSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		translate.Commands,
		propagate.Commands,
		version.Commands,
	}
}
