// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package main

import (
	"os"

	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/command"
	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/subcommands"
	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

func main() {
	err := command.MakeCommand(subcommands.BridgeSubcommands()).Execute()
	log.Flush()
	if err != nil {
		os.Exit(1)
	}
}
