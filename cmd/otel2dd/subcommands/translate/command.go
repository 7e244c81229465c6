// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package translate implements 'otel2dd translate'.
package translate

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/collector/pdata/ptrace"

	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/command"
	"github.com/DataDog/dd-otel-bridge/pkg/trace/otel/encoder"
	"github.com/DataDog/dd-otel-bridge/pkg/trace/pb"
	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	input  string
	format string
}

// Commands returns a slice of subcommands for the 'otel2dd' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	translateCmd := &cobra.Command{
		Use:   "translate",
		Short: "Convert OTLP/JSON traces into Datadog spans",
		Long: `
Reads an OTLP/JSON trace export and writes the matching Datadog traces, as
JSON or as the msgpack payload accepted by the trace-agent's /v0.4/traces
endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cliParams)
		},
	}
	translateCmd.Flags().StringVarP(&cliParams.input, "input", "i", "-", "OTLP/JSON file to read, - for stdin")
	translateCmd.Flags().StringVarP(&cliParams.format, "format", "f", formatJSON, "output format, json or msgpack")

	return []*cobra.Command{translateCmd}
}

func run(cmd *cobra.Command, params *cliParams) error {
	if params.format != formatJSON && params.format != formatMsgpack {
		return fmt.Errorf("unknown output format %q", params.format)
	}
	cfg, err := params.Setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), params.input)
	if err != nil {
		return err
	}
	td, err := (&ptrace.JSONUnmarshaler{}).UnmarshalTraces(raw)
	if err != nil {
		return fmt.Errorf("decoding OTLP/JSON traces: %w", err)
	}

	client, err := cfg.NewStatsdClient()
	if err != nil {
		return err
	}
	defer client.Close()

	opts := append(cfg.EncoderOptions(), encoder.WithStatsd(client))
	traces := pb.GroupByTrace(encoder.New(cfg.Service, opts...).TranslateTraces(td))
	log.Debugf("Translated %d spans into %d traces", traces.SpanCount(), len(traces))

	out, err := encode(traces, params.format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return b, nil
}

func encode(traces pb.Traces, format string) ([]byte, error) {
	if format == formatMsgpack {
		b, err := traces.MarshalMsg(nil)
		if err != nil {
			return nil, fmt.Errorf("encoding msgpack: %w", err)
		}
		return b, nil
	}
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(traces, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return append(b, '\n'), nil
}
