// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package propagate implements 'otel2dd inject' and 'otel2dd extract'.
package propagate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/DataDog/dd-otel-bridge/cmd/otel2dd/command"
	"github.com/DataDog/dd-otel-bridge/pkg/trace/otel/propagator"
)

const (
	headerTraceParent = "traceparent"
	headerTraceState  = "tracestate"
)

var errNoContext = errors.New("no valid trace context found in the given headers")

// cliParams are the command-line arguments for the subcommands
type cliParams struct {
	*command.GlobalParams

	traceParent string
	traceState  string
	headers     []string
}

// Commands returns a slice of subcommands for the 'otel2dd' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}

	injectCmd := &cobra.Command{
		Use:   "inject",
		Short: "Print the Datadog headers matching a W3C trace context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := cliParams.Setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return inject(cmd.OutOrStdout(), cliParams.traceParent, cliParams.traceState)
		},
	}
	injectCmd.Flags().StringVar(&cliParams.traceParent, headerTraceParent, "", "W3C traceparent header value")
	injectCmd.Flags().StringVar(&cliParams.traceState, headerTraceState, "", "W3C tracestate header value")
	_ = injectCmd.MarkFlagRequired(headerTraceParent)

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the W3C trace context carried by Datadog headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := cliParams.Setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return extract(cmd.OutOrStdout(), cliParams.headers)
		},
	}
	extractCmd.Flags().StringArrayVarP(&cliParams.headers, "header", "H", nil, `header to read, as "name: value" or "name=value"`)

	return []*cobra.Command{injectCmd, extractCmd}
}

func inject(w io.Writer, traceParent, traceState string) error {
	in := propagation.MapCarrier{headerTraceParent: traceParent}
	if traceState != "" {
		in[headerTraceState] = traceState
	}
	ctx := propagation.TraceContext{}.Extract(context.Background(), in)
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return errNoContext
	}

	reg := propagator.NewCompositeRegistry()
	propagator.AutoConfigure(reg)
	out := propagation.MapCarrier{}
	reg.Inject(ctx, out)
	return write(w, out)
}

func extract(w io.Writer, headers []string) error {
	in := http.Header{}
	for _, h := range headers {
		k, v, err := parseHeader(h)
		if err != nil {
			return err
		}
		in.Set(k, v)
	}

	// W3C headers, if any, are read first and overridden by Datadog ones
	reg := propagator.NewCompositeRegistry(propagation.TraceContext{})
	propagator.AutoConfigure(reg)
	ctx := reg.Extract(context.Background(), propagation.HeaderCarrier(in))
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return errNoContext
	}

	out := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, out)
	return write(w, out)
}

func parseHeader(h string) (string, string, error) {
	sep := strings.IndexAny(h, ":=")
	if sep <= 0 {
		return "", "", fmt.Errorf("malformed header %q, expected name: value", h)
	}
	return strings.TrimSpace(h[:sep]), strings.TrimSpace(h[sep+1:]), nil
}

func write(w io.Writer, headers propagation.MapCarrier) error {
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(map[string]string(headers), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
