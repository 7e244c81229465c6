// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package propagator carries OpenTelemetry trace context in Datadog's
// x-datadog-* headers.
package propagator

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/DataDog/dd-otel-bridge/pkg/trace/traceutil"
	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

// Datadog propagation headers.
const (
	HeaderTraceID          = "x-datadog-trace-id"
	HeaderParentID         = "x-datadog-parent-id"
	HeaderSamplingPriority = "x-datadog-sampling-priority"
	HeaderOrigin           = "x-datadog-origin"
)

// The same headers as exposed by CGI-style servers in their environment.
const (
	envTraceID          = "HTTP_X_DATADOG_TRACE_ID"
	envParentID         = "HTTP_X_DATADOG_PARENT_ID"
	envSamplingPriority = "HTTP_X_DATADOG_SAMPLING_PRIORITY"
	envOrigin           = "HTTP_X_DATADOG_ORIGIN"
)

const (
	priorityAutoKeep   = "1"
	priorityAutoReject = "0"
)

// Propagator injects and extracts trace context using the Datadog headers.
// It has no state; the zero value is ready to use.
type Propagator struct{}

var _ propagation.TextMapPropagator = Propagator{}

// New returns a Datadog header propagator.
func New() Propagator {
	return Propagator{}
}

// Inject writes the span context held by ctx into carrier. Nothing is written
// when ctx holds no valid span context.
func (Propagator) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}
	carrier.Set(HeaderTraceID, traceutil.FormatID(traceutil.OTelTraceIDToUint64(sc.TraceID())))
	carrier.Set(HeaderParentID, traceutil.FormatID(traceutil.OTelSpanIDToUint64(sc.SpanID())))
	if sc.IsSampled() {
		carrier.Set(HeaderSamplingPriority, priorityAutoKeep)
	} else {
		carrier.Set(HeaderSamplingPriority, priorityAutoReject)
	}
	if origin, ok := traceutil.OriginFromTraceState(sc.TraceState().String()); ok {
		carrier.Set(HeaderOrigin, origin)
	}
}

// Extract returns a copy of ctx holding the remote span context found in
// carrier. Extraction is all or nothing: if the trace or parent id is missing
// or any header is malformed, ctx is returned unchanged.
func (Propagator) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	sc, err := extract(carrier)
	if err != nil {
		log.Debugf("Ignoring Datadog propagation headers: %v", err)
		return ctx
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

// Fields returns the headers written by Inject.
func (Propagator) Fields() []string {
	return []string{HeaderTraceID, HeaderParentID, HeaderSamplingPriority, HeaderOrigin}
}

// get returns the first non-empty value among keys.
func get(carrier propagation.TextMapCarrier, keys ...string) string {
	for _, k := range keys {
		if v := carrier.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func extract(carrier propagation.TextMapCarrier) (trace.SpanContext, error) {
	rawTraceID := get(carrier, HeaderTraceID, envTraceID)
	rawParentID := get(carrier, HeaderParentID, envParentID)
	if rawTraceID == "" || rawParentID == "" {
		return trace.SpanContext{}, errMissingIDs
	}
	traceID, err := traceutil.ParseID(rawTraceID)
	if err != nil {
		return trace.SpanContext{}, &headerError{header: HeaderTraceID, err: err}
	}
	parentID, err := traceutil.ParseID(rawParentID)
	if err != nil {
		return trace.SpanContext{}, &headerError{header: HeaderParentID, err: err}
	}

	var flags trace.TraceFlags
	if raw := get(carrier, HeaderSamplingPriority, envSamplingPriority); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			return trace.SpanContext{}, &headerError{header: HeaderSamplingPriority, err: err}
		}
		if priority > 0 {
			flags = trace.FlagsSampled
		}
	}

	var ts trace.TraceState
	if origin := get(carrier, HeaderOrigin, envOrigin); origin != "" {
		ts, err = ts.Insert(traceutil.TraceStateKey, traceutil.TraceStateOriginValue(origin))
		if err != nil {
			return trace.SpanContext{}, &headerError{header: HeaderOrigin, err: err}
		}
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceutil.Uint64ToOTelTraceID(traceID),
		SpanID:     traceutil.Uint64ToOTelSpanID(parentID),
		TraceFlags: flags,
		TraceState: ts,
		Remote:     true,
	})
	if !sc.IsValid() {
		return trace.SpanContext{}, errZeroIDs
	}
	return sc, nil
}
