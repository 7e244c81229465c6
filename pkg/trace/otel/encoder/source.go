// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package encoder

import (
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// event is a span event reduced to what the encoder reads.
type event struct {
	name  string
	attrs []attribute.KeyValue
}

// sourceSpan is the common view of an SDK span and a collector span.
type sourceSpan struct {
	name       string
	traceID    [16]byte
	spanID     [8]byte
	parentID   [8]byte
	start, end int64
	attrs      []attribute.KeyValue
	resAttrs   []attribute.KeyValue
	events     []event
	scope      string
	isError    bool
	sampled    bool
	traceState string
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromReadOnlySpan(s sdktrace.ReadOnlySpan) sourceSpan {
	sc := s.SpanContext()
	src := sourceSpan{
		name:       s.Name(),
		traceID:    sc.TraceID(),
		spanID:     sc.SpanID(),
		start:      unixNano(s.StartTime()),
		end:        unixNano(s.EndTime()),
		attrs:      s.Attributes(),
		resAttrs:   s.Resource().Attributes(),
		scope:      s.InstrumentationScope().Name,
		isError:    s.Status().Code == codes.Error,
		sampled:    sc.IsSampled(),
		traceState: sc.TraceState().String(),
	}
	if p := s.Parent(); p.HasSpanID() {
		src.parentID = p.SpanID()
	}
	if evs := s.Events(); len(evs) > 0 {
		src.events = make([]event, len(evs))
		for i, e := range evs {
			src.events[i] = event{name: e.Name, attrs: e.Attributes}
		}
	}
	return src
}

func fromCollectorSpan(resAttrs []attribute.KeyValue, scope pcommon.InstrumentationScope, s ptrace.Span) sourceSpan {
	src := sourceSpan{
		name:       s.Name(),
		traceID:    s.TraceID(),
		spanID:     s.SpanID(),
		parentID:   s.ParentSpanID(),
		start:      int64(s.StartTimestamp()),
		end:        int64(s.EndTimestamp()),
		attrs:      attributesFromMap(s.Attributes()),
		resAttrs:   resAttrs,
		scope:      scope.Name(),
		isError:    s.Status().Code() == ptrace.StatusCodeError,
		sampled:    collectorSampled(s.Flags()),
		traceState: s.TraceState().AsRaw(),
	}
	if evs := s.Events(); evs.Len() > 0 {
		src.events = make([]event, evs.Len())
		for i := 0; i < evs.Len(); i++ {
			e := evs.At(i)
			src.events[i] = event{name: e.Name(), attrs: attributesFromMap(e.Attributes())}
		}
	}
	return src
}

// collectorSampled reports the sampled bit of OTLP span flags. Producers that
// leave the flags unset only export kept spans, so zero flags count as sampled.
func collectorSampled(flags uint32) bool {
	return flags == 0 || flags&uint32(trace.FlagsSampled) != 0
}
