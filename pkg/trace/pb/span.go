// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package pb holds the Datadog span model as submitted to the trace-agent.
package pb

// Span is the Datadog representation of a finished unit of work, in the layout
// accepted by the trace-agent's v0.4 intake.
type Span struct {
	// Service is the name of the service with which this span is associated.
	Service string `json:"service" msg:"service"`
	// Name is the operation name of this span.
	Name string `json:"name" msg:"name"`
	// Resource is the resource name of this span, also sometimes called the endpoint (for web spans).
	Resource string `json:"resource" msg:"resource"`
	// TraceID is the ID of the trace to which this span belongs.
	TraceID uint64 `json:"trace_id" msg:"trace_id"`
	// SpanID is the ID of this span.
	SpanID uint64 `json:"span_id" msg:"span_id"`
	// ParentID is the ID of this span's parent, or zero if this span has no parent.
	ParentID uint64 `json:"parent_id" msg:"parent_id"`
	// Start is the number of nanoseconds between the Unix epoch and the beginning of this span.
	Start int64 `json:"start" msg:"start"`
	// Duration is the time length of this span in nanoseconds.
	Duration int64 `json:"duration" msg:"duration"`
	// Error is 1 if there is an error associated with this span, or 0 if there is not.
	Error int32 `json:"error" msg:"error"`
	// Status is the numeric status code derived from the source span status. It is
	// not part of the intake payload.
	Status int32 `json:"-" msg:"-"`
	// Meta is a mapping from tag name to tag value for string-valued tags.
	Meta map[string]string `json:"meta,omitempty" msg:"meta,omitempty"`
	// Metrics is a mapping from tag name to tag value for numeric-valued tags.
	Metrics map[string]float64 `json:"metrics,omitempty" msg:"metrics,omitempty"`
	// Type is the type of the service with which this span is associated. Example values: web, db, lambda.
	Type string `json:"type" msg:"type"`
}

// Trace is a collection of spans with the same trace ID.
type Trace []*Span

// Traces is a list of traces. This model matters as this is what we unpack from msgp.
type Traces []Trace

// GetMeta returns the value of the tag k, or "" when it is not set.
func (s *Span) GetMeta(k string) (string, bool) {
	if s.Meta == nil {
		return "", false
	}
	v, ok := s.Meta[k]
	return v, ok
}

// GetMetric returns the value of the metric k.
func (s *Span) GetMetric(k string) (float64, bool) {
	if s.Metrics == nil {
		return 0, false
	}
	v, ok := s.Metrics[k]
	return v, ok
}

// End returns the end time of the span in nanoseconds since the Unix epoch.
func (s *Span) End() int64 {
	return s.Start + s.Duration
}
