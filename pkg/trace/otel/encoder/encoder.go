// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

// Package encoder converts finished OpenTelemetry spans into Datadog spans.
package encoder

import (
	"strings"

	"github.com/DataDog/datadog-go/v5/statsd"
	"go.opentelemetry.io/collector/pdata/ptrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/DataDog/dd-otel-bridge/pkg/trace/api"
	"github.com/DataDog/dd-otel-bridge/pkg/trace/pb"
	"github.com/DataDog/dd-otel-bridge/pkg/trace/traceutil"
)

const (
	// errorEventName is the span event carrying the error details.
	errorEventName = "error"

	attrHTTPMethod = "http.method"
	attrHTTPRoute  = "http.route"

	// unknownServicePrefix starts the service name the SDK falls back to
	// when none was configured.
	unknownServicePrefix = "unknown_service"

	metricSpans      = "datadog.otel.encoder.spans"
	metricErrorSpans = "datadog.otel.encoder.error_spans"
)

// Encoder converts OpenTelemetry spans into Datadog spans. It holds no
// mutable state and is safe for concurrent use.
type Encoder struct {
	defaultService string
	defaultEnv     string
	defaultVersion string
	spanTypes      *SpanTypeRegistry
	statsd         statsd.ClientInterface
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithEnv sets the env tag given to spans whose resource has no
// deployment.environment.
func WithEnv(env string) Option {
	return func(e *Encoder) { e.defaultEnv = env }
}

// WithVersion sets the version tag given to spans whose resource has no
// service.version.
func WithVersion(version string) Option {
	return func(e *Encoder) { e.defaultVersion = version }
}

// WithSpanTypes replaces the default span type registry.
func WithSpanTypes(r *SpanTypeRegistry) Option {
	return func(e *Encoder) {
		if r != nil {
			e.spanTypes = r
		}
	}
}

// WithStatsd reports the number of translated spans to c.
func WithStatsd(c statsd.ClientInterface) Option {
	return func(e *Encoder) { e.statsd = c }
}

// New returns an Encoder giving defaultService to spans whose resource does
// not name a service.
func New(defaultService string, opts ...Option) *Encoder {
	e := &Encoder{
		defaultService: defaultService,
		spanTypes:      NewSpanTypeRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Translate converts spans with the given defaults. Empty defaults are
// treated as absent.
func Translate(spans []sdktrace.ReadOnlySpan, defaultService, defaultEnv, defaultVersion string) []*pb.Span {
	return New(defaultService, WithEnv(defaultEnv), WithVersion(defaultVersion)).Translate(spans)
}

// Translate returns one Datadog span per entry of spans, in the same order.
func (e *Encoder) Translate(spans []sdktrace.ReadOnlySpan) []*pb.Span {
	out := make([]*pb.Span, len(spans))
	for i, s := range spans {
		out[i] = e.convertSpan(fromReadOnlySpan(s))
	}
	e.report(out)
	return out
}

// TranslateTraces converts collector trace data, visiting resources, scopes
// and spans in order.
func (e *Encoder) TranslateTraces(td ptrace.Traces) []*pb.Span {
	out := make([]*pb.Span, 0, td.SpanCount())
	rss := td.ResourceSpans()
	for i := 0; i < rss.Len(); i++ {
		rs := rss.At(i)
		rattrs := attributesFromMap(rs.Resource().Attributes())
		sss := rs.ScopeSpans()
		for j := 0; j < sss.Len(); j++ {
			ss := sss.At(j)
			spans := ss.Spans()
			for k := 0; k < spans.Len(); k++ {
				out = append(out, e.convertSpan(fromCollectorSpan(rattrs, ss.Scope(), spans.At(k))))
			}
		}
	}
	e.report(out)
	return out
}

func (e *Encoder) report(spans []*pb.Span) {
	if e.statsd == nil || len(spans) == 0 {
		return
	}
	var errs int64
	for _, s := range spans {
		if traceutil.HasError(s) {
			errs++
		}
	}
	_ = e.statsd.Count(metricSpans, int64(len(spans)), nil, 1)
	if errs > 0 {
		_ = e.statsd.Count(metricErrorSpans, errs, nil, 1)
	}
}

// convertSpan converts a single span.
func (e *Encoder) convertSpan(in sourceSpan) *pb.Span {
	span := &pb.Span{
		Name:     in.name,
		TraceID:  traceutil.OTelTraceIDToUint64(in.traceID),
		SpanID:   traceutil.OTelSpanIDToUint64(in.spanID),
		ParentID: traceutil.OTelSpanIDToUint64(in.parentID),
		Start:    in.start,
		Duration: in.end - in.start,
		Service:  e.defaultService,
		Type:     e.spanTypes.Lookup(in.scope),
	}

	version, env := e.defaultVersion, e.defaultEnv
	for _, kv := range in.resAttrs {
		switch kv.Key {
		case semconv.ServiceNameKey:
			if name := tagValue(kv.Value); name != "" && !strings.HasPrefix(name, unknownServicePrefix) {
				span.Service = name
			}
		case semconv.ServiceVersionKey:
			if v := tagValue(kv.Value); v != "" {
				version = v
			}
		case semconv.DeploymentEnvironmentKey:
			if v := tagValue(kv.Value); v != "" {
				env = v
			}
		default:
			traceutil.SetMeta(span, string(kv.Key), tagValue(kv.Value))
		}
	}
	for _, kv := range in.attrs {
		traceutil.SetMeta(span, string(kv.Key), tagValue(kv.Value))
	}
	if version != "" {
		traceutil.SetMeta(span, traceutil.TagVersion, version)
	}
	if env != "" {
		traceutil.SetMeta(span, traceutil.TagEnv, env)
	}
	if origin, ok := traceutil.OriginFromTraceState(in.traceState); ok {
		traceutil.SetMeta(span, traceutil.TagOrigin, origin)
	}

	span.Resource = resourceName(in)
	if api.IsTraceIntake(span.Resource) {
		traceutil.SetMetric(span, traceutil.KeySampleRate, -1)
	}
	if in.sampled {
		traceutil.SetMetric(span, traceutil.KeySamplingPriority, 1)
	} else {
		traceutil.SetMetric(span, traceutil.KeySamplingPriority, 0)
	}
	setError(in, span)
	return span
}

// resourceName returns "<METHOD> <route>" for HTTP spans and the span name
// otherwise.
func resourceName(in sourceSpan) string {
	var method, route string
	for _, kv := range in.attrs {
		switch kv.Key {
		case attrHTTPMethod:
			method = tagValue(kv.Value)
		case semconv.HTTPRequestMethodKey:
			if method == "" {
				method = tagValue(kv.Value)
			}
		case attrHTTPRoute:
			route = tagValue(kv.Value)
		}
	}
	if method != "" && route != "" {
		return method + " " + route
	}
	return in.name
}

// setError marks span as an error when in has an error status and copies the
// details of the first "error" event.
func setError(in sourceSpan, span *pb.Span) {
	if !in.isError {
		return
	}
	span.Error = 1
	span.Status = 1
	for _, ev := range in.events {
		if ev.name != errorEventName {
			continue
		}
		for _, kv := range ev.attrs {
			switch string(kv.Key) {
			case traceutil.TagErrorType, traceutil.TagErrorMsg, traceutil.TagErrorStack:
				traceutil.SetMeta(span, string(kv.Key), tagValue(kv.Value))
			}
		}
		return
	}
}
