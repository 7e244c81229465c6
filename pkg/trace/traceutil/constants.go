// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package traceutil

const (
	// TagVersion is the tag key holding the version of the service.
	TagVersion = "version"
	// TagEnv is the tag key holding the environment of the service.
	TagEnv = "env"
	// TagOrigin is the tag key marking the system which originated the trace,
	// e.g. synthetics.
	TagOrigin = "_dd_origin"

	// TagErrorType, TagErrorMsg and TagErrorStack describe the error attached to a span.
	TagErrorType  = "error.type"
	TagErrorMsg   = "error.msg"
	TagErrorStack = "error.stack"

	// KeySampleRate is the metric holding the rate a span was sampled at. A
	// negative value asks the backend never to keep the span.
	KeySampleRate = "_sample_rate"
	// KeySamplingPriority is the metric holding the sampling decision taken
	// for the trace.
	KeySamplingPriority = "_sampling_priority_v1"
)
