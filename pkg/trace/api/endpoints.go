// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package api

import "strings"

// Version is a trace-agent intake API version.
type Version string

const (
	v01 Version = "v0.1"
	v02 Version = "v0.2"
	v03 Version = "v0.3"
	v04 Version = "v0.4"
	v05 Version = "v0.5"
	// V07 is the version used by the serverless tracers.
	V07 Version = "v0.7"
)

// Endpoint is a trace-agent route that accepts spans.
type Endpoint struct {
	// Pattern is the path of the endpoint, as registered by the agent.
	Pattern string

	// Version is the payload version accepted on Pattern.
	Version Version

	// Hidden reports whether the agent hides this endpoint in /info.
	Hidden bool
}

// TraceEndpoints lists the trace-agent routes a tracer submits spans to.
// Requests to any of these are the tracer's own traffic.
var TraceEndpoints = []Endpoint{
	{Pattern: "/spans", Version: v01, Hidden: true},
	{Pattern: "/v0.1/spans", Version: v01, Hidden: true},
	{Pattern: "/v0.2/traces", Version: v02, Hidden: true},
	{Pattern: "/v0.3/traces", Version: v03},
	{Pattern: "/v0.4/traces", Version: v04},
	{Pattern: "/v0.5/traces", Version: v05},
	{Pattern: "/v0.7/traces", Version: V07},
}

// IsTraceIntake reports whether resource names a request to a trace-agent
// span intake. resource may be a bare path, a full URL or an
// "<METHOD> <route>" resource name; any query string is ignored.
func IsTraceIntake(resource string) bool {
	if i := strings.IndexAny(resource, "?#"); i >= 0 {
		resource = resource[:i]
	}
	resource = strings.TrimRight(resource, "/")
	for _, e := range TraceEndpoints {
		if !strings.HasSuffix(resource, e.Pattern) {
			continue
		}
		if strings.Count(e.Pattern, "/") > 1 || isRoot(resource[:len(resource)-len(e.Pattern)]) {
			return true
		}
	}
	return false
}

// isRoot reports whether prefix, the part of a resource preceding a matched
// pattern, leaves the pattern at the root of the path.
func isRoot(prefix string) bool {
	if prefix == "" || strings.HasSuffix(prefix, " ") {
		return true
	}
	if i := strings.Index(prefix, "://"); i >= 0 {
		return !strings.Contains(prefix[i+3:], "/")
	}
	return false
}
