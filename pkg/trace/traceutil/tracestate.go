// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package traceutil

import "strings"

const (
	// TraceStateKey is the W3C tracestate member owned by Datadog.
	TraceStateKey = "dd"
	// traceStateOriginKey is the sub-key of the dd member holding the origin.
	traceStateOriginKey = "o"
)

// OriginFromTraceState returns the origin carried by the raw, comma separated
// tracestate ts. Both the legacy "_dd_origin=<origin>" member and the
// "dd=o:<origin>" W3C member are recognised; the first one found wins.
func OriginFromTraceState(ts string) (string, bool) {
	for _, member := range strings.Split(ts, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(member), "=")
		if !ok {
			continue
		}
		switch key {
		case TagOrigin:
			if value != "" {
				return value, true
			}
		case TraceStateKey:
			for _, field := range strings.Split(value, ";") {
				k, v, ok := strings.Cut(field, ":")
				if ok && k == traceStateOriginKey && v != "" {
					return v, true
				}
			}
		}
	}
	return "", false
}

// TraceStateOriginValue returns the value of the dd tracestate member
// carrying origin. Characters a W3C tracestate value cannot hold, and those
// used as separators inside the dd member, are replaced by '_' and trailing
// spaces are dropped.
func TraceStateOriginValue(origin string) string {
	origin = strings.TrimRight(origin, " ")
	var b strings.Builder
	b.Grow(len(traceStateOriginKey) + 1 + len(origin))
	b.WriteString(traceStateOriginKey)
	b.WriteByte(':')
	for _, r := range origin {
		switch {
		case r < 0x20 || r > 0x7e, r == ',', r == ';', r == '=', r == '~':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
