// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2020 Datadog, Inc.

package pb

// GroupByTrace groups spans sharing a trace ID into traces. Traces keep the
// order in which their first span was seen and spans keep their relative order.
func GroupByTrace(spans []*Span) Traces {
	tracesByID := make(map[uint64]int)
	traces := make(Traces, 0)
	for _, s := range spans {
		if s == nil {
			continue
		}
		i, ok := tracesByID[s.TraceID]
		if !ok {
			i = len(traces)
			tracesByID[s.TraceID] = i
			traces = append(traces, Trace{})
		}
		traces[i] = append(traces[i], s)
	}
	return traces
}

// SpanCount returns the total number of spans held by t.
func (t Traces) SpanCount() int {
	n := 0
	for _, trace := range t {
		n += len(trace)
	}
	return n
}
