// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package testutil generates OTLP trace data for tests.
package testutil

import (
	"encoding/binary"
	"math/rand"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
)

var spanNames = []string{"GET /users", "SELECT users", "redis.get", "render", "publish"}

// randomSpan appends a root-less span with random ids and timing to ss.
func randomSpan(r *rand.Rand, ss ptrace.SpanSlice) ptrace.Span {
	s := ss.AppendEmpty()
	s.SetName(spanNames[r.Intn(len(spanNames))])
	s.SetSpanID(spanID(r.Uint64() | 1))
	start := time.Unix(1700000000, 0).Add(time.Duration(r.Int63n(int64(time.Hour))))
	s.SetStartTimestamp(pcommon.NewTimestampFromTime(start))
	s.SetEndTimestamp(pcommon.NewTimestampFromTime(start.Add(time.Duration(r.Int63n(int64(time.Second)) + 1))))
	s.SetFlags(1)
	return s
}

// genNextLevel adds up to maxSpans children below the spans of prevLevel,
// nested in time inside their parent.
func genNextLevel(r *rand.Rand, ss ptrace.SpanSlice, prevLevel []ptrace.Span, maxSpans int) []ptrace.Span {
	var spans []ptrace.Span
	numSpans := r.Intn(maxSpans) + 1
	for i := 0; i < numSpans; i++ {
		prev := prevLevel[r.Intn(len(prevLevel))]
		timeLeft := int64(prev.EndTimestamp() - prev.StartTimestamp())
		if timeLeft < 2 {
			continue
		}
		s := randomSpan(r, ss)
		s.SetTraceID(prev.TraceID())
		s.SetParentSpanID(prev.SpanID())
		offset := r.Int63n(timeLeft - 1)
		s.SetStartTimestamp(prev.StartTimestamp() + pcommon.Timestamp(offset))
		s.SetEndTimestamp(s.StartTimestamp() + pcommon.Timestamp(r.Int63n(timeLeft-offset)+1))
		spans = append(spans, s)
	}
	return spans
}

// RandomTraces returns traceN traces under a single resource and scope. Each
// trace has a depth from 1 to maxLevels and each level at most maxSpans
// spans. The same seed always gives the same data.
func RandomTraces(seed int64, traceN, maxLevels, maxSpans int) ptrace.Traces {
	r := rand.New(rand.NewSource(seed))
	td := ptrace.NewTraces()
	rs := td.ResourceSpans().AppendEmpty()
	rs.Resource().Attributes().PutStr("service.name", "random-service")
	ss := rs.ScopeSpans().AppendEmpty()
	ss.Scope().SetName("testutil")
	for i := 0; i < traceN; i++ {
		root := randomSpan(r, ss.Spans())
		root.SetTraceID(traceID(r.Uint64(), r.Uint64()|1))
		prevLevel := []ptrace.Span{root}
		maxDepth := 1 + r.Intn(maxLevels)
		for d := 1; d < maxDepth && len(prevLevel) > 0; d++ {
			prevLevel = genNextLevel(r, ss.Spans(), prevLevel, maxSpans)
		}
	}
	return td
}

func traceID(hi, lo uint64) pcommon.TraceID {
	var id pcommon.TraceID
	binary.BigEndian.PutUint64(id[:8], hi)
	binary.BigEndian.PutUint64(id[8:], lo)
	return id
}

func spanID(v uint64) pcommon.SpanID {
	var id pcommon.SpanID
	binary.BigEndian.PutUint64(id[:], v)
	return id
}
