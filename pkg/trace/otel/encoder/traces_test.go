// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package encoder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/ptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/DataDog/dd-otel-bridge/pkg/trace/pb"
	"github.com/DataDog/dd-otel-bridge/pkg/trace/testutil"
)

func newTraces() ptrace.Traces {
	td := ptrace.NewTraces()
	rs := td.ResourceSpans().AppendEmpty()
	rs.Resource().Attributes().PutStr("service.name", "resource_defined_service")
	rs.Resource().Attributes().PutStr("deployment.environment", "prod")
	rs.Resource().Attributes().PutStr("other_info", "arbitrary_tag")

	ss := rs.ScopeSpans().AppendEmpty()
	ss.Scope().SetName("OpenTelemetry::Instrumentation::Redis")

	start := pcommon.NewTimestampFromTime(baseTime)
	end := pcommon.NewTimestampFromTime(baseTime.Add(50 * time.Millisecond))

	parent := ss.Spans().AppendEmpty()
	parent.SetName("test1")
	parent.SetTraceID(pcommon.TraceID(testTraceID))
	parent.SetSpanID(pcommon.SpanID{0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11})
	parent.SetStartTimestamp(start)
	parent.SetEndTimestamp(end)
	parent.SetFlags(1)
	parent.TraceState().FromRaw("_dd_origin=synthetics-example")
	parent.Attributes().PutStr("http.method", "GET")
	parent.Attributes().PutStr("http.route", "/example/api")
	tags := parent.Attributes().PutEmptySlice("akey")
	tags.AppendEmpty().SetStr("avalue")

	child := ss.Spans().AppendEmpty()
	child.SetName("test2")
	child.SetTraceID(pcommon.TraceID(testTraceID))
	child.SetSpanID(pcommon.SpanID(testSpanID))
	child.SetParentSpanID(parent.SpanID())
	child.SetStartTimestamp(start)
	child.SetEndTimestamp(end)
	child.Status().SetCode(ptrace.StatusCodeError)
	ev := child.Events().AppendEmpty()
	ev.SetName("error")
	ev.Attributes().PutStr("error.type", "NoMethodError")
	ev.Attributes().PutStr("error.msg", "No Method")
	ev.Attributes().PutStr("error.stack", "abcdef")
	return td
}

func TestTranslateTraces(t *testing.T) {
	out := New("example_service", WithVersion("fallback_version")).TranslateTraces(newTraces())
	require.Len(t, out, 2)

	parent, child := out[0], out[1]
	for _, span := range out {
		assert.Equal(t, "resource_defined_service", span.Service)
		assert.Equal(t, SpanTypeRedis, span.Type)
		assert.Equal(t, uint64(0x240a6c2d1c7b4f11), span.TraceID)
		assert.Equal(t, baseTime.UnixNano(), span.Start)
		assert.Equal(t, (50 * time.Millisecond).Nanoseconds(), span.Duration)
	}

	assert.Equal(t, "GET /example/api", parent.Resource)
	assert.Equal(t, map[string]string{
		"http.method": "GET",
		"http.route":  "/example/api",
		"akey":        `["avalue"]`,
		"other_info":  "arbitrary_tag",
		"env":         "prod",
		"version":     "fallback_version",
		"_dd_origin":  "synthetics-example",
	}, parent.Meta)
	p, _ := parent.GetMetric("_sampling_priority_v1")
	assert.Equal(t, float64(1), p)

	assert.Equal(t, "test2", child.Resource)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Equal(t, int32(1), child.Error)
	assert.Equal(t, int32(1), child.Status)
	for k, want := range map[string]string{"error.type": "NoMethodError", "error.msg": "No Method", "error.stack": "abcdef"} {
		got, _ := child.GetMeta(k)
		assert.Equal(t, want, got, k)
	}
	_, ok := child.GetMeta("_dd_origin")
	assert.False(t, ok)
	p, ok = child.GetMetric("_sampling_priority_v1")
	require.True(t, ok)
	assert.Equal(t, float64(1), p, "spans without flags are kept")
}

func TestTranslateTracesSamplingFlags(t *testing.T) {
	for name, tt := range map[string]struct {
		flags uint32
		want  float64
	}{
		"unset":               {flags: 0, want: 1},
		"sampled":             {flags: 0x01, want: 1},
		"remote, not sampled": {flags: 0x100, want: 0},
		"remote and sampled":  {flags: 0x301, want: 1},
	} {
		t.Run(name, func(t *testing.T) {
			td := ptrace.NewTraces()
			s := td.ResourceSpans().AppendEmpty().ScopeSpans().AppendEmpty().Spans().AppendEmpty()
			s.SetName("op")
			s.SetFlags(tt.flags)

			out := New("svc").TranslateTraces(td)
			require.Len(t, out, 1)
			p, ok := out[0].GetMetric("_sampling_priority_v1")
			require.True(t, ok)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestTranslateTracesEmpty(t *testing.T) {
	assert.Empty(t, New("example_service").TranslateTraces(ptrace.NewTraces()))
}

func TestTranslateRandomTraces(t *testing.T) {
	td := testutil.RandomTraces(42, 20, 4, 5)
	spans := New("fallback").TranslateTraces(td)
	require.Len(t, spans, td.SpanCount())

	traces := pb.GroupByTrace(spans)
	assert.Len(t, traces, 20)
	assert.Equal(t, len(spans), traces.SpanCount())
	for _, trace := range traces {
		ids := make(map[uint64]*pb.Span, len(trace))
		for _, s := range trace {
			ids[s.SpanID] = s
		}
		roots := 0
		for _, s := range trace {
			assert.Equal(t, "random-service", s.Service)
			assert.Positive(t, s.Duration)
			if s.ParentID == 0 {
				roots++
				continue
			}
			parent, ok := ids[s.ParentID]
			require.True(t, ok, "parent of span %d not in its trace", s.SpanID)
			assert.GreaterOrEqual(t, s.Start, parent.Start)
			assert.LessOrEqual(t, s.End(), parent.End())
		}
		assert.Equal(t, 1, roots)
	}
}

func TestAttributeValue(t *testing.T) {
	m := pcommon.NewMap()
	m.PutStr("str", "v")
	m.PutInt("int", 3)
	m.PutDouble("double", 1.5)
	m.PutBool("bool", true)
	m.PutEmpty("empty")
	ints := m.PutEmptySlice("ints")
	ints.AppendEmpty().SetInt(1)
	ints.AppendEmpty().SetInt(2)
	mixed := m.PutEmptySlice("mixed")
	mixed.AppendEmpty().SetInt(1)
	mixed.AppendEmpty().SetStr("a")
	m.PutEmptyMap("map").PutStr("k", "v")

	got := make(map[string]string)
	for _, kv := range attributesFromMap(m) {
		got[string(kv.Key)] = tagValue(kv.Value)
	}
	assert.Equal(t, map[string]string{
		"str":    "v",
		"int":    "3",
		"double": "1.5",
		"bool":   "true",
		"empty":  "unknown",
		"ints":   "[1,2]",
		"mixed":  `[1,"a"]`,
		"map":    `{"k":"v"}`,
	}, got)

	assert.Equal(t, attribute.INT64SLICE, attributeValueOf(t, m, "ints").Type())
	assert.Equal(t, attribute.STRING, attributeValueOf(t, m, "mixed").Type())
}

func attributeValueOf(t *testing.T, m pcommon.Map, key string) attribute.Value {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok)
	return attributeValue(v)
}
