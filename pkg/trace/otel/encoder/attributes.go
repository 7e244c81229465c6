// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package encoder

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/otel/attribute"

	"github.com/DataDog/dd-otel-bridge/pkg/util/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tagValue returns the Datadog tag value for v. Scalars are stringified and
// arrays are encoded as JSON arrays.
func tagValue(v attribute.Value) string {
	switch v.Type() {
	case attribute.STRING:
		return v.AsString()
	case attribute.BOOL:
		return strconv.FormatBool(v.AsBool())
	case attribute.INT64:
		return strconv.FormatInt(v.AsInt64(), 10)
	case attribute.FLOAT64:
		return strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case attribute.BOOLSLICE, attribute.INT64SLICE, attribute.FLOAT64SLICE, attribute.STRINGSLICE:
		b, err := json.Marshal(v.AsInterface())
		if err != nil {
			log.Debugf("Unable to encode %s attribute as JSON, falling back to its string form: %v", v.Type(), err)
			return v.Emit()
		}
		return string(b)
	default:
		log.Debugf("Unexpected attribute type %s, storing its string form", v.Type())
		return v.Emit()
	}
}

// attributeValue converts a collector attribute value into the SDK's tagged
// union. Homogeneous scalar slices keep their element type; maps, bytes and
// mixed slices become their JSON string form.
func attributeValue(v pcommon.Value) attribute.Value {
	switch v.Type() {
	case pcommon.ValueTypeStr:
		return attribute.StringValue(v.Str())
	case pcommon.ValueTypeBool:
		return attribute.BoolValue(v.Bool())
	case pcommon.ValueTypeInt:
		return attribute.Int64Value(v.Int())
	case pcommon.ValueTypeDouble:
		return attribute.Float64Value(v.Double())
	case pcommon.ValueTypeSlice:
		if av, ok := sliceValue(v.Slice()); ok {
			return av
		}
		return attribute.StringValue(v.AsString())
	case pcommon.ValueTypeEmpty:
		return attribute.Value{}
	default:
		return attribute.StringValue(v.AsString())
	}
}

// sliceValue converts s when all of its elements share one scalar type.
func sliceValue(s pcommon.Slice) (attribute.Value, bool) {
	if s.Len() == 0 {
		return attribute.StringSliceValue(nil), true
	}
	typ := s.At(0).Type()
	for i := 1; i < s.Len(); i++ {
		if s.At(i).Type() != typ {
			return attribute.Value{}, false
		}
	}
	switch typ {
	case pcommon.ValueTypeStr:
		out := make([]string, s.Len())
		for i := range out {
			out[i] = s.At(i).Str()
		}
		return attribute.StringSliceValue(out), true
	case pcommon.ValueTypeBool:
		out := make([]bool, s.Len())
		for i := range out {
			out[i] = s.At(i).Bool()
		}
		return attribute.BoolSliceValue(out), true
	case pcommon.ValueTypeInt:
		out := make([]int64, s.Len())
		for i := range out {
			out[i] = s.At(i).Int()
		}
		return attribute.Int64SliceValue(out), true
	case pcommon.ValueTypeDouble:
		out := make([]float64, s.Len())
		for i := range out {
			out[i] = s.At(i).Double()
		}
		return attribute.Float64SliceValue(out), true
	}
	return attribute.Value{}, false
}

// attributesFromMap converts m, keeping the collector's insertion order.
func attributesFromMap(m pcommon.Map) []attribute.KeyValue {
	if m.Len() == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, m.Len())
	m.Range(func(k string, v pcommon.Value) bool {
		out = append(out, attribute.KeyValue{Key: attribute.Key(k), Value: attributeValue(v)})
		return true
	})
	return out
}
