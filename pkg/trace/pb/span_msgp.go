// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package pb

import (
	"errors"

	"github.com/tinylib/msgp/msgp"
)

const maxSize = 25 * 1e6 // maxSize protects the decoder from payloads lying about their size

var errTooLarge = errors.New("msgp: declared size exceeds the payload limit")

// checkSize rejects a declared element count larger than maxSize or than the
// bytes left, every element taking at least one byte.
func checkSize(sz uint32, left []byte) error {
	if sz > maxSize || int64(sz) > int64(len(left)) {
		return errTooLarge
	}
	return nil
}

var (
	_ msgp.Marshaler   = (*Span)(nil)
	_ msgp.Unmarshaler = (*Span)(nil)
	_ msgp.Sizer       = (*Span)(nil)
	_ msgp.Marshaler   = Traces(nil)
	_ msgp.Unmarshaler = (*Traces)(nil)
)

// MarshalMsg implements msgp.Marshaler
func (s *Span) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, s.Msgsize())
	fields := uint32(10)
	if len(s.Meta) > 0 {
		fields++
	}
	if len(s.Metrics) > 0 {
		fields++
	}
	o = msgp.AppendMapHeader(o, fields)
	o = msgp.AppendString(o, "service")
	o = msgp.AppendString(o, s.Service)
	o = msgp.AppendString(o, "name")
	o = msgp.AppendString(o, s.Name)
	o = msgp.AppendString(o, "resource")
	o = msgp.AppendString(o, s.Resource)
	o = msgp.AppendString(o, "trace_id")
	o = msgp.AppendUint64(o, s.TraceID)
	o = msgp.AppendString(o, "span_id")
	o = msgp.AppendUint64(o, s.SpanID)
	o = msgp.AppendString(o, "parent_id")
	o = msgp.AppendUint64(o, s.ParentID)
	o = msgp.AppendString(o, "start")
	o = msgp.AppendInt64(o, s.Start)
	o = msgp.AppendString(o, "duration")
	o = msgp.AppendInt64(o, s.Duration)
	o = msgp.AppendString(o, "error")
	o = msgp.AppendInt32(o, s.Error)
	if len(s.Meta) > 0 {
		o = msgp.AppendString(o, "meta")
		o = msgp.AppendMapHeader(o, uint32(len(s.Meta)))
		for k, v := range s.Meta {
			o = msgp.AppendString(o, k)
			o = msgp.AppendString(o, v)
		}
	}
	if len(s.Metrics) > 0 {
		o = msgp.AppendString(o, "metrics")
		o = msgp.AppendMapHeader(o, uint32(len(s.Metrics)))
		for k, v := range s.Metrics {
			o = msgp.AppendString(o, k)
			o = msgp.AppendFloat64(o, v)
		}
	}
	o = msgp.AppendString(o, "type")
	o = msgp.AppendString(o, s.Type)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler
func (s *Span) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var numFields uint32
	numFields, o, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	for numFields > 0 {
		numFields--
		var field []byte
		field, o, err = msgp.ReadMapKeyZC(o)
		if err != nil {
			err = msgp.WrapError(err)
			return
		}
		switch msgp.UnsafeString(field) {
		case "service":
			s.Service, o, err = msgp.ReadStringBytes(o)
		case "name":
			s.Name, o, err = msgp.ReadStringBytes(o)
		case "resource":
			s.Resource, o, err = msgp.ReadStringBytes(o)
		case "trace_id":
			s.TraceID, o, err = msgp.ReadUint64Bytes(o)
		case "span_id":
			s.SpanID, o, err = msgp.ReadUint64Bytes(o)
		case "parent_id":
			s.ParentID, o, err = msgp.ReadUint64Bytes(o)
		case "start":
			s.Start, o, err = msgp.ReadInt64Bytes(o)
		case "duration":
			s.Duration, o, err = msgp.ReadInt64Bytes(o)
		case "error":
			s.Error, o, err = msgp.ReadInt32Bytes(o)
		case "type":
			s.Type, o, err = msgp.ReadStringBytes(o)
		case "meta":
			s.Meta, o, err = unmarshalMeta(o)
		case "metrics":
			s.Metrics, o, err = unmarshalMetrics(o)
		default:
			o, err = msgp.Skip(o)
		}
		if err != nil {
			err = msgp.WrapError(err, string(field))
			return
		}
	}
	return
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (s *Span) Msgsize() int {
	size := msgp.MapHeaderSize +
		8 + msgp.StringPrefixSize + len(s.Service) +
		5 + msgp.StringPrefixSize + len(s.Name) +
		9 + msgp.StringPrefixSize + len(s.Resource) +
		9 + msgp.Uint64Size +
		8 + msgp.Uint64Size +
		10 + msgp.Uint64Size +
		6 + msgp.Int64Size +
		9 + msgp.Int64Size +
		6 + msgp.Int32Size +
		5 + msgp.StringPrefixSize + len(s.Type)
	size += 5 + msgp.MapHeaderSize
	for k, v := range s.Meta {
		size += msgp.StringPrefixSize + len(k) + msgp.StringPrefixSize + len(v)
	}
	size += 8 + msgp.MapHeaderSize
	for k := range s.Metrics {
		size += msgp.StringPrefixSize + len(k) + msgp.Float64Size
	}
	return size
}

func unmarshalMeta(bts []byte) (m map[string]string, o []byte, err error) {
	if msgp.IsNil(bts) {
		o, err = msgp.ReadNilBytes(bts)
		return
	}
	var sz uint32
	sz, o, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return
	}
	if err = checkSize(sz, o); err != nil {
		return
	}
	m = make(map[string]string, sz)
	for sz > 0 {
		sz--
		var k, v string
		k, o, err = msgp.ReadStringBytes(o)
		if err != nil {
			return
		}
		v, o, err = msgp.ReadStringBytes(o)
		if err != nil {
			err = msgp.WrapError(err, k)
			return
		}
		m[k] = v
	}
	return
}

func unmarshalMetrics(bts []byte) (m map[string]float64, o []byte, err error) {
	if msgp.IsNil(bts) {
		o, err = msgp.ReadNilBytes(bts)
		return
	}
	var sz uint32
	sz, o, err = msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return
	}
	if err = checkSize(sz, o); err != nil {
		return
	}
	m = make(map[string]float64, sz)
	for sz > 0 {
		sz--
		var k string
		var v float64
		k, o, err = msgp.ReadStringBytes(o)
		if err != nil {
			return
		}
		v, o, err = msgp.ReadFloat64Bytes(o)
		if err != nil {
			err = msgp.WrapError(err, k)
			return
		}
		m[k] = v
	}
	return
}

// MarshalMsg implements msgp.Marshaler
func (t Traces) MarshalMsg(b []byte) (o []byte, err error) {
	o = msgp.AppendArrayHeader(b, uint32(len(t)))
	for i := range t {
		o = msgp.AppendArrayHeader(o, uint32(len(t[i])))
		for _, s := range t[i] {
			if s == nil {
				o = msgp.AppendNil(o)
				continue
			}
			o, err = s.MarshalMsg(o)
			if err != nil {
				err = msgp.WrapError(err, i)
				return
			}
		}
	}
	return
}

// UnmarshalMsg implements msgp.Unmarshaler
func (t *Traces) UnmarshalMsg(bts []byte) (o []byte, err error) {
	var sz uint32
	sz, o, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		err = msgp.WrapError(err)
		return
	}
	if err = checkSize(sz, o); err != nil {
		return
	}
	traces := make(Traces, sz)
	for i := range traces {
		var n uint32
		n, o, err = msgp.ReadArrayHeaderBytes(o)
		if err != nil {
			err = msgp.WrapError(err, i)
			return
		}
		if err = checkSize(n, o); err != nil {
			return
		}
		traces[i] = make(Trace, n)
		for j := range traces[i] {
			if msgp.IsNil(o) {
				o, err = msgp.ReadNilBytes(o)
				if err != nil {
					err = msgp.WrapError(err, i, j)
					return
				}
				continue
			}
			s := new(Span)
			o, err = s.UnmarshalMsg(o)
			if err != nil {
				err = msgp.WrapError(err, i, j)
				return
			}
			traces[i][j] = s
		}
	}
	*t = traces
	return
}
