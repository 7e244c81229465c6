// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package traceutil

import (
	"encoding/binary"
	"strconv"
)

// Util functions for converting OTel identifiers to DD identifiers and back.

// OTelTraceIDToUint64 converts an OTel trace ID to an uint64. Datadog trace IDs
// are 64 bits wide, so only the low 8 bytes of the trace ID are kept.
func OTelTraceIDToUint64(b [16]byte) uint64 {
	return binary.BigEndian.Uint64(b[len(b)-8:])
}

// OTelSpanIDToUint64 converts an OTel span ID to an uint64
func OTelSpanIDToUint64(b [8]byte) uint64 {
	return binary.BigEndian.Uint64(b[:])
}

// Uint64ToOTelTraceID converts a Datadog trace ID into an OTel trace ID. The
// high 8 bytes are left zeroed.
func Uint64ToOTelTraceID(id uint64) [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[8:], id)
	return b
}

// Uint64ToOTelSpanID converts a Datadog span ID into an OTel span ID.
func Uint64ToOTelSpanID(id uint64) [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return b
}

// FormatID returns the decimal representation of id used in Datadog headers.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID parses a decimal Datadog identifier.
func ParseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
