// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package propagator

import (
	"errors"
	"fmt"
)

var (
	errMissingIDs = errors.New("trace id or parent id header missing")
	errZeroIDs    = errors.New("trace id and parent id must be non-zero")
)

// headerError reports a malformed propagation header.
type headerError struct {
	header string
	err    error
}

func (e *headerError) Error() string {
	return fmt.Sprintf("invalid %s header: %v", e.header, e.err)
}

func (e *headerError) Unwrap() error {
	return e.err
}
