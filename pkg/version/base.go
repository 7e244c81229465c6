// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package version defines the version of the bridge
package version

// BridgeVersion contains the version of the bridge.
// It is populated at build time using -ldflags "-X".
var BridgeVersion string

// Commit is populated with the short commit hash from which the bridge was built
var Commit string

var bridgeVersionDefault = "0.1.0"

func init() {
	if BridgeVersion == "" {
		BridgeVersion = bridgeVersionDefault
	}
}

// String returns the version followed by the commit, when known.
func String() string {
	if Commit == "" {
		return BridgeVersion
	}
	return BridgeVersion + " (commit " + Commit + ")"
}
