// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/cihub/seelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogger() {
	logger.Store(nil)
	bufferLogsBeforeInit.Store(true)
	bufferMutex.Lock()
	logsBuffer = nil
	bufferMutex.Unlock()
}

func setupBuffer(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	resetLogger()
	t.Cleanup(resetLogger)

	var b bytes.Buffer
	l, err := NewLogger(&b)
	require.NoError(t, err)
	SetupLogger(l, level)
	return &b
}

func TestLevelFiltering(t *testing.T) {
	b := setupBuffer(t, "info")

	Debugf("hidden %d", 1)
	Infof("shown %d", 2)
	Flush()

	assert.NotContains(t, b.String(), "hidden 1")
	assert.Contains(t, b.String(), "shown 2")
	assert.Contains(t, b.String(), "INFO")
}

func TestWarnfReturnsError(t *testing.T) {
	b := setupBuffer(t, "error")

	err := Warnf("careful %s", "there")
	require.Error(t, err)
	assert.Equal(t, "careful there", err.Error())
	assert.Empty(t, b.String())

	err = Errorf("broken %s", "pipe")
	require.Error(t, err)
	assert.Equal(t, "broken pipe", err.Error())
	assert.Contains(t, b.String(), "broken pipe")
}

func TestBufferBeforeInit(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	Infof("early %s", "bird")

	var b bytes.Buffer
	l, err := NewLogger(&b)
	require.NoError(t, err)
	SetupLogger(l, "debug")

	assert.Contains(t, b.String(), "early bird")
}

func TestChangeLogLevel(t *testing.T) {
	b := setupBuffer(t, "warn")

	Debugf("before")
	require.NoError(t, ChangeLogLevel("debug"))
	Debugf("after")

	lvl, err := GetLogLevel()
	require.NoError(t, err)
	assert.Equal(t, seelog.LogLevel(seelog.DebugLvl), lvl)
	assert.NotContains(t, b.String(), "before")
	assert.Contains(t, b.String(), "after")

	assert.Error(t, ChangeLogLevel("verbose"))
}

func TestUninitialized(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	assert.Error(t, ChangeLogLevel("debug"))
	_, err := GetLogLevel()
	assert.Error(t, err)
}

func TestDefaultFormat(t *testing.T) {
	b := setupBuffer(t, "info")

	Infof("formatted %s", "line")
	Flush()

	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \S+ \| INFO \| \(\S+\.go:\d+ in \S+\) \| formatted line\n$`)
	assert.Regexp(t, line, b.String())
}

func TestBufferIsBounded(t *testing.T) {
	resetLogger()
	t.Cleanup(resetLogger)

	for i := 0; i < maxBufferedLogs+10; i++ {
		Debugf("line %d", i)
	}
	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	assert.Len(t, logsBuffer, maxBufferedLogs)
}
