// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package log is a thin seelog wrapper shared by every package of the bridge.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cihub/seelog"
	"go.uber.org/atomic"
)

// DefaultFormat is the seelog format used by NewLogger.
const DefaultFormat = "%Date(2006-01-02 15:04:05 MST) | %LEVEL | (%File:%Line in %FuncShort) | %Msg%n"

var (
	logger atomic.Pointer[DatadogLogger]

	// Lines logged before SetupLogger are kept here and replayed once a
	// logger exists. Configuration loading logs before that point.
	logsBuffer           []func()
	bufferLogsBeforeInit = atomic.NewBool(true)
	bufferMutex          sync.Mutex
	maxBufferedLogs      = 1000

	// Xxxf, logFormat and write sit between the caller and seelog
	defaultStackDepth = 3
)

// DatadogLogger wraps a seelog logger with a level that can be changed at
// runtime.
type DatadogLogger struct {
	inner seelog.LoggerInterface
	level seelog.LogLevel
	l     sync.RWMutex
}

// NewLogger returns a synchronous seelog logger writing to w. Level
// filtering is left to the DatadogLogger so that ChangeLogLevel can lower it.
func NewLogger(w io.Writer) (seelog.LoggerInterface, error) {
	return seelog.LoggerFromWriterWithMinLevelAndFormat(w, seelog.TraceLvl, DefaultFormat)
}

// SetupLogger installs l as the process logger and replays any buffered
// lines. Unknown levels fall back to info.
func SetupLogger(l seelog.LoggerInterface, level string) {
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		lvl = seelog.InfoLvl
	}
	l.SetAdditionalStackDepth(defaultStackDepth) //nolint:errcheck
	logger.Store(&DatadogLogger{inner: l, level: lvl})

	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	bufferLogsBeforeInit.Store(false)
	for _, logLine := range logsBuffer {
		logLine()
	}
	logsBuffer = nil
}

func addLogToBuffer(logHandle func()) {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()
	if len(logsBuffer) >= maxBufferedLogs {
		return
	}
	logsBuffer = append(logsBuffer, logHandle)
}

func (sw *DatadogLogger) shouldLog(level seelog.LogLevel) bool {
	sw.l.RLock()
	defer sw.l.RUnlock()
	return level >= sw.level
}

func (sw *DatadogLogger) changeLogLevel(level string) error {
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return errors.New("bad log level")
	}
	sw.l.Lock()
	sw.level = lvl
	sw.l.Unlock()
	return nil
}

func (sw *DatadogLogger) write(level seelog.LogLevel, msg string) error {
	sw.l.RLock()
	defer sw.l.RUnlock()
	switch level {
	case seelog.TraceLvl:
		sw.inner.Trace(msg)
	case seelog.DebugLvl:
		sw.inner.Debug(msg)
	case seelog.InfoLvl:
		sw.inner.Info(msg)
	case seelog.WarnLvl:
		return sw.inner.Warn(msg)
	case seelog.ErrorLvl:
		return sw.inner.Error(msg)
	case seelog.CriticalLvl:
		return sw.inner.Critical(msg)
	}
	return nil
}

func logFormat(level seelog.LogLevel, bufferFunc func(), format string, params ...interface{}) {
	if l := logger.Load(); l != nil {
		if l.shouldLog(level) {
			l.write(level, fmt.Sprintf(format, params...)) //nolint:errcheck
		}
		return
	}
	if bufferLogsBeforeInit.Load() {
		addLogToBuffer(bufferFunc)
	}
}

func logFormatWithError(level seelog.LogLevel, bufferFunc func(), fallbackStderr bool, format string, params ...interface{}) error {
	msg := fmt.Sprintf(format, params...)
	if l := logger.Load(); l != nil {
		if l.shouldLog(level) {
			l.write(level, msg) //nolint:errcheck
		}
		return errors.New(msg)
	}
	if bufferLogsBeforeInit.Load() {
		addLogToBuffer(bufferFunc)
	}
	if fallbackStderr {
		fmt.Fprintf(os.Stderr, "%s: %s\n", level.String(), msg)
	}
	return errors.New(msg)
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	logFormat(seelog.TraceLvl, func() { Tracef(format, params...) }, format, params...)
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	logFormat(seelog.DebugLvl, func() { Debugf(format, params...) }, format, params...)
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	logFormat(seelog.InfoLvl, func() { Infof(format, params...) }, format, params...)
}

// Warnf logs with format at the warn level and returns an error containing the formatted log message
func Warnf(format string, params ...interface{}) error {
	return logFormatWithError(seelog.WarnLvl, func() { Warnf(format, params...) }, false, format, params...)
}

// Errorf logs with format at the error level and returns an error containing the formatted log message
func Errorf(format string, params ...interface{}) error {
	return logFormatWithError(seelog.ErrorLvl, func() { Errorf(format, params...) }, true, format, params...)
}

// Criticalf logs with format at the critical level and returns an error containing the formatted log message
func Criticalf(format string, params ...interface{}) error {
	return logFormatWithError(seelog.CriticalLvl, func() { Criticalf(format, params...) }, true, format, params...)
}

// Flush flushes the underlying inner log
func Flush() {
	if l := logger.Load(); l != nil {
		l.l.RLock()
		l.inner.Flush()
		l.l.RUnlock()
	}
}

// GetLogLevel returns the current log level.
func GetLogLevel() (seelog.LogLevel, error) {
	if l := logger.Load(); l != nil {
		l.l.RLock()
		defer l.l.RUnlock()
		return l.level, nil
	}
	return seelog.InfoLvl, errors.New("cannot get loglevel: logger not initialized")
}

// ChangeLogLevel changes the current log level. Valid levels are trace,
// debug, info, warn, error, critical and off.
func ChangeLogLevel(level string) error {
	if l := logger.Load(); l != nil {
		return l.changeLogLevel(level)
	}
	return errors.New("cannot change loglevel: logger not initialized")
}
