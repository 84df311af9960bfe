// Package logtest provides loggers that record entries in memory.
package logtest

import (
	"github.com/beka-birhanu/vinom-navigator/infrastruture/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObserved returns a debug level logger and the entries written to it.
func NewObserved() (*log.Logger, *observer.ObservedLogs) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core, logs := observer.New(level)
	return log.NewWithCore(core, level), logs
}
