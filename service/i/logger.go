package i

import "go.uber.org/zap"

// Logger is the structured logger the services write to.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// Recorder receives the counters the services expose.
type Recorder interface {
	ObserveTick(action string)
	ObserveSwitch(to string)
	ObserveRoute(outcome string, expanded int)
	SessionOpened()
	SessionClosed()
}
