package logger

import "go.uber.org/zap"

// Logger is the logging interface used across services so tests can swap in
// a no-op implementation.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
}

type ZapLogger struct {
	s *zap.SugaredLogger
}

func NewZapLogger(s *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{s: s}
}

// NewProduction builds a ZapLogger backed by zap's production config.
func NewProduction() (*ZapLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l.Sugar()), nil
}

func (l *ZapLogger) Info(args ...interface{})                  { l.s.Info(args...) }
func (l *ZapLogger) Infof(format string, args ...interface{})  { l.s.Infof(format, args...) }
func (l *ZapLogger) Warn(args ...interface{})                  { l.s.Warn(args...) }
func (l *ZapLogger) Warnf(format string, args ...interface{})  { l.s.Warnf(format, args...) }
func (l *ZapLogger) Error(args ...interface{})                 { l.s.Error(args...) }
func (l *ZapLogger) Errorf(format string, args ...interface{}) { l.s.Errorf(format, args...) }
func (l *ZapLogger) Debug(args ...interface{})                 { l.s.Debug(args...) }
func (l *ZapLogger) Debugf(format string, args ...interface{}) { l.s.Debugf(format, args...) }

// Nop discards everything. Used in tests.
type Nop struct{}

func (Nop) Info(args ...interface{})                  {}
func (Nop) Infof(format string, args ...interface{})  {}
func (Nop) Warn(args ...interface{})                  {}
func (Nop) Warnf(format string, args ...interface{})  {}
func (Nop) Error(args ...interface{})                 {}
func (Nop) Errorf(format string, args ...interface{}) {}
func (Nop) Debug(args ...interface{})                 {}
func (Nop) Debugf(format string, args ...interface{}) {}
