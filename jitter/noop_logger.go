package jitter

import "github.com/nimbus-robotics/jitterkit/logging"

// noopLogger discards everything. Used when New is called without an
// explicit logger.
type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Infow(string, ...interface{})  {}
func (noopLogger) Warnw(string, ...interface{})  {}
func (noopLogger) Errorw(string, ...interface{}) {}
func (noopLogger) Named(string) logging.Logger   { return noopLogger{} }
