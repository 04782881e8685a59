package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestNewTestLoggerNamed(t *testing.T) {
	log := NewTestLogger(t)
	named := log.Named("component")
	test.That(t, named, test.ShouldNotBeNil)
	// Should not panic at any level.
	named.Debugw("debug", "k", "v")
	named.Infow("info")
	named.Warnw("warn")
	named.Errorw("error")
}

func TestNewLoggerDoesNotPanic(t *testing.T) {
	log := NewLogger("test")
	test.That(t, log, test.ShouldNotBeNil)
	log.Infow("started", "component", "test")
}
