package dlog

import "time"

// StageLogger scopes every call to a named build phase, attaching a
// "stage" field automatically so builder.Build's pipeline (brush export,
// coord bins, hull poly lists, raycast coverage) doesn't have to repeat
// dlog.F("stage", ...) at every call site, and records how long the phase
// took once Done is called.
type StageLogger struct {
	inner Logger
	stage string
	start time.Time
}

// Stage returns a Logger scoped to the named build phase, backed by
// whatever logger is currently installed via SetLogger.
func Stage(name string) *StageLogger {
	return &StageLogger{inner: GetLogger(), stage: name, start: time.Now()}
}

func (s *StageLogger) withStage(fields []Field) []Field {
	tagged := make([]Field, 0, len(fields)+1)
	tagged = append(tagged, F("stage", s.stage))
	return append(tagged, fields...)
}

func (s *StageLogger) Debug(msg string, fields ...Field) { s.inner.Debug(msg, s.withStage(fields)...) }
func (s *StageLogger) Info(msg string, fields ...Field)  { s.inner.Info(msg, s.withStage(fields)...) }
func (s *StageLogger) Warn(msg string, fields ...Field)  { s.inner.Warn(msg, s.withStage(fields)...) }
func (s *StageLogger) Error(msg string, fields ...Field) { s.inner.Error(msg, s.withStage(fields)...) }

// Done logs the stage's completion at info level along with its elapsed
// duration in milliseconds.
func (s *StageLogger) Done(fields ...Field) {
	withElapsed := make([]Field, 0, len(fields)+1)
	withElapsed = append(withElapsed, fields...)
	withElapsed = append(withElapsed, F("elapsed_ms", time.Since(s.start).Milliseconds()))
	s.Info("stage complete", withElapsed...)
}
