package logging

import "context"

// NoopLogger discards everything. Useful in tests.
type NoopLogger struct{}

func (NoopLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (NoopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (NoopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (NoopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (NoopLogger) With(args ...any) Logger                            { return NoopLogger{} }
