package rpc

import "log"

// Logger is the minimal logging seam the RPC core depends on. The teacher
// never introduces a structured-logging library (no zap/zerolog anywhere in
// the retrieved pack's go.mod files), so this stays a thin interface over
// the standard log package rather than adopting one — matching the
// teacher's own log.Printf-everywhere style in infra/network/rpc.go.
type Logger interface {
	Printf(format string, args ...any)
	Warnf(format string, args ...any)
}

// StdLogger is the default Logger, backed by the standard library's log
// package.
type StdLogger struct{}

func (StdLogger) Printf(format string, args ...any) { log.Printf(format, args...) }
func (StdLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }

// NopLogger discards everything; useful for tests that assert on behavior
// rather than log output.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...any) {}
func (NopLogger) Warnf(format string, args ...any)  {}
