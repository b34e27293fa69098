package rpc

import "testing"

// NopLogger and StdLogger just need to satisfy Logger without panicking.
func TestNopLoggerDiscardsSilently(t *testing.T) {
	var l Logger = NopLogger{}
	l.Printf("x %d", 1)
	l.Warnf("y %d", 2)
}

func TestStdLoggerSatisfiesLogger(t *testing.T) {
	var l Logger = StdLogger{}
	l.Printf("x %d", 1)
	l.Warnf("y %d", 2)
}
