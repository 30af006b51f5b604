package ebidx

import "testing"

func TestSetLoggerGatesByLevel(t *testing.T) {
	defer SetLogger(nil, LogOff)

	var got []string
	SetLogger(func(level LogLevel, msg string, kv ...any) {
		got = append(got, msg)
	}, LogWarn)

	logAt(LogDebug, "debug message")
	logAt(LogWarn, "warn message")

	if len(got) != 1 || got[0] != "warn message" {
		t.Fatalf("got = %v, want only the warn-level message", got)
	}
}

func TestSetLoggerReturnsPreviousLevel(t *testing.T) {
	defer SetLogger(nil, LogOff)

	SetLogger(func(LogLevel, string, ...any) {}, LogDebug)
	prev := SetLogger(func(LogLevel, string, ...any) {}, LogWarn)
	if prev != LogDebug {
		t.Fatalf("prev = %v, want LogDebug", prev)
	}
}

func TestSetLoggerNilDisables(t *testing.T) {
	called := false
	SetLogger(func(LogLevel, string, ...any) { called = true }, LogDebug)
	SetLogger(nil, LogOff)

	logAt(LogWarn, "should not be delivered")
	if called {
		t.Fatal("logAt should be a no-op after the logger is cleared")
	}
}

func TestLogAtWithNoLoggerInstalledIsSafe(t *testing.T) {
	SetLogger(nil, LogOff)
	logAt(LogWarn, "nobody listening")
}
