package testutil

import (
	"fmt"
	"sync"
)

// StubLogger records log lines in memory. Safe for concurrent use.
type StubLogger struct {
	mu    sync.Mutex
	Lines []string
}

func NewStubLogger() *StubLogger {
	return &StubLogger{}
}

func (l *StubLogger) log(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, fmt.Sprintf("%s %s %v", level, msg, args))
}

func (l *StubLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args) }
func (l *StubLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args) }
func (l *StubLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args) }
func (l *StubLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args) }
