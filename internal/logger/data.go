package logger

import (
	"io"
	"sync"
)

// Logger provides structured logging with levels

type Logger struct {
	MinLevel LogLevel
	// Output receives formatted lines; nil means the standard log package.
	Output io.Writer
	mu     sync.Mutex
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)
