package inventoryfakes

import "sync"

// LoggerSpy captures log messages per level for assertions. It satisfies
// the slog-shaped Logger interfaces of the engine and handler packages.
type LoggerSpy struct {
	mu       sync.Mutex
	messages map[string][]string
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{
		messages: make(map[string][]string),
	}
}

// Debug captures a debug message.
func (l *LoggerSpy) Debug(msg string, _ ...any) { l.capture("debug", msg) }

// Info captures an info message.
func (l *LoggerSpy) Info(msg string, _ ...any) { l.capture("info", msg) }

// Warn captures a warn message.
func (l *LoggerSpy) Warn(msg string, _ ...any) { l.capture("warn", msg) }

// Error captures an error message.
func (l *LoggerSpy) Error(msg string, _ ...any) { l.capture("error", msg) }

// Messages returns a copy of the captured messages for one level.
func (l *LoggerSpy) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	captured := make([]string, len(l.messages[level]))
	copy(captured, l.messages[level])

	return captured
}

func (l *LoggerSpy) capture(level string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages[level] = append(l.messages[level], msg)
}
