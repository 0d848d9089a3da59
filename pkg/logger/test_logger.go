package logger

import (
	"sync"
)

// TestLogger is a Logger implementation for tests that captures all messages
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{
		messages: make([]LogMessage, 0),
	}
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields, nil)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields, nil)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields, nil)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields, nil)
}

// WithField adds a field to the logger context
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &testLoggerEntry{
		parent: l,
		fields: map[string]interface{}{key: value},
	}
}

// WithFields adds multiple fields to the logger context
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerEntry{parent: l, fields: fields}
}

// WithError adds an error to the logger context
func (l *TestLogger) WithError(err error) Logger {
	return &testLoggerEntry{parent: l, err: err}
}

// log captures a log message
func (l *TestLogger) log(level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Error:   err,
	})
}

// Messages returns a copy of all captured log messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := make([]LogMessage, len(l.messages))
	copy(messages, l.messages)
	return messages
}

// MessagesByLevel returns all messages of a specific level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	var filtered []LogMessage
	for _, msg := range l.messages {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, msg := range l.messages {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// Clear removes all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = l.messages[:0]
}

// testLoggerEntry is a TestLogger with field and error context attached
type testLoggerEntry struct {
	parent *TestLogger
	fields map[string]interface{}
	err    error
}

func (e *testLoggerEntry) Debug(msg string) { e.parent.log("DEBUG", msg, e.fields, e.err) }
func (e *testLoggerEntry) Info(msg string)  { e.parent.log("INFO", msg, e.fields, e.err) }
func (e *testLoggerEntry) Warn(msg string)  { e.parent.log("WARN", msg, e.fields, e.err) }
func (e *testLoggerEntry) Error(msg string) { e.parent.log("ERROR", msg, e.fields, e.err) }
func (e *testLoggerEntry) Fatal(msg string) { e.parent.log("FATAL", msg, e.fields, e.err) }

func (e *testLoggerEntry) DebugWithFields(msg string, fields map[string]interface{}) {
	e.parent.log("DEBUG", msg, e.merge(fields), e.err)
}

func (e *testLoggerEntry) InfoWithFields(msg string, fields map[string]interface{}) {
	e.parent.log("INFO", msg, e.merge(fields), e.err)
}

func (e *testLoggerEntry) WarnWithFields(msg string, fields map[string]interface{}) {
	e.parent.log("WARN", msg, e.merge(fields), e.err)
}

func (e *testLoggerEntry) ErrorWithFields(msg string, fields map[string]interface{}) {
	e.parent.log("ERROR", msg, e.merge(fields), e.err)
}

func (e *testLoggerEntry) WithField(key string, value interface{}) Logger {
	return &testLoggerEntry{
		parent: e.parent,
		fields: e.merge(map[string]interface{}{key: value}),
		err:    e.err,
	}
}

func (e *testLoggerEntry) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerEntry{parent: e.parent, fields: e.merge(fields), err: e.err}
}

func (e *testLoggerEntry) WithError(err error) Logger {
	return &testLoggerEntry{parent: e.parent, fields: e.fields, err: err}
}

func (e *testLoggerEntry) merge(additional map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range additional {
		merged[k] = v
	}
	return merged
}
