package out

import "strings"

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func ParseLogLevel(value string) LogLevel {
	switch level := LogLevel(strings.ToUpper(strings.TrimSpace(value))); level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return level
	}
	return LogLevelInfo
}

func (l LogLevel) weight() int {
	switch l {
	case LogLevelDebug:
		return 0
	case LogLevelWarn:
		return 2
	case LogLevelError:
		return 3
	}
	return 1
}

// Enabled true, если сообщения уровня l выводятся при минимальном уровне min
func (l LogLevel) Enabled(min LogLevel) bool {
	return l.weight() >= min.weight()
}

type LogFields map[string]interface{}

type LoggerPort interface {
	Debug(event string, fields LogFields)
	Info(event string, fields LogFields)
	Warn(event string, fields LogFields)
	Error(event string, fields LogFields)
	WithFields(fields LogFields) LoggerPort
	WithModule(module string) LoggerPort
}
