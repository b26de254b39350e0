package rentalapi

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс для учета запросов к бэкенду
type Metrics interface {
	ObserveBackend(operation, outcome string, duration time.Duration)
}
