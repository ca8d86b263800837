package port

// Fields - структурированные поля для лога.
type Fields map[string]interface{}

// LoggerPort отделяет ядро приложения от конкретной реализации логгера.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error записывает ошибку вместе с объектом error (может быть nil).
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает логгер с добавленным контекстом (trace_id, component...).
	WithFields(fields Fields) LoggerPort
}
