package constants

// Типы проверок в таблице аудита качества данных
const (
	CheckTypeValidationError = "validation_error"
)
