package domain

import "fmt"

// FetchError - провайдер недоступен после исчерпания всех попыток.
// Фатальна для всего прогона.
type FetchError struct {
	Attempts int
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch listings after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// TransformError - одно объявление не удалось привести к канонической форме.
// Фатальна только для этой записи, прогон продолжается.
type TransformError struct {
	Field string
	Cause error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("failed to transform listing field '%s': %v", e.Field, e.Cause)
}

func (e *TransformError) Unwrap() error { return e.Cause }

// PersistenceError - транзакция сохранения одной записи не прошла.
// Запись считается пропущенной, прогон продолжается.
type PersistenceError struct {
	ExternalID string
	Cause      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist property '%s': %v", e.ExternalID, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }
