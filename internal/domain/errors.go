package domain

import (
	"errors"
	"fmt"
)

var (
	// Общий маркер ошибок ввода; проверяется через errors.Is.
	ErrValidation = errors.New("validation failed")
	// Общий маркер ошибок хранилища.
	ErrPersistence = errors.New("persistence failed")
	// ErrNotFound возвращается, когда запись отсутствует в рабочем наборе.
	ErrNotFound = errors.New("not found")
)

// ValidationError описывает некорректный ввод. До хранилища такие ошибки не доходят.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func NewValidationError(field, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: cause}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// PersistenceError — сбой записи/чтения во внешнем хранилище.
type PersistenceError struct {
	Op    string
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// IsValidation сообщает, является ли err ошибкой валидации.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
