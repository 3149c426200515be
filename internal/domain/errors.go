package domain

import (
	"errors"
	"fmt"
)

// DomainError - базовая ошибка доменного слоя
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (code: %s)", e.Message, e.Cause.Error(), e.Code)
	}
	return fmt.Sprintf("%s (code: %s)", e.Message, e.Code)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы обернутые копии совпадали с базовыми
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return e.Code == de.Code
}

// NewDomainError создает новую доменную ошибку
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

const (
	ErrCodeJournalDisabled = "JOURNAL_DISABLED"
	ErrCodeDuplicateCall   = "DUPLICATE_CALL"
	ErrCodeUnknownDriver   = "UNKNOWN_DRIVER"
)

var (
	ErrJournalDisabled = NewDomainError(ErrCodeJournalDisabled, "call journal is disabled", nil)
	ErrDuplicateCall   = NewDomainError(ErrCodeDuplicateCall, "call record already exists", nil)
	ErrUnknownDriver   = NewDomainError(ErrCodeUnknownDriver, "unknown journal driver", nil)
)

// NewDuplicateCallError создает ошибку повторной записи с указанием ID
func NewDuplicateCallError(id string, cause error) error {
	return NewDomainError(ErrCodeDuplicateCall, fmt.Sprintf("call record %s already exists", id), cause)
}
