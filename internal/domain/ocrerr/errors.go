// Package ocrerr описывает ошибки конвейера распознавания.
package ocrerr

import (
	"errors"
	"fmt"
)

// Code тип ошибки
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeService          Code = "SERVICE_ERROR"
	CodeNoStructure      Code = "NO_STRUCTURE_FOUND"
	CodeUnrecoverable    Code = "UNRECOVERABLE_PARSE"
	CodeSchemaValidation Code = "SCHEMA_VALIDATION"
)

// Error ошибка конвейера с кодом и исходной причиной.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы работал errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Эталонные ошибки для errors.Is.
var (
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrInvalidFormat    = &Error{Code: CodeInvalidFormat}
	ErrService          = &Error{Code: CodeService}
	ErrNoStructure      = &Error{Code: CodeNoStructure}
	ErrUnrecoverable    = &Error{Code: CodeUnrecoverable}
	ErrSchemaValidation = &Error{Code: CodeSchemaValidation}
)

// CodeOf возвращает код ошибки или пустую строку, если это не *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func NewNotFoundError(path string, cause error) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("image file not found: %s", path),
		Details: map[string]any{"path": path},
		Cause:   cause,
	}
}

func NewInvalidFormatError(ext string, supported []string) *Error {
	return &Error{
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("invalid image format %q, supported formats: %v", ext, supported),
		Details: map[string]any{"extension": ext},
	}
}

// NewServiceError ответ сервиса без ожидаемого конверта или сбой транспорта.
func NewServiceError(reason string, cause error) *Error {
	return &Error{
		Code:    CodeService,
		Message: reason,
		Cause:   cause,
	}
}

func NewNoStructureError(raw string) *Error {
	return &Error{
		Code:    CodeNoStructure,
		Message: "no JSON object found in response",
		Details: map[string]any{"raw": raw},
	}
}

func NewUnrecoverableError(raw, cleaned string, cause error) *Error {
	return &Error{
		Code:    CodeUnrecoverable,
		Message: "failed to parse cleaned JSON",
		Details: map[string]any{
			"raw":     raw,
			"cleaned": cleaned,
		},
		Cause: cause,
	}
}

func NewSchemaValidationError(reason string, cause error) *Error {
	return &Error{
		Code:    CodeSchemaValidation,
		Message: reason,
		Cause:   cause,
	}
}
