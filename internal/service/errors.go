package service

import (
	"errors"
	"fmt"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeResolution = "RESOLUTION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeUpdate     = "UPDATE_FAILED"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string, id int64) *BusinessError {
	return NewBusinessError(CodeNotFound, fmt.Sprintf("%s %d not found", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id))
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation, reason,
		ToDetail("field", field),
		ToDetail("reason", reason))
}

func NewResolutionError(username string) *BusinessError {
	return NewBusinessError(CodeResolution, fmt.Sprintf("user %q not found", username),
		ToDetail("username", username))
}

func NewUpdateFailed(id int64, err error) *BusinessError {
	busErr := NewBusinessError(CodeUpdate, fmt.Sprintf("task %d could not be updated", id),
		ToDetail("id", id))
	busErr.Err = err
	return busErr
}

// CodeOf returns the business code carried by err, or "".
func CodeOf(err error) string {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr.Code
	}
	return ""
}
