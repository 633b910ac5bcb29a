package models

import (
	"errors"
	"net/http"
)

type ErrorKind string // Категория ошибки

const (
	ValidationError   ErrorKind = "validation"    // Некорректные входные данные
	NotFoundError     ErrorKind = "not_found"     // Сущность не найдена
	InvalidStateError ErrorKind = "invalid_state" // Операция запрещена в текущем статусе
	BackendError      ErrorKind = "backend"       // Ошибка хранилища или сети
)

// ErrorResponse описывает ошибку с кодом, категорией и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом, категорией и сообщением.
func NewErrorResponse(statusCode int, kind ErrorKind, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message}
}

// NewValidationError создает ошибку для некорректных входных данных.
func NewValidationError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, ValidationError, message)
}

// NewNotFoundError создает ошибку для отсутствующей сущности.
func NewNotFoundError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, NotFoundError, message)
}

// NewInvalidStateError создает ошибку для операции, запрещенной текущим статусом.
func NewInvalidStateError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusConflict, InvalidStateError, message)
}

// NewBackendError создает ошибку хранилища или сети.
func NewBackendError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusBadGateway, BackendError, message)
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// IsKind сообщает, относится ли ошибка к указанной категории.
func IsKind(err error, kind ErrorKind) bool {
	var errorResponse *ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse.Kind == kind
	}
	return false
}
