package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	ErrInvalidSignature  = errors.New("firma de webhook inválida")
	ErrInvalidTransition = fmt.Errorf("%w: transición de estado no permitida", ErrConflict)
	ErrPaymentRequired   = errors.New("suscripción vencida")
	ErrExternalProvider  = errors.New("error del proveedor de cobros")
	ErrPartialFailure    = errors.New("recurso remoto creado sin persistencia local")
)

// ValidationError describe un campo rechazado antes de cualquier mutación.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError envuelve la descripción devuelta por el proveedor de cobros.
type ProviderError struct {
	Op          string // customers, subscriptions, payments, pixQrCode
	Status      int    // HTTP status de la respuesta (0 si no hubo respuesta)
	Description string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("proveedor de cobros (%s, HTTP %d): %s", e.Op, e.Status, e.Description)
	}
	return fmt.Sprintf("proveedor de cobros (%s): %s", e.Op, e.Description)
}

func (e *ProviderError) Unwrap() error { return ErrExternalProvider }
