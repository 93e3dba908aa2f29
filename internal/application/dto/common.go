package dto

// Códigos de error estables que ven los clientes en ErrorResponse.Code.
const (
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "CONFLICT"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeMissingRole       = "MISSING_ROLE"
	CodeForbidden         = "FORBIDDEN"
	CodePaymentRequired   = "PAYMENT_REQUIRED"
	CodeAccessCheckFailed = "ACCESS_CHECK_FAILED"
	CodeProviderError     = "PROVIDER_ERROR"
	CodePartialFailure    = "PARTIAL_FAILURE"
	CodeInternal          = "INTERNAL"
)

// ErrorResponse cuerpo de todas las respuestas de error de la API, salvo el webhook.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
