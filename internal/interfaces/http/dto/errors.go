package dto

import "net/http"

// Standardized API error codes. Handlers translate domain error codes into
// these; unknown codes fall through to 500.
const (
	// Authentication / authorization
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeBadCredentials = "BAD_CREDENTIALS"
	ErrCodeTokenExpired   = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid   = "INVALID_TOKEN"

	// Resources
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Business rules
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeSnapshotMissing     = "SNAPSHOT_MISSING"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"

	// Input
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeBadRequest             = "BAD_REQUEST"
	ErrCodeInvalidInput           = "INVALID_INPUT"
	ErrCodeInvalidJSON            = "INVALID_JSON"
	ErrCodeUnsupportedContentType = "UNSUPPORTED_CONTENT_TYPE"
	ErrCodeRequestTooLarge        = "REQUEST_TOO_LARGE"

	// Server
	ErrCodeInternal = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeBadCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeSnapshotMissing:     http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,

	ErrCodeValidation:             http.StatusBadRequest,
	ErrCodeBadRequest:             http.StatusBadRequest,
	ErrCodeInvalidInput:           http.StatusBadRequest,
	ErrCodeInvalidJSON:            http.StatusBadRequest,
	ErrCodeUnsupportedContentType: http.StatusUnsupportedMediaType,
	ErrCodeRequestTooLarge:        http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 Internal Server Error for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain-layer error codes to API error codes.
// Domain code names that already match the API vocabulary pass through.
var domainErrorCodeMapping = map[string]string{
	"INVALID_NAME":        ErrCodeInvalidInput,
	"INVALID_KIND":        ErrCodeInvalidInput,
	"INVALID_AMOUNT":      ErrCodeInvalidInput,
	"INVALID_STORAGE_KEY": ErrCodeInvalidInput,
	"BAD_CREDENTIALS":     ErrCodeBadCredentials,
}

// NormalizeErrorCode converts a domain error code to the API error code.
// Codes with no mapping are returned unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}

// ValidationDetail describes a single field-level validation failure
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
