package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Domain-specific codes keep their original names so clients can branch
// on them; only the generic codes are normalized to the ERR_ format.
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,

	// Authentication and account state
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	// Tenant state
	"ORGANIZATION_SUSPENDED": http.StatusForbidden,
	"SLUG_TAKEN":             http.StatusConflict,
	"EMAIL_TAKEN":            http.StatusConflict,
	"ALREADY_ACTIVE":         http.StatusConflict,
	"ALREADY_SUSPENDED":      http.StatusConflict,
	"ALREADY_DEACTIVATED":    http.StatusConflict,
	"USER_NOT_FOUND":         http.StatusNotFound,

	// Inventory and storefront conflicts -> 409 so POS and cart clients
	// can distinguish lost races from bad requests
	"ITEM_NOT_AVAILABLE": http.StatusConflict,
	"ITEM_RESERVED":      http.StatusConflict,

	// Settlement conflicts
	"ALREADY_BATCHED":  http.StatusConflict,
	"STATEMENT_VIEWED": http.StatusConflict,

	// Outbox administration
	"ENTRY_NOT_FOUND": http.StatusNotFound,
	"INVALID_STATUS":  http.StatusUnprocessableEntity,

	// Business rule violations -> 422
	"EMPTY_CART":                http.StatusUnprocessableEntity,
	"EMPTY_ORDER":               http.StatusUnprocessableEntity,
	"EMPTY_PAYOUT":              http.StatusUnprocessableEntity,
	"PROVIDER_NOT_ACTIVE":       http.StatusUnprocessableEntity,
	"CANNOT_SYNC_VOIDED":        http.StatusUnprocessableEntity,
	"ACCOUNTING_NOT_CONFIGURED": http.StatusUnprocessableEntity,

	// Field-level validation failures -> 400 Bad Request
	"INVALID_AMOUNT":             http.StatusBadRequest,
	"INVALID_CHANNEL":            http.StatusBadRequest,
	"INVALID_COMMISSION_RATE":    http.StatusBadRequest,
	"INVALID_CONVERSION_RATE":    http.StatusBadRequest,
	"INVALID_DISPLAY_NAME":       http.StatusBadRequest,
	"INVALID_EMAIL":              http.StatusBadRequest,
	"INVALID_ITEM":               http.StatusBadRequest,
	"INVALID_ITEM_NAME":          http.StatusBadRequest,
	"INVALID_ORDER_NUMBER":       http.StatusBadRequest,
	"INVALID_ORGANIZATION_NAME":  http.StatusBadRequest,
	"INVALID_PASSWORD":           http.StatusBadRequest,
	"INVALID_PAYMENT_PREFERENCE": http.StatusBadRequest,
	"INVALID_PAYOUT_METHOD":      http.StatusBadRequest,
	"INVALID_PERIOD":             http.StatusBadRequest,
	"INVALID_PHOTO":              http.StatusBadRequest,
	"INVALID_PHOTO_TYPE":         http.StatusBadRequest,
	"INVALID_PHOTO_URL":          http.StatusBadRequest,
	"INVALID_PRICE":              http.StatusBadRequest,
	"INVALID_PROVIDER":           http.StatusBadRequest,
	"INVALID_PROVIDER_CODE":      http.StatusBadRequest,
	"INVALID_PROVIDER_NAME":      http.StatusBadRequest,
	"INVALID_QUANTITY":           http.StatusBadRequest,
	"INVALID_ROLE":               http.StatusBadRequest,
	"INVALID_SALE_PRICE":         http.StatusBadRequest,
	"INVALID_SESSION":            http.StatusBadRequest,
	"INVALID_SHOPPER":            http.StatusBadRequest,
	"INVALID_SKU":                http.StatusBadRequest,
	"INVALID_SLUG":               http.StatusBadRequest,
	"INVALID_TAX_RATE":           http.StatusBadRequest,
	"INVALID_TRANSACTION":        http.StatusBadRequest,

	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps generic domain error codes to the
// standardized ERR_ codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
