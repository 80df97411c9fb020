package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
	}
	// Domain codes map directly under their own names.
	domain := []struct {
		code string
		want int
	}{
		{"ITEM_NOT_AVAILABLE", http.StatusConflict},
		{"ITEM_RESERVED", http.StatusConflict},
		{"STATEMENT_VIEWED", http.StatusConflict},
		{"EMPTY_PAYOUT", http.StatusUnprocessableEntity},
		{"ORGANIZATION_SUSPENDED", http.StatusForbidden},
		{"INVALID_COMMISSION_RATE", http.StatusBadRequest},
		{"ENTRY_NOT_FOUND", http.StatusNotFound},
		{"INVALID_STATUS", http.StatusUnprocessableEntity},
	}

	for _, tt := range append(tests, domain...) {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}

	t.Run("unknown codes default to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("NO_SUCH_CODE"))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	t.Run("legacy codes are rewritten", func(t *testing.T) {
		legacy := map[string]string{
			"NOT_FOUND":            ErrCodeNotFound,
			"ALREADY_EXISTS":       ErrCodeAlreadyExists,
			"INVALID_INPUT":        ErrCodeInvalidInput,
			"INVALID_STATE":        ErrCodeInvalidState,
			"UNAUTHORIZED":         ErrCodeUnauthorized,
			"FORBIDDEN":            ErrCodeForbidden,
			"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
			"VALIDATION_ERROR":     ErrCodeValidation,
			"BAD_REQUEST":          ErrCodeBadRequest,
			"INTERNAL_ERROR":       ErrCodeInternal,
		}
		for in, want := range legacy {
			assert.Equal(t, want, NormalizeErrorCode(in), in)
		}
	})

	t.Run("current and domain codes pass through", func(t *testing.T) {
		for _, code := range []string{
			ErrCodeNotFound,
			ErrCodeValidation,
			"ITEM_RESERVED",
			"EMPTY_PAYOUT",
			"CUSTOM_ERROR",
		} {
			assert.Equal(t, code, NormalizeErrorCode(code), code)
		}
	})
}

func TestErrorCodeTableIsComplete(t *testing.T) {
	// Every ERR_ constant must have a status mapping; a missing entry
	// would silently turn the error into a 500.
	allCodes := []string{
		ErrCodeUnknown,
		ErrCodeInternal,
		ErrCodeValidation,
		ErrCodeValidationRequired,
		ErrCodeValidationFormat,
		ErrCodeValidationRange,
		ErrCodeValidationLength,
		ErrCodeUnauthorized,
		ErrCodeForbidden,
		ErrCodeTokenExpired,
		ErrCodeTokenInvalid,
		ErrCodeNotFound,
		ErrCodeAlreadyExists,
		ErrCodeConflict,
		ErrCodeConcurrencyConflict,
		ErrCodeInvalidState,
		ErrCodeBusinessRule,
		ErrCodeBadRequest,
		ErrCodeInvalidInput,
		ErrCodeInvalidJSON,
		ErrCodeRateLimited,
		ErrCodeTooManyRequests,
	}

	for _, code := range allCodes {
		status, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "no HTTP status mapped for %s", code)
		assert.Contains(t, code, "ERR_", "constant %s breaks the ERR_ naming convention", code)
		assert.Greater(t, status, 0)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Provider not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code, "legacy code is normalized on the way out")
	assert.Equal(t, "Provider not found", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Item not found", "req-123-456")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Validation failed", "req-789", []ValidationDetail{
		{Field: "commission_rate", Message: "Must be between 0 and 1"},
		{Field: "email", Message: "Invalid email format"},
	})

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "commission_rate", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be between 0 and 1", resp.Error.Details[0].Message)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	help := "https://docs.consignmentgenie.com/errors/auth"
	resp := NewErrorResponseWithHelp(ErrCodeUnauthorized, "Not authenticated", "req-001", help)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, help, resp.Error.Help)
}

func TestErrorResponseJSONRoundTrip(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Provider not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "Provider not found", decoded.Error.Message)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestErrorResponseTimestamp(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse(ErrCodeInternal, "Server error")
	after := time.Now()

	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(after))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"sku": "CG-0001"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"item1", "item2"}, 100, 1, 10)

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestPaginationMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{"even pages", 100, 10, 10, 10},
		{"partial last page", 101, 10, 11, 10},
		{"no results", 0, 10, 0, 10},
		{"under one page", 9, 10, 1, 10},
		{"exactly one page", 10, 10, 1, 10},
		{"just over one page", 11, 10, 2, 10},
		{"zero page size falls back to 20", 100, 0, 5, 20},
		{"negative page size falls back to 20", 100, -1, 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.wantPages, resp.Meta.TotalPages)
			assert.Equal(t, tt.wantSize, resp.Meta.PageSize)
		})
	}
}
