package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies a failed remote call.
type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeRateLimited  ErrorCode = "rate_limit_exceeded"
	CodeValidation   ErrorCode = "validation_error"
	CodeNotFound     ErrorCode = "not_found"
	CodeNetwork      ErrorCode = "network"
	CodeAPI          ErrorCode = "api_error"
)

// APIError is returned by every Client method when the service rejects a
// request or cannot be reached.
type APIError struct {
	Code       ErrorCode
	StatusCode int    // 0 for network failures
	RemoteCode string // code reported in the response body, if any
	Message    string
	RequestID  string
	Err        error // transport error for CodeNetwork
}

func (e *APIError) Error() string {
	if e.Code == CodeNetwork {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("API error (%d %s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusNotFound:
		return CodeNotFound
	default:
		return CodeAPI
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newStatusError builds an APIError from a non-2xx response. The message is
// taken from a structured error body when present, else the raw body.
func newStatusError(status int, body []byte, requestID string) *APIError {
	apiErr := &APIError{
		Code:       codeForStatus(status),
		StatusCode: status,
		RequestID:  requestID,
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != nil && parsed.Error.Message != "" {
			apiErr.RemoteCode = parsed.Error.Code
			apiErr.Message = parsed.Error.Message
		} else if parsed.Message != "" {
			apiErr.RemoteCode = parsed.Code
			apiErr.Message = parsed.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func newNetworkError(err error, requestID string) *APIError {
	return &APIError{
		Code:      CodeNetwork,
		Message:   err.Error(),
		RequestID: requestID,
		Err:       err,
	}
}
