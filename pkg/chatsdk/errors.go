package chatsdk

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
)

// Error codes the server puts in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeUserNotFound        = "user_not_found"
	ErrorCodeConflict            = "conflict"
	ErrorCodeQuotaExhausted      = "quota_exhausted"
	ErrorCodeNotOwner            = "not_owner"
	ErrorCodeAlreadyResolved     = "already_resolved"
	ErrorCodeExpired             = "expired"
	ErrorCodeAlreadyBootstrapped = "already_bootstrapped"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on Code, so errors.Is(err, &APIError{Code: ErrorCodeExpired})
// works regardless of status or description.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
