// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler writes standardized error responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteHTTP normalizes err, logs it, and writes a JSON error response with
// a status derived from the error code.
func (h *ErrorHandler) WriteHTTP(w http.ResponseWriter, err error) {
	stdErr := Normalize(err)

	h.logger.Error("request failed", map[string]interface{}{
		"errorCode":    string(stdErr.Code),
		"errorMessage": stdErr.Message,
		"errorDetails": stdErr.Details,
		"retryable":    stdErr.Retryable,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(stdErr.Code))
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    stdErr.Code,
			"message": stdErr.Message,
		},
	})
}

// HTTPStatus maps an error code to an HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeProfileNotFound:
		return http.StatusNotFound
	case ErrCodeProfileInvalid, ErrCodeTierUnrecognized, ErrCodeStoreRowInvalid:
		return http.StatusUnprocessableEntity
	case ErrCodeIdentityAuthFailed, ErrCodeIdentityUnavailable,
		ErrCodeDatabaseConnectionFailed, ErrCodeQueryExecutionFailed,
		ErrCodeQueryTimeout, ErrCodeCacheUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
