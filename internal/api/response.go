package api

import (
	stderrors "errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse acknowledges commands that have nothing else to return.
type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"INTERNAL_ERROR","message":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// respondError maps an error code onto an HTTP status. Internal details never reach
// the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.CodeOf(err)

	var appErr *errors.AppError
	message := "internal server error"
	if status != http.StatusInternalServerError && stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	if code == "" || status == http.StatusInternalServerError {
		code = errors.ErrCodeInternalError
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	respondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func statusFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeValidation, errors.ErrCodeMalformedSubmission:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeNotFound, errors.ErrCodeCandidateNotFound:
		return http.StatusNotFound
	case errors.ErrCodeProfileNotReady, errors.ErrCodeAlreadyExists:
		return http.StatusConflict
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case errors.ErrCodeEmbeddingUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a request body into dst. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid JSON body")
	}
	return nil
}
