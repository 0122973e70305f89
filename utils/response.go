package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go-shop/errs"

	"go.uber.org/zap"
)

// MaxJSONBody caps decoded request bodies.
const MaxJSONBody = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  []errs.FieldError `json:"errors,omitempty"`
}

// JSON writes body with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Message: msg})
}

// Error maps err onto a status code and writes it. Internal errors are logged
// and their detail is not sent to the client.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	status := StatusOf(err)

	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		JSON(w, status, ErrorBody{Message: errs.ErrValidation.Error(), Errors: verr.Fields})
	case status == http.StatusInternalServerError:
		log.Error("request failed", zap.Error(err))
		Message(w, status, "Internal server error")
	default:
		Message(w, status, err.Error())
	}
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads a JSON request body into v. Malformed input is a validation error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Invalid("body", "request body is empty")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return errs.Invalid(typeErr.Field, fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()))
		}
		return errs.Invalid("body", "invalid JSON")
	}
	return nil
}
