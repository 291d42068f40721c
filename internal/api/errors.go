package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AltairaLabs/usecase-manager/internal/usecase"
)

// errUnauthenticated is returned when the authorizer passed no caller identity.
var errUnauthenticated = errors.New("missing caller identity")

// HandlerWithError is an HTTP handler that reports failure by returning an
// error instead of writing the error response itself.
type HandlerWithError func(http.ResponseWriter, *http.Request) error

// ErrorHandler wraps fn and turns a returned error into a response.
// Client errors carry their message; server errors are logged and answered
// with the generic status text.
func ErrorHandler(log *slog.Logger, fn HandlerWithError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		code := statusCode(err)
		if code >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "request failed",
				"method", r.Method, "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(code), code)
			return
		}

		log.InfoContext(r.Context(), "request rejected",
			"method", r.Method, "path", r.URL.Path, "status", code, "error", err)
		http.Error(w, err.Error(), code)
	}
}

func statusCode(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case usecase.IsValidationError(err) != nil:
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
