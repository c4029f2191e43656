package json

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aarynsmith/exercisetracker/internal/domain"
)

const internalErrorMessage = "Internal Server Error"

// WriteText writes a single-line plain text body.
func WriteText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// WriteError maps err to a status and plain text body. Repository errors
// carry their own status and message; anything else is a 500 with a
// generic body so internal details never leak.
func WriteError(w http.ResponseWriter, err error) int {
	var de *domain.Error
	if errors.As(err, &de) {
		status := de.Status()
		WriteText(w, status, de.Message)
		return status
	}

	WriteText(w, http.StatusInternalServerError, internalErrorMessage)
	return http.StatusInternalServerError
}

func WriteValidationError(w http.ResponseWriter, err error) {
	WriteText(w, http.StatusBadRequest, err.Error())
}

func WriteNotFound(w http.ResponseWriter) {
	WriteText(w, http.StatusNotFound, "not found")
}

func WriteRateLimitError(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	WriteText(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
