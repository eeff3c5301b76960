package server

import (
	"dm-lab/errors"
	"dm-lab/infrastructure/http/payload"
	"encoding/json"
	"log/slog"
	"net/http"
)

func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RespondError writes the error body with the status and reason mapped from err.
// Server side failures are logged, client mistakes only at debug level.
func RespondError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := errors.MapToHTTPStatus(err)
	reason := errors.ReasonOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "reason", reason, "error", err)
		if reason == errors.ReasonInternal {
			message = "internal error"
		}
	} else {
		log.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "reason", reason, "error", err)
	}
	RespondJSON(w, status, payload.ErrorResponse{Error: message, Reason: string(reason)})
}

// ErrorWriter adapts RespondError to the auth middleware callback.
func ErrorWriter(log *slog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		RespondError(log, w, r, err)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.ErrInvalidRequest
	}
	return payload.Validate(v)
}
