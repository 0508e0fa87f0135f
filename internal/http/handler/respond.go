package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"topicwheel/internal/auth"
	"topicwheel/internal/domain"
)

const maxBodyBytes = 1 << 20

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string                `json:"error"`
	Reason domain.ConflictReason `json:"reason,omitempty"`
	Fields []fieldError          `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleError maps domain errors to HTTP statuses. Anything unknown is logged
// and answered with a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp := errorResponse{Error: ve.Error()}
		for _, fe := range ve.Errors {
			resp.Fields = append(resp.Fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: ce.Message, Reason: ce.Reason})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

// participant returns the authenticated name when a token was presented,
// otherwise the name supplied with the request.
func participant(r *http.Request, supplied string) string {
	if name, ok := auth.NameFromContext(r.Context()); ok {
		return name
	}
	return strings.TrimSpace(supplied)
}

type userResponse struct {
	*domain.User
	DaysLeft *int `json:"daysLeft"`
}

func toUserResponse(u *domain.User, now time.Time) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{User: u, DaysLeft: u.DaysLeft(now)}
}
