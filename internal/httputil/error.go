package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/bracket-wager/internal/service"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	Error(w, http.StatusBadRequest, msg)
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}

// ServiceError translates the service layer's sentinel errors into HTTP
// responses. Anything unrecognized is logged and reported as a 500.
func ServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUnknownMatch):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrAdminBetForbidden),
		errors.Is(err, service.ErrAccessCodeInvalid):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrDuplicateBet),
		errors.Is(err, service.ErrBonusAlreadyClaimed),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrInvalidPhaseTransition),
		errors.Is(err, service.ErrBettingClosed),
		errors.Is(err, service.ErrNoActiveMatch):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidBracketInput),
		errors.Is(err, service.ErrInvalidWinner),
		errors.Is(err, service.ErrInvalidSelection),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrInvalidRegistration):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("unexpected service error", "error", err)
		Error(w, status, "internal server error")
		return
	}
	Error(w, status, err.Error())
}
