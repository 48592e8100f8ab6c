package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/botfleet/console/internal/campaigns"
	"github.com/botfleet/console/internal/gateway"
	"github.com/botfleet/console/internal/notifications"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps workflow and gateway failures onto HTTP statuses:
// local validation failures are unprocessable, a superseded load is a
// conflict the client should retry, a missing remote entity is not found,
// anything else is an upstream failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, campaigns.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	case gateway.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		campaigns.ErrWrongStatus,
		campaigns.ErrNoContacts,
		campaigns.ErrMissingParams,
		campaigns.ErrNotEditable,
		campaigns.ErrNoSelection,
		campaigns.ErrNameRequired,
		campaigns.ErrTemplateNotApproved,
		campaigns.ErrNothingPending,
		campaigns.ErrExecutionInFlight,
		notifications.ErrTemplateRequired,
		notifications.ErrUnknownConfig,
		notifications.ErrNothingPending,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
