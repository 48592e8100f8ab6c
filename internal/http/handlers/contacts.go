package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/botfleet/console/internal/contacts"
	"github.com/botfleet/console/pkg/logging"
)

// ContactsHandler serves the bot-wide contact list and the CRM sync trigger.
type ContactsHandler struct {
	source contacts.Source
	logger *logging.Logger
}

// NewContactsHandler creates a contacts handler. The source is normally the
// cached directory so repeated candidate lookups stay cheap.
func NewContactsHandler(source contacts.Source, logger *logging.Logger) *ContactsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ContactsHandler{source: source, logger: logger}
}

// List returns the bot's contacts.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.source.ListContacts(r.Context(), chi.URLParam(r, "botID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Import forwards an uploaded CSV to the platform importer and returns the
// row-level result summary.
func (h *ContactsHandler) Import(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	body := http.MaxBytesReader(w, r.Body, 10<<20)
	res, err := h.source.ImportContacts(r.Context(), botID, body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Sync triggers a platform-side CRM sync and returns the fresh list.
func (h *ContactsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	if err := h.source.SyncContacts(r.Context(), botID); err != nil {
		writeDomainError(w, err)
		return
	}
	list, err := h.source.ListContacts(r.Context(), botID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
