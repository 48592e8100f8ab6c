package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/botfleet/console/internal/notifications"
	"github.com/botfleet/console/pkg/logging"
)

// ConfigHandler exposes automated notification configs over HTTP, one
// service instance per bot.
type ConfigHandler struct {
	store  notifications.ConfigStore
	logger *logging.Logger

	mu       sync.Mutex
	services map[string]*notifications.Service
}

// NewConfigHandler creates a notification config handler.
func NewConfigHandler(store notifications.ConfigStore, logger *logging.Logger) *ConfigHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConfigHandler{
		store:    store,
		logger:   logger,
		services: make(map[string]*notifications.Service),
	}
}

func (h *ConfigHandler) service(botID string) *notifications.Service {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.services[botID]; ok {
		return s
	}
	s := notifications.NewService(botID, h.store, h.logger)
	h.services[botID] = s
	return s
}

func configID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "configID"), 10, 64)
	return id, err == nil && id > 0
}

type configView struct {
	notifications.Config
	OffsetDisplay string `json:"offset_display"`
	FilterDisplay string `json:"filter_display,omitempty"`
}

func viewOf(cfg notifications.Config) configView {
	return configView{
		Config:        cfg,
		OffsetDisplay: notifications.FormatOffset(cfg.OffsetMinutes),
		FilterDisplay: notifications.FormatFilters(cfg),
	}
}

// List refreshes and returns the bot's notification configs.
func (h *ConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	svc := h.service(chi.URLParam(r, "botID"))
	if err := svc.Refresh(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	configs := svc.Configs()
	out := make([]configView, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, viewOf(cfg))
	}
	writeJSON(w, http.StatusOK, out)
}

// Save creates or updates a config and returns the refreshed list.
func (h *ConfigHandler) Save(w http.ResponseWriter, r *http.Request) {
	var cfg notifications.Config
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	svc := h.service(chi.URLParam(r, "botID"))
	if err := svc.Save(r.Context(), cfg); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc.Configs())
}

// Toggle flips a config's active flag. The response reports the persisted
// state, which on failure is the pre-toggle value.
func (h *ConfigHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := configID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid config id")
		return
	}
	svc := h.service(chi.URLParam(r, "botID"))
	active, err := svc.ToggleActive(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

// RequestDelete stages a config deletion.
func (h *ConfigHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := configID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid config id")
		return
	}
	svc := h.service(chi.URLParam(r, "botID"))
	if err := svc.RequestDelete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc.PendingDelete())
}

// ConfirmDelete deletes the staged config.
func (h *ConfigHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	svc := h.service(chi.URLParam(r, "botID"))
	if err := svc.ConfirmDelete(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelDelete drops the staged deletion.
func (h *ConfigHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.service(chi.URLParam(r, "botID")).CancelDelete()
	w.WriteHeader(http.StatusNoContent)
}
