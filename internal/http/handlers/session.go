package handlers

import (
	"net/http"
	"sync"

	"github.com/botfleet/console/internal/bots"
	"github.com/botfleet/console/internal/console"
	"github.com/botfleet/console/internal/http/middleware"
	"github.com/botfleet/console/pkg/logging"
)

// SessionHandler exposes the per-actor console session: the bot list, the
// selected bot and the active view. Sessions are created lazily per actor
// and live for the process lifetime or until logout.
type SessionHandler struct {
	dir    console.BotDirectory
	logger *logging.Logger

	mu       sync.Mutex
	sessions map[string]*console.Session
}

// NewSessionHandler creates a session handler backed by the platform bot
// directory.
func NewSessionHandler(dir console.BotDirectory, logger *logging.Logger) *SessionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionHandler{
		dir:      dir,
		logger:   logger,
		sessions: make(map[string]*console.Session),
	}
}

func (h *SessionHandler) session(actor bots.Actor) *console.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[actor.ID]; ok {
		return s
	}
	s := console.NewSession(actor, h.dir, h.logger)
	h.sessions[actor.ID] = s
	return s
}

type sessionState struct {
	Actor       bots.Actor   `json:"actor"`
	Bots        []bots.Bot   `json:"bots"`
	SelectedBot *bots.Bot    `json:"selected_bot"`
	ActiveView  console.View `json:"active_view"`
}

func (h *SessionHandler) state(s *console.Session) sessionState {
	return sessionState{
		Actor:       s.Actor(),
		Bots:        s.Bots(),
		SelectedBot: s.SelectedBot(),
		ActiveView:  s.ActiveView(),
	}
}

// State returns the current session state.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	writeJSON(w, http.StatusOK, h.state(h.session(actor)))
}

// RefreshBots reloads the actor's bot list.
func (h *SessionHandler) RefreshBots(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	s := h.session(actor)
	if err := s.RefreshBots(r.Context()); err != nil {
		h.logger.Error("bot list refresh failed", "actor_id", actor.ID, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state(s))
}

// SelectBot points the session at one bot.
func (h *SessionHandler) SelectBot(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	var body struct {
		BotID string `json:"bot_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s := h.session(actor)
	if err := s.SelectBot(body.BotID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.state(s))
}

// DeselectBot clears the bot selection.
func (h *SessionHandler) DeselectBot(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	s := h.session(actor)
	s.DeselectBot()
	writeJSON(w, http.StatusOK, h.state(s))
}

// ChangeView switches the active view. An unsupported view for the selected
// bot lands on the dashboard; the response shows where the session ended up.
func (h *SessionHandler) ChangeView(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	var body struct {
		View console.View `json:"view"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s := h.session(actor)
	if err := s.ChangeView(body.View); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.state(s))
}

// AllBots lists the entire bot fleet. Routed behind the admin requirement.
func (h *SessionHandler) AllBots(w http.ResponseWriter, r *http.Request) {
	list, err := h.dir.ListAllBots(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Logout drops the actor's session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing actor")
		return
	}
	h.mu.Lock()
	if s, exists := h.sessions[actor.ID]; exists {
		s.Logout()
		delete(h.sessions, actor.ID)
	}
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
