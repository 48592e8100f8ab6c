package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/botfleet/console/internal/bots"
	"github.com/botfleet/console/pkg/logging"
)

// BotDirectory is the slice of the platform API the session consumes.
type BotDirectory interface {
	ListBots(ctx context.Context, botIDs []string) ([]bots.Bot, error)
	ListAllBots(ctx context.Context) ([]bots.Bot, error)
}

// Session holds one signed-in actor's console state: the fetched bot list,
// the selected bot and the active view. Every state change runs a consistency
// pass so the active view always satisfies its validity predicate for the
// selected bot; an invalid view resets to the dashboard. The pass is
// idempotent and cannot loop since the dashboard is valid for any bot.
type Session struct {
	actor  bots.Actor
	dir    BotDirectory
	logger *logging.Logger

	mu       sync.Mutex
	bots     []bots.Bot
	selected *bots.Bot
	view     View

	// refreshGen discards bot-list completions superseded by a newer refresh.
	refreshGen int
}

// NewSession creates a session for the actor. Admins start on the admin
// view, everyone else on the dashboard.
func NewSession(actor bots.Actor, dir BotDirectory, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	view := ViewDashboard
	if actor.IsAdmin() {
		view = ViewAdmin
	}
	return &Session{
		actor:  actor,
		dir:    dir,
		logger: logger,
		view:   view,
	}
}

// Actor returns the signed-in actor.
func (s *Session) Actor() bots.Actor { return s.actor }

// RefreshBots reloads the bot list: the full fleet for admins, the actor's
// accessible bots otherwise. Non-admin actors without a surviving selection
// land on the first accessible bot, and a consistency pass keeps the view
// valid; a refresh superseded by a newer one discards its result.
func (s *Session) RefreshBots(ctx context.Context) error {
	s.mu.Lock()
	s.refreshGen++
	gen := s.refreshGen
	s.mu.Unlock()

	var (
		list []bots.Bot
		err  error
	)
	if s.actor.IsAdmin() {
		list, err = s.dir.ListAllBots(ctx)
	} else {
		list, err = s.dir.ListBots(ctx, s.actor.AccessibleBotIDs)
	}
	if err != nil {
		return fmt.Errorf("console: refresh bots: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.refreshGen {
		s.logger.Debug("discarding stale bot list refresh", "actor_id", s.actor.ID)
		return nil
	}
	s.bots = list

	// Re-point the selection at the refreshed entry. Non-admin actors with
	// no (or a vanished) selection fall back to the first accessible bot;
	// admins start with no selection.
	if s.selected != nil {
		s.selected = findBot(s.bots, s.selected.ID)
	}
	if s.selected == nil && !s.actor.IsAdmin() && len(s.bots) > 0 {
		b := s.bots[0]
		s.selected = &b
	}

	// The view survives a refresh when it is still valid; the consistency
	// pass handles admin-only views and bot-type mismatches.
	s.ensureConsistentLocked()
	return nil
}

// Bots returns the last fetched bot list.
func (s *Session) Bots() []bots.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bots.Bot(nil), s.bots...)
}

// SelectedBot returns a copy of the selected bot, or nil.
func (s *Session) SelectedBot() *bots.Bot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	b := *s.selected
	return &b
}

// SelectBot points the session at one bot from the fetched list and runs the
// consistency pass, so a view the new bot does not support resets to the
// dashboard.
func (s *Session) SelectBot(botID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := findBot(s.bots, botID)
	if b == nil {
		return fmt.Errorf("console: unknown bot %q", botID)
	}
	s.selected = b
	s.ensureConsistentLocked()
	return nil
}

// DeselectBot clears the selection and runs the consistency pass.
func (s *Session) DeselectBot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.ensureConsistentLocked()
}

// ActiveView returns the current view.
func (s *Session) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// ChangeView switches the active view. Unknown views are rejected; a known
// view the current bot does not support lands on the dashboard via the
// consistency pass.
func (s *Session) ChangeView(v View) error {
	if !v.Known() {
		return fmt.Errorf("console: unknown view %q", v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	s.ensureConsistentLocked()
	return nil
}

// Logout clears all session state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bots = nil
	s.selected = nil
	s.view = ViewDashboard
}

// ensureConsistentLocked is the consistency pass: an active view that is
// admin-only for a non-admin actor, or invalid for the selected bot, resets
// to the dashboard. Callers hold s.mu.
func (s *Session) ensureConsistentLocked() {
	if s.view.AdminOnly() && !s.actor.IsAdmin() {
		s.view = ViewDashboard
		return
	}
	if !s.view.ValidFor(s.selected) {
		s.view = ViewDashboard
	}
}

func findBot(list []bots.Bot, id string) *bots.Bot {
	for i := range list {
		if list[i].ID == id {
			b := list[i]
			return &b
		}
	}
	return nil
}
