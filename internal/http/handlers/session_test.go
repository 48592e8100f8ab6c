package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botfleet/console/internal/bots"
	"github.com/botfleet/console/internal/http/middleware"
)

type mockBotDirectory struct {
	all        []bots.Bot
	accessible []bots.Bot
}

func (m *mockBotDirectory) ListBots(ctx context.Context, botIDs []string) ([]bots.Bot, error) {
	return append([]bots.Bot(nil), m.accessible...), nil
}

func (m *mockBotDirectory) ListAllBots(ctx context.Context) ([]bots.Bot, error) {
	return append([]bots.Bot(nil), m.all...), nil
}

var testActor = bots.Actor{ID: "u1", Role: bots.RoleUser, AccessibleBotIDs: []string{"b1", "b2"}}

func authed(r *http.Request, actor bots.Actor) *http.Request {
	return r.WithContext(middleware.ContextWithActor(r.Context(), actor))
}

func TestSessionStateAndSelect(t *testing.T) {
	dir := &mockBotDirectory{accessible: []bots.Bot{
		{ID: "b1", Name: "shop", Type: bots.TypeProduct},
		{ID: "b2", Name: "clinic", Type: bots.TypeAestheticClinic},
	}}
	h := NewSessionHandler(dir, nil)

	rec := httptest.NewRecorder()
	h.RefreshBots(rec, authed(httptest.NewRequest(http.MethodPost, "/api/session/refresh", nil), testActor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active_view":"dashboard"`)
	assert.Contains(t, rec.Body.String(), `"bot_id":"b1"`)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/session/bot", strings.NewReader(`{"bot_id":"b2"}`))
	h.SelectBot(rec, authed(req, testActor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"selected_bot":{"bot_id":"b2"`)
}

func TestSessionViewConsistencyOverHTTP(t *testing.T) {
	dir := &mockBotDirectory{accessible: []bots.Bot{
		{ID: "b2", Name: "clinic", Type: bots.TypeAestheticClinic},
	}}
	h := NewSessionHandler(dir, nil)

	rec := httptest.NewRecorder()
	h.RefreshBots(rec, authed(httptest.NewRequest(http.MethodPost, "/api/session/refresh", nil), testActor))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/session/bot", strings.NewReader(`{"bot_id":"b2"}`))
	h.SelectBot(rec, authed(req, testActor))
	require.Equal(t, http.StatusOK, rec.Code)

	// An aesthetic clinic bot cannot show prompts; the session lands on the
	// dashboard and the response reports that.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/session/view", strings.NewReader(`{"view":"prompts"}`))
	h.ChangeView(rec, authed(req, testActor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active_view":"dashboard"`)
}

func TestSessionUnknownBot(t *testing.T) {
	h := NewSessionHandler(&mockBotDirectory{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/session/bot", strings.NewReader(`{"bot_id":"nope"}`))
	h.SelectBot(rec, authed(req, testActor))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionMissingActor(t *testing.T) {
	h := NewSessionHandler(&mockBotDirectory{}, nil)
	rec := httptest.NewRecorder()
	h.State(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionLogout(t *testing.T) {
	dir := &mockBotDirectory{accessible: []bots.Bot{{ID: "b1", Type: bots.TypeProduct}}}
	h := NewSessionHandler(dir, nil)

	rec := httptest.NewRecorder()
	h.RefreshBots(rec, authed(httptest.NewRequest(http.MethodPost, "/api/session/refresh", nil), testActor))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Logout(rec, authed(httptest.NewRequest(http.MethodPost, "/api/session/logout", nil), testActor))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The next request gets a fresh, empty session.
	rec = httptest.NewRecorder()
	h.State(rec, authed(httptest.NewRequest(http.MethodGet, "/api/session", nil), testActor))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"selected_bot":null`)
}
