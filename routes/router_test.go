package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"planora.app/configs"
	"planora.app/database/testdb"
	"planora.app/pkg/result"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identity struct {
	id, email string
}

var (
	alice = identity{"idp|alice", "alice@example.com"}
	bob   = identity{"idp|bob", "bob@example.com"}
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg, err := configs.ParseConfig()
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, Dependencies{DB: testdb.New(t), Config: cfg})
	return app
}

func call(t *testing.T, app *fiber.App, who *identity, method, path string, body any) (int, result.Result) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if who != nil {
		req.Header.Set("X-Auth-Request-User", who.id)
		req.Header.Set("X-Auth-Request-Email", who.email)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out result.Result
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func roleOf(me result.Result) any {
	data, _ := me.Data.(map[string]any)
	user, _ := data["user"].(map[string]any)
	return user["role"]
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresIdentity(t *testing.T) {
	app := newTestApp(t)
	status, res := call(t, app, nil, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, res.Success)
}

func TestEventFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)

	// the first identity seen becomes OWNER, the next gets the default GUEST role
	status, me := call(t, app, &alice, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OWNER", roleOf(me))
	status, me = call(t, app, &bob, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "GUEST", roleOf(me))

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	status, res := call(t, app, &alice, http.MethodPost, "/api/events", map[string]any{
		"title":     "Release Party",
		"starts_at": start,
		"ends_at":   start.Add(3 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	id := uint(res.Data.(map[string]any)["id"].(float64))
	eventPath := fmt.Sprintf("/api/events/%d", id)

	status, _ = call(t, app, &bob, http.MethodPost, "/api/events", map[string]any{"title": "Mine"})
	assert.Equal(t, http.StatusForbidden, status)

	status, res = call(t, app, &bob, http.MethodPost, eventPath+"/cancel", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "permission denied", res.Error)

	status, _ = call(t, app, &bob, http.MethodPut, eventPath+"/rsvp", map[string]any{"status": "ATTENDING"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, &bob, http.MethodPut, eventPath+"/rsvp", map[string]any{"status": "PENDING"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, res = call(t, app, &alice, http.MethodPost, eventPath+"/invitations", map[string]any{"email": bob.email})
	require.Equal(t, http.StatusCreated, status, res.Error)
	status, _ = call(t, app, &alice, http.MethodPost, eventPath+"/invitations", map[string]any{"email": bob.email})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = call(t, app, &alice, http.MethodPost, eventPath+"/cancel", nil)
	assert.Equal(t, http.StatusOK, status)

	status, res = call(t, app, &bob, http.MethodPut, eventPath+"/rsvp", map[string]any{"status": "MAYBE"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "cannot RSVP to a cancelled event", res.Error)

	status, _ = call(t, app, &alice, http.MethodDelete, eventPath, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, &alice, http.MethodGet, eventPath, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownAPIRoute(t *testing.T) {
	app := newTestApp(t)
	status, res := call(t, app, &alice, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, res.Success)
}

func TestOverviewEndpoints(t *testing.T) {
	app := newTestApp(t)
	call(t, app, &alice, http.MethodGet, "/api/me", nil)
	call(t, app, &bob, http.MethodGet, "/api/me", nil)

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	status, res := call(t, app, &alice, http.MethodPost, "/api/events", map[string]any{
		"title":     "Planning",
		"starts_at": start,
		"ends_at":   start.Add(time.Hour),
	})
	require.Equal(t, http.StatusCreated, status, res.Error)
	id := uint(res.Data.(map[string]any)["id"].(float64))
	status, res = call(t, app, &alice, http.MethodPost, fmt.Sprintf("/api/events/%d/invitations", id), map[string]any{"email": bob.email})
	require.Equal(t, http.StatusCreated, status, res.Error)

	status, res = call(t, app, &bob, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	dashboard := res.Data.(map[string]any)
	assert.EqualValues(t, 1, dashboard["pending_invitations"])
	assert.EqualValues(t, 1, dashboard["upcoming_events"])
	assert.NotContains(t, dashboard, "recent_activity")

	status, _ = call(t, app, &bob, http.MethodGet, "/api/activity", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, res = call(t, app, &alice, http.MethodGet, "/api/activity", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Len(t, res.Data, 2)

	status, res = call(t, app, &bob, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	settings := res.Data.(map[string]any)
	assert.Equal(t, "GUEST", settings["default_role"])
	assert.NotContains(t, settings, "database_host")

	status, res = call(t, app, &alice, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, status, res.Error)
	assert.Contains(t, res.Data.(map[string]any), "database_host")
}
