package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edvass/notevault/internal/database"
	"github.com/edvass/notevault/internal/models"
	"github.com/edvass/notevault/internal/monitoring"
	"github.com/edvass/notevault/internal/services"
	"github.com/edvass/notevault/internal/websocket"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	hub := websocket.NewHub() // not running; no clients connect in these tests
	userService := services.NewUserService(db, bcrypt.MinCost)
	eventService := services.NewEventService(db)
	authService := services.NewAuthService(userService, eventService, time.Hour)
	noteService := services.NewNoteService(db, eventService, hub)
	backupService := services.NewBackupService(db, eventService, t.TempDir())
	statUpdater := monitoring.NewStatUpdater(db, nil)

	return NewRouter(hub, authService, userService, noteService, eventService, backupService, statUpdater, time.Hour)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestSignup(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, "s3cret")

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(body), &user))
	assert.Equal(t, "alice", user.Username)

	// Same username again, regardless of password.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "password": "other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Empty fields are rejected before they reach storage.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	unknownUser := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "nonexistent", "password": "anything",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestNotesRequireSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/notes", "", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoteLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := loginAs(t, router, "alice", "s3cret")

	// Empty content never reaches the repository.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/notes", token, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/notes", token, map[string]string{"content": "buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var note models.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&note))
	assert.Equal(t, "buy milk", note.Content)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []models.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/notes/%d", note.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&notes))
	assert.Empty(t, notes)
}

func TestDeleteIsScopedToOwner(t *testing.T) {
	router := newTestRouter(t)

	for _, u := range []string{"alice", "bob"} {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
			"username": u, "password": "pw",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	aliceToken := loginAs(t, router, "alice", "pw")
	bobToken := loginAs(t, router, "bob", "pw")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/notes", aliceToken, map[string]string{"content": "private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var note models.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&note))

	// Bob cannot see or remove Alice's note, even knowing its id.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bobNotes []models.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&bobNotes))
	assert.Empty(t, bobNotes)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/notes/%d", note.ID), bobToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceNotes []models.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&aliceNotes))
	require.Len(t, aliceNotes, 1)
}

func TestGetMe(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := loginAs(t, router, "alice", "s3cret")

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "alice", user.Username)
}

func TestLogoutClearsCookie(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestBackupEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := loginAs(t, router, "alice", "s3cret")

	rec = doJSON(t, router, http.MethodPost, "/api/v1/backups", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/backups", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var backups []models.Backup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&backups))
	assert.Len(t, backups, 1)
}
