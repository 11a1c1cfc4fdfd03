package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mixtape/internal/cache"
	"mixtape/internal/handlers"
	"mixtape/internal/middleware"
	"mixtape/internal/repositories"
	"mixtape/internal/services"
	"mixtape/internal/storage"
)

var dbSeq atomic.Int64

// setupTestApp wires the full application against an in-memory SQLite
// database, exactly as main does minus the broker and the enricher.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)
	songRepo := repositories.NewGORMSongRepository(db)
	interactionRepo := repositories.NewGORMInteractionRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	historyRepo := repositories.NewGORMSearchHistoryRepository(db)

	authService := services.NewAuthService(userRepo, "integration-secret", time.Hour, 24*time.Hour)
	notificationService := services.NewNotificationService(notificationRepo, nil)
	playlistService := services.NewPlaylistService(playlistRepo, songRepo, interactionRepo, notificationService, store)
	songService := services.NewSongService(songRepo, playlistRepo, nil)
	userService := services.NewUserService(userRepo, store)
	searchService := services.NewSearchService(userRepo, playlistRepo, interactionRepo, historyRepo, cache.NewMemoryCache())

	requireAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.AuthOptional(authService)

	app := fiber.New()
	handlers.NewAuthHandler(authService).RegisterRoutes(app, requireAuth)
	handlers.NewUserHandler(userService, playlistService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewPlaylistHandler(playlistService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewSongHandler(songService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewDiscoverHandler(playlistService, userService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewSearchHandler(searchService).RegisterRoutes(app, requireAuth, optionalAuth)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(app, requireAuth)
	return app
}

// doRequest runs one request through the app and decodes the envelope.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data envelope: %v", body)
	return d
}

// registerUser creates an account and returns its access token and id.
func registerUser(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()
	status, body := doRequest(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", username, body)
	d := data(t, body)
	user := d["user"].(map[string]interface{})
	tokens := d["tokens"].(map[string]interface{})
	return tokens["accessToken"].(string), user["id"].(string)
}

// createPlaylist makes a playlist for the token's user and returns its id.
func createPlaylist(t *testing.T, app *fiber.App, token string, payload fiber.Map) string {
	t.Helper()
	status, body := doRequest(t, app, http.MethodPost, "/playlists", token, payload)
	require.Equal(t, http.StatusCreated, status, "create playlist: %v", body)
	playlist := data(t, body)["playlist"].(map[string]interface{})
	return playlist["id"].(string)
}

func addSong(t *testing.T, app *fiber.App, token, playlistID, title, url string) string {
	t.Helper()
	status, body := doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/songs", token, fiber.Map{
		"title": title,
		"url":   url,
	})
	require.Equal(t, http.StatusCreated, status, "add song: %v", body)
	song := data(t, body)["song"].(map[string]interface{})
	return song["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	app := setupTestApp(t)

	token, userID := registerUser(t, app, "alice")

	// The same email and the same username are both conflicts.
	status, _ := doRequest(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "alice@example.com", "username": "someone", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = doRequest(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "other@example.com", "username": "alice", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status)
	tokens := data(t, body)["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["refreshToken"])

	status, _ = doRequest(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doRequest(t, app, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := data(t, body)["user"].(map[string]interface{})
	assert.Equal(t, userID, me["id"])
	assert.Nil(t, me["password"], "password hash must never serialize")

	status, _ = doRequest(t, app, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doRequest(t, app, http.MethodPost, "/auth/refresh", "", fiber.Map{
		"refreshToken": tokens["refreshToken"],
	})
	require.Equal(t, http.StatusOK, status)
	fresh := data(t, body)["tokens"].(map[string]interface{})
	assert.NotEmpty(t, fresh["accessToken"])
}

func TestPlaylistVisibility(t *testing.T) {
	app := setupTestApp(t)
	ownerToken, _ := registerUser(t, app, "owner")
	strangerToken, _ := registerUser(t, app, "stranger")

	playlistID := createPlaylist(t, app, ownerToken, fiber.Map{
		"title": "Secret stash", "isPublic": false,
	})

	// A private playlist is indistinguishable from a missing one for
	// everybody but the owner.
	status, _ := doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Mutating someone else's private playlist is also a 404, not a 403.
	status, _ = doRequest(t, app, http.MethodPut, "/playlists/"+playlistID, strangerToken, fiber.Map{"title": "hijacked"})
	assert.Equal(t, http.StatusNotFound, status)

	// Toggle public: now visible to everyone, but still only writable by
	// the owner.
	status, body := doRequest(t, app, http.MethodPut, "/playlists/"+playlistID, ownerToken, fiber.Map{"isPublic": true})
	require.Equal(t, http.StatusOK, status)
	playlist := data(t, body)["playlist"].(map[string]interface{})
	assert.Equal(t, true, playlist["isPublic"])

	status, _ = doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodPut, "/playlists/"+playlistID, strangerToken, fiber.Map{"title": "hijacked"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doRequest(t, app, http.MethodDelete, "/playlists/"+playlistID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPlaylistTagLimit(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "tagger")

	status, _ := doRequest(t, app, http.MethodPost, "/playlists", token, fiber.Map{
		"title": "Too many tags",
		"tags":  []string{"a1", "b2", "c3", "d4", "e5", "f6"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	playlistID := createPlaylist(t, app, token, fiber.Map{
		"title": "Chill", "tags": []string{"Lofi", "study"},
	})
	status, body := doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, token, nil)
	require.Equal(t, http.StatusOK, status)
	playlist := data(t, body)["playlist"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{"Lofi", "study"}, playlist["tags"])
}

func songPositions(t *testing.T, app *fiber.App, token, playlistID string) map[string]float64 {
	t.Helper()
	status, body := doRequest(t, app, http.MethodGet, "/playlists/"+playlistID+"/songs", token, nil)
	require.Equal(t, http.StatusOK, status)
	songs := data(t, body)["songs"].([]interface{})
	positions := make(map[string]float64, len(songs))
	for _, raw := range songs {
		song := raw.(map[string]interface{})
		positions[song["title"].(string)] = song["position"].(float64)
	}
	return positions
}

func TestSongPositionsStayDense(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "curator")
	playlistID := createPlaylist(t, app, token, fiber.Map{"title": "Road trip"})

	addSong(t, app, token, playlistID, "First", "https://youtu.be/aaa")
	secondID := addSong(t, app, token, playlistID, "Second", "https://youtu.be/bbb")
	addSong(t, app, token, playlistID, "Third", "https://youtu.be/ccc")

	assert.Equal(t, map[string]float64{"First": 1, "Second": 2, "Third": 3},
		songPositions(t, app, token, playlistID))

	// Deleting the middle song renumbers the rest.
	status, _ := doRequest(t, app, http.MethodDelete, "/songs/"+secondID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]float64{"First": 1, "Third": 2},
		songPositions(t, app, token, playlistID))

	// A batch appends after the existing tail, atomically.
	status, body := doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/songs/batch", token, fiber.Map{
		"songs": []fiber.Map{
			{"title": "Fourth", "url": "https://youtu.be/ddd"},
			{"title": "Fifth", "url": "https://youtu.be/eee"},
		},
	})
	require.Equal(t, http.StatusCreated, status, "batch: %v", body)
	assert.Equal(t, map[string]float64{"First": 1, "Third": 2, "Fourth": 3, "Fifth": 4},
		songPositions(t, app, token, playlistID))
}

func TestSongReorder(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "reorderer")
	playlistID := createPlaylist(t, app, token, fiber.Map{"title": "Workout"})

	a := addSong(t, app, token, playlistID, "A", "https://youtu.be/aaa")
	b := addSong(t, app, token, playlistID, "B", "https://youtu.be/bbb")
	c := addSong(t, app, token, playlistID, "C", "https://youtu.be/ccc")

	// An incomplete cover is rejected.
	status, _ := doRequest(t, app, http.MethodPut, "/playlists/"+playlistID+"/songs/reorder", token, fiber.Map{
		"songs": []fiber.Map{{"id": a, "position": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// So is a non-permutation.
	status, _ = doRequest(t, app, http.MethodPut, "/playlists/"+playlistID+"/songs/reorder", token, fiber.Map{
		"songs": []fiber.Map{
			{"id": a, "position": 1},
			{"id": b, "position": 1},
			{"id": c, "position": 3},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodPut, "/playlists/"+playlistID+"/songs/reorder", token, fiber.Map{
		"songs": []fiber.Map{
			{"id": a, "position": 3},
			{"id": b, "position": 1},
			{"id": c, "position": 2},
		},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]float64{"B": 1, "C": 2, "A": 3},
		songPositions(t, app, token, playlistID))
}

func TestSongThumbnailDerivation(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "ytfan")
	playlistID := createPlaylist(t, app, token, fiber.Map{"title": "Videos"})

	status, body := doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/songs", token, fiber.Map{
		"title": "Classic",
		"url":   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.Equal(t, http.StatusCreated, status)
	song := data(t, body)["song"].(map[string]interface{})
	assert.Equal(t, "YouTube", song["platform"])
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg", song["thumbnailUrl"])
}

func likesCount(t *testing.T, app *fiber.App, token, playlistID string) float64 {
	t.Helper()
	status, body := doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, token, nil)
	require.Equal(t, http.StatusOK, status)
	playlist := data(t, body)["playlist"].(map[string]interface{})
	return playlist["likesCount"].(float64)
}

func notificationCount(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	status, body := doRequest(t, app, http.MethodGet, "/notifications/", token, nil)
	require.Equal(t, http.StatusOK, status)
	notifications := data(t, body)["notifications"].([]interface{})
	return len(notifications)
}

func TestLikesAndNotifications(t *testing.T) {
	app := setupTestApp(t)
	ownerToken, _ := registerUser(t, app, "artist")
	fanToken, _ := registerUser(t, app, "fan")

	playlistID := createPlaylist(t, app, ownerToken, fiber.Map{"title": "Hits"})

	status, _ := doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/like", fanToken, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(1), likesCount(t, app, fanToken, playlistID))

	// Liking twice is a conflict and must not move the counter.
	status, _ = doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/like", fanToken, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, float64(1), likesCount(t, app, fanToken, playlistID))

	// The owner got exactly one notification for it.
	assert.Equal(t, 1, notificationCount(t, app, ownerToken))
	status, body := doRequest(t, app, http.MethodGet, "/notifications/unread-count", ownerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), data(t, body)["count"])

	// Unlike retracts the notification and the counter.
	status, _ = doRequest(t, app, http.MethodDelete, "/playlists/"+playlistID+"/like", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), likesCount(t, app, fanToken, playlistID))
	assert.Equal(t, 0, notificationCount(t, app, ownerToken))

	// Unliking a playlist that is not liked is not-found.
	status, _ = doRequest(t, app, http.MethodDelete, "/playlists/"+playlistID+"/like", fanToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Liking your own playlist works but never notifies you.
	status, _ = doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/like", ownerToken, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 0, notificationCount(t, app, ownerToken))
}

func TestSavedPlaylists(t *testing.T) {
	app := setupTestApp(t)
	ownerToken, _ := registerUser(t, app, "maker")
	fanToken, _ := registerUser(t, app, "collector")

	playlistID := createPlaylist(t, app, ownerToken, fiber.Map{"title": "Jazz"})

	status, _ := doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/save", fanToken, nil)
	require.Equal(t, http.StatusCreated, status)
	status, _ = doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/save", fanToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, body := doRequest(t, app, http.MethodGet, "/playlists/saved", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	saved := data(t, body)["playlists"].([]interface{})
	require.Len(t, saved, 1)
	view := saved[0].(map[string]interface{})
	assert.Equal(t, playlistID, view["id"])
	assert.Equal(t, true, view["isSaved"])
	assert.Equal(t, false, view["isLiked"])

	status, _ = doRequest(t, app, http.MethodDelete, "/playlists/"+playlistID+"/save", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = doRequest(t, app, http.MethodGet, "/playlists/saved", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, data(t, body)["playlists"])
}

func TestSearchAndDiscovery(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "dj_luna")

	createPlaylist(t, app, token, fiber.Map{"title": "Midnight lofi", "tags": []string{"lofi", "chill"}})
	popularID := createPlaylist(t, app, token, fiber.Map{"title": "Lofi bangers", "tags": []string{"lofi"}})
	createPlaylist(t, app, token, fiber.Map{"title": "Hidden lofi", "tags": []string{"lofi"}, "isPublic": false})

	otherToken, _ := registerUser(t, app, "listener")
	status, _ := doRequest(t, app, http.MethodPost, "/playlists/"+popularID+"/like", otherToken, nil)
	require.Equal(t, http.StatusCreated, status)

	// A one-character query is rejected.
	status, _ = doRequest(t, app, http.MethodGet, "/search/?q=l", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Universal search spans users, playlists and tags; private playlists
	// never surface.
	status, body := doRequest(t, app, http.MethodGet, "/search/?q=lofi", "", nil)
	require.Equal(t, http.StatusOK, status)
	results := data(t, body)
	playlists := results["playlists"].([]interface{})
	assert.Len(t, playlists, 2)
	tags := results["tags"].([]interface{})
	require.NotEmpty(t, tags)
	lofi := tags[0].(map[string]interface{})
	assert.Equal(t, "lofi", lofi["name"])
	assert.Equal(t, float64(2), lofi["playlistCount"], "private playlists stay out of tag counts")

	status, body = doRequest(t, app, http.MethodGet, "/search/users?q=luna", "", nil)
	require.Equal(t, http.StatusOK, status)
	users := data(t, body)["users"].([]interface{})
	require.Len(t, users, 1)
	assert.Equal(t, "dj_luna", users[0].(map[string]interface{})["username"])

	// Trending ranks tags by use on public playlists.
	status, body = doRequest(t, app, http.MethodGet, "/search/trending", "", nil)
	require.Equal(t, http.StatusOK, status)
	trending := data(t, body)["tags"].([]interface{})
	require.NotEmpty(t, trending)
	assert.Equal(t, "lofi", trending[0].(map[string]interface{})["name"])

	// Popular discovery puts the liked playlist first.
	status, body = doRequest(t, app, http.MethodGet, "/discover/playlists", "", nil)
	require.Equal(t, http.StatusOK, status)
	discovered := data(t, body)["playlists"].([]interface{})
	require.Len(t, discovered, 2)
	assert.Equal(t, popularID, discovered[0].(map[string]interface{})["id"])

	// Tag browsing filters on the exact tag.
	status, body = doRequest(t, app, http.MethodGet, "/discover/tags/chill", "", nil)
	require.Equal(t, http.StatusOK, status)
	tagged := data(t, body)["playlists"].([]interface{})
	require.Len(t, tagged, 1)
	assert.Equal(t, "Midnight lofi", tagged[0].(map[string]interface{})["title"])
}

func TestRecentSearches(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "searcher")

	status, _ := doRequest(t, app, http.MethodGet, "/search/?q=synthwave", token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = doRequest(t, app, http.MethodGet, "/search/?q=vaporwave", token, nil)
	require.Equal(t, http.StatusOK, status)
	// Repeating a query moves it to the top instead of duplicating it.
	status, _ = doRequest(t, app, http.MethodGet, "/search/?q=synthwave", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doRequest(t, app, http.MethodGet, "/search/recent", token, nil)
	require.Equal(t, http.StatusOK, status)
	searches := data(t, body)["searches"].([]interface{})
	require.Len(t, searches, 2)
	assert.Equal(t, "synthwave", searches[0].(map[string]interface{})["query"])

	status, _ = doRequest(t, app, http.MethodDelete, "/search/recent", token, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = doRequest(t, app, http.MethodGet, "/search/recent", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, data(t, body)["searches"])
}

func TestUserProfile(t *testing.T) {
	app := setupTestApp(t)
	token, userID := registerUser(t, app, "profiled")
	_, otherID := registerUser(t, app, "bystander")

	status, body := doRequest(t, app, http.MethodGet, "/users/profiled", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, userID, data(t, body)["user"].(map[string]interface{})["id"])

	status, _ = doRequest(t, app, http.MethodGet, "/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Profile edits are self-only.
	status, body = doRequest(t, app, http.MethodPut, "/users/"+userID, token, fiber.Map{
		"bio":         "making mixtapes",
		"socialLinks": fiber.Map{"instagram": "https://instagram.com/profiled"},
	})
	require.Equal(t, http.StatusOK, status)
	user := data(t, body)["user"].(map[string]interface{})
	assert.Equal(t, "making mixtapes", user["bio"])

	status, _ = doRequest(t, app, http.MethodPut, "/users/"+otherID, token, fiber.Map{"bio": "vandalized"})
	assert.Equal(t, http.StatusForbidden, status)

	// Unknown social platforms are rejected.
	status, _ = doRequest(t, app, http.MethodPut, "/users/"+userID, token, fiber.Map{
		"socialLinks": fiber.Map{"myspace": "https://myspace.com/profiled"},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Taking someone else's username is a conflict.
	status, _ = doRequest(t, app, http.MethodPut, "/users/"+userID, token, fiber.Map{"username": "bystander"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestUserDeletionCascades(t *testing.T) {
	app := setupTestApp(t)
	ownerToken, ownerID := registerUser(t, app, "leaver")
	fanToken, _ := registerUser(t, app, "remainer")

	playlistID := createPlaylist(t, app, ownerToken, fiber.Map{"title": "Goodbye"})
	status, _ := doRequest(t, app, http.MethodPost, "/playlists/"+playlistID+"/like", fanToken, nil)
	require.Equal(t, http.StatusCreated, status)

	status, _ = doRequest(t, app, http.MethodDelete, "/users/"+ownerID, fanToken, nil)
	assert.Equal(t, http.StatusForbidden, status, "accounts are self-delete only")

	status, _ = doRequest(t, app, http.MethodDelete, "/users/"+ownerID, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodGet, "/users/id/"+ownerID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doRequest(t, app, http.MethodGet, "/playlists/"+playlistID, fanToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// The fan's saved/liked views no longer reference the dead playlist.
	status, body := doRequest(t, app, http.MethodGet, "/playlists/saved", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, data(t, body)["playlists"])
}

func TestFeedOrdering(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "poster")

	createPlaylist(t, app, token, fiber.Map{"title": "Older"})
	time.Sleep(10 * time.Millisecond)
	createPlaylist(t, app, token, fiber.Map{"title": "Newer"})

	status, body := doRequest(t, app, http.MethodGet, "/feed", "", nil)
	require.Equal(t, http.StatusOK, status)
	playlists := data(t, body)["playlists"].([]interface{})
	require.Len(t, playlists, 2)
	assert.Equal(t, "Newer", playlists[0].(map[string]interface{})["title"])
	assert.Equal(t, "Older", playlists[1].(map[string]interface{})["title"])
}

func TestListLimitCap(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "capped")
	createPlaylist(t, app, token, fiber.Map{"title": "Only one"})

	// Oversized limits are clamped server-side, not honored.
	status, body := doRequest(t, app, http.MethodGet, "/playlists?limit=500", "", nil)
	require.Equal(t, http.StatusOK, status)
	pagination := data(t, body)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(50), pagination["limit"])

	status, body = doRequest(t, app, http.MethodGet, "/users?limit=500", "", nil)
	require.Equal(t, http.StatusOK, status)
	pagination = data(t, body)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(50), pagination["limit"])
}

func TestNotFoundFallback(t *testing.T) {
	app := setupTestApp(t)
	status, _ := doRequest(t, app, http.MethodGet, "/playlists/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
