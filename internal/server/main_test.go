package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forumhub/internal/config"
	"forumhub/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testSecret = "server-test-secret-0123456789abcdef"

// newTestServer builds a server over a private in-memory sqlite database.
func newTestServer(t *testing.T, rdb *redis.Client, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret: testSecret,
		Port:      "0",
		DBDriver:  "sqlite",
		DBPath:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		Env:       "test",
	}
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	srv, err := NewServer(cfg, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

// doJSON sends a request and returns the status and raw body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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
	defer func() { _ = resp.Body.Close() }()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

type authBody struct {
	User struct {
		ID       string  `json:"id"`
		Email    string  `json:"email"`
		Name     string  `json:"name"`
		Avatar   *string `json:"avatar"`
		Password *string `json:"password"`
	} `json:"user"`
	Token string `json:"token"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type authorBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type commentBody struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	AuthorID  string     `json:"authorId"`
	ForumID   string     `json:"forumId"`
	Author    authorBody `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
}

type forumBody struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	AuthorID    string     `json:"authorId"`
	Author      authorBody `json:"author"`
	Count       *struct {
		Comments int `json:"comments"`
	} `json:"_count"`
	Comments  []commentBody `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
}

// register creates a user and returns its id and token.
func register(t *testing.T, app *fiber.App, email string) (string, string) {
	t.Helper()
	status, raw := doJSON(t, app, http.MethodPost, "/api/auth/register",
		map[string]any{"email": email, "password": "secret1", "name": "Tester"}, "")
	require.Equal(t, http.StatusCreated, status, string(raw))
	body := decode[authBody](t, raw)
	return body.User.ID, body.Token
}

// createForum creates a forum and returns its id.
func createForum(t *testing.T, app *fiber.App, token, title string, tags ...string) string {
	t.Helper()
	payload := map[string]any{"title": title, "description": "About " + title}
	if tags != nil {
		payload["tags"] = tags
	}
	status, raw := doJSON(t, app, http.MethodPost, "/api/forums", payload, token)
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[forumBody](t, raw).ID
}

func jsonDecode(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
