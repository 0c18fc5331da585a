package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/inklet/blog-backend/internal/database"
	"github.com/inklet/blog-backend/internal/handlers"
	"github.com/inklet/blog-backend/internal/models"
)

type testDB struct {
	db *gorm.DB
}

func (t *testDB) Health() map[string]string { return map[string]string{"status": "up"} }
func (t *testDB) Close() error              { return nil }
func (t *testDB) GetDB() *gorm.DB           { return t.db }

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("blog_test"),
		tcpostgres.WithUsername("blog"),
		tcpostgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	db, err := database.Open(conn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	s := &Server{
		db:      &testDB{db: db},
		handler: handlers.NewHandler(db),
	}
	return s.RegisterRoutes(), db
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func TestRegistration(t *testing.T) {
	router, _ := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created", decode(t, w)["message"])

	w = doJSON(router, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "other@example.com", "password": "hunter2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username taken", decode(t, w)["error"])
}

func TestAnonymousWritesAreRejectedBeforePersistence(t *testing.T) {
	router, db := newTestServer(t)

	w := doJSON(router, http.MethodPost, "/api/posts", "", gin.H{
		"title": "Sneaky", "content": "no auth",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count, "nothing may be persisted for an unauthenticated write")
}

func TestPostLifecycle(t *testing.T) {
	router, _ := newTestServer(t)
	alice := registerAndLogin(t, router, "alice")
	bob := registerAndLogin(t, router, "bob")

	// create
	w := doJSON(router, http.MethodPost, "/api/posts", alice, gin.H{
		"title": "Hello World", "content": "first post",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "hello-world", created["slug"])
	assert.Equal(t, "alice", created["author_username"])
	assert.Equal(t, float64(0), created["views_count"])
	assert.Equal(t, float64(1), created["reading_time"])

	// same title gets the next slug
	w = doJSON(router, http.MethodPost, "/api/posts", alice, gin.H{
		"title": "Hello World", "content": "second post",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "hello-world-1", decode(t, w)["slug"])

	// detail fetch counts views
	w = doJSON(router, http.MethodGet, "/api/posts/hello-world", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["views_count"])

	w = doJSON(router, http.MethodGet, "/api/posts/hello-world", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["views_count"])

	// list does not count views
	w = doJSON(router, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, "/api/posts/hello-world", "", nil)
	assert.Equal(t, float64(3), decode(t, w)["views_count"])

	// search filters case-insensitively
	w = doJSON(router, http.MethodGet, "/api/posts?search=SECOND", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "hello-world-1", list[0]["slug"])

	// update ignores read-only fields and keeps the slug
	w = doJSON(router, http.MethodPut, "/api/posts/hello-world", alice, gin.H{
		"title":       "Renamed Post",
		"slug":        "evil-slug",
		"views_count": 999,
		"author":      12345,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "Renamed Post", updated["title"])
	assert.Equal(t, "hello-world", updated["slug"])
	assert.Equal(t, float64(3), updated["views_count"])
	assert.Equal(t, "alice", updated["author_username"])

	// non-owner mutation is forbidden
	w = doJSON(router, http.MethodPut, "/api/posts/hello-world", bob, gin.H{"title": "Mine Now"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(router, http.MethodDelete, "/api/posts/hello-world", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// owner delete
	w = doJSON(router, http.MethodDelete, "/api/posts/hello-world", alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(router, http.MethodGet, "/api/posts/hello-world", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComments(t *testing.T) {
	router, db := newTestServer(t)
	alice := registerAndLogin(t, router, "alice")
	bob := registerAndLogin(t, router, "bob")

	w := doJSON(router, http.MethodPost, "/api/posts", alice, gin.H{
		"title": "Discussion", "content": "talk amongst yourselves",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// anonymous comment rejected
	w = doJSON(router, http.MethodPost, "/api/posts/discussion/comments", "", gin.H{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/posts/discussion/comments", bob, gin.H{"content": "great post"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode(t, w)
	assert.Equal(t, "bob", comment["author_username"])
	assert.Equal(t, "great post", comment["content"])

	w = doJSON(router, http.MethodPost, "/api/posts/discussion/comments", alice, gin.H{"content": "thanks"})
	require.Equal(t, http.StatusCreated, w.Code)

	// oldest first
	w = doJSON(router, http.MethodGet, "/api/posts/discussion/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "great post", list[0]["content"])
	assert.Equal(t, "thanks", list[1]["content"])

	// comment on an unknown post
	w = doJSON(router, http.MethodPost, "/api/posts/ghost/comments", bob, gin.H{"content": "hello?"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// deleting the post deletes its comments
	w = doJSON(router, http.MethodDelete, "/api/posts/discussion", alice, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)

	w = doJSON(router, http.MethodGet, "/api/posts/discussion/comments", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
