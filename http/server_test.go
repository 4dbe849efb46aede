package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inkwell/auth"
	"inkwell/crud"
	"inkwell/domain"
	"inkwell/feed"
)

const testTokenSecret = "test-token-secret"

// --- Test Setup ---

type serverEnv struct {
	server   *Server
	services *crud.Services
}

func setupServer(t *testing.T) *serverEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	// One connection, one in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Follow{},
	))

	cache := feed.NewCache()
	services, err := crud.NewServices(
		db,
		crud.WithUser(cache),
		crud.WithGroup(),
		crud.WithPost(cache),
		crud.WithComment(),
		crud.WithFollow(),
		crud.WithImage(),
	)
	require.NoError(t, err)

	feedService := feed.NewService(
		services.Post,
		services.Group,
		services.User,
		services.Follow,
		cache,
		feed.DefaultPageSize,
	)

	return &serverEnv{
		server:   NewServer(false, testTokenSecret, "32-byte-long-auth-key-for-tests!", services, feedService),
		services: services,
	}
}

func (e *serverEnv) user(t *testing.T, username string, admin bool) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Name: username, Admin: admin}
	require.NoError(t, e.services.User.Create(u))
	return u
}

func (e *serverEnv) token(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := auth.MakeToken(user.ID, testTokenSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (e *serverEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestCreatePost_RequiresAuth(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, "POST", "/posts", "", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePost(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)

	rec := env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "first post"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "first post", post.Text)
	assert.Equal(t, "alice", post.Author.Username)

	// Empty text is rejected.
	rec = env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePost_OwnershipEnforced(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)
	mallory := env.user(t, "mallory", false)

	rec := env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "mine"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = env.do(t, "PATCH", "/posts/"+itoa(post.ID), env.token(t, mallory), map[string]string{"text": "stolen"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, "PATCH", "/posts/"+itoa(post.ID), env.token(t, alice), map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "edited", post.Text)
}

func TestDeletePost_AdminOverride(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)
	admin := env.user(t, "root", true)

	rec := env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "doomed"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = env.do(t, "DELETE", "/posts/"+itoa(post.ID), env.token(t, admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/posts/"+itoa(post.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGlobalFeed_AnonymousAndStable(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)

	rec := env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)

	first := env.do(t, "GET", "/feed", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := env.do(t, "GET", "/feed", "", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	rec = env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "another"})
	require.Equal(t, http.StatusCreated, rec.Code)

	third := env.do(t, "GET", "/feed", "", nil)
	require.Equal(t, http.StatusOK, third.Code)
	assert.NotEqual(t, first.Body.Bytes(), third.Body.Bytes())
}

func TestGroupFeed_NotFound(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, "GET", "/group/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowEndpoints(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)
	bob := env.user(t, "bob", false)

	// Anonymous follow is rejected.
	rec := env.do(t, "POST", "/profile/bob/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, "POST", "/profile/bob/follow", env.token(t, alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp followResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Following)

	// Duplicate follow converges on the same count.
	rec = env.do(t, "POST", "/profile/bob/follow", env.token(t, alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Following)

	// Self-follow never creates an edge.
	rec = env.do(t, "POST", "/profile/bob/follow", env.token(t, bob), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Following)

	rec = env.do(t, "DELETE", "/profile/bob/follow", env.token(t, alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Following)
}

func TestGroupCreate_AdminOnly(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)
	admin := env.user(t, "root", true)

	body := map[string]string{"title": "Music", "slug": "music"}

	rec := env.do(t, "POST", "/groups", env.token(t, alice), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, "POST", "/groups", env.token(t, admin), body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate slug surfaces as a conflict.
	rec = env.do(t, "POST", "/groups", env.token(t, admin), body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCommentEndpoints(t *testing.T) {
	env := setupServer(t)
	alice := env.user(t, "alice", false)
	bob := env.user(t, "bob", false)

	rec := env.do(t, "POST", "/posts", env.token(t, alice), map[string]string{"text": "a post"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = env.do(t, "POST", "/posts/"+itoa(post.ID)+"/comments", env.token(t, bob), map[string]string{"text": "first!"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, "POST", "/posts/"+itoa(post.ID)+"/comments", env.token(t, alice), map[string]string{"text": "thanks"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, "GET", "/posts/"+itoa(post.ID)+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []domain.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "first!", comments[0].Text)
	assert.Equal(t, "thanks", comments[1].Text)
}

func TestInvalidToken(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, "GET", "/feed", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
