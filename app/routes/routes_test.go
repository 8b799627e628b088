package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"folio/app/auth"
	"folio/app/filter"
	"folio/app/models"
	"folio/app/repositories"
	"folio/app/services"
	"folio/app/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type body struct {
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	Messages []string        `json:"messages"`
}

type identity struct {
	Authenticated bool `json:"authenticated"`
	AdminID       int  `json:"admin_id"`
}

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo, err := repositories.NewRepository("", repositories.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	creds := auth.NewCredentialStore(repo, auth.BcryptHasher{Cost: bcrypt.MinCost})
	_, _, err = creds.Provision(context.Background(), "admin", "Site Owner", "secret")
	require.NoError(t, err)

	service := services.NewModerationService(repo, auth.NewSessionManager(creds, time.Hour), filter.MustNew(filter.DefaultRules()), services.NewMarkdownRenderer())
	router := SetupRoutes(Deps{
		Service:  service,
		Sessions: session.NewStore("test-secret", time.Hour, false),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, base: srv.URL, client: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, payload interface{}) (int, body) {
	c.t.Helper()
	var reader *bytes.Reader
	switch p := payload.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(p))
	default:
		data, err := json.Marshal(p)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	assert.Equal(c.t, "application/json", resp.Header.Get("Content-Type"))
	var b body
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&b))
	return resp.StatusCode, b
}

func (c *testClient) login(username, password string) (int, body) {
	return c.do("POST", "/api/login", map[string]string{"username": username, "password": password})
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestAuthRoutes(t *testing.T) {
	srv := setupTestServer(t)
	c := newClient(t, srv)

	t.Run("anonymous session", func(t *testing.T) {
		status, b := c.do("GET", "/api/session", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.False(t, decode[identity](t, b.Data).Authenticated)
	})

	t.Run("wrong password", func(t *testing.T) {
		status, b := c.login("admin", "nope")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, services.MsgInvalidLogin, b.Error)
		assert.Equal(t, []string{services.MsgInvalidLogin}, b.Messages)
	})

	t.Run("login", func(t *testing.T) {
		status, b := c.login("admin", "secret")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{services.MsgLoginSuccess}, b.Messages)
		id := decode[identity](t, b.Data)
		assert.True(t, id.Authenticated)
		assert.Equal(t, 1, id.AdminID)
	})

	t.Run("session drains flashes", func(t *testing.T) {
		status, b := c.do("GET", "/api/session", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, decode[identity](t, b.Data).Authenticated)
		assert.Equal(t, []string{services.MsgInvalidLogin, services.MsgLoginSuccess}, b.Messages)

		_, again := c.do("GET", "/api/session", nil)
		assert.Empty(t, again.Messages)
	})

	t.Run("logout", func(t *testing.T) {
		status, b := c.do("POST", "/api/logout", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{services.MsgGoodbye}, b.Messages)

		_, b = c.do("GET", "/api/session", nil)
		assert.False(t, decode[identity](t, b.Data).Authenticated)

		status, _ = c.do("POST", "/api/projects", map[string]string{"title": "After logout"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("bad json", func(t *testing.T) {
		status, b := c.do("POST", "/api/login", "{not json")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, b.Error, "invalid JSON")
	})
}

func TestProjectRoutes(t *testing.T) {
	srv := setupTestServer(t)
	admin := newClient(t, srv)
	visitor := newClient(t, srv)

	status, _ := admin.login("admin", "secret")
	require.Equal(t, http.StatusOK, status)

	t.Run("anonymous cannot publish", func(t *testing.T) {
		status, b := visitor.do("POST", "/api/projects", map[string]string{"title": "Sneaky"})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, services.MsgLoginRequired, b.Error)

		_, b = visitor.do("GET", "/api/projects", nil)
		assert.Empty(t, decode[[]models.Project](t, b.Data))
	})

	var project models.Project
	t.Run("publish", func(t *testing.T) {
		status, b := admin.do("POST", "/api/projects", map[string]string{"title": "Algorithm"})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, []string{services.MsgAdded}, b.Messages)
		project = decode[models.Project](t, b.Data)

		_, b = visitor.do("GET", "/api/projects", nil)
		projects := decode[[]models.Project](t, b.Data)
		require.Len(t, projects, 1)
		assert.Equal(t, "Algorithm", projects[0].Title)
		assert.Empty(t, projects[0].Content)
	})

	t.Run("publish without title", func(t *testing.T) {
		status, b := admin.do("POST", "/api/projects", map[string]string{"title": ""})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "title is required", b.Error)
	})

	t.Run("edit content", func(t *testing.T) {
		path := fmt.Sprintf("/api/projects/%d", project.ID)
		status, b := admin.do("PUT", path, map[string]string{"content": "Hello **world**<script>x()</script>"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{services.MsgUpdated}, b.Messages)

		_, b = visitor.do("GET", path, nil)
		got := decode[models.Project](t, b.Data)
		assert.Contains(t, got.Content, "<strong>world</strong>")
		assert.NotContains(t, got.Content, "<script")
	})

	t.Run("edit missing project", func(t *testing.T) {
		status, b := admin.do("PUT", "/api/projects/9999", map[string]string{"content": "x"})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, services.MsgNotFound, b.Error)
	})

	t.Run("show missing project", func(t *testing.T) {
		status, b := visitor.do("GET", "/api/projects/9999", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, services.MsgNotFound, b.Error)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/projects/%d", project.ID)
		status, _ := visitor.do("DELETE", path, nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		status, b := admin.do("DELETE", path, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []string{services.MsgDeleted}, b.Messages)

		status, _ = visitor.do("GET", path, nil)
		assert.Equal(t, http.StatusNotFound, status)
		status, _ = admin.do("DELETE", path, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestCommentRoutes(t *testing.T) {
	srv := setupTestServer(t)
	admin := newClient(t, srv)
	visitor := newClient(t, srv)

	status, _ := admin.login("admin", "secret")
	require.Equal(t, http.StatusOK, status)
	_, b := admin.do("POST", "/api/projects", map[string]string{"title": "Discussed"})
	project := decode[models.Project](t, b.Data)
	commentsPath := fmt.Sprintf("/api/projects/%d/comments", project.ID)

	tests := []struct {
		name       string
		author     string
		content    string
		wantStatus int
		wantMsg    string
	}{
		{"accepted", "Ann", "Lovely", http.StatusCreated, services.MsgAdded},
		{"malicious", "Ann", "badword1 here", http.StatusUnprocessableEntity, "malicious content"},
		{"too long", "Ann", strings.Repeat("a", 501), http.StatusUnprocessableEntity, "content too long"},
		{"missing author", "", "hi", http.StatusUnprocessableEntity, "author and content are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, b := visitor.do("POST", commentsPath, map[string]string{"author": tt.author, "content": tt.content})
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, []string{tt.wantMsg}, b.Messages)
		})
	}

	t.Run("comment on missing project", func(t *testing.T) {
		status, _ := visitor.do("POST", "/api/projects/9999/comments", map[string]string{"author": "Ann", "content": "hi"})
		assert.Equal(t, http.StatusNotFound, status)
	})

	_, b = visitor.do("GET", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	thread := decode[models.Project](t, b.Data)
	require.Len(t, thread.Comments, 1, "only the accepted comment is stored")
	commentID := thread.Comments[0].ID

	t.Run("reply", func(t *testing.T) {
		path := fmt.Sprintf("/api/comments/%d/replies", commentID)
		status, _ := visitor.do("POST", path, map[string]string{"content": "fake"})
		assert.Equal(t, http.StatusUnauthorized, status)

		status, b := admin.do("POST", path, map[string]string{"content": "Thank you"})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, []string{services.MsgReplyAdded}, b.Messages)

		_, b = visitor.do("GET", fmt.Sprintf("/api/projects/%d", project.ID), nil)
		thread := decode[models.Project](t, b.Data)
		require.Len(t, thread.Comments, 1)
		require.Len(t, thread.Comments[0].Replies, 1)
		assert.Equal(t, "Thank you", thread.Comments[0].Replies[0].Content)
		assert.True(t, thread.Comments[0].Answered)
	})

	t.Run("reply to missing comment", func(t *testing.T) {
		status, b := admin.do("POST", "/api/comments/9999/replies", map[string]string{"content": "Hello?"})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, []string{services.MsgNotFound}, b.Messages)
	})
}

func TestLoginAfterManyComments(t *testing.T) {
	srv := setupTestServer(t)
	admin := newClient(t, srv)
	visitor := newClient(t, srv)

	status, _ := admin.login("admin", "secret")
	require.Equal(t, http.StatusOK, status)
	_, b := admin.do("POST", "/api/projects", map[string]string{"title": "Busy"})
	project := decode[models.Project](t, b.Data)
	commentsPath := fmt.Sprintf("/api/projects/%d/comments", project.ID)

	for i := 0; i < 250; i++ {
		status, _ := visitor.do("POST", commentsPath, map[string]string{"author": "Ann", "content": fmt.Sprintf("comment %d", i)})
		require.Equal(t, http.StatusCreated, status)
	}

	status, b = visitor.login("admin", "secret")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{services.MsgLoginSuccess}, b.Messages)

	status, b = visitor.do("POST", "/api/projects", map[string]string{"title": "Published after login"})
	assert.Equal(t, http.StatusCreated, status, b.Error)

	_, b = visitor.do("GET", "/api/session", nil)
	assert.True(t, decode[identity](t, b.Data).Authenticated)
	assert.Len(t, b.Messages, session.MaxFlashes)
	assert.Equal(t, services.MsgAdded, b.Messages[len(b.Messages)-1])
}

func TestServe(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
