package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskManager/internal/client/api"
	"taskManager/internal/handlers"
	"taskManager/internal/repository/inmemory"
	"taskManager/internal/service"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := inmemory.New()
	tokens := service.NewTokenManager("test-secret", time.Hour)
	auth := service.NewAuthService(store, tokens, service.NewPasswordHasher(bcrypt.MinCost))

	srv := httptest.NewServer(handlers.NewRouter(
		handlers.NewTaskHandler(service.NewTaskService(store)),
		handlers.NewAuthHandler(auth),
		handlers.NewUserHandler(service.NewUserService(store)),
		auth,
		handlers.RouterOptions{},
	))
	t.Cleanup(srv.Close)
	return srv
}

func signedIn(t *testing.T, srv *httptest.Server) *api.Client {
	t.Helper()
	c := api.New(srv.URL)
	res, err := c.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	c.SetToken(res.Token)
	return c
}

func TestClient_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t)
	c := api.New(srv.URL + "/")

	res, err := c.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)
	assert.NotEmpty(t, res.User.ID)

	_, err = c.Register(ctx, "alice", "secret1")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Contains(t, apiErr.Message, "already exists")

	_, err = c.Login(ctx, "alice", "wrong12")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	logged, err := c.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	c.SetToken(logged.Token)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	assert.NoError(t, c.Logout(ctx))
}

func TestClient_Tasks(t *testing.T) {
	ctx := context.Background()
	c := signedIn(t, newServer(t))
	deadline := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	milk, err := c.CreateTask(ctx, "Buy milk", &deadline)
	require.NoError(t, err)
	require.NotNil(t, milk.Deadline)
	assert.True(t, deadline.Equal(*milk.Deadline))

	rent, err := c.CreateTask(ctx, "Pay rent", nil)
	require.NoError(t, err)
	assert.Nil(t, rent.Deadline)
	assert.Equal(t, api.StatusActive, rent.Status)

	done := api.StatusDone
	updated, err := c.UpdateTask(ctx, milk.ID, api.TaskPatch{Status: &done, ClearDeadline: true})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.Deadline)

	list, err := c.ListTasks(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, rent.ID, list.Tasks[0].ID)
	assert.Equal(t, 1, list.RemainingCount)

	active, err := c.ListTasks(ctx, "active", "rent")
	require.NoError(t, err)
	require.Len(t, active.Tasks, 1)

	require.NoError(t, c.DeleteTask(ctx, rent.ID))
	err = c.DeleteTask(ctx, rent.ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_WithoutToken(t *testing.T) {
	c := api.New(newServer(t).URL)

	_, err := c.ListTasks(context.Background(), "", "")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, errors.Is(err, api.ErrUnreachable))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := api.New(url, api.WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.Login(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, api.ErrUnreachable)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := api.New(srv.URL).Me(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
