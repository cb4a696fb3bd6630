package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-account-service/internal/config"
	"go-account-service/internal/handler"
	"go-account-service/internal/middleware"
	"go-account-service/internal/model"
	"go-account-service/internal/repository"
	"go-account-service/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

type authPayload struct {
	Token   string            `json:"token"`
	Account model.AccountView `json:"account"`
}

func newTestServer(t *testing.T) (*httptest.Server, *service.TokenService) {
	t.Helper()

	store := repository.NewMemoryAccountRepository()
	tokens := service.NewTokenService("test-secret", time.Hour)
	accounts := service.NewAccountService(store, tokens, nil, bcrypt.MinCost)

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	srv := httptest.NewServer(New(cfg, middleware.NewAuthMiddleware(tokens), Handlers{
		Auth:    handler.NewAuthHandler(accounts),
		Account: handler.NewAccountHandler(accounts),
		Health:  handler.NewHealthHandler(nil),
	}))
	t.Cleanup(srv.Close)

	return srv, tokens
}

func doJSON(t *testing.T, method string, url string, body any, token string) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var parsed envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	}
	return resp, parsed
}

func register(t *testing.T, srv *httptest.Server, email, password, name, role string) authPayload {
	t.Helper()

	payload := map[string]string{"email": email, "password": password, "name": name}
	if role != "" {
		payload["role"] = role
	}

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var auth authPayload
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	require.NotEmpty(t, auth.Token)
	return auth
}

func TestRegisterLoginFlow(t *testing.T) {
	srv, tokens := newTestServer(t)

	auth := register(t, srv, "a@x.com", "secret1", "Ann", "")
	assert.Equal(t, "a@x.com", auth.Account.Email)
	assert.Equal(t, "user", auth.Account.Role)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{"email": "a@x.com", "password": "wrongpw"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_credentials", env.Error.Code)

	resp, env = doJSON(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{"email": "a@x.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var login authPayload
	require.NoError(t, json.Unmarshal(env.Data, &login))

	claims, err := tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegisterValidationAndConflict(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodPost, srv.URL+"/auth/register", map[string]string{"email": "bad", "password": "x", "name": "A"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_error", env.Error.Code)

	register(t, srv, "dup@x.com", "secret1", "Ann", "")
	resp, env = doJSON(t, http.MethodPost, srv.URL+"/auth/register", map[string]string{"email": "dup@x.com", "password": "secret1", "name": "Bob"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "email_exists", env.Error.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "unauthorized", env.Error.Code)
}

func TestListAndGetAccounts(t *testing.T) {
	srv, _ := newTestServer(t)

	ann := register(t, srv, "ann@x.com", "secret1", "Ann", "")
	bob := register(t, srv, "bob@x.com", "secret1", "Bob", "")

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/users", nil, ann.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list model.AccountList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Accounts, 2)
	// Most recently created first.
	assert.Equal(t, bob.Account.ID, list.Accounts[0].ID)

	resp, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/users/%d", srv.URL, bob.Account.ID), nil, ann.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view model.AccountView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "bob@x.com", view.Email)

	resp, env = doJSON(t, http.MethodGet, srv.URL+"/users/9999", nil, ann.Token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "user_not_found", env.Error.Code)
}

func TestUpdatePermissions(t *testing.T) {
	srv, _ := newTestServer(t)

	ann := register(t, srv, "ann@x.com", "secret1", "Ann", "")
	bob := register(t, srv, "bob@x.com", "secret1", "Bob", "")

	url := fmt.Sprintf("%s/users/%d", srv.URL, bob.Account.ID)

	resp, env := doJSON(t, http.MethodPut, url, map[string]string{"name": "Hijacked"}, ann.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "permission_denied", env.Error.Code)

	resp, env = doJSON(t, http.MethodPut, url, map[string]string{"name": "Robert"}, bob.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view model.AccountView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Robert", view.Name)
	assert.Equal(t, "bob@x.com", view.Email)
}

func TestAdminDelete(t *testing.T) {
	srv, _ := newTestServer(t)

	admin := register(t, srv, "root@x.com", "secret1", "Root", "admin")
	bob := register(t, srv, "bob@x.com", "secret1", "Bob", "")

	// A regular user never reaches the delete handler.
	resp, env := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/admin/users/%d", srv.URL, admin.Account.ID), nil, bob.Token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "permission_denied", env.Error.Code)

	resp, env = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/admin/users/%d", srv.URL, admin.Account.ID), nil, admin.Token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "self_delete_error", env.Error.Code)

	resp, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/admin/users/%d", srv.URL, bob.Account.ID), nil, admin.Token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/users/%d", srv.URL, bob.Account.ID), nil, admin.Token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "user_not_found", env.Error.Code)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, env := doJSON(t, http.MethodGet, srv.URL+"/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}
