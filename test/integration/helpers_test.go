package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func (app *TestApp) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndLogin walks a fresh account through the full onboarding flow
// and returns its email plus a working token pair.
func (app *TestApp) registerAndLogin(t *testing.T) (string, map[string]any) {
	t.Helper()

	suffix := uuid.NewString()[:8]
	email := fmt.Sprintf("user-%s@example.com", suffix)

	resp := app.doJSON(t, http.MethodPost, "/api/users", "", map[string]any{
		"nickname": "user-" + suffix,
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	code := app.Notifier.codeFor(email)
	require.NotEmpty(t, code)

	resp = app.doJSON(t, http.MethodPost, "/api/users/verify", "", map[string]any{
		"email": email,
		"code":  code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = app.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeJSON[map[string]any](t, resp)

	tokens, ok := login["tokens"].(map[string]any)
	require.True(t, ok)
	return email, tokens
}

func accessToken(t *testing.T, tokens map[string]any) string {
	t.Helper()
	token, ok := tokens["access_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func refreshToken(t *testing.T, tokens map[string]any) string {
	t.Helper()
	token, ok := tokens["refresh_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}
