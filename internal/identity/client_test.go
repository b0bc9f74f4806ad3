package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "token-123",
			"user": map[string]string{
				"id":         "user-1",
				"email":      "jane@example.com",
				"created_at": "2025-01-01T00:00:00Z",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, APIKey: "service-key"})
	session, err := client.SignIn(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "token-123", session.AccessToken)
	require.NotNil(t, session.User)
	assert.Equal(t, "user-1", session.User.ID)
}

func TestSignInErrorSurfacesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, APIKey: "service-key"})
	_, err := client.SignIn(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestSignInErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, APIKey: "service-key"})
	_, err := client.SignIn(context.Background(), "jane@example.com", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "identity provider returned status 503")
}
