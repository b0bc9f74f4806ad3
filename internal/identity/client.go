package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Session is what the provider hands back on a successful password sign-in.
type Session struct {
	AccessToken string
	User        *User
}

type User struct {
	ID        string
	Email     string
	CreatedAt string
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the hosted identity provider over its GoTrue-style REST
// surface. Credential verification and token issuance happen entirely on the
// provider side; this client only relays.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	User        *struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		CreatedAt string `json:"created_at"`
	} `json:"user"`
}

type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

// SignIn exchanges email/password for a session via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	url := c.baseURL + "/auth/v1/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sign-in response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s", providerErrorText(resp.StatusCode, respBody))
	}

	var parsed signInResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}

	session := &Session{AccessToken: parsed.AccessToken}
	if parsed.User != nil {
		session.User = &User{
			ID:        parsed.User.ID,
			Email:     parsed.User.Email,
			CreatedAt: parsed.User.CreatedAt,
		}
	}
	return session, nil
}

// providerErrorText pulls the most specific message out of the provider's
// error body. The raw text matters downstream: the login facade classifies
// failures by keywords in it.
func providerErrorText(status int, body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err == nil {
		for _, msg := range []string{pe.ErrorDescription, pe.Msg, pe.Message, pe.Error} {
			if msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("identity provider returned status %d", status)
}
