package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrNoAuthEndpoint = errors.New("no auth_endpoint configured")

// Identity is the player name used in the world and whether it came from an
// authenticated account.
type Identity struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// Authenticator exchanges account credentials for a profile name.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Login authenticates when both credentials are present and otherwise falls
// back to the offline player name. Authenticator errors are returned as is.
func Login(ctx context.Context, cfg Config, auth Authenticator) (Identity, error) {
	if !cfg.HasCredentials() {
		return Identity{Name: cfg.PlayerName}, nil
	}
	name, err := auth.Login(ctx, cfg.MicrosoftEmail, cfg.MicrosoftPassword)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Name: name, Online: true}, nil
}

// HTTPAuthenticator posts the credentials as JSON to Endpoint and reads the
// profile name from a {"name": ...} response.
type HTTPAuthenticator struct {
	Endpoint string
	Client   *http.Client
}

var _ Authenticator = &HTTPAuthenticator{}

func NewHTTPAuthenticator(endpoint string) *HTTPAuthenticator {
	return &HTTPAuthenticator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Name string `json:"name"`
}

func (a *HTTPAuthenticator) Login(ctx context.Context, email, password string) (string, error) {
	if a.Endpoint == "" {
		return "", ErrNoAuthEndpoint
	}
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: %s", resp.Status)
	}
	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding login response: %w", err)
	}
	if out.Name == "" {
		return "", errors.New("login response has no profile name")
	}
	return out.Name, nil
}
