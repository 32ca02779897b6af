package config

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrInitGeneratesPlayerName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, changed, err := LoadOrInit(path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Regexp(t, `^Bot[0-9a-f]{8}$`, cfg.PlayerName)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "LoadOrInit must not write")

	require.NoError(t, Persist(cfg, path))
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(bs), "\n  \"player_name\": ")

	again, changed, err := LoadOrInit(path)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, cfg.PlayerName, again.PlayerName)
}

func TestLoadOrInitKeepsCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"microsoft_email":"a@b.c","microsoft_password":"pw"}`), 0600))

	cfg, changed, err := LoadOrInit(path)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, cfg.PlayerName)
	assert.True(t, cfg.HasCredentials())
}

func TestLoadOrInitIncompleteCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"microsoft_email":"a@b.c","microsoft_password":""}`), 0600))

	cfg, changed, err := LoadOrInit(path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "a@b.c", cfg.MicrosoftEmail)
	assert.Regexp(t, `^Bot[0-9a-f]{8}$`, cfg.PlayerName)
}

func TestLoadOrInitMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"player_name":`), 0600))

	_, _, err := LoadOrInit(path)
	assert.Error(t, err)
}

func TestPersistKeepsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"microsoft_email":"a@b.c","server":{"host":"mc.local","port":25565}}`), 0600))

	cfg, changed, err := LoadOrInit(path)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, Persist(cfg, path))

	var doc map[string]interface{}
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bs, &doc))
	assert.Equal(t, map[string]interface{}{"host": "mc.local", "port": 25565.0}, doc["server"])
	assert.Equal(t, "a@b.c", doc["microsoft_email"])
	assert.Equal(t, cfg.PlayerName, doc["player_name"])

	again, changed, err := LoadOrInit(path)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, cfg, again)
}

func TestGeneratedNamesDiffer(t *testing.T) {
	assert.NotEqual(t, GeneratePlayerName(), GeneratePlayerName())
}

type stubAuth struct {
	name  string
	err   error
	calls int
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.name, s.err
}

func TestLoginUsesAuthenticatorWithCredentials(t *testing.T) {
	auth := &stubAuth{name: "Steve"}
	id, err := Login(context.Background(), Config{MicrosoftEmail: "a", MicrosoftPassword: "b", PlayerName: "Bot00000000"}, auth)
	require.NoError(t, err)
	assert.Equal(t, Identity{Name: "Steve", Online: true}, id)
	assert.Equal(t, 1, auth.calls)
}

func TestLoginOffline(t *testing.T) {
	auth := &stubAuth{name: "Steve"}
	id, err := Login(context.Background(), Config{MicrosoftEmail: "a", PlayerName: "Bot1234abcd"}, auth)
	require.NoError(t, err)
	assert.Equal(t, Identity{Name: "Bot1234abcd"}, id)
	assert.Zero(t, auth.calls)
}

func TestLoginPropagatesAuthError(t *testing.T) {
	boom := errors.New("bad password")
	_, err := Login(context.Background(), Config{MicrosoftEmail: "a", MicrosoftPassword: "b"}, &stubAuth{err: boom})
	assert.Same(t, boom, err)
}

func TestHTTPAuthenticator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(loginResponse{Name: "Alex"})
	}))
	defer srv.Close()

	auth := NewHTTPAuthenticator(srv.URL)
	name, err := auth.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Alex", name)

	_, err = auth.Login(context.Background(), "a@b.c", "wrong")
	assert.Error(t, err)

	_, err = NewHTTPAuthenticator("").Login(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNoAuthEndpoint)
}
