package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultPath is where the player config is looked up when no path is given.
const DefaultPath = "config.json"

// Config holds the Microsoft account credentials or the offline player name.
type Config struct {
	MicrosoftEmail    string `json:"microsoft_email,omitempty"`
	MicrosoftPassword string `json:"microsoft_password,omitempty"`
	PlayerName        string `json:"player_name,omitempty"`
	AuthEndpoint      string `json:"auth_endpoint,omitempty"`
}

// HasCredentials is true when both email and password are non-empty.
func (c Config) HasCredentials() bool {
	return c.MicrosoftEmail != "" && c.MicrosoftPassword != ""
}

// LoadOrInit reads the config at path. A missing file is an empty config. When
// credentials are incomplete and no player name is set, a name of the form
// Bot followed by 8 lowercase hex digits is generated and changed is true. The
// file is never written; call Persist when changed is set.
func LoadOrInit(path string) (Config, bool, error) {
	var cfg Config
	bs, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, false, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := json.Unmarshal(bs, &cfg); err != nil {
			return Config{}, false, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if cfg.HasCredentials() || cfg.PlayerName != "" {
		return cfg, false, nil
	}
	cfg.PlayerName = GeneratePlayerName()
	return cfg, true, nil
}

// GeneratePlayerName returns "Bot" and the first 8 hex digits of a random uuid.
func GeneratePlayerName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "Bot" + id[:8]
}

// Persist writes cfg as JSON indented with two spaces, creating parent
// directories as needed. Keys already in the file that Config does not know
// are kept.
func Persist(cfg Config, path string) error {
	doc := map[string]json.RawMessage{}
	bs, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := json.Unmarshal(bs, &doc); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	known, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
