package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.URL != "./mirror.db" {
			t.Errorf("expected database url ./mirror.db, got %s", config.Database.URL)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("unexpected token url %s", config.Credentials.Spotify.TokenURL)
		}

		if config.Credentials.Spotify.APIBaseURL != "https://api.spotify.com/v1" {
			t.Errorf("unexpected api base url %s", config.Credentials.Spotify.APIBaseURL)
		}

		if config.Credentials.Spotify.RateLimit != 10 {
			t.Errorf("expected rate limit 10, got %v", config.Credentials.Spotify.RateLimit)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.URL != DefaultConfig().Database.URL {
			t.Errorf("created config database url doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
url = "/custom/mirror.db"
fallback_url = "/custom/replica.db"

[server]
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
user_id = "portfolio_user"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.URL != "/custom/mirror.db" {
			t.Errorf("expected database url /custom/mirror.db, got %s", config.Database.URL)
		}
		if config.Database.FallbackURL != "/custom/replica.db" {
			t.Errorf("expected fallback url /custom/replica.db, got %s", config.Database.FallbackURL)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.UserID != "portfolio_user" {
			t.Errorf("expected user id portfolio_user, got %s", config.Credentials.Spotify.UserID)
		}
		if config.Credentials.Spotify.TokenURL == "" {
			t.Error("expected omitted keys to keep their defaults")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("VITE_CLIENT_SECRET", "legacy_secret")
		t.Setenv("SPOTIFY_USER_ID", "")
		t.Setenv("VITE_SPOTIFY_USER_ID", "legacy_user")
		t.Setenv("MIRROR_DATABASE_URL", "file:env.db")
		t.Setenv("SPOTSTATS_PORT", "9090")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Spotify.ClientID != "env_id" {
			t.Errorf("expected env_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "legacy_secret" {
			t.Errorf("expected legacy_secret, got %s", config.Credentials.Spotify.ClientSecret)
		}
		if config.Credentials.Spotify.UserID != "legacy_user" {
			t.Errorf("expected legacy_user, got %s", config.Credentials.Spotify.UserID)
		}
		if config.Database.URL != "file:env.db" {
			t.Errorf("expected file:env.db, got %s", config.Database.URL)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", config.Server.Port)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("SPOTSTATS_TEST_VALUE=loaded\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("SPOTSTATS_TEST_VALUE") })

		if err := LoadEnv(envPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if os.Getenv("SPOTSTATS_TEST_VALUE") != "loaded" {
			t.Error("expected env file to be loaded")
		}

		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("expected missing env file to be ignored, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.ClientSecret = "secret"
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected missing user id to fail, got %v", err)
		}

		config.Credentials.Spotify.UserID = "user"
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})
}
