package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file and the environment.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains client-credentials for the Spotify Web API and the user whose statistics are read.
type SpotifyConfig struct {
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	UserID       string  `toml:"user_id"`
	TokenURL     string  `toml:"token_url"`
	APIBaseURL   string  `toml:"api_base_url"`
	RateLimit    float64 `toml:"rate_limit"`
}

// DatabaseConfig contains mirror store connection settings.
//
// FallbackURL is the alternate connection used for the single user lookup retry.
// It falls back to URL when empty.
type DatabaseConfig struct {
	URL          string `toml:"url"`
	FallbackURL  string `toml:"fallback_url"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	AllowOrigin string `toml:"allow_origin"`
}

// Addr returns host:port for [http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// envBindings maps environment variables onto config fields. Earlier names win.
var envBindings = []struct {
	names []string
	set   func(c *Config, v string)
}{
	{[]string{"SPOTIFY_CLIENT_ID", "VITE_CLIENT_ID"}, func(c *Config, v string) { c.Credentials.Spotify.ClientID = v }},
	{[]string{"SPOTIFY_CLIENT_SECRET", "VITE_CLIENT_SECRET"}, func(c *Config, v string) { c.Credentials.Spotify.ClientSecret = v }},
	{[]string{"SPOTIFY_USER_ID", "VITE_SPOTIFY_USER_ID"}, func(c *Config, v string) { c.Credentials.Spotify.UserID = v }},
	{[]string{"SPOTIFY_TOKEN_URL"}, func(c *Config, v string) { c.Credentials.Spotify.TokenURL = v }},
	{[]string{"SPOTIFY_API_BASE_URL"}, func(c *Config, v string) { c.Credentials.Spotify.APIBaseURL = v }},
	{[]string{"MIRROR_DATABASE_URL"}, func(c *Config, v string) { c.Database.URL = v }},
	{[]string{"MIRROR_FALLBACK_URL"}, func(c *Config, v string) { c.Database.FallbackURL = v }},
	{[]string{"SPOTSTATS_PORT"}, func(c *Config, v string) {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}},
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads dotenv files into the process environment. Missing files are ignored.
//
// With no arguments ".env" in the working directory is read.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays non-empty environment variables onto the config.
func (c *Config) ApplyEnv() {
	for _, b := range envBindings {
		for _, name := range b.names {
			if v := os.Getenv(name); v != "" {
				b.set(c, v)
				break
			}
		}
	}
}

// Validate checks the credentials required for the catalog API.
func (c *Config) Validate() error {
	sp := c.Credentials.Spotify
	switch {
	case sp.ClientID == "":
		return fmt.Errorf("%w: spotify client_id", ErrMissingCredentials)
	case sp.ClientSecret == "":
		return fmt.Errorf("%w: spotify client_secret", ErrMissingCredentials)
	case sp.UserID == "":
		return fmt.Errorf("%w: spotify user_id", ErrMissingCredentials)
	}
	return nil
}
