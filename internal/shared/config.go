package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is the prefix for environment overrides, e.g. AERIAL_SPOTIFY_CLIENT_ID.
const EnvPrefix = "aerial"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Cache       CacheConfig       `toml:"cache"`
	API         APIConfig         `toml:"api"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and endpoints.
type SpotifyConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
	AuthURL      string   `toml:"auth_url"`
	APIURL       string   `toml:"api_url"`
}

// ServerConfig contains settings for the local redirect receiver.
type ServerConfig struct {
	Port int `toml:"port"`
}

// CacheConfig selects where the token cache lives.
//
// Backend is "file" (TOML) or "sqlite".
type CacheConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// APIConfig contains settings for the API dispatcher.
type APIConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// envOverrides is populated by [envconfig.Process]. Empty values leave the file config untouched.
type envOverrides struct {
	SpotifyClientID     string `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	CacheBackend        string `envconfig:"CACHE_BACKEND"`
	CachePath           string `envconfig:"CACHE_PATH"`
	Port                int    `envconfig:"PORT"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
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

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays AERIAL_* environment variables onto the config.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if env.SpotifyClientID != "" {
		c.Credentials.Spotify.ClientID = env.SpotifyClientID
	}
	if env.SpotifyClientSecret != "" {
		c.Credentials.Spotify.ClientSecret = env.SpotifyClientSecret
	}
	if env.CacheBackend != "" {
		c.Cache.Backend = env.CacheBackend
	}
	if env.CachePath != "" {
		c.Cache.Path = env.CachePath
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	return nil
}

// SpotifyCredentials returns the client id and secret, or [ErrMissingCredentials] when either is unset.
func (c *Config) SpotifyCredentials() (string, string, error) {
	sp := c.Credentials.Spotify
	if sp.ClientID == "" || sp.ClientSecret == "" {
		return "", "", fmt.Errorf("%w: credentials.spotify.client_id and client_secret must be set", ErrMissingCredentials)
	}
	return sp.ClientID, sp.ClientSecret, nil
}
