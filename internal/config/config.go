// Package config loads the application configuration from environment
// variables once at startup. The resulting Config is treated as immutable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all operator-tunable settings.
type Config struct {
	// Server
	Port      string
	BaseURL   string
	PublicDir string

	// Session
	SessionSecret string
	SessionMaxAge time.Duration
	CookieSecure  bool

	// Access policy
	AdminGroup string

	// Data files
	DataDir      string
	ClothingFile string
	LendingsFile string

	// Directory sync
	DirectoryURL          string
	DirectoryToken        string
	SyncInterval          time.Duration
	DirectoryAllowPrivate bool

	// SAML
	SAMLConfigPath string
}

// Load reads the configuration from the environment. Missing required
// variables are reported together in a single error.
func Load() (*Config, error) {
	cfg := &Config{}

	var missing []string

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Port = getEnvString("PORT", "3000")
	cfg.PublicDir = getEnvString("PUBLIC_DIR", "public")
	cfg.SessionMaxAge = getEnvDuration("SESSION_MAX_AGE", 24*time.Hour)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", strings.HasPrefix(cfg.BaseURL, "https://"))
	cfg.AdminGroup = getEnvString("ADMIN_GROUP", "kleiderkammer-admin")

	cfg.DataDir = getEnvString("DATA_DIR", "data")
	cfg.ClothingFile = getEnvString("CLOTHING_FILE", filepath.Join(cfg.DataDir, "clothing.json"))
	cfg.LendingsFile = getEnvString("LENDINGS_FILE", filepath.Join(cfg.DataDir, "lendings.json"))

	cfg.DirectoryURL = os.Getenv("AUTHENTIK_USER_API")
	cfg.DirectoryToken = os.Getenv("AUTHENTIK_API_TOKEN")
	cfg.SyncInterval = getEnvDuration("USER_SYNC_INTERVAL", 24*time.Hour)
	cfg.DirectoryAllowPrivate = getEnvBool("DIRECTORY_ALLOW_PRIVATE", false)

	cfg.SAMLConfigPath = getEnvString("SAML_CONFIG", filepath.Join("config", "saml-config.yaml"))

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}
