package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/balain/bkmrkr/internal/validations"
)

type SqliteConfig struct {
	Path string
}

type CacheConfig struct {
	Dir string
}

type AuthConfig struct {
	// Header carrying the authenticated username, set by the reverse proxy
	// that terminates authentication in front of this server.
	Header string
}

type BookmarksConfig struct {
	// AliasEnabled controls whether new bookmarks get a short alias minted.
	// Rows without an alias stay reachable through their content hash.
	AliasEnabled bool
	// ReferenceYear drives the short month/day date rendering in list views.
	ReferenceYear int
}

type LoggerConfig struct {
	LogLevel string
}

type AppConfig struct {
	Environment string
	// Contact is appended to the User-Agent of outbound fetches so site
	// operators can reach us.
	Contact string
	DB      SqliteConfig
	Cache   CacheConfig
	CSRF    struct {
		Key    string
		Secure bool
	}
	Server struct {
		Address string
	}
	Auth      AuthConfig
	Bookmarks BookmarksConfig
	Logging   LoggerConfig
}

func LoadEnvConfig(envFiles ...string) (*AppConfig, error) {
	var cfg AppConfig
	// A missing .env file is fine: everything can come from the environment.
	_ = godotenv.Load(envFiles...)

	cfg.Environment = validations.GetEnvWithDefault("ENVIRONMENT", "development")
	cfg.Contact = os.Getenv("CONTACT")

	cfg.DB = SqliteConfig{
		Path: validations.GetEnvWithDefault("DB_PATH", "./data/bkmrks.sqlite"),
	}
	cfg.Cache = CacheConfig{
		Dir: validations.GetEnvWithDefault("CACHE_DIR", "./cache"),
	}

	cfg.CSRF.Key = validations.GetEnvOrDie("CSRF_TOKEN")
	cfg.CSRF.Secure = validations.GetEnvOrDie("CSRF_SECURE") == "true"

	cfg.Server.Address = validations.GetEnvWithDefault("SERVER_ADDRESS", ":3000")

	cfg.Auth = AuthConfig{
		Header: validations.GetEnvWithDefault("AUTH_HEADER", "Remote-User"),
	}

	referenceYear, err := strconv.Atoi(validations.GetEnvWithDefault("REFERENCE_YEAR", "2021"))
	if err != nil {
		return nil, fmt.Errorf("parsing REFERENCE_YEAR: %w", err)
	}
	cfg.Bookmarks = BookmarksConfig{
		AliasEnabled:  validations.GetEnvWithDefault("ALIAS_ENABLED", "true") == "true",
		ReferenceYear: referenceYear,
	}

	cfg.Logging = LoggerConfig{
		LogLevel: validations.GetEnvWithDefault("LOG_LEVEL", "info"),
	}

	return &cfg, nil
}
