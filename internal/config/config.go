package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal console.
type Config struct {
	AppName        string
	AppEnv         string
	PortalBaseURL  string
	RequestTimeout time.Duration
	LoginPath      string
	AuditLimit     int
	StubPort       string
	StubDatabase   string
	StubJWTSecret  string
}

// StubAddress returns the address the stub backend should listen on.
func (c Config) StubAddress() string {
	if strings.HasPrefix(c.StubPort, ":") {
		return c.StubPort
	}

	return fmt.Sprintf(":%s", c.StubPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SIRA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SIRA Console")
	v.SetDefault("app.env", "development")
	v.SetDefault("portal.base_url", "http://localhost:5000")
	v.SetDefault("request.timeout", "15s")
	v.SetDefault("login.path", "/login")
	v.SetDefault("audit.limit", 100)
	v.SetDefault("stub.port", "5000")
	v.SetDefault("stub.jwt_secret", "dev-only-secret")

	timeoutString := v.GetString("request.timeout")
	if timeoutString == "" {
		timeoutString = "15s"
	}

	timeout, err := time.ParseDuration(timeoutString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid request timeout: %w", err)
	}

	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		PortalBaseURL:  strings.TrimRight(v.GetString("portal.base_url"), "/"),
		RequestTimeout: timeout,
		LoginPath:      v.GetString("login.path"),
		AuditLimit:     v.GetInt("audit.limit"),
		StubPort:       v.GetString("stub.port"),
		StubDatabase:   v.GetString("stub.database_url"),
		StubJWTSecret:  v.GetString("stub.jwt_secret"),
	}

	if cfg.PortalBaseURL == "" {
		return Config{}, fmt.Errorf("portal base url must be provided")
	}

	if cfg.AuditLimit <= 0 {
		cfg.AuditLimit = 100
	}

	return cfg, nil
}
