package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-console/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "SIRA Console", cfg.AppName)
	require.Equal(t, "http://localhost:5000", cfg.PortalBaseURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, "/login", cfg.LoginPath)
	require.Equal(t, 100, cfg.AuditLimit)
	require.Equal(t, ":5000", cfg.StubAddress())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SIRA_PORTAL_BASE_URL", "https://records.example.edu/")
	t.Setenv("SIRA_REQUEST_TIMEOUT", "3s")
	t.Setenv("SIRA_STUB_PORT", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "https://records.example.edu", cfg.PortalBaseURL)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, ":9090", cfg.StubAddress())
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("SIRA_REQUEST_TIMEOUT", "soon")

	_, err := config.Load()
	require.Error(t, err)
}
