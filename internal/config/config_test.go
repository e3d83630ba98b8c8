package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "DB_DRIVER", "DB_PATH", "DATABASE_URL", "SEED_PATH",
		"ROUTER", "ORS_API_KEY", "ORS_BASE_URL", "DISTANCE_CACHE", "REDIS_ADDR",
		"PRICE_MIN", "PRICE_MAX", "PRICE_OUTLIER", "MAX_CANDIDATES", "SEARCH_WORKERS",
		"PLAN_TIMEOUT", "LP_TOLERANCE", "STATION_CACHE_TTL", "CORS_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	// godotenv must not pick up a developer's .env file.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "straight", cfg.Router)
	require.Equal(t, 16, cfg.MaxCandidates)
	require.Equal(t, 0.4, cfg.PriceOutlier)
	require.Equal(t, 60*time.Second, cfg.PlanTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
max_candidates: 12
price_max: 1.8
plan_timeout: 45s
cors_origins: ["https://maps.example"]
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_CANDIDATES", "10")
	t.Setenv("STATION_CACHE_TTL", "30")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 10, cfg.MaxCandidates)
	require.Equal(t, 1.8, cfg.PriceMax)
	require.Equal(t, 45*time.Second, cfg.PlanTimeout)
	require.Equal(t, 30*time.Second, cfg.StationCacheTTL)
	require.Equal(t, []string{"https://maps.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"malformed int", "MAX_CANDIDATES", "many"},
		{"malformed float", "PRICE_MIN", "cheap"},
		{"malformed duration", "PLAN_TIMEOUT", "soon"},
		{"unknown router", "ROUTER", "osrm"},
		{"ors without key", "ROUTER", "ors"},
		{"unknown cache", "DISTANCE_CACHE", "memcached"},
		{"postgres without url", "DB_DRIVER", "pgx"},
		{"too few candidates", "MAX_CANDIDATES", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("FUEL_TEST_KEY", "")
	require.Equal(t, "x", Get("FUEL_TEST_KEY", "x"))
	t.Setenv("FUEL_TEST_KEY", "y")
	require.Equal(t, "y", Get("FUEL_TEST_KEY", "x"))
}
