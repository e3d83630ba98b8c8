package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	defaultPort            = "8080"
	defaultDBDriver        = "sqlite"
	defaultDBPath          = "data/stations.db"
	defaultRouter          = "straight"
	defaultDistanceCache   = "sql"
	defaultRedisAddr       = "localhost:6379"
	defaultPriceMin        = 0.1
	defaultPriceMax        = 2.0
	defaultPriceOutlier    = 0.4
	defaultMaxCandidates   = 16
	defaultPlanTimeout     = 60 * time.Second
	defaultLPTolerance     = 1e-10
	defaultStationCacheTTL = 10 * time.Minute
)

// Config holds runtime configuration. Values come from defaults, then the
// optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Port            string        `yaml:"port"`
	DBDriver        string        `yaml:"db_driver"`
	DBPath          string        `yaml:"db_path"`
	DatabaseURL     string        `yaml:"database_url"`
	SeedPath        string        `yaml:"seed_path"`
	Router          string        `yaml:"router"`
	ORSAPIKey       string        `yaml:"ors_api_key"`
	ORSBaseURL      string        `yaml:"ors_base_url"`
	DistanceCache   string        `yaml:"distance_cache"`
	RedisAddr       string        `yaml:"redis_addr"`
	PriceMin        float64       `yaml:"price_min"`
	PriceMax        float64       `yaml:"price_max"`
	PriceOutlier    float64       `yaml:"price_outlier"`
	MaxCandidates   int           `yaml:"max_candidates"`
	SearchWorkers   int           `yaml:"search_workers"`
	PlanTimeout     time.Duration `yaml:"plan_timeout"`
	LPTolerance     float64       `yaml:"lp_tolerance"`
	StationCacheTTL time.Duration `yaml:"station_cache_ttl"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

func defaults() Config {
	return Config{
		Port:            defaultPort,
		DBDriver:        defaultDBDriver,
		DBPath:          defaultDBPath,
		Router:          defaultRouter,
		DistanceCache:   defaultDistanceCache,
		RedisAddr:       defaultRedisAddr,
		PriceMin:        defaultPriceMin,
		PriceMax:        defaultPriceMax,
		PriceOutlier:    defaultPriceOutlier,
		MaxCandidates:   defaultMaxCandidates,
		SearchWorkers:   runtime.NumCPU(),
		PlanTimeout:     defaultPlanTimeout,
		LPTolerance:     defaultLPTolerance,
		StationCacheTTL: defaultStationCacheTTL,
		CORSOrigins:     []string{"*"},
	}
}

// Get returns the environment variable or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present), the YAML file and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = Get("PORT", c.Port)
	c.DBDriver = Get("DB_DRIVER", c.DBDriver)
	c.DBPath = Get("DB_PATH", c.DBPath)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.SeedPath = Get("SEED_PATH", c.SeedPath)
	c.Router = Get("ROUTER", c.Router)
	c.ORSAPIKey = Get("ORS_API_KEY", c.ORSAPIKey)
	c.ORSBaseURL = Get("ORS_BASE_URL", c.ORSBaseURL)
	c.DistanceCache = Get("DISTANCE_CACHE", c.DistanceCache)
	c.RedisAddr = Get("REDIS_ADDR", c.RedisAddr)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"PRICE_MIN", &c.PriceMin},
		{"PRICE_MAX", &c.PriceMax},
		{"PRICE_OUTLIER", &c.PriceOutlier},
		{"LP_TOLERANCE", &c.LPTolerance},
	}
	for _, f := range floats {
		if v, err := readFloatEnv(f.key); err != nil {
			return fmt.Errorf("parse %s: %w", f.key, err)
		} else if v != nil {
			*f.dst = *v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_CANDIDATES", &c.MaxCandidates},
		{"SEARCH_WORKERS", &c.SearchWorkers},
	}
	for _, f := range ints {
		if v, err := readIntEnv(f.key); err != nil {
			return fmt.Errorf("parse %s: %w", f.key, err)
		} else if v != nil {
			*f.dst = *v
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"PLAN_TIMEOUT", &c.PlanTimeout},
		{"STATION_CACHE_TTL", &c.StationCacheTTL},
	}
	for _, f := range durations {
		if v, err := readDurationEnv(f.key); err != nil {
			return fmt.Errorf("parse %s: %w", f.key, err)
		} else if v != nil {
			*f.dst = *v
		}
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "pgx", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver)
	}
	if c.DBDriver != "sqlite" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for the postgres driver")
	}
	switch c.Router {
	case "straight":
	case "ors":
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			return errors.New("ORS_API_KEY is required when ROUTER=ors")
		}
	default:
		return fmt.Errorf("ROUTER must be straight or ors, got %q", c.Router)
	}
	switch c.DistanceCache {
	case "sql", "redis":
	default:
		return fmt.Errorf("DISTANCE_CACHE must be sql or redis, got %q", c.DistanceCache)
	}
	if c.PriceMin < 0 || c.PriceMax <= c.PriceMin {
		return fmt.Errorf("price band [%g, %g] is empty", c.PriceMin, c.PriceMax)
	}
	if c.MaxCandidates < 2 {
		return fmt.Errorf("MAX_CANDIDATES must be at least 2, got %d", c.MaxCandidates)
	}
	if c.SearchWorkers < 1 {
		return fmt.Errorf("SEARCH_WORKERS must be at least 1, got %d", c.SearchWorkers)
	}
	if c.LPTolerance < 0 {
		return fmt.Errorf("LP_TOLERANCE must not be negative, got %g", c.LPTolerance)
	}
	return nil
}

func readIntEnv(key string) (*int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func readFloatEnv(key string) (*float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// readDurationEnv accepts Go durations ("90s") or a bare number of seconds.
func readDurationEnv(key string) (*time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		d := time.Duration(secs) * time.Second
		return &d, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
