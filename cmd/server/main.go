package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/adapters/cache"
	"fuel-stop-planner/internal/adapters/lp"
	"fuel-stop-planner/internal/adapters/repositories"
	"fuel-stop-planner/internal/adapters/routing"
	"fuel-stop-planner/internal/api"
	"fuel-stop-planner/internal/config"
	"fuel-stop-planner/internal/platform/db"
	"fuel-stop-planner/internal/ports"
	"fuel-stop-planner/internal/services"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS, simplex) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	driver, err := db.ParseDriver(cfg.DBDriver)
	if err != nil {
		log.Fatal(err)
	}
	dsn := cfg.DBPath
	if driver == db.DriverPostgres {
		dsn = cfg.DatabaseURL
	}

	conn, err := db.Open(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and import the station export on startup for local runs.
	if err := initAndSeed(conn, driver, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	router, err := newRouteProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	distanceCache, closeCache, err := newDistanceCache(cfg, conn, driver)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	// Station rows change only on import, so lookups go through an in-process TTL cache.
	stations := repositories.NewCachedStationRepository(
		repositories.NewSQLStationRepository(conn, driver),
		cfg.StationCacheTTL,
	)

	planner := &services.TripPlanner{
		Stations: stations,
		Router:   router,
		Selector: &services.CandidateSelector{
			Stations: stations,
			Config: services.SelectorConfig{
				PriceMin:     cfg.PriceMin,
				PriceMax:     cfg.PriceMax,
				PriceOutlier: cfg.PriceOutlier,
			},
		},
		Resolver: &services.DistanceResolver{
			Stations: stations,
			Cache:    distanceCache,
			Provider: router,
		},
		Search: &services.Search{
			LP: &services.FuelingLP{Solver: lp.Simplex{}, Tolerance: cfg.LPTolerance},
			Config: services.SearchConfig{
				MaxCandidates: cfg.MaxCandidates,
				Workers:       cfg.SearchWorkers,
			},
		},
		Timeout: cfg.PlanTimeout,
	}

	handler := api.NewRouter(api.Deps{
		Planner:     planner,
		Stations:    stations,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Timeouts are tuned for cold-cache planning (external matrix latency plus the subset search).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PlanTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s router=%s distance_cache=%s db=%s", cfg.Port, cfg.Router, cfg.DistanceCache, driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	log.Printf("Received signal %v, starting graceful shutdown", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

func initAndSeed(conn *sql.DB, driver db.Driver, seedPath string) error {
	if err := repositories.InitSchema(conn, driver); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if seedPath == "" {
		return nil
	}

	stats, err := repositories.ImportStationsFromJSON(context.Background(), conn, driver, seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("station import path=%s added=%d updated=%d skipped=%d", seedPath, stats.Added, stats.Updated, stats.Skipped)
	return nil
}

func newRouteProvider(cfg config.Config) (ports.RouteProvider, error) {
	if cfg.Router != "ors" {
		return routing.NewStraightLineProvider(), nil
	}
	var opts []routing.ORSOption
	if cfg.ORSBaseURL != "" {
		opts = append(opts, routing.WithBaseURL(cfg.ORSBaseURL))
	}
	ors, err := routing.NewORSProvider(cfg.ORSAPIKey, opts...)
	if err != nil {
		return nil, err
	}
	return ors, nil
}

// newDistanceCache returns the configured cache and a func releasing its resources.
func newDistanceCache(cfg config.Config, conn *sql.DB, driver db.Driver) (ports.DistanceCache, func(), error) {
	if cfg.DistanceCache != "redis" {
		return cache.NewSQLDistanceCache(conn, driver), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	return cache.NewRedisDistanceCache(client), func() { _ = client.Close() }, nil
}
