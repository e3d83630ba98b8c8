package ports

import (
	"context"
	"fuel-stop-planner/internal/domain"
)

// Contract for the persistent directed distance cache (km between stations).
type DistanceCache interface {
	// Return known distances for the requested pairs. Unknown pairs are absent.
	GetMany(ctx context.Context, pairs []domain.StationPair) (map[domain.StationPair]float64, error)
	// Store distances. Existing entries are left untouched.
	PutMany(ctx context.Context, distances map[domain.StationPair]float64) error
}
