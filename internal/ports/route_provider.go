package ports

import (
	"context"
	"fuel-stop-planner/internal/domain"
)

// Contract for road geometry and road distances.
type RouteProvider interface {
	// Return a sampled path through the waypoints, in order.
	Path(ctx context.Context, waypoints []domain.Coordinates) ([]domain.Coordinates, error)
	// Return the square matrix of distances in km between every pair of coordinates.
	Distances(ctx context.Context, coords []domain.Coordinates) ([][]float64, error)
}
