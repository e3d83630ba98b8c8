package ports

import (
	"context"
	"fuel-stop-planner/internal/domain"
)

// Port: a boundary for reading fuel stations from a data source.
type StationRepository interface {
	// Return the stations with the given ids. Unknown ids are absent from the map.
	StationsByIDs(ctx context.Context, ids []int) (map[int]domain.Station, error)
	// Return every station matching the filter.
	FindStations(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error)
}
