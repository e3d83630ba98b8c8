// Package testutil holds in-memory collaborators that record how they are used.
package testutil

import (
	"context"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
	"sort"
	"sync"
)

// StationStore is an in-memory ports.StationRepository.
type StationStore struct {
	mu       sync.Mutex
	stations map[int]domain.Station

	ByIDsCalls int
	FindCalls  int
	Err        error
}

func NewStationStore(stations ...domain.Station) *StationStore {
	s := &StationStore{stations: make(map[int]domain.Station, len(stations))}
	for _, st := range stations {
		s.stations[st.ID] = st
	}
	return s
}

func (s *StationStore) StationsByIDs(ctx context.Context, ids []int) (map[int]domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ByIDsCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[int]domain.Station, len(ids))
	for _, id := range ids {
		if st, ok := s.stations[id]; ok {
			out[id] = st
		}
	}
	return out, nil
}

// FindStations returns matches ordered by id, like the SQL stores.
func (s *StationStore) FindStations(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := []domain.Station{}
	for _, st := range s.stations {
		if filter.Matches(st) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DistanceCache is an in-memory ports.DistanceCache.
type DistanceCache struct {
	mu      sync.Mutex
	Entries map[domain.StationPair]float64

	GetCalls int
	PutCalls int
	GetErr   error
	PutErr   error
}

func NewDistanceCache() *DistanceCache {
	return &DistanceCache{Entries: map[domain.StationPair]float64{}}
}

func (c *DistanceCache) GetMany(ctx context.Context, pairs []domain.StationPair) (map[domain.StationPair]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	out := make(map[domain.StationPair]float64)
	for _, p := range pairs {
		if d, ok := c.Entries[p]; ok {
			out[p] = d
		}
	}
	return out, nil
}

func (c *DistanceCache) PutMany(ctx context.Context, distances map[domain.StationPair]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PutCalls++
	if c.PutErr != nil {
		return c.PutErr
	}
	for p, d := range distances {
		if _, ok := c.Entries[p]; !ok {
			c.Entries[p] = d
		}
	}
	return nil
}

// RouteProvider wraps another provider and counts calls.
type RouteProvider struct {
	mu    sync.Mutex
	Inner ports.RouteProvider

	PathCalls     int
	DistanceCalls int
	LastDistanceN int
	PathErr       error
	DistanceErr   error
}

func (p *RouteProvider) Path(ctx context.Context, waypoints []domain.Coordinates) ([]domain.Coordinates, error) {
	p.mu.Lock()
	p.PathCalls++
	err := p.PathErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return p.Inner.Path(ctx, waypoints)
}

func (p *RouteProvider) Distances(ctx context.Context, coords []domain.Coordinates) ([][]float64, error) {
	p.mu.Lock()
	p.DistanceCalls++
	p.LastDistanceN = len(coords)
	err := p.DistanceErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return p.Inner.Distances(ctx, coords)
}
