package repositories

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedStationRepository keeps stations looked up by id in memory for a
// while. Area queries always go to the underlying store.
type CachedStationRepository struct {
	next  ports.StationRepository
	cache *cache.Cache
}

func NewCachedStationRepository(next ports.StationRepository, ttl time.Duration) *CachedStationRepository {
	return &CachedStationRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func stationKey(id int) string { return fmt.Sprintf("station:%d", id) }

func (c *CachedStationRepository) StationsByIDs(ctx context.Context, ids []int) (map[int]domain.Station, error) {
	out := make(map[int]domain.Station, len(ids))
	var misses []int
	for _, id := range ids {
		if v, ok := c.cache.Get(stationKey(id)); ok {
			out[id] = v.(domain.Station)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.next.StationsByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, st := range fetched {
		c.cache.SetDefault(stationKey(id), st)
		out[id] = st
	}
	return out, nil
}

// FindStations fills the id cache with whatever the query returns.
func (c *CachedStationRepository) FindStations(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error) {
	stations, err := c.next.FindStations(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, st := range stations {
		c.cache.SetDefault(stationKey(st.ID), st)
	}
	return stations, nil
}

// Flush drops every cached station, e.g. after an import.
func (c *CachedStationRepository) Flush() { c.cache.Flush() }
