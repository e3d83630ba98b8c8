package services

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/metrics"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"math"
)

// DistanceResolver produces complete station-to-station distance matrices,
// serving what it can from the cache and asking the route provider for the
// rest in a single batch.
type DistanceResolver struct {
	Stations ports.StationRepository
	Cache    ports.DistanceCache
	Provider ports.RouteProvider
}

// Resolve returns the len(ids) x len(ids) road-distance matrix in km, indexed
// by position in ids. Repeated ids get zero distance to each other. Only
// previously unknown distances are written back to the cache.
func (r *DistanceResolver) Resolve(ctx context.Context, ids []int) (_ [][]float64, err error) {
	defer obs.Time(ctx, "distance.resolve")(&err)

	uniq := make([]int, 0, len(ids))
	pos := make(map[int]int, len(ids))
	for _, id := range ids {
		if _, ok := pos[id]; ok {
			continue
		}
		pos[id] = len(uniq)
		uniq = append(uniq, id)
	}

	k := len(uniq)
	work := newMatrix(k, -1)
	for i := range work {
		work[i][i] = 0
	}
	if k < 2 {
		return expand(ids, pos, work), nil
	}

	pairs := make([]domain.StationPair, 0, k*(k-1))
	for _, from := range uniq {
		for _, to := range uniq {
			if from != to {
				pairs = append(pairs, domain.StationPair{From: from, To: to})
			}
		}
	}

	cached, err := r.Cache.GetMany(ctx, pairs)
	if err != nil {
		return nil, domain.StorageFailure("resolve distances", fmt.Errorf("read distance cache: %w", err))
	}

	for _, p := range pairs {
		if d, ok := cached[p]; ok && d >= 0 && !math.IsNaN(d) {
			work[pos[p.From]][pos[p.To]] = d
		}
	}

	// Stations involved in at least one unknown pair, in first-seen order.
	involved := make([]int, 0, k)
	involvedIdx := make(map[int]int, k)
	unknown := 0
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if work[i][j] >= 0 {
				continue
			}
			unknown++
			for _, idx := range []int{i, j} {
				if _, ok := involvedIdx[uniq[idx]]; !ok {
					involvedIdx[uniq[idx]] = len(involved)
					involved = append(involved, uniq[idx])
				}
			}
		}
	}
	metrics.DistanceCacheHits.Add(float64(len(pairs) - unknown))
	metrics.DistanceCacheMisses.Add(float64(unknown))

	if unknown == 0 {
		return expand(ids, pos, work), nil
	}

	stations, err := r.Stations.StationsByIDs(ctx, involved)
	if err != nil {
		return nil, domain.StorageFailure("resolve distances", fmt.Errorf("load station coordinates: %w", err))
	}
	coords := make([]domain.Coordinates, len(involved))
	for i, id := range involved {
		s, ok := stations[id]
		if !ok {
			return nil, domain.StorageFailure("resolve distances", fmt.Errorf("station_id=%d not found", id))
		}
		coords[i] = s.Coords
	}

	fetched, err := r.Provider.Distances(ctx, coords)
	if err != nil {
		return nil, domain.ProviderFailure("resolve distances", fmt.Errorf("fetch distance matrix for %d stations: %w", len(coords), err))
	}
	if err := checkSquare(fetched, len(coords)); err != nil {
		return nil, domain.ProviderFailure("resolve distances", err)
	}

	fresh := make(map[domain.StationPair]float64, unknown)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if work[i][j] >= 0 {
				continue
			}
			d := fetched[involvedIdx[uniq[i]]][involvedIdx[uniq[j]]]
			work[i][j] = d
			fresh[domain.StationPair{From: uniq[i], To: uniq[j]}] = d
		}
	}

	if err := r.Cache.PutMany(ctx, fresh); err != nil {
		return nil, domain.StorageFailure("resolve distances", fmt.Errorf("write distance cache: %w", err))
	}

	return expand(ids, pos, work), nil
}

func checkSquare(m [][]float64, n int) error {
	if len(m) != n {
		return fmt.Errorf("distance matrix has %d rows, want %d", len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("distance matrix row %d has %d columns, want %d", i, len(row), n)
		}
		for j, d := range row {
			if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return fmt.Errorf("distance matrix cell (%d,%d) = %v is not a distance", i, j, d)
			}
		}
	}
	return nil
}

func newMatrix(n int, fill float64) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		if fill != 0 {
			for j := range m[i] {
				m[i][j] = fill
			}
		}
	}
	return m
}

// expand maps the per-unique-id matrix back onto the caller's positions.
func expand(ids []int, pos map[int]int, work [][]float64) [][]float64 {
	out := newMatrix(len(ids), 0)
	for i, a := range ids {
		for j, b := range ids {
			out[i][j] = work[pos[a]][pos[b]]
		}
	}
	return out
}
