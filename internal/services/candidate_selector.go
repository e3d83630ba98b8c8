package services

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/geo"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"math"
	"sort"
)

// SelectorConfig bounds which stored prices are trusted.
type SelectorConfig struct {
	PriceMin     float64 // store query band, inclusive
	PriceMax     float64
	PriceOutlier float64 // prices below this are treated as data errors
}

func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{PriceMin: 0.1, PriceMax: 2.0, PriceOutlier: 0.4}
}

// CandidateSelector reduces the stations near a path to a short ordered
// list: the cheapest station per overlapping path window, plus the cheapest
// station near each trip endpoint.
type CandidateSelector struct {
	Stations ports.StationRepository
	Config   SelectorConfig
}

func (s *CandidateSelector) priceBand() *domain.PriceRange {
	return &domain.PriceRange{Min: s.Config.PriceMin, Max: s.Config.PriceMax}
}

// Select returns the candidates in path order. No two consecutive candidates
// share a station. The result may be empty.
func (s *CandidateSelector) Select(ctx context.Context, path *domain.Path, problem domain.ProblemParameters) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "candidates.select")(&err)

	bounds := path.Bounds()
	latMargin := geo.LatitudeSpan(problem.SearchDistance)
	lonMargin := geo.LongitudeSpan(problem.SearchDistance, bounds.ExtremeLatitude())
	box := bounds.Expand(2*latMargin, 2*lonMargin)

	stations, err := s.Stations.FindStations(ctx, domain.StationFilter{Box: &box, Price: s.priceBand()})
	if err != nil {
		return nil, domain.StorageFailure("select candidates", fmt.Errorf("find stations near path: %w", err))
	}

	near := make([]domain.Candidate, 0, len(stations))
	for _, st := range stations {
		if st.Price < s.Config.PriceOutlier {
			continue
		}
		if !withinMargin(path, st.Coords, latMargin, lonMargin) {
			continue
		}
		near = append(near, domain.NewCandidate(st, path))
	}
	sort.SliceStable(near, func(i, j int) bool {
		return near[i].ClosestPathIndex < near[j].ClosestPathIndex
	})

	selected := cheapestPerWindow(near, len(path.Points), path.Length(), problem.SegmentLength)

	if anchor, ok, err := s.cheapestNear(ctx, problem.Departure, 2*problem.SearchDistance); err != nil {
		return nil, err
	} else if ok && (len(selected) == 0 || selected[0].Station.ID != anchor.ID) {
		selected = append([]domain.Candidate{domain.NewCandidate(anchor, path)}, selected...)
	}

	if anchor, ok, err := s.cheapestNear(ctx, problem.Arrival, 2*problem.SearchDistance); err != nil {
		return nil, err
	} else if ok && (len(selected) == 0 || selected[len(selected)-1].Station.ID != anchor.ID) {
		selected = append(selected, domain.NewCandidate(anchor, path))
	}

	return selected, nil
}

func (s *CandidateSelector) cheapestNear(ctx context.Context, c domain.Coordinates, km float64) (domain.Station, bool, error) {
	box := geo.BoxAround(c.Lat, c.Lon, km)
	stations, err := s.Stations.FindStations(ctx, domain.StationFilter{Box: &box, Price: s.priceBand()})
	if err != nil {
		return domain.Station{}, false, domain.StorageFailure("select candidates", fmt.Errorf("find stations near (%f,%f): %w", c.Lat, c.Lon, err))
	}
	st, ok := domain.CheapestStation(stations)
	return st, ok, nil
}

// withinMargin reports whether some path sample is within the margin on
// both axes.
func withinMargin(path *domain.Path, c domain.Coordinates, latMargin, lonMargin float64) bool {
	for _, pt := range path.Points {
		if math.Abs(pt.Lat-c.Lat) < latMargin && math.Abs(pt.Lon-c.Lon) < lonMargin {
			return true
		}
	}
	return false
}

// windowBoundaries splits nPoints path samples at nCuts+1 evenly spaced
// indices. Window k spans [b[k], b[k+2]).
func windowBoundaries(nPoints, nCuts int) []int {
	b := make([]int, nCuts+1)
	for k := range b {
		b[k] = int(math.Round(float64(k) * float64(nPoints) / float64(nCuts)))
	}
	return b
}

// cheapestPerWindow expects near sorted by ClosestPathIndex.
func cheapestPerWindow(near []domain.Candidate, nPoints int, length, segmentLength float64) []domain.Candidate {
	out := []domain.Candidate{}
	if len(near) == 0 {
		return out
	}

	nCuts := int(math.Ceil(2 * length / segmentLength))
	if nCuts < 2 {
		nCuts = 2
	}
	b := windowBoundaries(nPoints, nCuts)

	lowerBound := func(idx int) int {
		return sort.Search(len(near), func(i int) bool { return near[i].ClosestPathIndex >= idx })
	}

	for k := 0; k+2 < len(b); k++ {
		lo, hi := lowerBound(b[k]), lowerBound(b[k+2])
		if k+2 == len(b)-1 {
			hi = len(near)
		}
		if lo >= hi {
			continue
		}
		best := near[lo]
		for _, c := range near[lo+1 : hi] {
			if c.Station.Price < best.Station.Price {
				best = c
			}
		}
		if len(out) > 0 && out[len(out)-1].Station.ID == best.Station.ID {
			continue
		}
		out = append(out, best)
	}
	return out
}
