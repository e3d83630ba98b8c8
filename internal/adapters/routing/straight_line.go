package routing

import (
	"context"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/geo"
	"math"
)

// StraightLineProvider routes along great-circle chords. It needs no network
// and is used offline and in tests.
type StraightLineProvider struct {
	// Resolution is the largest gap in km between consecutive path samples.
	Resolution float64
}

func NewStraightLineProvider() *StraightLineProvider {
	return &StraightLineProvider{Resolution: 5}
}

// Path linearly interpolates each waypoint pair and appends the final
// waypoint.
func (p *StraightLineProvider) Path(ctx context.Context, waypoints []domain.Coordinates) ([]domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(waypoints) < 2 {
		return append([]domain.Coordinates(nil), waypoints...), nil
	}

	res := p.Resolution
	if res <= 0 {
		res = 5
	}

	var out []domain.Coordinates
	for i := 0; i+1 < len(waypoints); i++ {
		a, b := waypoints[i], waypoints[i+1]
		d := geo.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
		n := 1 + int(math.Ceil(d/res))
		for k := 0; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, domain.Coordinates{
				Lat: a.Lat + t*(b.Lat-a.Lat),
				Lon: a.Lon + t*(b.Lon-a.Lon),
			})
		}
	}
	return append(out, waypoints[len(waypoints)-1]), nil
}

// Distances returns pairwise great-circle distances in km.
func (p *StraightLineProvider) Distances(ctx context.Context, coords []domain.Coordinates) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float64, len(coords))
	for i := range out {
		out[i] = make([]float64, len(coords))
	}
	for i := range coords {
		for j := i + 1; j < len(coords); j++ {
			d := geo.Haversine(coords[i].Lat, coords[i].Lon, coords[j].Lat, coords[j].Lon)
			out[i][j], out[j][i] = d, d
		}
	}
	return out, nil
}
