package domain

import (
	"errors"
	"fuel-stop-planner/internal/geo"
)

// Path is an ordered polyline from departure to arrival with the cumulative
// along-path distance (km) at each sample.
type Path struct {
	Points    []Coordinates
	Arclength []float64
}

// NewPath builds a Path and its arclength table. Arclength[0] is 0 and the
// table is non-decreasing.
func NewPath(points []Coordinates) (*Path, error) {
	if len(points) == 0 {
		return nil, errors.New("path has no points")
	}
	arc := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		arc[i] = arc[i-1] + geo.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
	}
	return &Path{Points: points, Arclength: arc}, nil
}

// Length is the total along-path distance in km.
func (p *Path) Length() float64 {
	if len(p.Arclength) == 0 {
		return 0
	}
	return p.Arclength[len(p.Arclength)-1]
}

func (p *Path) Bounds() geo.BoundingBox {
	b := geo.BoundingBox{
		MinLat: p.Points[0].Lat, MaxLat: p.Points[0].Lat,
		MinLon: p.Points[0].Lon, MaxLon: p.Points[0].Lon,
	}
	for _, pt := range p.Points[1:] {
		b = b.Extend(pt.Lat, pt.Lon)
	}
	return b
}

// ClosestIndex returns the index of the path sample nearest to c by
// great-circle distance. The earliest sample wins on ties.
func (p *Path) ClosestIndex(c Coordinates) int {
	best, bestDist := 0, -1.0
	for i, pt := range p.Points {
		d := geo.Haversine(c.Lat, c.Lon, pt.Lat, pt.Lon)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Candidate is a station selected as a potential stop, with its position
// along the path.
type Candidate struct {
	Station           Station
	ClosestPathIndex  int
	ArclengthPosition float64
}

// NewCandidate projects s onto p.
func NewCandidate(s Station, p *Path) Candidate {
	idx := p.ClosestIndex(s.Coords)
	return Candidate{Station: s, ClosestPathIndex: idx, ArclengthPosition: p.Arclength[idx]}
}
