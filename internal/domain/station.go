package domain

import (
	"fuel-stop-planner/internal/geo"
	"time"
)

// A fuel station as stored in the station store.
type Station struct {
	ID         int
	Coords     Coordinates
	Price      float64 // per litre
	Address    string
	LastUpdate time.Time
}

// PriceRange is an inclusive bound on fuel price.
type PriceRange struct {
	Min float64
	Max float64
}

// StationFilter selects stations by area and price. Nil fields do not filter.
type StationFilter struct {
	Box   *geo.BoundingBox
	Price *PriceRange
}

// Matches reports whether s passes every bound set on f.
func (f StationFilter) Matches(s Station) bool {
	if f.Box != nil && !f.Box.Contains(s.Coords.Lat, s.Coords.Lon) {
		return false
	}
	if f.Price != nil && (s.Price < f.Price.Min || s.Price > f.Price.Max) {
		return false
	}
	return true
}

// CheapestStation returns the lowest priced station. The first one wins on ties.
func CheapestStation(stations []Station) (Station, bool) {
	if len(stations) == 0 {
		return Station{}, false
	}
	best := stations[0]
	for _, s := range stations[1:] {
		if s.Price < best.Price {
			best = s
		}
	}
	return best, true
}

// StationPair is a directed (from, to) key into the distance cache.
type StationPair struct {
	From int
	To   int
}
