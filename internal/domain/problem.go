package domain

import "math"

// ProblemParameters describes one planning request.
type ProblemParameters struct {
	Departure       Coordinates
	Arrival         Coordinates
	FuelEfficiency  float64 // km per litre
	TankCapacity    float64 // litres
	MinimumPurchase float64 // currency per intermediate stop
	AutonomyMargin  float64 // km of reserve on arrival at intermediate stops
	InitialFuel     float64 // litres at the first stop
	SegmentLength   float64 // km, candidate selection window granularity
	SearchDistance  float64 // km, max lateral offset of a candidate from the path
}

// Validate checks every numeric bound and returns an InvalidParameters
// PlanError naming the first offending field.
func (p ProblemParameters) Validate() error {
	const op = "validate parameters"
	positive := []struct {
		name string
		v    float64
	}{
		{"fuel_efficiency", p.FuelEfficiency},
		{"tank_capacity", p.TankCapacity},
		{"segment_length", p.SegmentLength},
		{"search_distance", p.SearchDistance},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return InvalidParameters(op, "%s must be a positive number, got %g", f.name, f.v)
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"minimum_purchase", p.MinimumPurchase},
		{"autonomy_margin", p.AutonomyMargin},
		{"initial_fuel", p.InitialFuel},
	}
	for _, f := range nonNegative {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			return InvalidParameters(op, "%s must be a non-negative number, got %g", f.name, f.v)
		}
	}
	if p.InitialFuel > p.TankCapacity {
		return InvalidParameters(op, "initial_fuel %g exceeds tank_capacity %g", p.InitialFuel, p.TankCapacity)
	}
	if err := p.Departure.Validate(); err != nil {
		return InvalidParameters(op, "departure: %v", err)
	}
	if err := p.Arrival.Validate(); err != nil {
		return InvalidParameters(op, "arrival: %v", err)
	}
	return nil
}

// Range is the distance in km a full tank covers.
func (p ProblemParameters) Range() float64 { return p.FuelEfficiency * p.TankCapacity }
