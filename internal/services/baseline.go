package services

import "fuel-stop-planner/internal/domain"

// NaiveCost prices the "fill up only when the next leg can't be covered"
// strategy over every candidate in order, ending with a full tank. It is the
// reference the optimized plan's savings are measured against.
func NaiveCost(p domain.ProblemParameters, prices []float64, distances [][]float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	tank := p.InitialFuel
	cost := 0.0
	for i := 0; i+1 < len(prices); i++ {
		need := distances[i][i+1] / p.FuelEfficiency
		if need > tank {
			cost += (p.TankCapacity - tank) * prices[i]
			tank = p.TankCapacity
		}
		tank -= need
	}
	cost += (p.TankCapacity - tank) * prices[len(prices)-1]
	return cost
}
