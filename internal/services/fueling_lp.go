package services

import (
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/ports"
)

// FuelingLP finds the cheapest purchases along one fixed stop sequence.
//
// With n legs between n+1 stops the variables are
//
//	x = [purchase_0 .. purchase_n, level_1 .. level_n]
//
// where level_i is the tank content on arrival at stop i (level_0 is the
// initial fuel and is not a variable).
type FuelingLP struct {
	Solver    ports.LinearProgramSolver
	Tolerance float64
}

// BuildFuelingProgram encodes the fueling problem over a stop sequence with
// the given prices and leg lengths (len(legs) == len(prices)-1).
func BuildFuelingProgram(p domain.ProblemParameters, prices, legs []float64) ports.LinearProgram {
	n := len(legs)
	nVar := 2*n + 1
	purchase := func(i int) int { return i }
	level := func(i int) int { return n + i } // i in 1..n

	row := func() []float64 { return make([]float64, nVar) }
	prog := ports.LinearProgram{Objective: row()}
	for i := 0; i <= n; i++ {
		prog.Objective[purchase(i)] = prices[i]
	}

	// Flow: level_{i+1} = level_i + purchase_i - legs_i/efficiency.
	for i := 0; i < n; i++ {
		r := row()
		r[level(i+1)] = 1
		r[purchase(i)] = -1
		rhs := -legs[i] / p.FuelEfficiency
		if i == 0 {
			rhs += p.InitialFuel
		} else {
			r[level(i)] = -1
		}
		prog.EqualityA = append(prog.EqualityA, r)
		prog.EqualityB = append(prog.EqualityB, rhs)
	}

	// The tank is left full at the last stop.
	top := row()
	top[purchase(n)] = 1
	top[level(n)] = 1
	prog.EqualityA = append(prog.EqualityA, top)
	prog.EqualityB = append(prog.EqualityB, p.TankCapacity)

	le := func(r []float64, h float64) {
		prog.InequalityG = append(prog.InequalityG, r)
		prog.InequalityH = append(prog.InequalityH, h)
	}

	first := row()
	first[purchase(0)] = 1
	le(first, p.TankCapacity-p.InitialFuel)

	for i := 1; i < n; i++ {
		reserve := row()
		reserve[level(i)] = -1
		le(reserve, -p.AutonomyMargin/p.FuelEfficiency)

		arrival := row()
		arrival[level(i)] = 1
		le(arrival, p.TankCapacity)

		bought := row()
		bought[purchase(i)] = 1
		le(bought, p.TankCapacity)

		departure := row()
		departure[level(i)] = 1
		departure[purchase(i)] = 1
		le(departure, p.TankCapacity)

		if p.MinimumPurchase > 0 {
			spend := row()
			spend[purchase(i)] = -prices[i]
			le(spend, -p.MinimumPurchase)
		}
	}

	return prog
}

// Solve plans purchases over stationIDs. It reports false when no plan
// satisfies every constraint, including when some leg exceeds the range of
// a full tank.
func (f *FuelingLP) Solve(p domain.ProblemParameters, stationIDs []int, prices, legs []float64) (*domain.Route, bool, error) {
	if len(prices) != len(stationIDs) || len(legs) != len(stationIDs)-1 {
		return nil, false, fmt.Errorf("fueling lp: %d stations, %d prices, %d legs", len(stationIDs), len(prices), len(legs))
	}

	for _, d := range legs {
		if d > p.Range() {
			return nil, false, nil
		}
	}

	n := len(legs)
	if n == 0 {
		// A single stop only tops the tank off.
		purchase := p.TankCapacity - p.InitialFuel
		return domain.NewRoute(purchase*prices[0], stationIDs, []float64{purchase}, []float64{p.InitialFuel}), true, nil
	}

	feasible, x, err := f.Solver.Minimize(BuildFuelingProgram(p, prices, legs), f.Tolerance)
	if err != nil {
		return nil, false, fmt.Errorf("fueling lp: %w", err)
	}
	if !feasible {
		return nil, false, nil
	}

	purchases := make([]float64, n+1)
	levels := make([]float64, n+1)
	levels[0] = p.InitialFuel
	total := 0.0
	for i := 0; i <= n; i++ {
		purchases[i] = clampZero(x[i])
		if i > 0 {
			levels[i] = clampZero(x[n+i])
		}
		total += prices[i] * purchases[i]
	}

	return domain.NewRoute(total, stationIDs, purchases, levels), true, nil
}

// clampZero removes round-off below zero left by the solver.
func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
