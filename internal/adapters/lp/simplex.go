// Package lp adapts gonum's simplex solver to the LinearProgramSolver port.
package lp

import (
	"errors"
	"fmt"
	"fuel-stop-planner/internal/ports"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Simplex solves programs by adding one slack column per inequality and
// handing the resulting standard form to lp.Simplex.
type Simplex struct{}

func (Simplex) Minimize(prog ports.LinearProgram, tol float64) (bool, []float64, error) {
	nVar := len(prog.Objective)
	nEq := len(prog.EqualityA)
	nIneq := len(prog.InequalityG)
	if nVar == 0 {
		return false, nil, errors.New("linear program has no variables")
	}
	if len(prog.EqualityB) != nEq || len(prog.InequalityH) != nIneq {
		return false, nil, fmt.Errorf("linear program has %d equality rows and %d right-hand sides, %d inequality rows and %d bounds",
			nEq, len(prog.EqualityB), nIneq, len(prog.InequalityH))
	}
	if nEq+nIneq == 0 {
		// Only x >= 0 remains: feasible, and bounded iff no cost is negative.
		for _, c := range prog.Objective {
			if c < 0 {
				return false, nil, lp.ErrUnbounded
			}
		}
		return true, make([]float64, nVar), nil
	}

	rows, cols := nEq+nIneq, nVar+nIneq
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	for i, r := range prog.EqualityA {
		if len(r) != nVar {
			return false, nil, fmt.Errorf("equality row %d has %d coefficients, want %d", i, len(r), nVar)
		}
		for j, v := range r {
			A.Set(i, j, v)
		}
		b[i] = prog.EqualityB[i]
	}
	for k, r := range prog.InequalityG {
		if len(r) != nVar {
			return false, nil, fmt.Errorf("inequality row %d has %d coefficients, want %d", k, len(r), nVar)
		}
		i := nEq + k
		for j, v := range r {
			A.Set(i, j, v)
		}
		A.Set(i, nVar+k, 1)
		b[i] = prog.InequalityH[k]
	}

	c := make([]float64, cols)
	copy(c, prog.Objective)

	_, x, err := lp.Simplex(c, A, b, tol, nil)
	switch {
	case err == nil:
		return true, x[:nVar], nil
	case errors.Is(err, lp.ErrInfeasible):
		return false, nil, nil
	default:
		return false, nil, fmt.Errorf("simplex: %w", err)
	}
}
