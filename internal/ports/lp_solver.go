package ports

// LinearProgram is
//
//	minimize   Objective·x
//	subject to EqualityA x = EqualityB
//	           InequalityG x <= InequalityH
//	           x >= 0
type LinearProgram struct {
	Objective   []float64
	EqualityA   [][]float64
	EqualityB   []float64
	InequalityG [][]float64
	InequalityH []float64
}

// Contract for a linear program solver.
type LinearProgramSolver interface {
	// Minimize reports feasible=false with a nil error for an infeasible
	// program. A non-nil error means the solver itself failed.
	Minimize(prog LinearProgram, tol float64) (feasible bool, x []float64, err error)
}
