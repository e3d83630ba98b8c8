package services

import (
	"context"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/metrics"
	"fuel-stop-planner/internal/platform/obs"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// HardMaxCandidates bounds the enumeration to 2^22 subsets.
const HardMaxCandidates = 24

type SearchConfig struct {
	MaxCandidates int // largest candidate list accepted
	Workers       int // concurrent LP solves
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{MaxCandidates: 16, Workers: runtime.NumCPU()}
}

// Search enumerates every stop subset that keeps the first and last
// candidate and returns the cheapest feasible fueling plan.
type Search struct {
	LP     *FuelingLP
	Config SearchConfig
}

// SearchInput is the candidate list with its prices and distance matrix,
// all indexed by candidate position.
type SearchInput struct {
	Problem    domain.ProblemParameters
	StationIDs []int
	Prices     []float64
	Distances  [][]float64
}

type subsetResult struct {
	route *domain.Route
	mask  uint64
}

// better orders results by cost, then by enumeration order.
func (r subsetResult) better(o subsetResult) bool {
	if o.route == nil {
		return r.route != nil
	}
	if r.route == nil {
		return false
	}
	if r.route.TotalCost != o.route.TotalCost {
		return r.route.TotalCost < o.route.TotalCost
	}
	return r.mask < o.mask
}

func (s *Search) maxCandidates() int {
	m := s.Config.MaxCandidates
	if m <= 0 || m > HardMaxCandidates {
		m = HardMaxCandidates
	}
	return m
}

// CheckSize rejects candidate lists too long to enumerate.
func (s *Search) CheckSize(m int) error {
	if limit := s.maxCandidates(); m > limit {
		return domain.InvalidParameters("search routes",
			"%d candidate stations exceed the limit of %d; increase segment_length", m, limit)
	}
	return nil
}

// Sequence returns the candidate positions visited for a subset mask:
// the first candidate, every interior candidate k whose bit k-1 is set, and
// the last candidate.
func Sequence(mask uint64, m int) []int {
	seq := make([]int, 0, m)
	seq = append(seq, 0)
	for k := 1; k < m-1; k++ {
		if mask&(1<<uint(k-1)) != 0 {
			seq = append(seq, k)
		}
	}
	if m > 1 {
		seq = append(seq, m-1)
	}
	return seq
}

func (s *Search) solveSubset(in SearchInput, mask uint64) (*domain.Route, error) {
	seq := Sequence(mask, len(in.StationIDs))
	ids := make([]int, len(seq))
	prices := make([]float64, len(seq))
	legs := make([]float64, 0, len(seq)-1)
	for i, c := range seq {
		ids[i] = in.StationIDs[c]
		prices[i] = in.Prices[c]
		if i > 0 {
			legs = append(legs, in.Distances[seq[i-1]][c])
		}
	}

	route, ok, err := s.LP.Solve(in.Problem, ids, prices, legs)
	switch {
	case err != nil:
		metrics.LPSolvesTotal.WithLabelValues("error").Inc()
		return nil, err
	case !ok:
		metrics.LPSolvesTotal.WithLabelValues("infeasible").Inc()
		return nil, nil
	default:
		metrics.LPSolvesTotal.WithLabelValues("feasible").Inc()
		return route, nil
	}
}

// Best returns the cheapest feasible route. Ties go to the subset enumerated
// first, so the answer does not depend on the number of workers.
func (s *Search) Best(ctx context.Context, in SearchInput) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "search.best")(&err)

	const op = "search routes"
	m := len(in.StationIDs)
	if m == 0 {
		return nil, domain.NoCandidates(op, "candidate list is empty")
	}
	if len(in.Prices) != m || len(in.Distances) != m {
		return nil, fmt.Errorf("%s: %d stations, %d prices, %d distance rows", op, m, len(in.Prices), len(in.Distances))
	}
	if err := s.CheckSize(m); err != nil {
		return nil, err
	}

	total := uint64(1)
	if m > 2 {
		total <<= uint(m - 2)
	}

	workers := s.Config.Workers
	if workers <= 0 {
		workers = 1
	}
	chunks := uint64(workers * 4)
	if chunks > total {
		chunks = total
	}
	chunkSize := (total + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	results := make([]subsetResult, chunks)

	for c := uint64(0); c < chunks; c++ {
		lo := c * chunkSize
		hi := min(lo+chunkSize, total)
		g.Go(func() error {
			local := subsetResult{}
			for mask := lo; mask < hi; mask++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				route, err := s.solveSubset(in, mask)
				if err != nil {
					log.Printf("req_id=%s op=search.subset mask=%d err=%v", obs.RequestID(ctx), mask, err)
					continue
				}
				if cand := (subsetResult{route: route, mask: mask}); cand.better(local) {
					local = cand
				}
			}
			results[c] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.Cancelled(op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	best := subsetResult{}
	for _, r := range results {
		if r.better(best) {
			best = r
		}
	}
	if best.route == nil {
		return nil, domain.Infeasible(op, "no stop sequence over %d candidates satisfies the fuel constraints", m)
	}
	return best.route, nil
}
