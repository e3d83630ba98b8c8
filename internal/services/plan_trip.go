package services

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/metrics"
	"fuel-stop-planner/internal/platform/obs"
	"fuel-stop-planner/internal/ports"
	"time"
)

type PlanTripRequest struct {
	Problem domain.ProblemParameters
	// WaypointIDs optionally routes the trip through stored stations. When
	// set, the first and last station replace Departure and Arrival.
	WaypointIDs []int
}

type TripPlan struct {
	Route        *domain.Route
	BaselineCost float64
	Savings      float64
	Path         *domain.Path
	Candidates   []domain.Candidate
}

// TripPlanner runs the whole pipeline: route the path, select candidates,
// resolve their distances, then search stop subsets.
type TripPlanner struct {
	Stations ports.StationRepository
	Router   ports.RouteProvider
	Selector *CandidateSelector
	Resolver *DistanceResolver
	Search   *Search
	Timeout  time.Duration
}

func (p *TripPlanner) Plan(ctx context.Context, req PlanTripRequest) (plan *TripPlan, err error) {
	defer obs.Time(ctx, "plan.trip")(&err)

	start := time.Now()
	defer func() {
		metrics.PlanDuration.Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = domain.KindOf(err).String()
		}
		metrics.PlansTotal.WithLabelValues(outcome).Inc()
	}()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	problem := req.Problem
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	waypoints := []domain.Coordinates{problem.Departure, problem.Arrival}
	if len(req.WaypointIDs) > 0 {
		waypoints, err = p.waypointCoords(ctx, req.WaypointIDs)
		if err != nil {
			return nil, err
		}
		problem.Departure = waypoints[0]
		problem.Arrival = waypoints[len(waypoints)-1]
	}

	points, err := p.Router.Path(ctx, waypoints)
	if err != nil {
		return nil, domain.ProviderFailure("plan trip", fmt.Errorf("route path: %w", err))
	}
	path, err := domain.NewPath(points)
	if err != nil {
		return nil, domain.ProviderFailure("plan trip", fmt.Errorf("route path: %w", err))
	}

	candidates, err := p.Selector.Select(ctx, path, problem)
	if err != nil {
		return nil, err
	}
	metrics.CandidatesSelected.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return nil, domain.NoCandidates("plan trip", "no stations within %g km of the path", problem.SearchDistance)
	}
	if err := p.Search.CheckSize(len(candidates)); err != nil {
		return nil, err
	}

	ids := make([]int, len(candidates))
	prices := make([]float64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Station.ID
		prices[i] = c.Station.Price
	}

	distances, err := p.Resolver.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	route, err := p.Search.Best(ctx, SearchInput{
		Problem:    problem,
		StationIDs: ids,
		Prices:     prices,
		Distances:  distances,
	})
	if err != nil {
		return nil, err
	}

	baseline := NaiveCost(problem, prices, distances)
	return &TripPlan{
		Route:        route,
		BaselineCost: baseline,
		Savings:      baseline - route.TotalCost,
		Path:         path,
		Candidates:   candidates,
	}, nil
}

func (p *TripPlanner) waypointCoords(ctx context.Context, ids []int) ([]domain.Coordinates, error) {
	if len(ids) < 2 {
		return nil, domain.InvalidParameters("plan trip", "waypoint_ids needs at least two stations, got %d", len(ids))
	}
	stations, err := p.Stations.StationsByIDs(ctx, ids)
	if err != nil {
		return nil, domain.StorageFailure("plan trip", fmt.Errorf("load waypoint stations: %w", err))
	}
	coords := make([]domain.Coordinates, len(ids))
	for i, id := range ids {
		s, ok := stations[id]
		if !ok {
			return nil, domain.InvalidParameters("plan trip", "waypoint station_id=%d not found", id)
		}
		coords[i] = s.Coords
	}
	return coords, nil
}
