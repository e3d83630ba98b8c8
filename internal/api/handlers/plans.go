package handlers

import (
	"context"
	"encoding/json"
	"fuel-stop-planner/internal/api/dto"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/geo"
	"fuel-stop-planner/internal/services"
	"io"
	"net/http"
)

const maxPlanBodyBytes = 1 << 20

// TripPlanner is satisfied by *services.TripPlanner.
type TripPlanner interface {
	Plan(ctx context.Context, req services.PlanTripRequest) (*services.TripPlan, error)
}

type PlanHandler struct {
	Planner TripPlanner
}

// Plan decodes trip parameters, runs the planner and renders the chosen
// stops together with the candidates, the routed path and a map view.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPlanBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.WaypointIDs) == 0 && (req.Departure == nil || req.Arrival == nil) {
		writeError(w, r, http.StatusBadRequest, "departure and arrival are required unless waypoint_ids is set")
		return
	}

	svcReq := services.PlanTripRequest{
		Problem: domain.ProblemParameters{
			Departure:       toDomainCoords(req.Departure),
			Arrival:         toDomainCoords(req.Arrival),
			FuelEfficiency:  req.FuelEfficiency,
			TankCapacity:    req.TankCapacity,
			MinimumPurchase: req.MinimumPurchase,
			AutonomyMargin:  req.AutonomyMargin,
			InitialFuel:     req.InitialFuel,
			SegmentLength:   req.SegmentLength,
			SearchDistance:  req.SearchDistance,
		},
		WaypointIDs: req.WaypointIDs,
	}

	plan, err := h.Planner.Plan(r.Context(), svcReq)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, planResponse(plan))
}

func toDomainCoords(c *dto.Coordinates) domain.Coordinates {
	if c == nil {
		return domain.Coordinates{}
	}
	return domain.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func toDTOCoords(c domain.Coordinates) dto.Coordinates {
	return dto.Coordinates{Lat: c.Lat, Lon: c.Lon}
}

func planResponse(plan *services.TripPlan) dto.PlanResponse {
	stations := make(map[int]domain.Station, len(plan.Candidates))
	for _, c := range plan.Candidates {
		stations[c.Station.ID] = c.Station
	}
	isStop := make(map[int]bool, len(plan.Route.Stops))

	res := dto.PlanResponse{
		TotalCost:    plan.Route.TotalCost,
		BaselineCost: plan.BaselineCost,
		Savings:      plan.Savings,
		Stops:        make([]dto.PlanStopResponse, 0, len(plan.Route.Stops)),
		Candidates:   make([]dto.CandidateResponse, 0, len(plan.Candidates)),
	}
	for _, s := range plan.Route.Stops {
		isStop[s.StationID] = true
		st := stations[s.StationID]
		res.Stops = append(res.Stops, dto.PlanStopResponse{
			StationID:            s.StationID,
			Address:              st.Address,
			Price:                st.Price,
			Coordinates:          toDTOCoords(st.Coords),
			FuelPurchased:        s.FuelPurchased,
			TankLevelOnArrival:   s.TankLevelOnArrival,
			TankLevelOnDeparture: s.TankLevelOnDeparture,
		})
	}
	for _, c := range plan.Candidates {
		res.Candidates = append(res.Candidates, dto.CandidateResponse{
			StationID:   c.Station.ID,
			Address:     c.Station.Address,
			Price:       c.Station.Price,
			Coordinates: toDTOCoords(c.Station.Coords),
			PathIndex:   c.ClosestPathIndex,
			PositionKm:  c.ArclengthPosition,
			IsStop:      isStop[c.Station.ID],
		})
	}

	if plan.Path != nil {
		res.DistanceKm = plan.Path.Length()
		// [lat, lon] pairs, the order web map polylines take.
		res.Path = make([][]float64, len(plan.Path.Points))
		for i, p := range plan.Path.Points {
			res.Path[i] = []float64{p.Lat, p.Lon}
		}
		bounds := plan.Path.Bounds()
		lat, lon := bounds.Center()
		res.View = dto.MapView{
			Center: dto.Coordinates{Lat: lat, Lon: lon},
			Zoom:   geo.ZoomLevel(bounds),
		}
	}
	return res
}
