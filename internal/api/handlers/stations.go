package handlers

import (
	"context"
	"fmt"
	"fuel-stop-planner/internal/api/dto"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/geo"
	"fuel-stop-planner/internal/platform/obs"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
)

// StationFinder is the read side of the station store.
type StationFinder interface {
	StationsByIDs(ctx context.Context, ids []int) (map[int]domain.Station, error)
	FindStations(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error)
}

// StationHandler exposes read-only station lookups.
type StationHandler struct {
	Stations StationFinder
}

// List returns stations inside an optional bounding box and price band.
// The box needs all four of min_lat, max_lat, min_lon and max_lon.
func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseStationFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	stations, err := h.Stations.FindStations(r.Context(), filter)
	if err != nil {
		log.Printf("req_id=%s find stations failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStationsResponse{
		Stations: make([]dto.StationResponse, 0, len(stations)),
	}
	for _, s := range stations {
		res.Stations = append(res.Stations, stationResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *StationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "station id must be an integer")
		return
	}

	found, err := h.Stations.StationsByIDs(r.Context(), []int{id})
	if err != nil {
		log.Printf("req_id=%s load station failed: station_id=%d err=%v", obs.RequestID(r.Context()), id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	s, ok := found[id]
	if !ok {
		writeError(w, r, http.StatusNotFound, "station not found")
		return
	}

	writeJSON(w, r, http.StatusOK, stationResponse(s))
}

func stationResponse(s domain.Station) dto.StationResponse {
	res := dto.StationResponse{
		StationID:   s.ID,
		Address:     s.Address,
		Price:       s.Price,
		Coordinates: toDTOCoords(s.Coords),
	}
	if !s.LastUpdate.IsZero() {
		t := s.LastUpdate
		res.LastUpdate = &t
	}
	return res
}

func parseStationFilter(q url.Values) (domain.StationFilter, error) {
	var filter domain.StationFilter

	keys := []string{"min_lat", "max_lat", "min_lon", "max_lon"}
	vals := make([]float64, len(keys))
	given := 0
	for i, k := range keys {
		v, ok, err := queryFloat(q, k)
		if err != nil {
			return filter, err
		}
		if ok {
			vals[i] = v
			given++
		}
	}
	switch given {
	case 0:
	case len(keys):
		box := geo.BoundingBox{MinLat: vals[0], MaxLat: vals[1], MinLon: vals[2], MaxLon: vals[3]}
		if box.MinLat > box.MaxLat || box.MinLon > box.MaxLon {
			return filter, fmt.Errorf("bounding box minimum exceeds maximum")
		}
		filter.Box = &box
	default:
		return filter, fmt.Errorf("min_lat, max_lat, min_lon and max_lon must be given together")
	}

	minPrice, hasMin, err := queryFloat(q, "min_price")
	if err != nil {
		return filter, err
	}
	maxPrice, hasMax, err := queryFloat(q, "max_price")
	if err != nil {
		return filter, err
	}
	if hasMin || hasMax {
		if !hasMax {
			maxPrice = math.MaxFloat64
		}
		if minPrice > maxPrice {
			return filter, fmt.Errorf("min_price exceeds max_price")
		}
		filter.Price = &domain.PriceRange{Min: minPrice, Max: maxPrice}
	}
	return filter, nil
}

func queryFloat(q url.Values, key string) (float64, bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
	return v, true, nil
}
