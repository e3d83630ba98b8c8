package handlers

import (
	"encoding/json"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/obs"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writePlanError maps a planning failure to a status code. Client-side kinds
// echo the error text; upstream and internal failures stay generic.
func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	switch domain.KindOf(err) {
	case domain.KindInvalidParameters:
		writeError(w, r, http.StatusBadRequest, err.Error())
	case domain.KindNoCandidatesFound, domain.KindInfeasible:
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case domain.KindCancelled:
		writeError(w, r, http.StatusGatewayTimeout, "planning timed out")
	case domain.KindProvider:
		log.Printf("req_id=%s route provider failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusBadGateway, "route provider unavailable")
	default:
		log.Printf("req_id=%s plan failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
