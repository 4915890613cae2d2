package handler

import (
	"net/http"
	"strconv"

	"github.com/dkowalski/truck-logbook/internal/domain"
)

// tripListResponse is one page of trips plus pagination metadata.
type tripListResponse struct {
	Trips []domain.Trip `json:"trips"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	p := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.List(r.Context(), tenant, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripListResponse{Trips: trips, Total: total, Page: p.Page, Limit: p.Limit})
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	var in domain.Trip
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), tenant, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), tenant, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	var in domain.Trip
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in.ID = id

	updated, err := s.trips.Update(r.Context(), tenant, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	if err := s.trips.Delete(r.Context(), tenant, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTripSummary(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	summary, err := s.trips.Summary(r.Context(), tenant, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// queryInt parses an optional integer query parameter, nil when absent or
// unparseable.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
