package handler

import (
	"net/http"

	"github.com/dkowalski/truck-logbook/internal/domain"
)

type locationListResponse struct {
	Locations []domain.Location `json:"locations"`
}

// handleSearchLocations backs the type-ahead picker: ?q= filters by name or
// address, empty q lists the first page of everything.
func (s *Server) handleSearchLocations(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	locations, err := s.locations.Search(r.Context(), tenant, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, locationListResponse{Locations: locations})
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}

	var in domain.Location
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.locations.Create(r.Context(), tenant, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "locationID")
	if err != nil {
		writeBadRequest(w, "malformed location id")
		return
	}

	loc, err := s.locations.GetByID(r.Context(), tenant, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "locationID")
	if err != nil {
		writeBadRequest(w, "malformed location id")
		return
	}

	var in domain.Location
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	in.ID = id

	updated, err := s.locations.Update(r.Context(), tenant, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	id, err := pathUUID(r, "locationID")
	if err != nil {
		writeBadRequest(w, "malformed location id")
		return
	}

	if err := s.locations.Delete(r.Context(), tenant, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
