package handler

import (
	"net/http"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/tripseq"
)

// insertStopRequest inserts a stop after the given order. The stop's type
// defaults to intermediate when omitted.
type insertStopRequest struct {
	AfterOrder int         `json:"after_order"`
	Stop       domain.Stop `json:"stop"`
}

// insertStopResponse reports whether the insert landed. A blocked insert
// (boundary-pinned position) is not an error: inserted=false, stop omitted.
type insertStopResponse struct {
	Inserted bool         `json:"inserted"`
	Stop     *domain.Stop `json:"stop,omitempty"`
}

// moveStopRequest moves the stop one position "up" or "down".
type moveStopRequest struct {
	Direction string `json:"direction"`
}

// moveStopResponse carries the whole renumbered list back: a move touches
// two rows, so returning just one stop would leave the client stale.
type moveStopResponse struct {
	Moved        bool          `json:"moved"`
	Stops        []domain.Stop `json:"stops"`
	CurrentIndex int           `json:"current_index"`
}

type setStopStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleListStops(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	list, err := s.stops.List(r.Context(), tenant, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleInsertStop(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}

	var in insertStopRequest
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	inserted, ok, err := s.stops.InsertAfter(r.Context(), tenant, tripID, in.AfterOrder, in.Stop)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, insertStopResponse{Inserted: false})
		return
	}
	writeJSON(w, http.StatusCreated, insertStopResponse{Inserted: true, Stop: &inserted})
}

func (s *Server) handleUpdateStop(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}
	stopID, err := pathUUID(r, "stopID")
	if err != nil {
		writeBadRequest(w, "malformed stop id")
		return
	}

	var in domain.Stop
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	updated, err := s.stops.Update(r.Context(), tenant, tripID, stopID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStop(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}
	stopID, err := pathUUID(r, "stopID")
	if err != nil {
		writeBadRequest(w, "malformed stop id")
		return
	}

	if err := s.stops.Remove(r.Context(), tenant, tripID, stopID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveStop(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}
	stopID, err := pathUUID(r, "stopID")
	if err != nil {
		writeBadRequest(w, "malformed stop id")
		return
	}

	var in moveStopRequest
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	dir, err := tripseq.ParseDirection(in.Direction)
	if err != nil {
		writeError(w, err)
		return
	}

	// The move API is positional; resolve the stop's current index first so
	// the client can address stops by id like every other route.
	list, err := s.stops.List(r.Context(), tenant, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	index := -1
	for i, st := range list.Stops {
		if st.ID == stopID {
			index = i
			break
		}
	}
	if index < 0 {
		writeError(w, domain.ErrNotFound)
		return
	}

	newList, didMove, err := s.stops.Move(r.Context(), tenant, tripID, index, dir)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveStopResponse{
		Moved:        didMove,
		Stops:        newList.Stops,
		CurrentIndex: newList.CurrentIndex,
	})
}

func (s *Server) handleSetStopStatus(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeError(w, errMissingTenant)
		return
	}
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		writeBadRequest(w, "malformed trip id")
		return
	}
	stopID, err := pathUUID(r, "stopID")
	if err != nil {
		writeBadRequest(w, "malformed stop id")
		return
	}

	var in setStopStatusRequest
	if err := decodeJSON(r, &in); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	updated, err := s.stops.SetStatus(r.Context(), tenant, tripID, stopID, domain.StopStatus(in.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
