package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/repo"
	"github.com/dkowalski/truck-logbook/internal/syncer"
	"github.com/dkowalski/truck-logbook/internal/tripseq"
)

// StopService implements business logic for the stop list of a trip.
//
// Every mutating operation loads the trip's stops, rebuilds the in-memory
// sequence, and drives the change through the synchronizer, so each request
// gets the same optimistic-apply/rollback discipline a long-lived editing
// session would.
type StopService struct {
	trips     repo.TripRepo
	stops     repo.StopRepo
	locations repo.LocationRepo

	// now is injectable so completion timestamps are deterministic in tests.
	now func() time.Time
}

// NewStopService constructs a StopService backed by the provided repos.
func NewStopService(trips repo.TripRepo, stops repo.StopRepo, locations repo.LocationRepo) *StopService {
	return &StopService{trips: trips, stops: stops, locations: locations, now: time.Now}
}

// StopList is a trip's stop list plus the derived current-stop position:
// the first pending stop, or len(stops) when every stop is complete.
type StopList struct {
	Stops        []domain.Stop `json:"stops"`
	CurrentIndex int           `json:"current_index"`
}

// List returns the trip's stops in order with the derived current index.
func (s *StopService) List(ctx context.Context, tenantID, tripID uuid.UUID) (StopList, error) {
	_, seq, err := s.load(ctx, tenantID, tripID)
	if err != nil {
		return StopList{}, fmt.Errorf("service.StopService.List: %w", err)
	}
	return StopList{Stops: seq.Stops(), CurrentIndex: seq.CurrentIndex()}, nil
}

// InsertAfter inserts a new stop immediately after the given order and
// renumbers the rest. Returns ok=false when the insertion point is blocked
// (before the empty-start, after the empty-reposition, or out of range);
// the list is untouched and nothing is written.
func (s *StopService) InsertAfter(ctx context.Context, tenantID, tripID uuid.UUID, afterOrder int, stop domain.Stop) (domain.Stop, bool, error) {
	sync, _, err := s.loadSyncer(ctx, tenantID, tripID)
	if err != nil {
		return domain.Stop{}, false, fmt.Errorf("service.StopService.InsertAfter: %w", err)
	}

	if stop.Type != "" {
		if _, err := domain.ParseStopType(string(stop.Type)); err != nil {
			return domain.Stop{}, false, err
		}
	}

	inserted, ok, err := sync.InsertAfter(ctx, afterOrder, stop)
	if err != nil {
		return domain.Stop{}, false, fmt.Errorf("service.StopService.InsertAfter: %w", err)
	}
	return inserted, ok, nil
}

// Remove deletes a stop and renumbers the remainder. Returns
// domain.ErrMinStops when the deletion would leave fewer than two stops.
func (s *StopService) Remove(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error {
	sync, _, err := s.loadSyncer(ctx, tenantID, tripID)
	if err != nil {
		return fmt.Errorf("service.StopService.Remove: %w", err)
	}
	if err := sync.Remove(ctx, stopID); err != nil {
		return fmt.Errorf("service.StopService.Remove: %w", err)
	}
	return nil
}

// Move swaps the stop at index with its neighbor in the given direction.
// Blocked moves (boundary stops, pinned neighbors, out of range) are silent
// no-ops: moved=false, no error, nothing written.
func (s *StopService) Move(ctx context.Context, tenantID, tripID uuid.UUID, index int, dir tripseq.Direction) (StopList, bool, error) {
	sync, seq, err := s.loadSyncer(ctx, tenantID, tripID)
	if err != nil {
		return StopList{}, false, fmt.Errorf("service.StopService.Move: %w", err)
	}

	moved, err := sync.Move(ctx, index, dir)
	if err != nil {
		return StopList{}, false, fmt.Errorf("service.StopService.Move: %w", err)
	}
	return StopList{Stops: seq.Stops(), CurrentIndex: seq.CurrentIndex()}, moved, nil
}

// Update overwrites a stop's editable fields. Identity, position, and
// completion state are preserved regardless of what the caller sends.
//
// The location link follows the copy-then-detach rule: selecting a saved
// location copies its name and address onto the stop, and a later manual
// edit of either field clears the link while keeping the copied text.
func (s *StopService) Update(ctx context.Context, tenantID, tripID, stopID uuid.UUID, in domain.Stop) (domain.Stop, error) {
	sync, seq, err := s.loadSyncer(ctx, tenantID, tripID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}

	current, found := seq.Get(stopID)
	if !found {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", domain.ErrNotFound)
	}
	if err := validateStopUpdate(current, in); err != nil {
		return domain.Stop{}, err
	}

	if in.LocationID != nil && (current.LocationID == nil || *in.LocationID != *current.LocationID) {
		// New location selection: copy name and address from the saved row.
		loc, err := s.locations.GetByID(ctx, tenantID, *in.LocationID)
		if err != nil {
			return domain.Stop{}, fmt.Errorf("service.StopService.Update: location: %w", err)
		}
		in.Name = loc.Name
		in.Address = loc.Address
	} else if in.LocationID != nil && (in.Name != current.Name || in.Address != current.Address) {
		// Manual edit of copied text detaches the link.
		in.LocationID = nil
	}

	updated, err := sync.Update(ctx, stopID, func(st *domain.Stop) {
		st.Type = in.Type
		st.LocationID = in.LocationID
		st.Name = in.Name
		st.Address = in.Address
		st.Odometer = in.Odometer
		st.MilesToNext = in.MilesToNext
		st.ExpectedDate = in.ExpectedDate
		st.ExpectedTime = in.ExpectedTime
		st.Notes = in.Notes
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}
	return updated, nil
}

// SetStatus transitions a stop between pending and complete. Completing
// stamps the completion time once; reverting to pending clears it. Stops may
// be completed in any order; nothing is gated on the list position.
func (s *StopService) SetStatus(ctx context.Context, tenantID, tripID, stopID uuid.UUID, status domain.StopStatus) (domain.Stop, error) {
	if _, err := domain.ParseStopStatus(string(status)); err != nil {
		return domain.Stop{}, err
	}

	sync, _, err := s.loadSyncer(ctx, tenantID, tripID)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.SetStatus: %w", err)
	}

	updated, err := sync.SetStatus(ctx, stopID, status, s.now())
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.SetStatus: %w", err)
	}
	return updated, nil
}

// load verifies the trip exists and rebuilds its sequence from the store.
func (s *StopService) load(ctx context.Context, tenantID, tripID uuid.UUID) (domain.Trip, *tripseq.Sequence, error) {
	trip, err := s.trips.GetByID(ctx, tenantID, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	stops, err := s.stops.ListByTripID(ctx, tenantID, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	seq, err := tripseq.New(stops)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	return trip, seq, nil
}

func (s *StopService) loadSyncer(ctx context.Context, tenantID, tripID uuid.UUID) (*syncer.Syncer, *tripseq.Sequence, error) {
	_, seq, err := s.load(ctx, tenantID, tripID)
	if err != nil {
		return nil, nil, err
	}
	return syncer.New(seq, s.stops, tenantID, tripID), seq, nil
}

// validateStopUpdate enforces field rules for stop edits.
//   - The type must be in the closed enumeration.
//   - A stop cannot change between boundary and non-boundary types: the two
//     pinned stops keep their type, and no other stop may assume one.
func validateStopUpdate(current, in domain.Stop) error {
	if _, err := domain.ParseStopType(string(in.Type)); err != nil {
		return err
	}
	if current.Type.Boundary() && in.Type != current.Type {
		return fmt.Errorf("%w: stop type %q cannot replace %q", domain.ErrValidation, in.Type, current.Type)
	}
	if !current.Type.Boundary() && in.Type.Boundary() {
		return fmt.Errorf("%w: stop type %q cannot replace %q", domain.ErrValidation, in.Type, current.Type)
	}
	if in.Odometer != nil && *in.Odometer < 0 {
		return fmt.Errorf("%w: odometer must not be negative", domain.ErrValidation)
	}
	if in.MilesToNext != nil && *in.MilesToNext < 0 {
		return fmt.Errorf("%w: miles_to_next must not be negative", domain.ErrValidation)
	}
	return nil
}
