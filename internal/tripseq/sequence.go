// Package tripseq implements the ordered stop list for one open trip.
//
// The sequence owns the in-memory list and enforces its structural
// invariants: order values are always the contiguous permutation {0..n-1},
// an empty-start stop (when present) is always first, an empty-reposition
// stop (when present) is always last, and the list never shrinks below two
// stops. Persistence is someone else's problem; see package syncer.
package tripseq

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
)

// Direction is the axis for Move: Up swaps toward order 0, Down away from it.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// ParseDirection maps the wire strings "up"/"down" onto a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", domain.ErrValidation, s)
}

// Sequence is the mutable, invariant-respecting stop list for one trip.
// It is not safe for concurrent use; exactly one editing session owns it.
type Sequence struct {
	stops []domain.Stop
}

// New builds a Sequence from the stops loaded for a trip. The input is
// sorted by Order and then validated: orders must form a contiguous
// zero-based permutation, and at most one stop of each boundary type may be
// present, pinned to its end of the list.
func New(stops []domain.Stop) (*Sequence, error) {
	s := make([]domain.Stop, len(stops))
	copy(s, stops)
	sort.Slice(s, func(i, j int) bool { return s[i].Order < s[j].Order })

	for i, st := range s {
		if st.Order != i {
			return nil, fmt.Errorf("%w: stop orders are not contiguous at position %d", domain.ErrValidation, i)
		}
	}
	if err := checkBoundaries(s); err != nil {
		return nil, err
	}
	return &Sequence{stops: s}, nil
}

// checkBoundaries enforces the single-occurrence and pinned-position rules
// for the two boundary stop types.
func checkBoundaries(stops []domain.Stop) error {
	for i, st := range stops {
		switch st.Type {
		case domain.StopEmptyStart:
			if i != 0 {
				return fmt.Errorf("%w: empty-start stop must be first", domain.ErrValidation)
			}
		case domain.StopEmptyReposition:
			if i != len(stops)-1 {
				return fmt.Errorf("%w: empty-reposition stop must be last", domain.ErrValidation)
			}
		}
	}
	return nil
}

// Len returns the number of stops.
func (s *Sequence) Len() int { return len(s.stops) }

// Stops returns a copy of the current list in order. Mutating the returned
// slice does not affect the sequence.
func (s *Sequence) Stops() []domain.Stop {
	out := make([]domain.Stop, len(s.stops))
	copy(out, s.stops)
	return out
}

// Get returns the stop with the given id.
func (s *Sequence) Get(id uuid.UUID) (domain.Stop, bool) {
	for _, st := range s.stops {
		if st.ID == id {
			return st, true
		}
	}
	return domain.Stop{}, false
}

// Snapshot captures the full list for later Restore. Pointer-typed fields
// are cloned so a later in-place mutation cannot leak into the snapshot.
func (s *Sequence) Snapshot() []domain.Stop {
	snap := make([]domain.Stop, len(s.stops))
	for i, st := range s.stops {
		snap[i] = cloneStop(st)
	}
	return snap
}

// Restore replaces the entire list with a previously captured snapshot.
// Used by the synchronizer to roll back an optimistic update in full.
func (s *Sequence) Restore(snap []domain.Stop) {
	s.stops = make([]domain.Stop, len(snap))
	for i, st := range snap {
		s.stops[i] = cloneStop(st)
	}
}

// InsertAfter inserts stop immediately after position afterOrder and
// renumbers everything behind it. The new stop's type defaults to
// intermediate and it receives a placeholder UUID if none is set (replaced
// by the store-assigned row on first save).
//
// Returns ok=false without modifying the list when the insertion would land
// before a pinned empty-start or after a pinned empty-reposition, or when
// afterOrder is out of range. The UI disables those insert points, so a
// blocked insert is deliberately silent, but the model must hold the
// invariant regardless of what the caller does.
func (s *Sequence) InsertAfter(afterOrder int, stop domain.Stop) (domain.Stop, bool) {
	pos := afterOrder + 1
	if pos < 0 || pos > len(s.stops) {
		return domain.Stop{}, false
	}
	if pos == 0 && len(s.stops) > 0 && s.stops[0].Type == domain.StopEmptyStart {
		return domain.Stop{}, false
	}
	if pos == len(s.stops) && len(s.stops) > 0 && s.stops[len(s.stops)-1].Type == domain.StopEmptyReposition {
		return domain.Stop{}, false
	}
	if stop.Type.Boundary() {
		// A second boundary stop can never be placed legally.
		return domain.Stop{}, false
	}

	if stop.Type == "" {
		stop.Type = domain.StopIntermediate
	}
	if stop.ID == (uuid.UUID{}) {
		stop.ID = uuid.New()
	}
	if stop.Status == "" {
		stop.Status = domain.StopPending
	}
	stop.Order = pos

	s.stops = append(s.stops, domain.Stop{})
	copy(s.stops[pos+1:], s.stops[pos:])
	s.stops[pos] = stop
	s.renumber(pos + 1)

	return stop, true
}

// Remove deletes the stop with the given id and renumbers everything behind
// it. Unlike blocked moves this failure is caller-visible: deleting below
// the two-stop floor returns domain.ErrMinStops and leaves the list intact.
func (s *Sequence) Remove(id uuid.UUID) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("tripseq: remove: %w", domain.ErrNotFound)
	}
	if len(s.stops) <= 2 {
		return domain.ErrMinStops
	}

	s.stops = append(s.stops[:idx], s.stops[idx+1:]...)
	s.renumber(idx)
	return nil
}

// Move swaps the stop at index with its neighbor in the given direction and
// reports whether anything changed. It is a silent no-op when:
//
//   - index or the target index is out of bounds,
//   - the stop being moved is a boundary stop, or
//   - the neighbor being displaced is the pinned empty-start (moving up) or
//     empty-reposition (moving down).
//
// The same rule applies no matter which surface calls it; move buttons are
// expected to be disabled at the boundary, so the no-op is never visible.
func (s *Sequence) Move(index int, dir Direction) bool {
	if dir != Up && dir != Down {
		return false
	}
	target := index + int(dir)
	if index < 0 || index >= len(s.stops) || target < 0 || target >= len(s.stops) {
		return false
	}
	if s.stops[index].Type.Boundary() {
		return false
	}
	neighbor := s.stops[target].Type
	if dir == Up && neighbor == domain.StopEmptyStart {
		return false
	}
	if dir == Down && neighbor == domain.StopEmptyReposition {
		return false
	}

	s.stops[index], s.stops[target] = s.stops[target], s.stops[index]
	s.stops[index].Order = index
	s.stops[target].Order = target
	return true
}

// Update applies mutate to the stop with the given id. Identity and position
// (ID, TripID, Order) are restored afterwards so a field edit can never
// corrupt the permutation. Status transitions must go through SetStatus.
func (s *Sequence) Update(id uuid.UUID, mutate func(*domain.Stop)) (domain.Stop, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Stop{}, fmt.Errorf("tripseq: update: %w", domain.ErrNotFound)
	}

	st := s.stops[idx]
	mutate(&st)
	st.ID, st.TripID, st.Order, st.Status, st.CompletedAt =
		s.stops[idx].ID, s.stops[idx].TripID, s.stops[idx].Order, s.stops[idx].Status, s.stops[idx].CompletedAt

	s.stops[idx] = st
	return st, nil
}

// SetStatus transitions a stop between pending and complete. Completing a
// stop stamps CompletedAt with now unless a timestamp is already present;
// reverting to pending clears it. The "current" stop designation is derived
// (CurrentIndex), so no other bookkeeping happens here.
func (s *Sequence) SetStatus(id uuid.UUID, status domain.StopStatus, now time.Time) (domain.Stop, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Stop{}, fmt.Errorf("tripseq: set status: %w", domain.ErrNotFound)
	}

	st := &s.stops[idx]
	st.Status = status
	switch status {
	case domain.StopComplete:
		if st.CompletedAt == nil {
			at := now
			st.CompletedAt = &at
		}
	case domain.StopPending:
		st.CompletedAt = nil
	}
	return *st, nil
}

// CurrentIndex returns the position of the first pending stop, or Len() when
// every stop is complete. Display emphasis only; nothing is gated on it.
func (s *Sequence) CurrentIndex() int {
	for i, st := range s.stops {
		if st.Status != domain.StopComplete {
			return i
		}
	}
	return len(s.stops)
}

func (s *Sequence) indexOf(id uuid.UUID) int {
	for i, st := range s.stops {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func (s *Sequence) renumber(from int) {
	for i := from; i < len(s.stops); i++ {
		s.stops[i].Order = i
	}
}

func cloneStop(st domain.Stop) domain.Stop {
	st.LocationID = clonePtr(st.LocationID)
	st.Odometer = clonePtr(st.Odometer)
	st.MilesToNext = clonePtr(st.MilesToNext)
	st.CompletedAt = clonePtr(st.CompletedAt)
	st.ExpectedDate = clonePtr(st.ExpectedDate)
	st.ExpectedTime = clonePtr(st.ExpectedTime)
	return st
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
