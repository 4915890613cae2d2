// Package syncer bridges the in-memory stop sequence to the remote store
// with an optimistic-update-then-rollback discipline.
//
// Every mutating operation follows the same contract: apply the change to
// the local sequence first (so the caller sees it immediately), then issue
// the remote write, and on remote failure restore the full pre-operation
// snapshot, never a partial rollback, and surface a uniform error.
//
// There is exactly one writer per trip in the observed usage (a single
// driver's device), so no conflict detection or per-stop version stamping is
// attempted, and a failed write is reported once, never retried.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/tripseq"
)

// StopStore is the remote side of the synchronizer. *repo.PgStopRepo
// satisfies it in production; tests supply a mock.
//
// ReplaceOrders must rewrite the order of every stop for the trip as one
// logical batch; a partial rewrite would leave a non-contiguous permutation
// in the store.
type StopStore interface {
	Create(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	Update(ctx context.Context, tenantID uuid.UUID, stop domain.Stop) (domain.Stop, error)
	Delete(ctx context.Context, tenantID, tripID, stopID uuid.UUID) error
	ReplaceOrders(ctx context.Context, tenantID, tripID uuid.UUID, stops []domain.Stop) error
}

// Syncer drives one trip's sequence against the remote store.
// Like the sequence it owns, it is bound to a single editing session and is
// not safe for concurrent use.
type Syncer struct {
	seq      *tripseq.Sequence
	store    StopStore
	tenantID uuid.UUID
	tripID   uuid.UUID
}

// New binds a sequence to the remote store for the given tenant and trip.
// The tenant is resolved once per session and passed in explicitly; the
// syncer never re-derives it.
func New(seq *tripseq.Sequence, store StopStore, tenantID, tripID uuid.UUID) *Syncer {
	return &Syncer{seq: seq, store: store, tenantID: tenantID, tripID: tripID}
}

// Stops returns the current (optimistically updated) local stop list.
func (s *Syncer) Stops() []domain.Stop { return s.seq.Stops() }

// command captures everything needed to undo one optimistic operation:
// the full pre-operation snapshot and a short description for the uniform
// error report.
type command struct {
	prior []domain.Stop
	desc  string
}

// run executes the remote step of a command. On failure the entire prior
// snapshot is restored and the error is wrapped into the single report
// format the UI shows; raw transport errors never cross this boundary
// unwrapped.
func (s *Syncer) run(cmd command, remote func() error) error {
	if err := remote(); err != nil {
		s.seq.Restore(cmd.prior)
		return fmt.Errorf("sync %s: %w", cmd.desc, err)
	}
	return nil
}

// InsertAfter optimistically inserts a stop after the given position, then
// creates the row and rewrites every stop's order in one batch. A blocked
// insert (boundary guard) returns ok=false with no remote traffic.
//
// The store-assigned row replaces the placeholder the sequence generated, so
// subsequent edits address the persisted identity.
func (s *Syncer) InsertAfter(ctx context.Context, afterOrder int, stop domain.Stop) (domain.Stop, bool, error) {
	cmd := command{prior: s.seq.Snapshot(), desc: "insert stop"}

	stop.TripID = s.tripID
	inserted, ok := s.seq.InsertAfter(afterOrder, stop)
	if !ok {
		return domain.Stop{}, false, nil
	}

	err := s.run(cmd, func() error {
		created, err := s.store.Create(ctx, s.tenantID, inserted)
		if err != nil {
			return err
		}
		if created.ID != inserted.ID {
			s.swapID(inserted.ID, created.ID)
			inserted.ID = created.ID
		}
		return s.store.ReplaceOrders(ctx, s.tenantID, s.tripID, s.seq.Stops())
	})
	if err != nil {
		return domain.Stop{}, false, err
	}
	got, _ := s.seq.Get(inserted.ID)
	return got, true, nil
}

// Remove optimistically deletes a stop, then deletes the row and rewrites
// the remaining orders as one batch. Structural failures (unknown id,
// two-stop floor) surface before any remote call.
func (s *Syncer) Remove(ctx context.Context, stopID uuid.UUID) error {
	cmd := command{prior: s.seq.Snapshot(), desc: "delete stop"}

	if err := s.seq.Remove(stopID); err != nil {
		return err
	}

	return s.run(cmd, func() error {
		if err := s.store.Delete(ctx, s.tenantID, s.tripID, stopID); err != nil {
			return err
		}
		return s.store.ReplaceOrders(ctx, s.tenantID, s.tripID, s.seq.Stops())
	})
}

// Move optimistically swaps a stop with its neighbor, then rewrites every
// order in one batch. Blocked moves are silent no-ops with no remote traffic.
func (s *Syncer) Move(ctx context.Context, index int, dir tripseq.Direction) (bool, error) {
	cmd := command{prior: s.seq.Snapshot(), desc: "reorder stops"}

	if !s.seq.Move(index, dir) {
		return false, nil
	}

	err := s.run(cmd, func() error {
		return s.store.ReplaceOrders(ctx, s.tenantID, s.tripID, s.seq.Stops())
	})
	return err == nil, err
}

// Update optimistically applies a field mutation, then writes the row.
func (s *Syncer) Update(ctx context.Context, stopID uuid.UUID, mutate func(*domain.Stop)) (domain.Stop, error) {
	cmd := command{prior: s.seq.Snapshot(), desc: "update stop"}

	updated, err := s.seq.Update(stopID, mutate)
	if err != nil {
		return domain.Stop{}, err
	}

	err = s.run(cmd, func() error {
		_, err := s.store.Update(ctx, s.tenantID, updated)
		return err
	})
	if err != nil {
		return domain.Stop{}, err
	}
	return updated, nil
}

// SetStatus optimistically transitions a stop's completion status, then
// writes the row. Completing stamps CompletedAt with now (once).
func (s *Syncer) SetStatus(ctx context.Context, stopID uuid.UUID, status domain.StopStatus, now time.Time) (domain.Stop, error) {
	cmd := command{prior: s.seq.Snapshot(), desc: "update stop status"}

	updated, err := s.seq.SetStatus(stopID, status, now)
	if err != nil {
		return domain.Stop{}, err
	}

	err = s.run(cmd, func() error {
		_, err := s.store.Update(ctx, s.tenantID, updated)
		return err
	})
	if err != nil {
		return domain.Stop{}, err
	}
	return updated, nil
}

// swapID rewrites a placeholder id with the store-assigned one in place.
func (s *Syncer) swapID(placeholder, assigned uuid.UUID) {
	stops := s.seq.Stops()
	for i := range stops {
		if stops[i].ID == placeholder {
			stops[i].ID = assigned
		}
	}
	s.seq.Restore(stops)
}
