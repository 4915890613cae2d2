package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkowalski/truck-logbook/internal/domain"
	"github.com/dkowalski/truck-logbook/internal/repo"
	"github.com/dkowalski/truck-logbook/internal/service"
	"github.com/dkowalski/truck-logbook/internal/tripseq"
)

// fakeStopStore is a stateful in-memory StopRepo. The stop service reloads
// the list on every call, so these tests need writes to actually stick.
type fakeStopStore struct {
	stops []domain.Stop

	createCalls  int
	replaceCalls int

	// failReplaceOrders makes the next ReplaceOrders fail without applying.
	failReplaceOrders error
}

func (f *fakeStopStore) Create(_ context.Context, _ uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	f.createCalls++
	stop.ID = uuid.New()
	f.stops = append(f.stops, stop)
	return stop, nil
}

func (f *fakeStopStore) GetByID(_ context.Context, _, tripID, stopID uuid.UUID) (domain.Stop, error) {
	for _, st := range f.stops {
		if st.ID == stopID && st.TripID == tripID {
			return st, nil
		}
	}
	return domain.Stop{}, domain.ErrNotFound
}

func (f *fakeStopStore) ListByTripID(_ context.Context, _, tripID uuid.UUID) ([]domain.Stop, error) {
	out := []domain.Stop{}
	for _, st := range f.stops {
		if st.TripID == tripID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeStopStore) Update(_ context.Context, _ uuid.UUID, stop domain.Stop) (domain.Stop, error) {
	for i, st := range f.stops {
		if st.ID == stop.ID {
			stop.Order = st.Order // position changes only via ReplaceOrders
			f.stops[i] = stop
			return stop, nil
		}
	}
	return domain.Stop{}, domain.ErrNotFound
}

func (f *fakeStopStore) Delete(_ context.Context, _, _, stopID uuid.UUID) error {
	for i, st := range f.stops {
		if st.ID == stopID {
			f.stops = append(f.stops[:i], f.stops[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStopStore) ReplaceOrders(_ context.Context, _, _ uuid.UUID, stops []domain.Stop) error {
	f.replaceCalls++
	if f.failReplaceOrders != nil {
		err := f.failReplaceOrders
		f.failReplaceOrders = nil
		return err
	}
	for _, in := range stops {
		for i := range f.stops {
			if f.stops[i].ID == in.ID {
				f.stops[i].Order = in.Order
			}
		}
	}
	return nil
}

var _ repo.StopRepo = (*fakeStopStore)(nil)

// seedTrip builds a store holding a four-stop trip:
// empty-start, pickup, delivery, empty-reposition.
func seedTrip(tripID uuid.UUID) *fakeStopStore {
	mk := func(order int, typ domain.StopType, name string) domain.Stop {
		return domain.Stop{
			ID: uuid.New(), TripID: tripID, Order: order, Type: typ,
			Name: name, Status: domain.StopPending,
		}
	}
	return &fakeStopStore{stops: []domain.Stop{
		mk(0, domain.StopEmptyStart, "Home yard"),
		mk(1, domain.StopPickup, "Shipper"),
		mk(2, domain.StopDelivery, "Receiver"),
		mk(3, domain.StopEmptyReposition, "Back to yard"),
	}}
}

func newStopService(store repo.StopRepo, locations repo.LocationRepo) *service.StopService {
	if locations == nil {
		locations = &mockLocationRepo{}
	}
	return service.NewStopService(&mockTripRepo{}, store, locations)
}

func storedOrders(t *testing.T, store *fakeStopStore) map[string]int {
	t.Helper()
	orders := map[string]int{}
	for _, st := range store.stops {
		orders[st.Name] = st.Order
	}
	return orders
}

func TestStopService_List(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	store.stops[0].Status = domain.StopComplete

	svc := newStopService(store, nil)

	list, err := svc.List(context.Background(), uuid.New(), tripID)

	require.NoError(t, err)
	require.Len(t, list.Stops, 4)
	assert.Equal(t, "Home yard", list.Stops[0].Name)
	assert.Equal(t, 1, list.CurrentIndex, "first pending stop is current")
}

func TestStopService_InsertAfter_PersistsRowAndRenumbers(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	inserted, ok, err := svc.InsertAfter(context.Background(), uuid.New(), tripID, 1,
		domain.Stop{Name: "Scale"})

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, inserted.Order)
	assert.Equal(t, domain.StopIntermediate, inserted.Type, "type defaults to intermediate")
	assert.NotEqual(t, uuid.UUID{}, inserted.ID, "id is store-assigned")

	orders := storedOrders(t, store)
	assert.Equal(t, map[string]int{
		"Home yard": 0, "Shipper": 1, "Scale": 2, "Receiver": 3, "Back to yard": 4,
	}, orders)
}

func TestStopService_InsertAfter_BlockedAtBoundaries(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	// Before the empty-start and after the empty-reposition.
	for _, afterOrder := range []int{-1, 3} {
		_, ok, err := svc.InsertAfter(context.Background(), uuid.New(), tripID, afterOrder,
			domain.Stop{Name: "Nope"})
		require.NoError(t, err)
		assert.False(t, ok, "afterOrder=%d", afterOrder)
	}
	assert.Zero(t, store.createCalls, "blocked inserts must not write")
}

func TestStopService_InsertAfter_RejectsUnknownType(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	_, _, err := svc.InsertAfter(context.Background(), uuid.New(), tripID, 1,
		domain.Stop{Name: "X", Type: "warp_gate"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, store.createCalls)
}

func TestStopService_Remove_PersistsAndRenumbers(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	shipperID := store.stops[1].ID
	svc := newStopService(store, nil)

	err := svc.Remove(context.Background(), uuid.New(), tripID, shipperID)

	require.NoError(t, err)
	orders := storedOrders(t, store)
	assert.Equal(t, map[string]int{
		"Home yard": 0, "Receiver": 1, "Back to yard": 2,
	}, orders)
}

func TestStopService_Remove_TwoStopFloor(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	store.stops = store.stops[:2] // empty-start + pickup only
	svc := newStopService(store, nil)

	err := svc.Remove(context.Background(), uuid.New(), tripID, store.stops[1].ID)

	assert.ErrorIs(t, err, domain.ErrMinStops)
	assert.Len(t, store.stops, 2, "nothing deleted")
}

func TestStopService_Move_PersistsSwap(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	list, moved, err := svc.Move(context.Background(), uuid.New(), tripID, 1, tripseq.Down)

	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "Receiver", list.Stops[1].Name)
	assert.Equal(t, "Shipper", list.Stops[2].Name)

	orders := storedOrders(t, store)
	assert.Equal(t, 2, orders["Shipper"])
	assert.Equal(t, 1, orders["Receiver"])
}

func TestStopService_Move_BlockedIsSilentNoOp(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	// Pickup moving up would displace the pinned empty-start.
	list, moved, err := svc.Move(context.Background(), uuid.New(), tripID, 1, tripseq.Up)

	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "Shipper", list.Stops[1].Name, "list unchanged")
	assert.Zero(t, store.replaceCalls, "no remote traffic for a blocked move")
}

func TestStopService_Move_RemoteFailureSurfacesError(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	store.failReplaceOrders = errors.New("connection reset")
	svc := newStopService(store, nil)

	_, _, err := svc.Move(context.Background(), uuid.New(), tripID, 1, tripseq.Down)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync reorder stops:")

	orders := storedOrders(t, store)
	assert.Equal(t, 1, orders["Shipper"], "store order unchanged after failed write")
}

func TestStopService_Update_LocationSelectionCopiesFields(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	target := store.stops[1]
	locID := uuid.New()

	locations := &mockLocationRepo{
		getByID: func(_ context.Context, _, id uuid.UUID) (domain.Location, error) {
			require.Equal(t, locID, id)
			return domain.Location{ID: id, Name: "Flying J Calgary", Address: "4949 Barlow Trail"}, nil
		},
	}
	svc := newStopService(store, locations)

	in := target
	in.LocationID = &locID
	updated, err := svc.Update(context.Background(), uuid.New(), tripID, target.ID, in)

	require.NoError(t, err)
	assert.Equal(t, "Flying J Calgary", updated.Name)
	assert.Equal(t, "4949 Barlow Trail", updated.Address)
	require.NotNil(t, updated.LocationID)
	assert.Equal(t, locID, *updated.LocationID)
}

func TestStopService_Update_ManualEditDetachesLocation(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	locID := uuid.New()
	store.stops[1].LocationID = &locID
	target := store.stops[1]
	svc := newStopService(store, nil)

	in := target
	in.Name = "Shipper (new dock)"
	updated, err := svc.Update(context.Background(), uuid.New(), tripID, target.ID, in)

	require.NoError(t, err)
	assert.Nil(t, updated.LocationID, "manual name edit clears the link")
	assert.Equal(t, "Shipper (new dock)", updated.Name, "copied text stays")
}

func TestStopService_Update_PreservesIdentityAndStatus(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	completedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.stops[1].Status = domain.StopComplete
	store.stops[1].CompletedAt = &completedAt
	target := store.stops[1]
	svc := newStopService(store, nil)

	in := target
	in.Order = 99
	in.Status = domain.StopPending
	in.CompletedAt = nil
	in.Notes = "gate code 4471"

	updated, err := svc.Update(context.Background(), uuid.New(), tripID, target.ID, in)

	require.NoError(t, err)
	assert.Equal(t, 1, updated.Order)
	assert.Equal(t, domain.StopComplete, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, completedAt, *updated.CompletedAt)
	assert.Equal(t, "gate code 4471", updated.Notes)
}

func TestStopService_Update_BoundaryTypeIsLocked(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	// Non-boundary stop cannot become a boundary type.
	in := store.stops[1]
	in.Type = domain.StopEmptyStart
	_, err := svc.Update(context.Background(), uuid.New(), tripID, store.stops[1].ID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Boundary stop keeps its type.
	in = store.stops[0]
	in.Type = domain.StopPickup
	_, err = svc.Update(context.Background(), uuid.New(), tripID, store.stops[0].ID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStopService_SetStatus_StampsAndClears(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	target := store.stops[2]
	now := time.Date(2026, 3, 14, 16, 30, 0, 0, time.UTC)

	svc := newStopService(store, nil)
	svc.SetNow(func() time.Time { return now })

	// Completing out of order is allowed; nothing gates on position.
	updated, err := svc.SetStatus(context.Background(), uuid.New(), tripID, target.ID, domain.StopComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.StopComplete, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, now, *updated.CompletedAt)

	// Reverting clears the stamp.
	updated, err = svc.SetStatus(context.Background(), uuid.New(), tripID, target.ID, domain.StopPending)
	require.NoError(t, err)
	assert.Equal(t, domain.StopPending, updated.Status)
	assert.Nil(t, updated.CompletedAt)
}

func TestStopService_SetStatus_RejectsUnknownStatus(t *testing.T) {
	tripID := uuid.New()
	store := seedTrip(tripID)
	svc := newStopService(store, nil)

	_, err := svc.SetStatus(context.Background(), uuid.New(), tripID, store.stops[1].ID, "paused")

	assert.ErrorIs(t, err, domain.ErrValidation)
}
