package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/repository"
)

var poolArea = model.Container{Pool: true}

type builderFixture struct {
	*shipmentFixture
	sessions *MemorySessionStore
	builder  BuilderService
}

func newBuilderFixture(t *testing.T, ttl time.Duration) *builderFixture {
	t.Helper()
	f := &builderFixture{
		shipmentFixture: newShipmentFixture(t),
		sessions:        NewMemorySessionStore(1000, ttl),
	}
	t.Cleanup(f.sessions.Stop)
	f.builder = NewBuilderService(f.sessions, f.shipments, f.packages, f.env.methods, f.env.packageTypes, f.publisher)
	return f
}

func newKey(shipmentID string) model.SessionKey {
	return model.SessionKey{OrderID: testOrderID, ShipmentID: shipmentID, UserID: "user-1"}
}

func (f *builderFixture) openNew(t *testing.T) (model.SessionKey, *model.BuilderSession) {
	t.Helper()
	key := newKey(model.NewShipmentID)
	seed := f.proposal(t, testMethodID)
	session, err := f.builder.Open(context.Background(), key, &seed)
	require.NoError(t, err)
	return key, session
}

func itemIDs(items []model.ShipmentItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestBuilderService_Open_New(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, session := f.openNew(t)

	assert.Equal(t, model.NewShipmentID, session.ShipmentID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Empty(t, session.Packages)
	assert.Len(t, session.Unpackaged(), 2)
	assert.Equal(t, int64(1), session.Version)

	// Reopening returns the stored session and ignores the seed.
	again, err := f.builder.Open(ctx, key, nil)
	require.NoError(t, err)
	assert.Equal(t, session.Shipment.ID, again.Shipment.ID)
	assert.Equal(t, int64(1), again.Version)

	// Nothing is persisted before commit.
	shipments, err := f.shipments.FindByOrder(ctx, testOrderID)
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestBuilderService_Open_Errors(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	seed := f.proposal(t, testMethodID)
	foreign := seed
	foreign.OrderID = "order-2"
	existing := f.create(t, testMethodID)

	tests := []struct {
		name string
		key  model.SessionKey
		seed *model.ProposedShipment
		want error
	}{
		{name: "missing order", key: model.SessionKey{UserID: "user-1"}, seed: &seed, want: model.ErrValidation},
		{name: "missing user", key: model.SessionKey{OrderID: testOrderID}, seed: &seed, want: model.ErrValidation},
		{name: "new shipment without seed", key: newKey(""), want: model.ErrValidation},
		{name: "seed of another order", key: newKey(""), seed: &foreign, want: model.ErrInvalidArgument},
		{name: "unknown shipment", key: newKey("missing"), want: model.ErrNotFound},
		{
			name: "shipment of another order",
			key:  model.SessionKey{OrderID: "order-2", ShipmentID: existing.ID, UserID: "user-1"},
			want: model.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.builder.Open(ctx, tt.key, tt.seed)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuilderService_Open_ExistingShipment(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	existing := f.create(t, testMethodID)

	session, err := f.builder.Open(context.Background(), newKey(existing.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, session.ShipmentID)
	require.Len(t, session.Packages, 1)
	assert.Equal(t, existing.Packages[0].ID, session.Packages[0].ID)
	assert.Empty(t, session.Shipment.Packages)
	assert.Empty(t, session.Unpackaged())
}

func TestBuilderService_SessionsAreScopedPerUser(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, _ := f.openNew(t)

	_, err := f.builder.AddPackage(ctx, key, "")
	require.NoError(t, err)

	other := key
	other.UserID = "user-2"
	_, err = f.builder.Get(ctx, other)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestBuilderService_MoveItem_RoundTrip(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)
	originalPool := itemIDs(opened.Unpackaged())
	item := opened.Unpackaged()[0]

	session, err := f.builder.AddPackage(ctx, key, "")
	require.NoError(t, err)
	require.Len(t, session.Packages, 1)
	assert.Equal(t, "big", session.Packages[0].PackageTypeID())
	assert.Nil(t, session.Packages[0].Weight)

	session, err = f.builder.MoveItem(ctx, key, item.ID, poolArea, model.Container{Index: 0})
	require.NoError(t, err)
	assert.Len(t, session.Unpackaged(), 1)
	require.Len(t, session.Packages[0].Items, 1)
	require.NotNil(t, session.Packages[0].Weight)
	assert.True(t, session.Packages[0].Weight.Equal(item.Weight))
	assert.True(t, session.Packages[0].DeclaredValue.Equal(item.DeclaredValue))

	session, err = f.builder.MoveItem(ctx, key, item.ID, model.Container{Index: 0}, poolArea)
	require.NoError(t, err)
	assert.ElementsMatch(t, originalPool, itemIDs(session.Unpackaged()))
	assert.Empty(t, session.Packages[0].Items)
	assert.Nil(t, session.Packages[0].Weight)
	assert.Nil(t, session.Packages[0].DeclaredValue)
	assert.Equal(t, int64(4), session.Version)
}

func TestBuilderService_MoveItem_LegacyKey(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)
	item := opened.Unpackaged()[0]

	_, err := f.builder.AddPackage(ctx, key, "small")
	require.NoError(t, err)
	session, err := f.builder.MoveItem(ctx, key, item.Key(), poolArea, model.Container{Index: 0})
	require.NoError(t, err)
	require.Len(t, session.Packages[0].Items, 1)
	assert.Equal(t, item.ID, session.Packages[0].Items[0].ID)
	assert.Equal(t, "small", session.Packages[0].PackageTypeID())
}

func TestBuilderService_FailedEditLeavesSessionUnchanged(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)
	item := opened.Unpackaged()[0]
	_, err := f.builder.AddPackage(ctx, key, "")
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "unknown item",
			run: func() error {
				_, err := f.builder.MoveItem(ctx, key, "nope", poolArea, model.Container{Index: 0})
				return err
			},
			want: model.ErrNotFound,
		},
		{
			name: "target package out of range",
			run: func() error {
				_, err := f.builder.MoveItem(ctx, key, item.ID, poolArea, model.Container{Index: 3})
				return err
			},
			want: model.ErrNotFound,
		},
		{
			name: "item not in source package",
			run: func() error {
				_, err := f.builder.MoveItem(ctx, key, item.ID, model.Container{Index: 0}, poolArea)
				return err
			},
			want: model.ErrNotFound,
		},
		{
			name: "remove missing package",
			run: func() error {
				_, err := f.builder.RemovePackage(ctx, key, 5)
				return err
			},
			want: model.ErrNotFound,
		},
		{
			name: "unknown package type",
			run: func() error {
				_, err := f.builder.AddPackage(ctx, key, "crate")
				return err
			},
			want: model.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := f.builder.Get(ctx, key)
			require.NoError(t, err)

			assert.ErrorIs(t, tt.run(), tt.want)

			after, err := f.builder.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, before.Version, after.Version)
			assert.Equal(t, itemIDs(before.Unpackaged()), itemIDs(after.Unpackaged()))
			assert.Len(t, after.Packages, len(before.Packages))
		})
	}
}

func TestBuilderService_RemovePackageReturnsItems(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)
	item := opened.Unpackaged()[0]

	_, err := f.builder.AddPackage(ctx, key, "")
	require.NoError(t, err)
	_, err = f.builder.MoveItem(ctx, key, item.ID, poolArea, model.Container{Index: 0})
	require.NoError(t, err)

	session, err := f.builder.RemovePackage(ctx, key, 0)
	require.NoError(t, err)
	assert.Empty(t, session.Packages)
	assert.ElementsMatch(t, itemIDs(opened.Unpackaged()), itemIDs(session.Unpackaged()))
}

func TestBuilderService_MissingSession(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key := newKey("")

	_, err := f.builder.Get(ctx, key)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = f.builder.AddPackage(ctx, key, "")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = f.builder.RemovePackage(ctx, key, 0)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = f.builder.MoveItem(ctx, key, "x", poolArea, poolArea)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = f.builder.Commit(ctx, key)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.NoError(t, f.builder.Discard(ctx, key))
}

func TestBuilderService_SessionExpires(t *testing.T) {
	f := newBuilderFixture(t, 20*time.Millisecond)
	key, _ := f.openNew(t)

	time.Sleep(50 * time.Millisecond)

	_, err := f.builder.Get(context.Background(), key)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestBuilderService_UnreadableSessionIsReplaced(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key := newKey("")
	require.NoError(t, f.sessions.Set(ctx, key.Collection(), key.Name(), []byte("{not json")))

	seed := f.proposal(t, testMethodID)
	session, err := f.builder.Open(ctx, key, &seed)
	require.NoError(t, err)
	assert.Len(t, session.Unpackaged(), 2)
}

func TestBuilderService_Commit_NewShipment(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)

	_, err := f.builder.AddPackage(ctx, key, "")
	require.NoError(t, err)
	for _, item := range opened.Unpackaged() {
		_, err = f.builder.MoveItem(ctx, key, item.ID, poolArea, model.Container{Index: 0})
		require.NoError(t, err)
	}

	shipment, err := f.builder.Commit(ctx, key)
	require.NoError(t, err)
	require.Len(t, shipment.Packages, 1)
	assert.Empty(t, shipment.Data.UnpackagedItems)
	assert.Len(t, shipment.Data.PackagedItems, 2)

	stored, err := f.service.Get(ctx, shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.PackageIDs, stored.PackageIDs)
	require.Len(t, stored.Packages, 1)
	assert.Equal(t, 3, stored.Packages[0].Quantity())
	assert.True(t, stored.Packages[0].Weight.Equal(model.MustWeight("4", model.Kilogram)))

	_, err = f.builder.Get(ctx, key)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.Contains(t, f.publisher.types(), "shipment.packaged")
}

func TestBuilderService_Commit_KeepsUnplacedItemsInPool(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)

	_, err := f.builder.AddPackage(ctx, key, "")
	require.NoError(t, err)
	_, err = f.builder.MoveItem(ctx, key, opened.Unpackaged()[0].ID, poolArea, model.Container{Index: 0})
	require.NoError(t, err)

	shipment, err := f.builder.Commit(ctx, key)
	require.NoError(t, err)
	require.Len(t, shipment.Data.UnpackagedItems, 1)
	assert.Equal(t, opened.Unpackaged()[1].ID, shipment.Data.UnpackagedItems[0].ID)
	assert.Len(t, shipment.PackageIDs, 1)
}

func TestBuilderService_Commit_ExistingShipment(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	existing := f.create(t, testMethodID)
	_, err := f.service.SelectRate(ctx, existing.ID, "standard")
	require.NoError(t, err)
	key := newKey(existing.ID)

	_, err = f.builder.Open(ctx, key, nil)
	require.NoError(t, err)
	session, err := f.builder.RemovePackage(ctx, key, 0)
	require.NoError(t, err)
	require.Len(t, session.Unpackaged(), 2)
	_, err = f.builder.AddPackage(ctx, key, "small")
	require.NoError(t, err)
	_, err = f.builder.AddPackage(ctx, key, "small")
	require.NoError(t, err)
	for i, item := range session.Unpackaged() {
		_, err = f.builder.MoveItem(ctx, key, item.ID, poolArea, model.Container{Index: i})
		require.NoError(t, err)
	}

	shipment, err := f.builder.Commit(ctx, key)
	require.NoError(t, err)
	require.Len(t, shipment.PackageIDs, 2)
	assert.NotContains(t, shipment.PackageIDs, existing.PackageIDs[0])
	assert.Equal(t, 2, f.packages.Len())
	assert.False(t, shipment.Data.NeedsRepackage)

	stored, err := f.service.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.PackageIDs, stored.PackageIDs)
	for _, pkg := range stored.Packages {
		assert.Equal(t, "small", pkg.PackageTypeID())
	}
	// Re-rated for two parcels: 5 + 2*4 + 1*2.
	assert.Equal(t, "standard", stored.ShippingService)
	assert.True(t, stored.Amount.Equal(model.MustMoney("15", "USD")), "amount %s", stored.Amount)
}

func TestBuilderService_Discard_LeavesPersistedStateUnchanged(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	existing := f.create(t, testMethodID)
	before, err := f.service.Get(ctx, existing.ID)
	require.NoError(t, err)
	key := newKey(existing.ID)

	_, err = f.builder.Open(ctx, key, nil)
	require.NoError(t, err)
	_, err = f.builder.RemovePackage(ctx, key, 0)
	require.NoError(t, err)
	_, err = f.builder.AddPackage(ctx, key, "small")
	require.NoError(t, err)

	require.NoError(t, f.builder.Discard(ctx, key))
	require.NoError(t, f.builder.Discard(ctx, key))

	after, err := f.service.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PackageIDs, after.PackageIDs)
	require.Len(t, after.Packages, 1)
	assert.Equal(t, before.Packages[0].Items, after.Packages[0].Items)
	assert.Equal(t, 1, f.packages.Len())

	_, err = f.builder.Get(ctx, key)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestBuilderService_Commit_ConservationFailure(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, opened := f.openNew(t)

	// Simulate a tampered session that lost an item.
	opened.Shipment.SetUnpackagedItems(opened.Unpackaged()[:1])
	require.NoError(t, f.builder.(*BuilderServiceImpl).save(ctx, key, opened))

	_, err := f.builder.Commit(ctx, key)
	assert.ErrorIs(t, err, model.ErrConsistency)

	shipments, err := f.shipments.FindByOrder(ctx, testOrderID)
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestBuilderService_ConcurrentEditsAreSerialized(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	key, _ := f.openNew(t)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.builder.AddPackage(ctx, key, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	session, err := f.builder.Get(ctx, key)
	require.NoError(t, err)
	assert.Len(t, session.Packages, workers)
	assert.Equal(t, int64(workers+1), session.Version)
}

func TestCheckConservation(t *testing.T) {
	a := testItem(t, "A", 4, "4", "4")
	half, err := a.Split(2)
	require.NoError(t, err)
	rest, err := a.WithQuantity(2)
	require.NoError(t, err)

	assert.NoError(t, checkConservation([]model.ShipmentItem{a}, []model.ShipmentItem{half, rest}))
	assert.ErrorIs(t, checkConservation([]model.ShipmentItem{a}, []model.ShipmentItem{half}), model.ErrConsistency)
	assert.ErrorIs(t, checkConservation([]model.ShipmentItem{a}, []model.ShipmentItem{a, testItem(t, "B", 1, "1", "1")}), model.ErrConsistency)
	assert.NoError(t, checkConservation(nil, nil))
}

func TestNewBuilderService_AcceptsRepositoryStore(t *testing.T) {
	// The repository session store contract satisfies TransientStore.
	var store repository.SessionStoreInterface = NewMemorySessionStore(10, time.Minute)
	defer store.(*MemorySessionStore).Stop()
	env := newTestEnv(t)

	builder := NewBuilderService(store, repository.NewMemoryShipmentRepository(), repository.NewMemoryPackageRepository(), env.methods, env.packageTypes, nil)
	seed := model.ProposedShipment{ShippingMethodID: testMethodID, Items: []model.ShipmentItem{testItem(t, "A", 1, "1", "1")}}
	session, err := builder.Open(context.Background(), newKey(""), &seed)
	require.NoError(t, err)
	assert.Equal(t, testOrderID, session.Shipment.OrderID)
}

// failingShipmentSaves rejects every shipment write.
type failingShipmentSaves struct {
	*repository.MemoryShipmentRepository
	err error
}

func (r *failingShipmentSaves) Save(context.Context, *model.Shipment) error { return r.err }

// failingPackageSaves rejects every package write.
type failingPackageSaves struct {
	*repository.MemoryPackageRepository
	err error
}

func (r *failingPackageSaves) Save(context.Context, *model.Package) error { return r.err }

func TestBuilderService_Commit_StoreFailureKeepsPersistedState(t *testing.T) {
	errStore := errors.New("store unavailable")

	tests := []struct {
		name      string
		shipments func(*builderFixture) repository.ShipmentRepositoryInterface
		packages  func(*builderFixture) repository.PackageRepositoryInterface
	}{
		{
			name: "package save fails",
			shipments: func(f *builderFixture) repository.ShipmentRepositoryInterface {
				return f.shipments
			},
			packages: func(f *builderFixture) repository.PackageRepositoryInterface {
				return &failingPackageSaves{MemoryPackageRepository: f.packages, err: errStore}
			},
		},
		{
			name: "shipment save fails after packages are written",
			shipments: func(f *builderFixture) repository.ShipmentRepositoryInterface {
				return &failingShipmentSaves{MemoryShipmentRepository: f.shipments, err: errStore}
			},
			packages: func(f *builderFixture) repository.PackageRepositoryInterface {
				return f.packages
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBuilderFixture(t, time.Minute)
			ctx := context.Background()
			existing := f.create(t, testMethodID)
			before, err := f.service.Get(ctx, existing.ID)
			require.NoError(t, err)
			require.Len(t, before.Packages, 1)
			require.Len(t, before.Packages[0].Items, 2)
			published := len(f.publisher.types())

			builder := NewBuilderService(f.sessions, tt.shipments(f), tt.packages(f), f.env.methods, f.env.packageTypes, f.publisher)
			key := newKey(existing.ID)
			opened, err := builder.Open(ctx, key, nil)
			require.NoError(t, err)
			moved := opened.Packages[0].Items[0]
			_, err = builder.MoveItem(ctx, key, moved.ID, model.Container{Index: 0}, poolArea)
			require.NoError(t, err)

			_, err = builder.Commit(ctx, key)
			require.ErrorIs(t, err, errStore)

			session, err := builder.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []string{moved.ID}, itemIDs(session.Unpackaged()))

			after, err := f.service.Get(ctx, existing.ID)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			require.Len(t, after.Packages, 1)
			assert.Len(t, after.Packages[0].Items, 2)
			assert.Empty(t, after.Data.UnpackagedItems)
			assert.Len(t, f.publisher.types(), published)
		})
	}
}

func TestBuilderService_Commit_ReissuesExistingPackages(t *testing.T) {
	f := newBuilderFixture(t, time.Minute)
	ctx := context.Background()
	existing := f.create(t, testMethodID)
	oldID := existing.PackageIDs[0]
	key := newKey(existing.ID)

	opened, err := f.builder.Open(ctx, key, nil)
	require.NoError(t, err)
	require.Equal(t, oldID, opened.Packages[0].ID)
	_, err = f.builder.MoveItem(ctx, key, opened.Packages[0].Items[0].ID, model.Container{Index: 0}, poolArea)
	require.NoError(t, err)

	shipment, err := f.builder.Commit(ctx, key)
	require.NoError(t, err)
	require.Len(t, shipment.PackageIDs, 1)
	assert.NotEqual(t, oldID, shipment.PackageIDs[0])
	assert.Equal(t, shipment.PackageIDs[0], shipment.Packages[0].ID)

	stale, err := f.packages.FindByIDs(ctx, []string{oldID})
	require.NoError(t, err)
	assert.Empty(t, stale)
	assert.Equal(t, 1, f.packages.Len())

	stored, err := f.service.Get(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, stored.Packages, 1)
	assert.Len(t, stored.Packages[0].Items, 1)
	assert.Len(t, stored.Data.UnpackagedItems, 1)
}
