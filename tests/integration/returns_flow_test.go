package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/backend/internal/application/reconcile"
	"github.com/storeops/backend/internal/domain/returns"
	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/infrastructure/persistence"
)

type returnsFixture struct {
	tdb     *TestDB
	session shared.Session
	locator *reconcile.LocatorService
	ledger  *reconcile.LedgerService
	stats   *reconcile.StatsService
}

func newReturnsFixture(t *testing.T) *returnsFixture {
	t.Helper()

	tdb := NewTestDB(t)
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	saleRepo := persistence.NewGormSaleRepository(tdb.DB)
	receiptRepo := persistence.NewGormReceiptRepository(tdb.DB)
	returnRepo := persistence.NewGormReturnRepository(tdb.DB)

	return &returnsFixture{
		tdb: tdb,
		session: shared.Session{
			StoreID: uuid.New(),
			UserID:  uuid.New(),
			Role:    shared.RoleOwner,
		},
		locator: reconcile.NewLocatorService(saleRepo, receiptRepo, productRepo),
		ledger:  reconcile.NewLedgerService(returnRepo, saleRepo, receiptRepo, productRepo, nil),
		stats:   reconcile.NewStatsService(returnRepo),
	}
}

// seedSerializedSale registers a two-unit serialized product and a sale of
// both units under one receipt.
func (f *returnsFixture) seedSerializedSale(t *testing.T, receiptCode string) {
	t.Helper()

	productRepo := persistence.NewGormProductRepository(f.tdb.DB)
	product := newSerializedProduct(t, f.session.StoreID, "Smartwatch", "SN-A", "SN-B")
	require.NoError(t, productRepo.Save(context.Background(), product))

	f.tdb.SeedSale(f.session.StoreID, product.ID, receiptCode, "SN-A,SN-B", 2, "300.00")
}

func TestLocatorService_FindByReceipt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newReturnsFixture(t)
	f.seedSerializedSale(t, "R-1001")
	ctx := context.Background()

	units, err := f.locator.FindByReceipt(ctx, f.session, "R-1001")
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, "SN-A", units[0].DeviceID)
	assert.Equal(t, "SN-B", units[1].DeviceID)
	for _, unit := range units {
		assert.Equal(t, "R-1001", unit.ReceiptCode)
		assert.Equal(t, "Smartwatch", unit.ProductName)
		assert.Equal(t, "Test Customer", unit.CustomerName)
		assert.Equal(t, 1, unit.Quantity)
		assert.True(t, unit.Amount.Equal(decimal.NewFromInt(150)),
			"expected per-unit amount 150, got %s", unit.Amount)
	}

	_, err = f.locator.FindByReceipt(ctx, f.session, "R-9999")
	assert.ErrorIs(t, err, shared.ErrReceiptNotFound)

	// Another store cannot see the receipt.
	otherSession := shared.Session{StoreID: uuid.New(), UserID: uuid.New(), Role: shared.RoleOwner}
	_, err = f.locator.FindByReceipt(ctx, otherSession, "R-1001")
	assert.ErrorIs(t, err, shared.ErrReceiptNotFound)
}

func TestLocatorService_FindByDeviceID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newReturnsFixture(t)
	f.seedSerializedSale(t, "R-1002")
	ctx := context.Background()

	// Lookup is case-insensitive and matches fragments.
	units, err := f.locator.FindByDeviceID(ctx, f.session, "sn-a")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "SN-A", units[0].DeviceID)
	assert.Equal(t, "R-1002", units[0].ReceiptCode)

	_, err = f.locator.FindByDeviceID(ctx, f.session, "NOPE")
	assert.ErrorIs(t, err, shared.ErrNoMatchingUnits)
}

func TestLedgerService_CreateAndDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newReturnsFixture(t)
	f.seedSerializedSale(t, "R-1003")
	ctx := context.Background()

	units, err := f.locator.FindByReceipt(ctx, f.session, "R-1003")
	require.NoError(t, err)
	require.Len(t, units, 2)

	result, err := f.ledger.Create(ctx, f.session, reconcile.CreateReturnsRequest{
		Units:        []reconcile.ReturnUnitRequest{{SaleID: units[0].SaleID, DeviceID: units[0].DeviceID}},
		ReasonRemark: "Cracked screen",
		ReturnedDate: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Failed)

	created := result.Created[0]
	assert.Equal(t, units[0].ReceiptID, created.ReceiptID)
	assert.Equal(t, "Smartwatch", created.ProductName)
	assert.Equal(t, "SN-A", created.DeviceID)
	assert.Equal(t, 1, created.Quantity)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, returns.ReturnStatusPending, created.Status)

	// The same unit cannot be returned twice, even with different casing.
	result, err = f.ledger.Create(ctx, f.session, reconcile.CreateReturnsRequest{
		Units: []reconcile.ReturnUnitRequest{{SaleID: units[0].SaleID, DeviceID: "sn-a"}},
	})
	require.Error(t, err)
	require.Len(t, result.Failed, 1)
	assert.Empty(t, result.Created)
	assert.Equal(t, "DUPLICATE_RETURN", result.Failed[0].Code)

	// The sibling unit is still returnable.
	result, err = f.ledger.Create(ctx, f.session, reconcile.CreateReturnsRequest{
		Units: []reconcile.ReturnUnitRequest{{SaleID: units[1].SaleID, DeviceID: units[1].DeviceID}},
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
}

func TestLedgerService_UpdateStatusMachine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newReturnsFixture(t)
	f.seedSerializedSale(t, "R-1004")
	ctx := context.Background()

	units, err := f.locator.FindByReceipt(ctx, f.session, "R-1004")
	require.NoError(t, err)

	result, err := f.ledger.Create(ctx, f.session, reconcile.CreateReturnsRequest{
		Units: []reconcile.ReturnUnitRequest{{SaleID: units[0].SaleID, DeviceID: units[0].DeviceID}},
	})
	require.NoError(t, err)
	id := result.Created[0].ID

	updated, err := f.ledger.Update(ctx, f.session, id, reconcile.UpdateReturnRequest{
		Status: returns.ReturnStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, returns.ReturnStatusApproved, updated.Status)

	// Approved cannot go back to pending.
	_, err = f.ledger.Update(ctx, f.session, id, reconcile.UpdateReturnRequest{
		Status: returns.ReturnStatusPending,
	})
	require.Error(t, err)

	updated, err = f.ledger.Update(ctx, f.session, id, reconcile.UpdateReturnRequest{
		Status: returns.ReturnStatusRefunded,
	})
	require.NoError(t, err)
	assert.Equal(t, returns.ReturnStatusRefunded, updated.Status)
}

func TestLedgerService_StatsAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	f := newReturnsFixture(t)
	f.seedSerializedSale(t, "R-1005")
	ctx := context.Background()

	units, err := f.locator.FindByReceipt(ctx, f.session, "R-1005")
	require.NoError(t, err)
	require.Len(t, units, 2)

	result, err := f.ledger.Create(ctx, f.session, reconcile.CreateReturnsRequest{
		Units: []reconcile.ReturnUnitRequest{
			{SaleID: units[0].SaleID, DeviceID: units[0].DeviceID},
			{SaleID: units[1].SaleID, DeviceID: units[1].DeviceID},
		},
		ReasonRemark: "defective",
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	summary, err := f.stats.Summarize(ctx, f.session)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCount)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.AverageValue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, summary.StatusBreakdown[returns.ReturnStatusPending])
	require.Len(t, summary.TopReasons, 1)
	assert.Equal(t, "defective", summary.TopReasons[0].Reason)
	assert.Equal(t, 2, summary.TopReasons[0].Count)

	// Stats are scoped to the store.
	otherSession := shared.Session{StoreID: uuid.New(), UserID: uuid.New(), Role: shared.RoleOwner}
	otherSummary, err := f.stats.Summarize(ctx, otherSession)
	require.NoError(t, err)
	assert.Equal(t, 0, otherSummary.TotalCount)

	deleted, err := f.ledger.Delete(ctx, f.session, reconcile.DeleteReturnsRequest{
		IDs: []uuid.UUID{result.Created[0].ID, result.Created[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	summary, err = f.stats.Summarize(ctx, f.session)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalCount)
}
